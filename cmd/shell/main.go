package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/binehq/bine-shell/internal/config"
	"github.com/binehq/bine-shell/router"
	"github.com/binehq/bine-shell/session"
	"github.com/binehq/bine-shell/session/refresh"
	"github.com/binehq/bine-shell/storage"
)

var sampleFeed = []string{
	"Finished 'The Left Hand of Darkness' last night, notes to follow once I stop thinking about it.",
	"Halfway through the new translation of 'The Vegetarian'.",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var sessionFile string

	cmd := &cobra.Command{
		Use:           "shell",
		Short:         "Interactive host for the bine client shell",
		Long:          "Drives the bine client shell from the terminal: each line read from stdin is a navigation attempt evaluated by the session guard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(sessionFile); err != nil {
				log.Error().Err(err).Msg("shell exited with error")
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionFile, "session-file", "", "persist the session to a bbolt file instead of process memory")
	return cmd
}

func run(sessionFile string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	configureLogging(c.GetEnv())
	displayAppName(c.GetAppName())

	if sessionFile == "" {
		sessionFile = c.GetSessionFile()
	}
	medium, closeMedium, err := openMedium(sessionFile)
	if err != nil {
		return err
	}
	defer closeMedium()

	refresher := refresh.NewClient(
		c.GetAPIBaseURL(),
		refresh.WithPath(c.GetRefreshPath()),
		refresh.WithHTTPClient(&http.Client{Timeout: c.GetRefreshTimeout()}),
	)

	store, err := session.NewStore(medium, refresher, session.WithRefreshWindow(c.GetRefreshWindow()))
	if err != nil {
		return errors.Wrap(err, "[run] session.NewStore")
	}

	guard, err := router.NewGuard(store)
	if err != nil {
		return errors.Wrap(err, "[run] router.NewGuard")
	}

	pages := &router.Pages{Out: os.Stdout, Feed: sampleFeed}
	shellRouter, err := router.New(router.DefaultRoutes(pages), guard, router.WithLoginPath(c.GetLoginPath()))
	if err != nil {
		return errors.Wrap(err, "[run] router.New")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go shellRouter.Run(ctx)

	shellRouter.Navigate("/")
	readNavigations(ctx, shellRouter)
	return nil
}

// readNavigations feeds stdin lines into the router until EOF or shutdown.
func readNavigations(ctx context.Context, r *router.Router) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				return
			}
			r.Navigate(line)
		}
	}
}

func openMedium(sessionFile string) (storage.Medium, func(), error) {
	if sessionFile == "" {
		return storage.NewMemory(), func() {}, nil
	}
	medium, err := storage.OpenBolt(sessionFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[openMedium] storage.OpenBolt")
	}
	return medium, func() {
		if err := medium.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session file")
		}
	}, nil
}

func configureLogging(env string) {
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
