package router

import (
	"context"
	"fmt"
	"io"

	"github.com/binehq/bine-shell/internal/utils"
	"github.com/binehq/bine-shell/session"
)

// Snippet length for note previews on list pages.
const snippetLength = 80

// Pages holds the presentation-only controllers behind the shell's route
// table. Rendering is plain text written to Out; the host application owns
// real templating.
type Pages struct {
	Out io.Writer

	// Feed is the host-provided note feed shown on the notes pages.
	Feed []string
}

func (p *Pages) render(t *Transition, lines ...string) error {
	if _, err := fmt.Fprintf(p.Out, "[%s] %s\n", t.Route.Template, t.Route.Title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(p.Out, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// Home greets the current user over the notes feed.
func (p *Pages) Home(ctx context.Context, t *Transition) error {
	lines := make([]string, 0, len(p.Feed)+1)
	if user, ok := session.UserFromContext(ctx); ok {
		lines = append(lines, fmt.Sprintf("welcome back, %s", user.FullName))
	}
	for _, note := range p.Feed {
		lines = append(lines, utils.Truncate(note, snippetLength))
	}
	return p.render(t, lines...)
}

func (p *Pages) Login(_ context.Context, t *Transition) error {
	return p.render(t, "sign in to continue")
}

func (p *Pages) Join(_ context.Context, t *Transition) error {
	return p.render(t, "create an account")
}

func (p *Pages) Books(_ context.Context, t *Transition) error {
	return p.render(t)
}

func (p *Pages) BookSearch(_ context.Context, t *Transition) error {
	return p.render(t)
}

// Notes lists note previews, truncated for display.
func (p *Pages) Notes(_ context.Context, t *Transition) error {
	lines := make([]string, 0, len(p.Feed))
	for _, note := range p.Feed {
		lines = append(lines, utils.Truncate(note, snippetLength))
	}
	return p.render(t, lines...)
}

func (p *Pages) Friends(_ context.Context, t *Transition) error {
	return p.render(t)
}

// Profile shows the current user's own record.
func (p *Pages) Profile(ctx context.Context, t *Transition) error {
	user, ok := session.UserFromContext(ctx)
	if !ok {
		return p.render(t)
	}
	return p.render(t,
		fmt.Sprintf("%s (%s)", user.FullName, user.Username),
		user.Email,
		user.Tagline,
	)
}

// DefaultRoutes is the shell's static route-to-template table.
func DefaultRoutes(p *Pages) []Route {
	return []Route{
		{Path: "/", Template: "home.html", Title: "Bine", Controller: p.Home},
		{Path: "/login", Template: "login.html", Title: "Sign In", Public: true, Controller: p.Login},
		{Path: "/join", Template: "join.html", Title: "Join Bine", Public: true, Controller: p.Join},
		{Path: "/books", Template: "books.html", Title: "My Books", Controller: p.Books},
		{Path: "/books/search", Template: "book_search.html", Title: "Find Books", Controller: p.BookSearch},
		{Path: "/notes", Template: "notes.html", Title: "Book Notes", Controller: p.Notes},
		{Path: "/friends", Template: "friends.html", Title: "Friends", Controller: p.Friends},
		{Path: "/me", Template: "profile.html", Title: "My Profile", Controller: p.Profile},
	}
}
