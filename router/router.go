// Package router holds the shell's route table and the cooperative dispatch
// loop that funnels every navigation attempt through the navigation guard.
package router

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const navigationQueueSize = 16

// Controller renders a page once its transition has been allowed. The
// context carries the current user for guarded routes.
type Controller func(ctx context.Context, t *Transition) error

// Route maps a shell path to the template it displays and the controller
// that fills it. Public routes (the login entry points) are reachable
// without a session.
type Route struct {
	Path       string
	Template   string
	Title      string
	Public     bool
	Controller Controller
}

// Transition is one navigation attempt moving the shell to a new route.
type Transition struct {
	ID    string // correlation ID for logs
	Route Route
	From  string // path the shell was on when the attempt started
}

type navRequest struct {
	id     string
	target string
}

// Router interprets the route table on a single dispatch loop, the shell's
// stand-in for the host environment's task queue. Deferred navigations the
// guard schedules land back on the same queue and run on a later tick.
type Router struct {
	routes    map[string]Route
	guard     *Guard
	loginPath string
	queue     chan navRequest

	mu      sync.RWMutex
	current string
}

// Option defines a function type to modify the Router instance.
type Option func(*Router)

// WithLoginPath overrides the login entry point path.
func WithLoginPath(path string) Option {
	return func(r *Router) {
		r.loginPath = path
	}
}

// New builds a router over the given route table. The login entry point must
// exist in the table and be public, otherwise redirected navigations could
// never complete.
func New(routes []Route, guard *Guard, options ...Option) (*Router, error) {
	if guard == nil {
		return nil, errors.New("[router.New] guard is required")
	}
	if len(routes) == 0 {
		return nil, errors.New("[router.New] route table is empty")
	}

	r := &Router{
		routes:    make(map[string]Route, len(routes)),
		guard:     guard,
		loginPath: "/login",
		queue:     make(chan navRequest, navigationQueueSize),
	}
	for _, opt := range options {
		opt(r)
	}

	for _, route := range routes {
		r.routes[route.Path] = route
	}

	login, ok := r.routes[r.loginPath]
	if !ok {
		return nil, errors.Errorf("[router.New] login entry point %q not in route table", r.loginPath)
	}
	if !login.Public {
		return nil, errors.Errorf("[router.New] login entry point %q must be public", r.loginPath)
	}

	return r, nil
}

// Navigate enqueues a navigation attempt. It never blocks the caller: when
// the queue is full the attempt is dropped and logged.
func (r *Router) Navigate(path string) {
	req := navRequest{id: uuid.New().String(), target: path}
	select {
	case r.queue <- req:
	default:
		log.Warn().Str("target", path).Msg("navigation queue full, attempt dropped")
	}
}

// CurrentPath returns the path of the last completed transition, "" before
// any navigation has succeeded.
func (r *Router) CurrentPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Run drains the navigation queue until ctx is cancelled. It is the only
// goroutine that evaluates the guard or invokes controllers.
func (r *Router) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-r.queue:
			r.dispatch(ctx, req)
		}
	}
}

func (r *Router) dispatch(ctx context.Context, req navRequest) {
	route, ok := r.routes[req.target]
	if !ok {
		log.Warn().Str("target", req.target).Msg("unknown route")
		return
	}

	t := &Transition{ID: req.id, Route: route, From: r.CurrentPath()}
	decision := r.guard.Check(ctx, t)

	switch decision.Action {
	case Allow:
		r.complete(decision.Ctx, t)
	case RedirectToLogin:
		// Same tick: the original target never loads. The login route is
		// public, so this nested dispatch cannot recurse further.
		r.dispatch(ctx, navRequest{id: uuid.New().String(), target: r.loginPath})
	case CancelThenLogin:
		// Next tick: re-entering navigation from inside a transition is what
		// the deferral exists to avoid.
		r.Navigate(r.loginPath)
	}
}

func (r *Router) complete(ctx context.Context, t *Transition) {
	r.mu.Lock()
	r.current = t.Route.Path
	r.mu.Unlock()

	if t.Route.Controller == nil {
		return
	}
	if err := t.Route.Controller(ctx, t); err != nil {
		log.Error().Err(err).Str("transition", t.ID).Str("path", t.Route.Path).Msg("controller failed")
	}
}
