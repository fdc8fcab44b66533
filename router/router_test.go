package router_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/binehq/bine-shell/router"
	"github.com/binehq/bine-shell/session"
)

// recorder tracks which controllers ran and with what context.
type recorder struct {
	mu     sync.Mutex
	visits []string
	users  map[string]*session.UserIdentity
}

func newRecorder() *recorder {
	return &recorder{users: make(map[string]*session.UserIdentity)}
}

func (r *recorder) controller(path string) router.Controller {
	return func(ctx context.Context, _ *router.Transition) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.visits = append(r.visits, path)
		if user, ok := session.UserFromContext(ctx); ok {
			r.users[path] = user
		}
		return nil
	}
}

func (r *recorder) visited(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.visits {
		if v == path {
			return true
		}
	}
	return false
}

func (r *recorder) userFor(path string) *session.UserIdentity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[path]
}

func testRoutes(rec *recorder) []router.Route {
	return []router.Route{
		{Path: "/login", Title: "Sign In", Public: true, Controller: rec.controller("/login")},
		{Path: "/books", Title: "My Books", Controller: rec.controller("/books")},
		{Path: "/notes", Title: "Book Notes", Controller: rec.controller("/notes")},
	}
}

func startRouter(t *testing.T, guard *router.Guard, rec *recorder) *router.Router {
	t.Helper()

	r, err := router.New(testRoutes(rec), guard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)
	return r
}

func TestNew_Validation(t *testing.T) {
	store, _ := newTestStore(t, &fakeRefresher{})
	guard, err := router.NewGuard(store)
	require.NoError(t, err)

	t.Run("guard required", func(t *testing.T) {
		_, err := router.New(testRoutes(newRecorder()), nil)
		require.Error(t, err)
	})

	t.Run("empty route table", func(t *testing.T) {
		_, err := router.New(nil, guard)
		require.Error(t, err)
	})

	t.Run("login entry point must exist", func(t *testing.T) {
		_, err := router.New([]router.Route{{Path: "/books"}}, guard)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not in route table")
	})

	t.Run("login entry point must be public", func(t *testing.T) {
		_, err := router.New([]router.Route{{Path: "/login"}}, guard)
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be public")
	})
}

func TestRouter_NoSessionLandsOnLogin(t *testing.T) {
	store, _ := newTestStore(t, &fakeRefresher{})
	guard, err := router.NewGuard(store)
	require.NoError(t, err)

	rec := newRecorder()
	r := startRouter(t, guard, rec)

	r.Navigate("/books")

	require.Eventually(t, func() bool {
		return rec.visited("/login")
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, "/login", r.CurrentPath())
	require.False(t, rec.visited("/books"), "target route must not load")
}

func TestRouter_ValidSessionNavigates(t *testing.T) {
	store, _ := newTestStore(t, &fakeRefresher{})
	require.NoError(t, store.SetTokenAndUser(mintToken(t, time.Now().Add(time.Hour)), testUser()))
	guard, err := router.NewGuard(store)
	require.NoError(t, err)

	rec := newRecorder()
	r := startRouter(t, guard, rec)

	r.Navigate("/books")

	require.Eventually(t, func() bool {
		return rec.visited("/books")
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, "/books", r.CurrentPath())
	require.Equal(t, testUser(), rec.userFor("/books"))
}

func TestRouter_ExpiredSessionCancelsThenRedirects(t *testing.T) {
	store, _ := newTestStore(t, &fakeRefresher{})
	require.NoError(t, store.SetTokenAndUser(mintToken(t, time.Now().Add(-time.Minute)), testUser()))
	guard, err := router.NewGuard(store)
	require.NoError(t, err)

	rec := newRecorder()
	r := startRouter(t, guard, rec)

	r.Navigate("/notes")

	require.Eventually(t, func() bool {
		return r.CurrentPath() == "/login"
	}, time.Second, 10*time.Millisecond)
	require.False(t, rec.visited("/notes"), "cancelled transition must not complete")
}

func TestRouter_UnknownRouteIgnored(t *testing.T) {
	store, _ := newTestStore(t, &fakeRefresher{})
	require.NoError(t, store.SetTokenAndUser(mintToken(t, time.Now().Add(time.Hour)), testUser()))
	guard, err := router.NewGuard(store)
	require.NoError(t, err)

	rec := newRecorder()
	r := startRouter(t, guard, rec)

	r.Navigate("/nowhere")
	r.Navigate("/books")

	require.Eventually(t, func() bool {
		return r.CurrentPath() == "/books"
	}, time.Second, 10*time.Millisecond)
	require.False(t, rec.visited("/login"))
}

func TestRouter_GuardReEvaluatesEveryAttempt(t *testing.T) {
	store, _ := newTestStore(t, &fakeRefresher{})
	require.NoError(t, store.SetTokenAndUser(mintToken(t, time.Now().Add(time.Hour)), testUser()))
	guard, err := router.NewGuard(store)
	require.NoError(t, err)

	rec := newRecorder()
	r := startRouter(t, guard, rec)

	r.Navigate("/books")
	require.Eventually(t, func() bool {
		return r.CurrentPath() == "/books"
	}, time.Second, 10*time.Millisecond)

	// Session is cleared mid-flight; the next attempt must bounce.
	require.NoError(t, store.Clear())
	r.Navigate("/notes")

	require.Eventually(t, func() bool {
		return r.CurrentPath() == "/login"
	}, time.Second, 10*time.Millisecond)
	require.False(t, rec.visited("/notes"))
}
