package router

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/binehq/bine-shell/session"
)

// Action is what the guard decided to do with a navigation attempt.
type Action int

const (
	// Allow lets the transition proceed.
	Allow Action = iota
	// RedirectToLogin replaces the transition with the login entry point
	// within the same tick.
	RedirectToLogin
	// CancelThenLogin aborts the transition now; the login navigation is
	// issued on the next tick to avoid re-entrant navigation.
	CancelThenLogin
)

// Decision is the guard's verdict for one transition. Ctx carries the current
// user when the transition is allowed.
type Decision struct {
	Action Action
	Ctx    context.Context
}

// Guard enforces session validity on every navigation attempt. It keeps no
// state of its own between checks; everything is re-derived from the session
// store.
type Guard struct {
	store *session.Store
}

// NewGuard creates a navigation guard over the given session store.
func NewGuard(store *session.Store) (*Guard, error) {
	if store == nil {
		return nil, errors.New("[NewGuard] session store is required")
	}
	return &Guard{store: store}, nil
}

// Check evaluates one navigation attempt. Steps run in order: public routes
// pass untouched; a missing token redirects immediately; otherwise a
// background refresh is fired, then the transition is allowed or cancelled on
// the locally decoded expiry alone.
func (g *Guard) Check(ctx context.Context, t *Transition) Decision {
	if t.Route.Public {
		return Decision{Action: Allow, Ctx: ctx}
	}

	tok, err := g.store.Token()
	if err != nil {
		log.Error().Err(err).Str("transition", t.ID).Msg("failed to read stored token")
		return Decision{Action: RedirectToLogin, Ctx: ctx}
	}
	if tok == "" {
		log.Debug().Str("transition", t.ID).Str("target", t.Route.Path).Msg("no session, redirecting to login")
		return Decision{Action: RedirectToLogin, Ctx: ctx}
	}

	// Fire-and-forget: the guard never waits on the refresh, it acts only on
	// the locally decodable expiration this cycle.
	go func() {
		if err := g.store.RefreshIfExpiringSoon(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Str("transition", t.ID).Msg("background token refresh failed")
		}
	}()

	if g.store.IsTokenExpired() {
		log.Info().Str("transition", t.ID).Str("target", t.Route.Path).Msg("token expired, cancelling navigation")
		return Decision{Action: CancelThenLogin, Ctx: ctx}
	}

	user, err := g.store.User()
	if err != nil {
		// A session whose user record no longer deserializes is broken
		// beyond use: wipe it and start over at login.
		log.Error().Err(err).Str("transition", t.ID).Msg("corrupt stored user, clearing session")
		if clearErr := g.store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear corrupt session")
		}
		return Decision{Action: CancelThenLogin, Ctx: ctx}
	}

	return Decision{Action: Allow, Ctx: session.WithUser(ctx, user)}
}
