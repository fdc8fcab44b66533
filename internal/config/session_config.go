package config

import "time"

type SessionConfig interface {
	GetLoginPath() string
	GetRefreshPath() string
	GetRefreshWindow() time.Duration
	GetRefreshTimeout() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetLoginPath returns the route every unauthenticated navigation is sent to.
func (Session) GetLoginPath() string {
	return "/login"
}

func (Session) GetRefreshPath() string {
	return "/api/token/refresh"
}

// GetRefreshWindow returns how close to expiry a token must be before a
// background refresh is attempted.
func (Session) GetRefreshWindow() time.Duration {
	return 2 * time.Minute
}

func (Session) GetRefreshTimeout() time.Duration {
	return 10 * time.Second
}
