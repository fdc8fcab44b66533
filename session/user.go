package session

import "context"

// UserIdentity describes the authenticated principal, mirroring the user
// record served by the bine backend.
type UserIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"` // YYYY-MM-DD, as serialized by the backend
	Sex      string `json:"sex"`
	Tagline  string `json:"tagline"`
}

// unexported, collision-proof context key
type userContextKeyType struct{}

var userContextKey = userContextKeyType{}

// WithUser returns a context carrying user as the current identity for one
// navigation transition. The identity is threaded through the transition
// context rather than held in process-wide state.
func WithUser(ctx context.Context, user *UserIdentity) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the current user from a transition context.
func UserFromContext(ctx context.Context) (*UserIdentity, bool) {
	user, ok := ctx.Value(userContextKey).(*UserIdentity)
	return user, ok && user != nil
}
