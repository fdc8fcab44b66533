// Package token decodes the expiration embedded in the session's credential
// string. The shell is a relying client: it holds no verification keys and
// never validates a signature, it only reads the exp claim to decide when a
// token is stale.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

// ExpiresAt extracts the expiration timestamp from a raw token without
// verifying it. The exp claim is in seconds since epoch.
func ExpiresAt(raw string) (time.Time, error) {
	unverified, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, errors.Wrap(err, "[ExpiresAt] failed to parse token")
	}

	claims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return time.Time{}, errors.New("[ExpiresAt] error extracting claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("[ExpiresAt] token missing exp claim")
	}

	return time.Unix(int64(exp), 0), nil
}

// TimeToExpiry returns the signed duration until the token expires; negative
// when it already has.
func TimeToExpiry(raw string) (time.Duration, error) {
	expiresAt, err := ExpiresAt(raw)
	if err != nil {
		return 0, err
	}
	return expiresAt.Sub(NowFunc()), nil
}

// Expired reports whether the embedded expiration has passed. Undecodable
// tokens count as expired (fail-closed).
func Expired(raw string) bool {
	expiresAt, err := ExpiresAt(raw)
	if err != nil {
		return true
	}
	return NowFunc().After(expiresAt)
}
