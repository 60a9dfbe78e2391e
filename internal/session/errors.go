package session

import (
	"github.com/pkg/errors"
)

// The failure classes surfaced to callers. Transport failures pass through
// as *api.NetworkError; everything auth-shaped is normalized to one of
// these so call sites never re-implement ban/expiry handling.
var (
	// ErrUnauthenticated means the call needs a session and there is none.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrBanned means the backend reported the account as banned. By the
	// time a caller sees it, the forced logout has already run.
	ErrBanned = errors.New("account is banned")
	// ErrSessionExpired means the stored token is no longer valid. The
	// token has already been cleared.
	ErrSessionExpired = errors.New("session expired")
)
