// Package middle contains middleware for use with the tunalex server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/tunalex/server/result"
	"github.com/dekarrin/tunalex/server/token"
	"go.uber.org/zap"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthClient
)

// AuthHandler is middleware that will accept a request, extract the token used
// for authentication, and check it.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthClient will contain the name of the client the
// token was issued to, and AuthLoggedIn whether the client presented a valid
// token at all (only meaningful for optional auth; for required auth, a
// client without a valid token gets an HTTP error and the request goes no
// further).
type AuthHandler struct {
	secret        []byte
	keyHash       []byte
	required      bool
	unauthedDelay time.Duration
	log           *zap.Logger
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var client string

	tok, err := token.Get(req)
	if err == nil {
		client, err = token.Validate(tok, ah.secret, ah.keyHash)
		loggedIn = err == nil
	}

	if err != nil && ah.required {
		ah.log.Info("rejected request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		time.Sleep(ah.unauthedDelay)
		result.Unauthorized("", err.Error()).WriteResponse(w)
		return
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthClient, client)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth returns Middleware that rejects any request without a valid
// token.
func RequireAuth(secret, keyHash []byte, unauthDelay time.Duration, log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			keyHash:       keyHash,
			unauthedDelay: unauthDelay,
			log:           nopIfNil(log),
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth returns Middleware that records whether the request carried a
// valid token but lets it through either way.
func OptionalAuth(secret, keyHash []byte, unauthDelay time.Duration, log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			keyHash:       keyHash,
			unauthedDelay: unauthDelay,
			log:           nopIfNil(log),
			required:      false,
			next:          next,
		}
	}
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
