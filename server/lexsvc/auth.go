package lexsvc

import (
	"context"
	"errors"

	"github.com/dekarrin/tunalex/server/serr"
	"golang.org/x/crypto/bcrypt"
)

// HashKey gives the bcrypt hash of an API key, suitable for use as
// Service.KeyHash.
func HashKey(key string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
}

// Login verifies the provided API key against the configured one.
//
// The returned error, if non-nil, will match serr.ErrBadCredentials if the
// key is wrong.
func (svc *Service) Login(ctx context.Context, key string) error {
	if len(svc.KeyHash) == 0 {
		return serr.New("no API key is configured", serr.ErrBadCredentials)
	}

	err := bcrypt.CompareHashAndPassword(svc.KeyHash, []byte(key))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return serr.ErrBadCredentials
		}
		return serr.New("check API key", err)
	}

	return nil
}
