// Package token issues and checks the JWTs that clients of the tunalex server
// present as bearer tokens.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer is the issuer claim of every token.
	Issuer = "tlexd"

	// Lifetime is how long a token is valid after it is issued.
	Lifetime = time.Hour
)

// Generate creates a signed token for client. The token is signed with both
// secret and the hash of the configured API key, so changing either one
// invalidates all tokens issued before.
func Generate(secret, keyHash []byte, client string) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        Issuer,
		"exp":        time.Now().Add(Lifetime).Unix(),
		"sub":        client,
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signKey(secret, keyHash))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// Validate checks tok and returns the client it was issued to.
func Validate(tok string, secret, keyHash []byte) (string, error) {
	var client string

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}
		if subj == "" {
			return nil, fmt.Errorf("subject is empty")
		}
		client = subj
		return signKey(secret, keyHash), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return "", err
	}

	return client, nil
}

// Get gets the token from the Authorization header of req. The header must
// use the Bearer scheme.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

func signKey(secret, keyHash []byte) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, keyHash...)
	return key
}
