package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunalex/server/result"
	"github.com/dekarrin/tunalex/server/serr"
	"github.com/dekarrin/tunalex/server/token"
)

// DefaultClient is the client name given to tokens when the login request
// does not name one.
const DefaultClient = "api"

// HTTPCreateLogin returns a HandlerFunc that checks an API key and returns an
// auth token for the client.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Key == "" {
		return result.BadRequest("key: property is empty or missing from request", "empty key")
	}
	if loginData.Client == "" {
		loginData.Client = DefaultClient
	}

	err = api.Backend.Login(req.Context(), loginData.Key)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "client '%s': %s", loginData.Client, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, api.Backend.KeyHash, loginData.Client)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:  tok,
		Client: loginData.Client,
	}
	return result.Created(resp, "client '%s' successfully logged in", loginData.Client)
}
