package api

import (
	"net/http"

	"github.com/dekarrin/tunalex/internal/version"
	"github.com/dekarrin/tunalex/server/middle"
	"github.com/dekarrin/tunalex/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// a value denoting whether the client making the request is logged-in.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Tunalex = version.Current

	all, err := api.Backend.ListLexers(req.Context())
	if err != nil {
		return result.InternalServerError("count lexers: %s", err.Error())
	}
	resp.Lexers = len(all)

	clientStr := "unauthed client"
	if loggedIn {
		clientStr = "client '" + req.Context().Value(middle.AuthClient).(string) + "'"
	}
	return result.OK(resp, "%s got API info", clientStr)
}
