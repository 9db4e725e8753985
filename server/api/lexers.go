package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/tunalex/internal/lex"
	"github.com/dekarrin/tunalex/internal/tlerrors"
	"github.com/dekarrin/tunalex/server/dao"
	"github.com/dekarrin/tunalex/server/lexsvc"
	"github.com/dekarrin/tunalex/server/result"
	"github.com/dekarrin/tunalex/server/serr"
)

// HTTPCreateLexer returns a HandlerFunc that compiles the language table in
// the request body and stores the lexer. A table that was already stored
// gives the existing lexer with an HTTP-200 instead of an HTTP-201.
func (api API) HTTPCreateLexer() http.HandlerFunc {
	return api.Endpoint(api.epCreateLexer)
}

func (api API) epCreateLexer(req *http.Request) result.Result {
	var lang lex.Language
	err := parseJSON(req, &lang)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	rec, created, err := api.Backend.CreateLexer(req.Context(), lang)
	if err != nil {
		if errors.Is(err, serr.ErrCompile) {
			msg := tlerrors.Message(err)
			return result.BadRequest(msg, "compile %q: %s", lang.Name, err.Error())
		}
		return result.InternalServerError("create lexer: %s", err.Error())
	}

	resp := lexerModel(rec)
	if !created {
		return result.OK(resp, "lexer %s already exists for %q", rec.ID, rec.Name)
	}
	return result.Created(resp, "lexer %s created for %q", rec.ID, rec.Name)
}

// HTTPGetAllLexers returns a HandlerFunc that lists every stored lexer.
func (api API) HTTPGetAllLexers() http.HandlerFunc {
	return api.Endpoint(api.epGetAllLexers)
}

func (api API) epGetAllLexers(req *http.Request) result.Result {
	all, err := api.Backend.ListLexers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]LexerModel, len(all))
	for i := range all {
		resp[i] = lexerModel(all[i])
	}
	return result.OK(resp, "got all lexers")
}

// HTTPGetLexer returns a HandlerFunc that gets a single lexer along with the
// language table it was compiled from.
func (api API) HTTPGetLexer() http.HandlerFunc {
	return api.Endpoint(api.epGetLexer)
}

func (api API) epGetLexer(req *http.Request) result.Result {
	id := requireIDParam(req)

	rec, err := api.Backend.GetLexer(req.Context(), id)
	if err != nil {
		return errResult(err, "get lexer %s", id)
	}

	lang, err := lexsvc.Language(rec)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := lexerModel(rec)
	resp.Language = &lang
	return result.OK(resp, "got lexer %s", id)
}

// HTTPDeleteLexer returns a HandlerFunc that deletes a stored lexer.
func (api API) HTTPDeleteLexer() http.HandlerFunc {
	return api.Endpoint(api.epDeleteLexer)
}

func (api API) epDeleteLexer(req *http.Request) result.Result {
	id := requireIDParam(req)

	_, err := api.Backend.DeleteLexer(req.Context(), id)
	if err != nil {
		return errResult(err, "delete lexer %s", id)
	}

	return result.NoContent("deleted lexer %s", id)
}

// HTTPCreateTokens returns a HandlerFunc that runs a stored lexer over the
// input in the request body.
func (api API) HTTPCreateTokens() http.HandlerFunc {
	return api.Endpoint(api.epCreateTokens)
}

func (api API) epCreateTokens(req *http.Request) result.Result {
	id := requireIDParam(req)

	var tokReq TokenizeRequest
	err := parseJSON(req, &tokReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	toks, err := api.Backend.Tokenize(req.Context(), id, tokReq.Input)
	if err != nil {
		return errResult(err, "tokenize with %s", id)
	}

	resp := TokenizeResponse{
		Lexer:  id,
		Tokens: make([]TokenModel, len(toks)),
	}
	for i, tok := range toks {
		resp.Tokens[i] = tokenModel(tok)
	}
	return result.OK(resp, "lexed %d tokens with %s", len(toks), id)
}

// errResult converts an error from the service layer into a Result.
func errResult(err error, internalMsg string, v ...interface{}) result.Result {
	msg := fmt.Sprintf(internalMsg, v...) + ": " + err.Error()

	switch {
	case errors.Is(err, serr.ErrNotFound):
		return result.NotFound("%s", msg)
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), "%s", msg)
	default:
		return result.InternalServerError("%s", msg)
	}
}

func lexerModel(rec dao.Lexer) LexerModel {
	return LexerModel{
		URI:     PathPrefix + "/lexers/" + rec.ID.String(),
		ID:      rec.ID.String(),
		Name:    rec.Name,
		Hash:    rec.Hash,
		States:  rec.States,
		Created: rec.Created.UTC().Format(time.RFC3339),
	}
}

func tokenModel(tok lex.Token) TokenModel {
	m := TokenModel{
		Kind:   tok.Class().Human(),
		Class:  tok.Class().ID(),
		Lexeme: tok.Lexeme(),
		Line:   tok.Line(),
		Pos:    tok.LinePos(),
	}
	if tok.Class().Equal(lex.TokenError) {
		m.Kind = "ERROR"
		m.Error = true
	}
	return m
}
