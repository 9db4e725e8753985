package api

import "github.com/dekarrin/tunalex/internal/lex"

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginRequest struct {
	Key    string `json:"key"`
	Client string `json:"client,omitempty"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	Client string `json:"client"`
}

type LexerModel struct {
	URI     string `json:"uri"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hash    string `json:"hash"`
	States  int    `json:"states"`
	Created string `json:"created"`

	// only included when a single lexer is requested.
	Language *lex.Language `json:"language,omitempty"`
}

type TokenizeRequest struct {
	Input string `json:"input"`
}

type TokenModel struct {
	Kind   string `json:"kind"`
	Class  string `json:"class"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Pos    int    `json:"pos"`
	Error  bool   `json:"error,omitempty"`
}

type TokenizeResponse struct {
	Lexer  string       `json:"lexer"`
	Tokens []TokenModel `json:"tokens"`
}

type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		Tunalex string `json:"tunalex"`
	} `json:"version"`
	Lexers int `json:"lexers"`
}
