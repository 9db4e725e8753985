// Package dao provides data access objects for use in the tunalex server.
package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Lexers() LexerRepository
	Close() error
}

type LexerRepository interface {

	// Create creates a new Lexer. All attributes except for auto-generated
	// fields are taken from the provided Lexer. If a Lexer with the same Hash
	// already exists, ErrConstraintViolation is returned.
	Create(ctx context.Context, lx Lexer) (Lexer, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lexer, error)
	GetByHash(ctx context.Context, hash string) (Lexer, error)
	GetAll(ctx context.Context) ([]Lexer, error)
	Delete(ctx context.Context, id uuid.UUID) (Lexer, error)
	Close() error
}

// Lexer is a compiled lexer as it is held in persistence.
type Lexer struct {
	ID   uuid.UUID
	Name string

	// Hash is the content hash of the language table. It is unique across
	// all stored Lexers.
	Hash string

	// Source is the language table in its JSON form.
	Source []byte

	// Compiled is the binary encoding of the compiled lexer.
	Compiled []byte

	// States is the number of states in the compiled DFA.
	States int

	Created time.Time
}
