// Package inmem provides a dao.Store that keeps everything in memory. Nothing
// survives a restart.
package inmem

import (
	"github.com/dekarrin/tunalex/server/dao"
)

type store struct {
	lexers *InMemoryLexersRepository
}

func NewDatastore() dao.Store {
	return &store{
		lexers: NewLexersRepository(),
	}
}

func (s *store) Lexers() dao.LexerRepository {
	return s.lexers
}

func (s *store) Close() error {
	return s.lexers.Close()
}
