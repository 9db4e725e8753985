package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/tunalex/internal/util"
	"github.com/dekarrin/tunalex/server/dao"
	"github.com/google/uuid"
)

func NewLexersRepository() *InMemoryLexersRepository {
	return &InMemoryLexersRepository{
		lexers:      make(map[uuid.UUID]dao.Lexer),
		byHashIndex: make(map[string]uuid.UUID),
	}
}

type InMemoryLexersRepository struct {
	mtx         sync.RWMutex
	lexers      map[uuid.UUID]dao.Lexer
	byHashIndex map[string]uuid.UUID
}

func (imlr *InMemoryLexersRepository) Close() error {
	return nil
}

func (imlr *InMemoryLexersRepository) Create(ctx context.Context, lx dao.Lexer) (dao.Lexer, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Lexer{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imlr.mtx.Lock()
	defer imlr.mtx.Unlock()

	// make sure it's not already in the DB
	if _, ok := imlr.byHashIndex[lx.Hash]; ok {
		return dao.Lexer{}, dao.ErrConstraintViolation
	}

	lx.ID = newUUID
	lx.Created = time.Now()
	lx.Source = append([]byte(nil), lx.Source...)
	lx.Compiled = append([]byte(nil), lx.Compiled...)

	imlr.lexers[lx.ID] = lx
	imlr.byHashIndex[lx.Hash] = lx.ID

	return lx, nil
}

func (imlr *InMemoryLexersRepository) GetAll(ctx context.Context) ([]dao.Lexer, error) {
	imlr.mtx.RLock()
	defer imlr.mtx.RUnlock()

	all := make([]dao.Lexer, 0, len(imlr.lexers))
	for k := range imlr.lexers {
		all = append(all, imlr.lexers[k])
	}

	all = util.SortBy(all, func(l, r dao.Lexer) bool {
		if l.Created.Equal(r.Created) {
			return l.ID.String() < r.ID.String()
		}
		return l.Created.Before(r.Created)
	})

	return all, nil
}

func (imlr *InMemoryLexersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Lexer, error) {
	imlr.mtx.RLock()
	defer imlr.mtx.RUnlock()

	lx, ok := imlr.lexers[id]
	if !ok {
		return dao.Lexer{}, dao.ErrNotFound
	}

	return lx, nil
}

func (imlr *InMemoryLexersRepository) GetByHash(ctx context.Context, hash string) (dao.Lexer, error) {
	imlr.mtx.RLock()
	defer imlr.mtx.RUnlock()

	id, ok := imlr.byHashIndex[hash]
	if !ok {
		return dao.Lexer{}, dao.ErrNotFound
	}

	return imlr.lexers[id], nil
}

func (imlr *InMemoryLexersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Lexer, error) {
	imlr.mtx.Lock()
	defer imlr.mtx.Unlock()

	lx, ok := imlr.lexers[id]
	if !ok {
		return dao.Lexer{}, dao.ErrNotFound
	}

	delete(imlr.byHashIndex, lx.Hash)
	delete(imlr.lexers, lx.ID)

	return lx, nil
}
