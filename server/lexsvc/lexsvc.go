// Package lexsvc has services for interacting with the tunalex server backend
// decoupled from the API that accesses it.
package lexsvc

import (
	"sync"

	"github.com/dekarrin/tunalex/internal/lex"
	"github.com/dekarrin/tunalex/server/dao"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is a service for compiling, storing, and running lexers. It
// performs the actions requested and makes calls to server persistence to
// preserve the backend state.
//
// Service must be created with New.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// KeyHash is the bcrypt hash of the API key that clients log in with.
	KeyHash []byte

	log *zap.Logger

	// compiled lexers decoded from the store, by ID. Stored lexers are
	// immutable, so an entry is only stale once its record is deleted.
	mtx    sync.Mutex
	loaded map[uuid.UUID]*lex.Lexer
}

// New creates a Service that uses db for persistence. log may be nil.
func New(db dao.Store, keyHash []byte, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		DB:      db,
		KeyHash: keyHash,
		log:     log,
		loaded:  make(map[uuid.UUID]*lex.Lexer),
	}
}
