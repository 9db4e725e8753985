package lexsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/tunalex/internal/lex"
	"github.com/dekarrin/tunalex/server/dao"
	"github.com/dekarrin/tunalex/server/serr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateLexer compiles lang and stores the result. Language tables are
// content-addressed: if a lexer for an identical table is already stored,
// that one is returned instead and created is false.
//
// The returned error, if non-nil, will match serr.ErrCompile if lang has a
// bad regex or is otherwise not a valid language, and serr.ErrDB if there was
// a problem with persistence.
func (svc *Service) CreateLexer(ctx context.Context, lang lex.Language) (rec dao.Lexer, created bool, err error) {
	hash := lang.Hash()

	existing, err := svc.DB.Lexers().GetByHash(ctx, hash)
	if err == nil {
		return existing, false, nil
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Lexer{}, false, serr.WrapDB("could not check for existing lexer", err)
	}

	lx, err := lex.Compile(lang, lex.WithLogger(svc.log))
	if err != nil {
		return dao.Lexer{}, false, serr.New("", err, serr.ErrCompile)
	}

	compiled, err := lx.MarshalBinary()
	if err != nil {
		return dao.Lexer{}, false, fmt.Errorf("encode lexer: %w", err)
	}
	source, err := json.Marshal(lang)
	if err != nil {
		return dao.Lexer{}, false, fmt.Errorf("encode language: %w", err)
	}

	rec, err = svc.DB.Lexers().Create(ctx, dao.Lexer{
		Name:     lang.Name,
		Hash:     hash,
		Source:   source,
		Compiled: compiled,
		States:   lx.DFA().NumStates(),
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			// someone else stored the same table in the meantime
			existing, getErr := svc.DB.Lexers().GetByHash(ctx, hash)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return dao.Lexer{}, false, serr.WrapDB("could not store lexer", err)
	}

	svc.remember(rec.ID, lx)
	svc.log.Info("created lexer",
		zap.String("id", rec.ID.String()),
		zap.String("name", rec.Name),
		zap.Int("states", rec.States),
	)
	return rec, true, nil
}

// GetLexer returns the stored lexer with the given ID.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if id is not
// a valid ID, serr.ErrNotFound if no lexer has it, and serr.ErrDB for
// persistence problems.
func (svc *Service) GetLexer(ctx context.Context, id string) (dao.Lexer, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Lexer{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	rec, err := svc.DB.Lexers().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Lexer{}, serr.ErrNotFound
		}
		return dao.Lexer{}, serr.WrapDB("could not get lexer", err)
	}

	return rec, nil
}

// ListLexers returns every stored lexer, oldest first.
func (svc *Service) ListLexers(ctx context.Context) ([]dao.Lexer, error) {
	all, err := svc.DB.Lexers().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return all, nil
}

// DeleteLexer deletes the stored lexer with the given ID and returns it.
// Errors are as for GetLexer.
func (svc *Service) DeleteLexer(ctx context.Context, id string) (dao.Lexer, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Lexer{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	rec, err := svc.DB.Lexers().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Lexer{}, serr.ErrNotFound
		}
		return dao.Lexer{}, serr.WrapDB("could not delete lexer", err)
	}

	svc.mtx.Lock()
	delete(svc.loaded, uuidID)
	svc.mtx.Unlock()

	return rec, nil
}

// Language decodes the language table a stored lexer was compiled from.
func Language(rec dao.Lexer) (lex.Language, error) {
	var lang lex.Language
	if err := json.Unmarshal(rec.Source, &lang); err != nil {
		return lex.Language{}, fmt.Errorf("stored language is invalid: %w", err)
	}
	return lang, nil
}

// Tokenize runs the stored lexer with the given ID over input. Every token up
// to the end of the text is returned, including error tokens for input that
// no pattern matched. Errors are as for GetLexer.
func (svc *Service) Tokenize(ctx context.Context, id string, input string) ([]lex.Token, error) {
	rec, err := svc.GetLexer(ctx, id)
	if err != nil {
		return nil, err
	}

	lx, err := svc.load(ctx, rec)
	if err != nil {
		return nil, err
	}

	stream, err := lx.Lex(strings.NewReader(input))
	if err != nil {
		return nil, err
	}

	var toks []lex.Token
	for stream.HasNext() {
		tok := stream.Next()
		if tok.Class().Equal(lex.TokenEndOfText) {
			break
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// load gives the compiled lexer for rec, decoding it from its stored binary
// form the first time. The decoded lexer is only cached if rec is still in
// the store.
func (svc *Service) load(ctx context.Context, rec dao.Lexer) (*lex.Lexer, error) {
	svc.mtx.Lock()
	lx, ok := svc.loaded[rec.ID]
	svc.mtx.Unlock()
	if ok {
		return lx, nil
	}

	lx = &lex.Lexer{}
	if err := lx.UnmarshalBinary(rec.Compiled); err != nil {
		return nil, fmt.Errorf("stored lexer %s is invalid: %w", rec.ID, err)
	}

	// DeleteLexer removes the cache entry only after the record is gone, so
	// checking under the lock means a concurrent delete cannot be undone.
	svc.mtx.Lock()
	defer svc.mtx.Unlock()
	if _, err := svc.DB.Lexers().GetByID(ctx, rec.ID); err != nil {
		if !errors.Is(err, dao.ErrNotFound) {
			return nil, serr.WrapDB("could not get lexer", err)
		}
		svc.log.Debug("lexer deleted while loading; not caching", zap.String("id", rec.ID.String()))
		return lx, nil
	}
	svc.loaded[rec.ID] = lx
	return lx, nil
}

func (svc *Service) remember(id uuid.UUID, lx *lex.Lexer) {
	svc.mtx.Lock()
	svc.loaded[id] = lx
	svc.mtx.Unlock()
}
