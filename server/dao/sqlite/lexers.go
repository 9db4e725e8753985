package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/tunalex/server/dao"
	"github.com/google/uuid"
)

// NewLexersDBConn opens file and returns a LexersDB that stores its data in
// it.
func NewLexersDBConn(file string) (*LexersDB, error) {
	repo := &LexersDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

type LexersDB struct {
	db *sql.DB
}

func (repo *LexersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS lexers (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		hash TEXT NOT NULL UNIQUE,
		source BLOB NOT NULL,
		compiled BLOB NOT NULL,
		states INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *LexersDB) Create(ctx context.Context, lx dao.Lexer) (dao.Lexer, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Lexer{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.PrepareContext(ctx, `INSERT INTO lexers (id, name, hash, source, compiled, states, created) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Lexer{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		lx.Name,
		lx.Hash,
		lx.Source,
		lx.Compiled,
		lx.States,
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Lexer{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *LexersDB) GetAll(ctx context.Context) ([]dao.Lexer, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, hash, source, compiled, states, created FROM lexers ORDER BY created, id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Lexer

	for rows.Next() {
		lx, err := scanLexer(rows)
		if err != nil {
			return all, err
		}
		all = append(all, lx)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *LexersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Lexer, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, hash, source, compiled, states, created FROM lexers WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanLexer(row)
}

func (repo *LexersDB) GetByHash(ctx context.Context, hash string) (dao.Lexer, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, hash, source, compiled, states, created FROM lexers WHERE hash = ?;`,
		hash,
	)
	return scanLexer(row)
}

func (repo *LexersDB) Delete(ctx context.Context, id uuid.UUID) (dao.Lexer, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM lexers WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *LexersDB) Close() error {
	return repo.db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLexer(row scanner) (dao.Lexer, error) {
	var lx dao.Lexer
	var id string
	var created int64

	err := row.Scan(
		&id,
		&lx.Name,
		&lx.Hash,
		&lx.Source,
		&lx.Compiled,
		&lx.States,
		&created,
	)
	if err != nil {
		return dao.Lexer{}, wrapDBError(err)
	}

	err = convertFromDB_UUID(id, &lx.ID)
	if err != nil {
		return lx, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_Time(created, &lx.Created)
	if err != nil {
		return lx, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return lx, nil
}
