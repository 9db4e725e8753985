package sqlite

import (
	"context"
	"testing"

	"github.com/dekarrin/tunalex/server/dao"
	"github.com/stretchr/testify/assert"
)

func Test_LexersDB(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	st, err := NewDatastore(t.TempDir())
	if !assert.NoError(err) {
		return
	}
	defer st.Close()
	repo := st.Lexers()

	created, err := repo.Create(ctx, dao.Lexer{Name: "one", Hash: "aaaa", Source: []byte(`{"name":"one"}`), Compiled: []byte{0, 1, 2, 255}, States: 4})
	if !assert.NoError(err) {
		return
	}
	assert.Equal("one", created.Name)
	assert.Equal([]byte{0, 1, 2, 255}, created.Compiled)
	assert.Equal(4, created.States)

	_, err = repo.Create(ctx, dao.Lexer{Name: "dupe", Hash: "aaaa", Source: []byte("{}"), Compiled: []byte{1}})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	got, err := repo.GetByHash(ctx, "aaaa")
	assert.NoError(err)
	assert.Equal(created.ID, got.ID)
	assert.Equal(created.Created.UnixNano(), got.Created.UnixNano())

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	_, err = repo.Delete(ctx, created.ID)
	assert.NoError(err)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_NewDatastore_Reopen(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	st, err := NewDatastore(dir)
	if !assert.NoError(err) {
		return
	}
	created, err := st.Lexers().Create(ctx, dao.Lexer{Name: "kept", Hash: "cccc", Source: []byte("{}"), Compiled: []byte{9}})
	assert.NoError(err)
	assert.NoError(st.Close())

	st, err = NewDatastore(dir)
	if !assert.NoError(err) {
		return
	}
	defer st.Close()

	got, err := st.Lexers().GetByID(ctx, created.ID)
	assert.NoError(err)
	assert.Equal("kept", got.Name)
}
