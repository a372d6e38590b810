package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
)

func newTestStorage(t *testing.T) *FetchLogStorage {
	t.Helper()

	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "fetchlog")}
	db, err := NewBadgerDB(arbor.NewLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewFetchLogStorage(db, arbor.NewLogger())
}

func TestFetchLogAppendAndLoad(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Append(ctx, "Acme", "https://example.org/a"))
	require.NoError(t, storage.Append(ctx, "Acme", "https://example.org/b"))

	ids, err := storage.Load(ctx, "Acme")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"https://example.org/a", "https://example.org/b"}, ids)
}

func TestFetchLogAppendIsIdempotent(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, storage.Append(ctx, "Acme", "https://example.org/a"))
	}

	ids, err := storage.Load(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/a"}, ids)
}

func TestFetchLogScopedPerCompany(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Append(ctx, "Acme", "id-1"))
	require.NoError(t, storage.Append(ctx, "Globex", "id-2"))

	acme, err := storage.Load(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, acme)

	globex, err := storage.Load(ctx, "Globex")
	require.NoError(t, err)
	assert.Equal(t, []string{"id-2"}, globex)
}

func TestFetchLogNormalizesCompanyNames(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Append(ctx, "  Acme Corp  ", "id-1"))

	ids, err := storage.Load(ctx, "acme corp")
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, ids)
}

func TestFetchLogUnknownCompany(t *testing.T) {
	storage := newTestStorage(t)

	ids, err := storage.Load(context.Background(), "never seen")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
