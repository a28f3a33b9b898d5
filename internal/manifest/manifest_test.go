// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagemill/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "pagemill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	rec := Record{
		SourcePath:  "/docs/report.pdf",
		OutputPath:  "/docs/report.md",
		Pages:       12,
		FailedPages: 1,
		Status:      StatusPartial,
		Duration:    1500 * time.Millisecond,
		ConvertedAt: time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, store.Put(rec))

	got, ok, err := store.Get("/docs/report.pdf")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Get("/docs/never-converted.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutReplacesExisting(t *testing.T) {
	store := openTestStore(t)

	rec := Record{
		SourcePath:  "/docs/a.pdf",
		Status:      StatusFailed,
		Error:       "encrypted",
		ConvertedAt: time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Put(rec))

	rec.Status = StatusConverted
	rec.Error = ""
	rec.Pages = 3
	rec.ConvertedAt = time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(rec))

	got, ok, err := store.Get("/docs/a.pdf")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusConverted, got.Status)
	assert.Equal(t, 3, got.Pages)
	assert.Empty(t, got.Error)

	records, err := store.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListMostRecentFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	for i, path := range []string{"/docs/a.pdf", "/docs/b.pdf", "/docs/c.pdf"} {
		require.NoError(t, store.Put(Record{
			SourcePath:  path,
			Status:      StatusConverted,
			ConvertedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "/docs/c.pdf", records[0].SourcePath)
	assert.Equal(t, "/docs/a.pdf", records[2].SourcePath)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusConverted, StatusFor(types.DocumentResult{PageCount: 5}))
	assert.Equal(t, StatusPartial, StatusFor(types.DocumentResult{PageCount: 5, FailedPages: 2}))
	assert.Equal(t, StatusFailed, StatusFor(types.DocumentResult{Err: errors.New("open failed")}))
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "pagemill.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(Record{SourcePath: "/docs/a.pdf", Status: StatusConverted}))
}
