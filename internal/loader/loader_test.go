package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inspectq/internal/store"
)

func writeDataset(t *testing.T, points, groups, categories string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "points.txt"), []byte(points), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "groups.txt"), []byte(groups), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.txt"), []byte(categories), 0644))
	return dir
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad(t *testing.T) {
	dir := writeDataset(t,
		"0.0 0.0\n5.0 5.0\n100.0 100.0\n5.0 0.0\n",
		"1\n1\n2\n2\n",
		"1\n1\n2\n1\n",
	)
	st := openTestStore(t)

	summary, err := Load(context.Background(), dir, st)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Points)
	assert.Equal(t, 2, summary.Groups)

	snap, err := st.ReadSnapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, snap.Len())

	// Ids are 1-based in file order.
	p, ok := snap.ByID(3)
	require.True(t, ok)
	assert.Equal(t, 100.0, p.X)
	assert.Equal(t, int64(2), p.GroupID)
	assert.Equal(t, int64(2), p.Category)
}

func TestLoad_ReplacesExistingData(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	dir1 := writeDataset(t, "1 1\n2 2\n", "1\n1\n", "1\n1\n")
	_, err := Load(ctx, dir1, st)
	require.NoError(t, err)

	dir2 := writeDataset(t, "9 9\n", "5\n", "3\n")
	summary, err := Load(ctx, dir2, st)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Points)

	snap, err := st.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, int64(5), snap.Points()[0].GroupID)
}

func TestLoad_LineCountMismatch(t *testing.T) {
	dir := writeDataset(t, "1 1\n2 2\n", "1\n", "1\n1\n")
	st := openTestStore(t)

	_, err := Load(context.Background(), dir, st)
	assert.ErrorContains(t, err, "disagree")
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "points.txt"), []byte("1 1\n"), 0644))
	st := openTestStore(t)

	_, err := Load(context.Background(), dir, st)
	assert.Error(t, err)
}

func TestLoad_ParseErrorHasPosition(t *testing.T) {
	dir := writeDataset(t, "1 1\nnot-a-number 2\n", "1\n1\n", "1\n1\n")
	st := openTestStore(t)

	_, err := Load(context.Background(), dir, st)
	var perr *ParseError
	if assert.ErrorAs(t, err, &perr) {
		assert.Equal(t, 2, perr.Line)
		assert.Contains(t, perr.File, "points.txt")
	}
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	dir := writeDataset(t, "1 1\n\n2 2\n", "1\n1\n\n", "\n1\n2\n")
	st := openTestStore(t)

	summary, err := Load(context.Background(), dir, st)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Points)
}
