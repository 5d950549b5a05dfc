package flat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
)

func newTestIndex(t *testing.T, dimension int) (*Index, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.bin")
	idx, err := Open(path, dimension)
	require.NoError(t, err)
	return idx, path
}

func passage(docID, text string) domain.Passage {
	return domain.Passage{
		DocumentID: docID,
		Text:       text,
		Filename:   "test.pdf",
		PageCount:  1,
	}
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	idx, _ := newTestIndex(t, 4)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 4, idx.Dimensions())
}

func TestOpen_InvalidDimension(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "index.bin"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInsert_LockStep(t *testing.T) {
	idx, _ := newTestIndex(t, 3)
	ctx := context.Background()

	err := idx.Insert(ctx,
		[][]float32{{1, 0, 0}, {0, 1, 0}},
		[]domain.Passage{passage("d1", "alpha"), passage("d1", "beta")})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestInsert_LengthMismatch(t *testing.T) {
	idx, _ := newTestIndex(t, 3)

	err := idx.Insert(context.Background(),
		[][]float32{{1, 0, 0}},
		[]domain.Passage{passage("d1", "alpha"), passage("d1", "beta")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, idx.Len(), "nothing may be appended on a rejected insert")
}

func TestInsert_DimensionMismatch(t *testing.T) {
	idx, _ := newTestIndex(t, 3)

	err := idx.Insert(context.Background(),
		[][]float32{{1, 0}},
		[]domain.Passage{passage("d1", "alpha")})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 0, idx.Len())
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx, _ := newTestIndex(t, 3)

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_WrongQueryDimension(t *testing.T) {
	idx, _ := newTestIndex(t, 3)
	ctx := context.Background()
	require.NoError(t, idx.Insert(ctx, [][]float32{{1, 0, 0}}, []domain.Passage{passage("d1", "alpha")}))

	results, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err, "dimension mismatch at query time degrades, never fails")
	assert.Empty(t, results)
}

func TestSearch_SelfMatchIsFirstWithZeroDistance(t *testing.T) {
	idx, _ := newTestIndex(t, 3)
	ctx := context.Background()

	require.NoError(t, idx.Insert(ctx,
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0.5, 0.5, 0}},
		[]domain.Passage{passage("d1", "alpha"), passage("d1", "beta"), passage("d2", "gamma")}))

	results, err := idx.Search(ctx, []float32{0, 1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "beta", results[0].Passage.Text)
	assert.Equal(t, 0.0, results[0].Distance)

	// Ascending distance ordering.
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
}

func TestSearch_KLimitsResults(t *testing.T) {
	idx, _ := newTestIndex(t, 2)
	ctx := context.Background()

	require.NoError(t, idx.Insert(ctx,
		[][]float32{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
		[]domain.Passage{passage("d", "a"), passage("d", "b"), passage("d", "c"), passage("d", "d")}))

	results, err := idx.Search(ctx, []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Passage.Text)
	assert.Equal(t, "b", results[1].Passage.Text)
}

func TestSearch_NonPositiveK(t *testing.T) {
	idx, _ := newTestIndex(t, 2)
	ctx := context.Background()
	require.NoError(t, idx.Insert(ctx, [][]float32{{0, 0}}, []domain.Passage{passage("d", "a")}))

	results, err := idx.Search(ctx, []float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// Persisting then reopening must reproduce identical search behaviour.
func TestPersistRestore_RoundTrip(t *testing.T) {
	idx, path := newTestIndex(t, 3)
	ctx := context.Background()

	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0.3, 0.3, 0.9}}
	passages := []domain.Passage{
		passage("d1", "first passage"),
		passage("d1", "second passage"),
		passage("d2", "third passage"),
	}
	require.NoError(t, idx.Insert(ctx, vectors, passages))
	require.NoError(t, idx.Persist())

	reopened, err := Open(path, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, reopened.Len())

	queries := [][]float32{{1, 0, 0}, {0, 0, 1}, {0.2, 0.8, 0.1}}
	for _, q := range queries {
		before, err := idx.Search(ctx, q, 3)
		require.NoError(t, err)
		after, err := reopened.Search(ctx, q, 3)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}
}

func TestPersist_EmptyIndex(t *testing.T) {
	idx, path := newTestIndex(t, 5)
	require.NoError(t, idx.Persist())

	reopened, err := Open(path, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}

// A persisted index carries its dimension; reopening against an
// embedding model with a different dimension must fail loudly.
func TestOpen_DimensionMismatchIsFatal(t *testing.T) {
	idx, path := newTestIndex(t, 3)
	ctx := context.Background()
	require.NoError(t, idx.Insert(ctx, [][]float32{{1, 2, 3}}, []domain.Passage{passage("d", "a")}))
	require.NoError(t, idx.Persist())

	_, err := Open(path, 4)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, os.WriteFile(path, []byte("not an index"), 0600))

	_, err := Open(path, 3)
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestSquaredDistance(t *testing.T) {
	assert.Equal(t, 0.0, squaredDistance([]float32{1, 2}, []float32{1, 2}))
	assert.InDelta(t, 25.0, squaredDistance([]float32{0, 0}, []float32{3, 4}), 1e-9)
}
