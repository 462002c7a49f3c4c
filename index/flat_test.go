package index

import (
	"context"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/growbot/faqrag/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := Build(nil)
		assert.ErrorIs(t, err, ErrEmptyIndex)

		_, err = Build([][]float32{})
		assert.ErrorIs(t, err, ErrEmptyIndex)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := Build([][]float32{{1, 2, 3}, {1, 2}})
		require.Error(t, err)

		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 2, dm.Actual)
	})

	t.Run("ZeroLengthFirstVector", func(t *testing.T) {
		_, err := Build([][]float32{{}, {1, 2}})

		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 0, dm.Expected)
		assert.Equal(t, 2, dm.Actual)
	})

	t.Run("ZeroDimension", func(t *testing.T) {
		_, err := Build([][]float32{{}})
		assert.IsType(t, &ErrInvalidDimension{}, err)

		_, err = Build([][]float32{{}, {}})
		assert.IsType(t, &ErrInvalidDimension{}, err)
	})

	t.Run("CopiesInput", func(t *testing.T) {
		v := []float32{1, 2}
		f, err := Build([][]float32{v})
		require.NoError(t, err)
		v[0] = 100

		assert.Equal(t, []float32{1, 2}, f.Data())
		assert.Equal(t, 2, f.Dimension())
		assert.Equal(t, 1, f.Len())
	})
}

func TestFromContiguous(t *testing.T) {
	f, err := FromContiguous(2, []float32{0, 0, 1, 1, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())

	_, err = FromContiguous(2, []float32{0, 0, 1})
	assert.IsType(t, &ErrDimensionMismatch{}, err)

	_, err = FromContiguous(0, []float32{1})
	assert.IsType(t, &ErrInvalidDimension{}, err)

	_, err = FromContiguous(4, nil)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	f, err := Build([][]float32{
		{1.0, 2.0, 3.0},
		{4.0, 5.0, 6.0},
		{7.0, 8.0, 9.0},
	})
	require.NoError(t, err)

	t.Run("Nearest", func(t *testing.T) {
		result, err := f.Search(ctx, []float32{9.0, 9.0, 9.0}, 2)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, uint32(2), result[0].ID)
		assert.Equal(t, uint32(1), result[1].ID)
		assert.Equal(t, float32(5), result[0].Distance)
	})

	t.Run("KLargerThanN", func(t *testing.T) {
		result, err := f.Search(ctx, []float32{0, 0, 0}, 5)
		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, []uint32{0, 1, 2}, ids(result))
	})

	t.Run("InvalidK", func(t *testing.T) {
		_, err := f.Search(ctx, []float32{0, 0, 0}, 0)
		assert.ErrorIs(t, err, ErrInvalidK)

		_, err = f.Search(ctx, []float32{0, 0, 0}, -1)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("QueryDimensionMismatch", func(t *testing.T) {
		_, err := f.Search(ctx, []float32{0, 0}, 1)
		assert.IsType(t, &ErrDimensionMismatch{}, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.Search(cctx, []float32{0, 0, 0}, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSearchTieBreak(t *testing.T) {
	ctx := context.Background()

	// Ids 1, 2 and 4 are all at distance 1 from the origin.
	f, err := Build([][]float32{{3, 0}, {1, 0}, {0, 1}, {2, 2}, {-1, 0}})
	require.NoError(t, err)

	result, err := f.Search(ctx, []float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 4}, ids(result))

	result, err = f.Search(ctx, []float32{0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, ids(result))
}

func TestSearchProperties(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(4711)

	for _, n := range []int{1, 7, 64, 300} {
		data := rng.IntegerVectors(n, 8, 4)
		f, err := Build(data)
		require.NoError(t, err)

		for _, k := range []int{1, 3, 10, 500} {
			query := rng.IntegerVectors(1, 8, 4)[0]

			got, err := f.Search(ctx, query, k)
			require.NoError(t, err)

			// Length is min(k, n).
			require.Len(t, got, min(k, n))

			// Distances are non-decreasing.
			for i := 1; i < len(got); i++ {
				assert.LessOrEqual(t, got[i-1].Distance, got[i].Distance)
			}

			// Exact agreement with ground truth, including tie order.
			want := testutil.BruteForceSearch(data, query, k)
			require.Len(t, want, len(got))
			for i := range got {
				assert.Equal(t, want[i].ID, got[i].ID)
				assert.Equal(t, want[i].Distance, got[i].Distance)
			}

			// Deterministic.
			again, err := f.Search(ctx, query, k)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		}
	}
}

func TestSearchFiltered(t *testing.T) {
	ctx := context.Background()
	f, err := Build([][]float32{{0}, {1}, {2}, {3}})
	require.NoError(t, err)

	t.Run("AllowList", func(t *testing.T) {
		result, err := f.SearchFiltered(ctx, []float32{0}, 2, roaring.BitmapOf(1, 3))
		require.NoError(t, err)
		assert.Equal(t, []uint32{1, 3}, ids(result))
	})

	t.Run("EmptyAllowList", func(t *testing.T) {
		result, err := f.SearchFiltered(ctx, []float32{0}, 2, roaring.New())
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("OutOfRangeIgnored", func(t *testing.T) {
		result, err := f.SearchFiltered(ctx, []float32{0}, 5, roaring.BitmapOf(2, 99))
		require.NoError(t, err)
		assert.Equal(t, []uint32{2}, ids(result))
	})

	t.Run("NilMeansAll", func(t *testing.T) {
		result, err := f.SearchFiltered(ctx, []float32{3}, 4, nil)
		require.NoError(t, err)
		assert.Equal(t, []uint32{3, 2, 1, 0}, ids(result))
	})
}

func ids(results []SearchResult) []uint32 {
	out := make([]uint32, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
