package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Offset)
	assert.Equal(t, 10, p.Limit)

	p, err = New(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Offset)

	p, err = New(math.MaxInt/MaxLimit+1, MaxLimit)
	require.NoError(t, err)
	assert.Positive(t, p.Offset)
}

func TestNew_Invalid(t *testing.T) {
	for _, tc := range []struct{ page, size int }{
		{0, 10},
		{-1, 10},
		{1, 0},
		{1, MaxLimit + 1},
		{1 << 62, MaxLimit},
		{math.MaxInt, 2},
	} {
		_, err := New(tc.page, tc.size)
		assert.ErrorIs(t, err, ErrInvalidParams, "page=%d size=%d", tc.page, tc.size)
	}
}

func TestGetMeta(t *testing.T) {
	p, err := New(2, 10)
	require.NoError(t, err)

	meta := GetMeta(p, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = GetMeta(p, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
}
