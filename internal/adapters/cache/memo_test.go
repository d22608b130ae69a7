package cache_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/dugout/internal/adapters/cache"
)

type row struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestKey(t *testing.T) {
	a := cache.Key("breakdown", 3, "t1")
	assert.Len(t, a, 8)
	assert.Equal(t, a, cache.Key("breakdown", 3, "t1"))
	assert.NotEqual(t, a, cache.Key("breakdown", 4, "t1"))
	assert.NotEqual(t, a, cache.Key("leaderboard", 3, "t1"))
	assert.NotEqual(t, cache.Key("op", 1, "ab", "c"), cache.Key("op", 1, "a", "bc"))
}

func TestMemo_GetSet(t *testing.T) {
	m := cache.New(cache.WithSizeBytes(1<<20), cache.WithTTL(0))
	key := cache.Key("breakdown", 1, "t1")

	var got []row
	assert.False(t, m.Get("breakdown", key, &got))

	want := []row{{Name: "Tee", Value: 62.5}}
	require.NoError(t, m.Set(key, want))
	require.True(t, m.Get("breakdown", key, &got))
	assert.Equal(t, want, got)

	st := m.Stats()
	assert.EqualValues(t, 1, st.Entries)
	assert.EqualValues(t, 1, st.Hits)
	assert.EqualValues(t, 1, st.Misses)

	m.Clear()
	assert.False(t, m.Get("breakdown", key, &got))
}

func TestRemember(t *testing.T) {
	m := cache.New()
	calls := 0
	compute := func() (row, error) {
		calls++
		return row{Name: "Ana", Value: float64(calls)}, nil
	}

	first, err := cache.Remember(m, "snapshot", cache.Key("snapshot", 1, "p1"), compute)
	require.NoError(t, err)
	second, err := cache.Remember(m, "snapshot", cache.Key("snapshot", 1, "p1"), compute)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	bumped, err := cache.Remember(m, "snapshot", cache.Key("snapshot", 2, "p1"), compute)
	require.NoError(t, err)
	assert.Equal(t, 2.0, bumped.Value)

	boom := errors.New("boom")
	_, err = cache.Remember(m, "snapshot", cache.Key("snapshot", 3, "p1"), func() (row, error) { return row{}, boom })
	assert.ErrorIs(t, err, boom)
	_, err = cache.Remember(m, "snapshot", cache.Key("snapshot", 3, "p1"), compute)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRemember_NilMemo(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := cache.Remember[int](nil, "op", cache.Key("op", 0), func() (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}
