package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.Set(t.Context(), "k", []byte("v"), time.Minute))

	value, ok, err := m.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	_, ok, err = m.Get(t.Context(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(WithClock(clock.Now))

	require.NoError(t, m.Set(t.Context(), "short", []byte("1"), time.Second))
	require.NoError(t, m.Set(t.Context(), "forever", []byte("2"), 0))

	clock.Advance(time.Second)

	_, ok, err := m.Get(t.Context(), "short")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = m.Get(t.Context(), "forever")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	m := NewMemory()
	value := []byte("abc")

	require.NoError(t, m.Set(t.Context(), "k", value, 0))
	value[0] = 'x'

	stored, _, err := m.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), stored)
}

func TestMemory_MaxEntries(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(WithClock(clock.Now), WithMaxEntries(2))

	require.NoError(t, m.Set(t.Context(), "a", []byte("a"), time.Minute))
	require.NoError(t, m.Set(t.Context(), "b", []byte("b"), time.Hour))
	require.NoError(t, m.Set(t.Context(), "c", []byte("c"), 0))

	assert.Equal(t, 2, m.Len())

	_, ok, _ := m.Get(t.Context(), "a")
	assert.False(t, ok)

	_, ok, _ = m.Get(t.Context(), "c")
	assert.True(t, ok)
}

func TestMemory_Close(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(t.Context(), "k", []byte("v"), 0))
	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
}

func TestFingerprint(t *testing.T) {
	first, err := Fingerprint(map[string]any{"b": 1, "a": []string{"x"}})
	require.NoError(t, err)

	second, err := Fingerprint(map[string]any{"a": []string{"x"}, "b": 1})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	third, err := Fingerprint(map[string]any{"a": []string{"y"}, "b": 1})
	require.NoError(t, err)
	assert.NotEqual(t, first, third)

	_, err = Fingerprint(func() {})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New("memory")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New("redis://localhost:6379/0")
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)
	require.NoError(t, c.Close())

	_, err = New("memcached://localhost")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
