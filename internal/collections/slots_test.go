package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots_AllocExtendsHighWater(t *testing.T) {
	s := NewSlots[string]()
	assert.Equal(t, 0, s.Alloc())
	assert.Equal(t, 1, s.Alloc())
	assert.Equal(t, 2, s.AllocValue("c"))
	assert.Equal(t, 3, s.Len())

	v, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "c", v)
}

func TestSlots_ReusesSmallestFreed(t *testing.T) {
	s := NewSlots[int]()
	for i := 0; i < 6; i++ {
		s.AllocValue(i * 10)
	}

	require.NoError(t, s.Free(4))
	require.NoError(t, s.Free(1))
	require.NoError(t, s.Free(3))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.NextIndex())

	assert.Equal(t, 1, s.Alloc())
	assert.Equal(t, 3, s.Alloc())
	assert.Equal(t, 4, s.Alloc())
	assert.Equal(t, 6, s.NextIndex())
	assert.Equal(t, 6, s.Alloc())
}

func TestSlots_IsReserved(t *testing.T) {
	s := NewSlots[int]()
	assert.False(t, s.IsReserved(0))
	assert.False(t, s.IsReserved(-1))

	i := s.Alloc()
	assert.True(t, s.IsReserved(i))

	require.NoError(t, s.Free(i))
	assert.False(t, s.IsReserved(i))

	assert.Equal(t, i, s.Alloc())
	assert.True(t, s.IsReserved(i))
}

func TestSlots_AccessViolation(t *testing.T) {
	s := NewSlots[int]()
	i := s.AllocValue(1)
	require.NoError(t, s.Free(i))

	assert.ErrorIs(t, s.Free(i), ErrAccessViolation)
	assert.ErrorIs(t, s.Set(i, 2), ErrAccessViolation)
	assert.ErrorIs(t, s.Free(42), ErrAccessViolation)

	_, err := s.Get(i)
	assert.ErrorIs(t, err, ErrAccessViolation)

	_, err = s.Ref(-3)
	assert.ErrorIs(t, err, ErrAccessViolation)
}

func TestSlots_FreeClearsReferences(t *testing.T) {
	s := NewSlots[*int](WithReferences())
	v := 5
	i := s.AllocValue(&v)
	require.NoError(t, s.Free(i))
	assert.Nil(t, *s.values.At(i))

	// Without the option the stale value stays behind.
	plain := NewSlots[*int]()
	j := plain.AllocValue(&v)
	require.NoError(t, plain.Free(j))
	assert.NotNil(t, *plain.values.At(j))
}

func TestSlots_SetAndRef(t *testing.T) {
	s := NewSlots[int]()
	i := s.Alloc()
	require.NoError(t, s.Set(i, 11))

	p, err := s.Ref(i)
	require.NoError(t, err)
	*p += 1

	v, err := s.Get(i)
	require.NoError(t, err)
	assert.Equal(t, 12, v)
}

func TestSlots_NoSharedIndices(t *testing.T) {
	s := NewSlots[int]()
	live := make(map[int]bool)
	for round := 0; round < 50; round++ {
		for k := 0; k < 3; k++ {
			i := s.Alloc()
			require.False(t, live[i], "index %d handed out twice", i)
			live[i] = true
		}
		for i := range live {
			if i%2 == round%2 {
				require.NoError(t, s.Free(i))
				delete(live, i)
			}
		}
		require.Equal(t, len(live), s.Len())
	}
}

func TestSlots_Clear(t *testing.T) {
	s := NewSlots[string](WithReferences())
	s.AllocValue("a")
	s.AllocValue("b")
	require.NoError(t, s.Free(0))
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsReserved(1))
	assert.Equal(t, 0, s.NextIndex())
	assert.Equal(t, 0, s.Alloc())
	assert.Equal(t, 1, s.Alloc())
	assert.Equal(t, "", *s.values.At(1))
}
