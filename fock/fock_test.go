package fock

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	tcs := []struct {
		s    State
		want int
	}{
		{New(), 0},
		{New(0, 0, 0), 0},
		{New(1, 0, 2, 1), 4},
		{New(0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 1, 0), 4},
	}
	for _, tc := range tcs {
		assert.Equal(t, tc.want, tc.s.Total(), "total of %v", tc.s)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, New(0, 3, 1).Validate())
	assert.Error(t, New(0, -1, 1).Validate())
}

func TestKeyAndString(t *testing.T) {
	s := New(0, 1, 2)
	assert.Equal(t, "0,1,2", s.Key())
	assert.Equal(t, "|0,1,2>", s.String())
	// Keys must not collide across digit boundaries.
	assert.NotEqual(t, New(1, 12).Key(), New(11, 2).Key())
}

func TestEnumerate(t *testing.T) {
	tcs := []struct {
		modes, photons int
	}{
		{1, 0}, {1, 3}, {2, 2}, {3, 2}, {4, 3}, {12, 2},
	}
	for _, tc := range tcs {
		t.Run(fmt.Sprintf("%dm%dp", tc.modes, tc.photons), func(t *testing.T) {
			states := Enumerate(tc.modes, tc.photons)
			require.Len(t, states, Dim(tc.modes, tc.photons))
			seen := make(map[string]bool)
			for _, s := range states {
				require.Len(t, s, tc.modes)
				assert.Equal(t, tc.photons, s.Total())
				assert.False(t, seen[s.Key()], "duplicate state %v", s)
				seen[s.Key()] = true
			}
		})
	}
}

func TestEnumerateOrder(t *testing.T) {
	got := Enumerate(3, 2)
	want := []State{
		{0, 0, 2}, {0, 1, 1}, {0, 2, 0},
		{1, 0, 1}, {1, 1, 0}, {2, 0, 0},
	}
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "index %d: got %v want %v", i, got[i], want[i])
	}
}

func TestFactorial(t *testing.T) {
	assert.Equal(t, 1.0, Factorial(0))
	assert.Equal(t, 1.0, Factorial(1))
	assert.Equal(t, 120.0, Factorial(5))
	assert.Panics(t, func() { Factorial(-1) })
}
