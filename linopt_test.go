package linopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimulatorValidation(t *testing.T) {
	_, err := NewSimulator(SimulatorOpts{})
	assert.ErrorIs(t, err, ErrInvalidParameter, "must provide Circuit")

	c, err := NewCircuit(2)
	require.NoError(t, err)
	_, err = NewSimulator(SimulatorOpts{Circuit: c, PhotonBudget: -1})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewSimulator(SimulatorOpts{Circuit: c, Workers: -4})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	sim, err := NewSimulator(SimulatorOpts{Circuit: c})
	require.NoError(t, err)
	assert.Same(t, c, sim.Circuit())
}

func TestUnitaryCaching(t *testing.T) {
	c, err := NewCircuit(3)
	require.NoError(t, err)
	require.NoError(t, c.Add(mustBS(t, 0.4, 0.2), 0, 1))
	sim, err := NewSimulator(SimulatorOpts{Circuit: c})
	require.NoError(t, err)

	u1, err := sim.Unitary()
	require.NoError(t, err)
	u2, err := sim.Unitary()
	require.NoError(t, err)
	assert.Same(t, u1, u2, "unchanged circuit must reuse the composed unitary")

	require.NoError(t, c.Add(mustPS(t, 1.5), 2))
	u3, err := sim.Unitary()
	require.NoError(t, err)
	assert.NotSame(t, u1, u3, "grown circuit must recompose")
}
