package linopt

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoptic/linopt/fock"
)

func TestLabelSet(t *testing.T) {
	ls := NewLabelSet()
	require.NoError(t, ls.Add("a", fock.New(1, 0)))
	require.NoError(t, ls.Add("b", fock.New(0, 1)))
	assert.Equal(t, []string{"a", "b"}, ls.Labels())

	err := ls.Add("a", fock.New(0, 1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	err = ls.Add("c", fock.New(-1, 1))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	s, ok := ls.State("a")
	require.True(t, ok)
	assert.True(t, s.Equal(fock.New(1, 0)))
	_, ok = ls.State("missing")
	assert.False(t, ok)
}

func TestDistributionRaw(t *testing.T) {
	sim := homSimulator(t)
	in := NewLabelSet()
	require.NoError(t, in.Add("11", fock.New(1, 1)))
	out := NewLabelSet()
	require.NoError(t, out.Add("20", fock.New(2, 0)))
	require.NoError(t, out.Add("11", fock.New(1, 1)))
	require.NoError(t, out.Add("02", fock.New(0, 2)))

	table, err := sim.Distribution(context.Background(), in, out, NormRaw)
	require.NoError(t, err)
	assert.Equal(t, []string{"11"}, table.Inputs())
	assert.Equal(t, []string{"20", "11", "02"}, table.Outputs())

	p, ok := table.Prob("11", "20")
	require.True(t, ok)
	assert.InDelta(t, 0.5, p, 1e-12)
	p, ok = table.Prob("11", "11")
	require.True(t, ok)
	assert.InDelta(t, 0, p, 1e-12)
	p, ok = table.Prob("11", "02")
	require.True(t, ok)
	assert.InDelta(t, 0.5, p, 1e-12)

	_, ok = table.Prob("nope", "20")
	assert.False(t, ok)
}

// Raw mode reports the enumerated subset as-is; rows need not sum to 1.
func TestDistributionRawPartial(t *testing.T) {
	sim := homSimulator(t)
	in := NewLabelSet()
	require.NoError(t, in.Add("11", fock.New(1, 1)))
	out := NewLabelSet()
	require.NoError(t, out.Add("20", fock.New(2, 0)))

	table, err := sim.Distribution(context.Background(), in, out, NormRaw)
	require.NoError(t, err)
	row, ok := table.Row("11")
	require.True(t, ok)
	require.Len(t, row, 1)
	assert.InDelta(t, 0.5, row[0], 1e-12)
}

func TestDistributionRenormalized(t *testing.T) {
	sim := homSimulator(t)
	in := NewLabelSet()
	require.NoError(t, in.Add("11", fock.New(1, 1)))
	out := NewLabelSet()
	require.NoError(t, out.Add("20", fock.New(2, 0)))
	require.NoError(t, out.Add("11", fock.New(1, 1)))

	table, err := sim.Distribution(context.Background(), in, out, NormRenormalized)
	require.NoError(t, err)
	row, ok := table.Row("11")
	require.True(t, ok)
	assert.InDelta(t, 1, row[0]+row[1], 1e-12, "post-selected row sums to 1")
	p, _ := table.Prob("11", "20")
	assert.InDelta(t, 1, p, 1e-9, "all surviving mass on the bunched outcome")
}

// Post-selecting on outcomes the input cannot reach is a measure-zero event.
func TestDistributionEmptySupport(t *testing.T) {
	sim := homSimulator(t)
	in := NewLabelSet()
	require.NoError(t, in.Add("one photon", fock.New(1, 0)))
	out := NewLabelSet()
	require.NoError(t, out.Add("two photons", fock.New(1, 1)))

	_, err := sim.Distribution(context.Background(), in, out, NormRenormalized)
	assert.ErrorIs(t, err, ErrEmptySupport)

	// The same query in raw mode is fine: the row is simply all zero.
	table, err := sim.Distribution(context.Background(), in, out, NormRaw)
	require.NoError(t, err)
	p, _ := table.Prob("one photon", "two photons")
	assert.Zero(t, p)
}

func TestDistributionEmptyLabelSet(t *testing.T) {
	sim := homSimulator(t)
	_, err := sim.Distribution(context.Background(), NewLabelSet(), NewLabelSet(), NormRaw)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

// Worker count must not influence results or their placement in the table.
func TestDistributionParallelDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	c, err := NewRandomCircuit(6, 5, rng)
	require.NoError(t, err)

	basis := fock.Enumerate(6, 2)
	ls := NewLabelSet()
	for _, s := range basis {
		require.NoError(t, ls.Add(s.String(), s))
	}

	run := func(workers int) *Table {
		sim, err := NewSimulator(SimulatorOpts{Circuit: c, Workers: workers})
		require.NoError(t, err)
		table, err := sim.Distribution(context.Background(), ls, ls, NormRaw)
		require.NoError(t, err)
		return table
	}
	serial := run(1)
	parallel := run(8)

	require.Equal(t, serial.Inputs(), parallel.Inputs())
	require.Equal(t, serial.Outputs(), parallel.Outputs())
	for _, in := range serial.Inputs() {
		sRow, _ := serial.Row(in)
		pRow, _ := parallel.Row(in)
		for j := range sRow {
			assert.InDelta(t, sRow[j], pRow[j], 1e-15, "input %s column %d", in, j)
		}
		// Each row of a complete same-photon-number basis is itself a full
		// distribution.
		sum := 0.0
		for _, p := range sRow {
			sum += p
		}
		assert.InDelta(t, 1, sum, 1e-6, "row %s", in)
	}
}

// Workers evaluate pairs against the shared unitary directly; the photon
// budget must still hold on that path.
func TestDistributionHonorsPhotonBudget(t *testing.T) {
	c, err := NewCircuit(2)
	require.NoError(t, err)
	require.NoError(t, c.Add(mustBS(t, 0.5, 0), 0, 1))
	sim, err := NewSimulator(SimulatorOpts{Circuit: c, PhotonBudget: 1})
	require.NoError(t, err)

	in := NewLabelSet()
	require.NoError(t, in.Add("11", fock.New(1, 1)))
	out := NewLabelSet()
	require.NoError(t, out.Add("20", fock.New(2, 0)))

	_, err = sim.Distribution(context.Background(), in, out, NormRaw)
	assert.ErrorIs(t, err, ErrPhotonBudgetExceeded)
}

func TestDistributionCancellation(t *testing.T) {
	sim := homSimulator(t)
	in := NewLabelSet()
	require.NoError(t, in.Add("11", fock.New(1, 1)))
	out := NewLabelSet()
	require.NoError(t, out.Add("20", fock.New(2, 0)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.Distribution(ctx, in, out, NormRaw)
	assert.Error(t, err)
}
