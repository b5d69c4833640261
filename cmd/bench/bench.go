// bench.go sweeps the cartesian product of interferometer sizes, photon
// numbers, and mesh depths, timing exact amplitude evaluation and full
// logical-distribution analysis for each combination, and prints a CSV of the
// results.
package main

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/quoptic/linopt"
	"github.com/quoptic/linopt/fock"
)

var (
	modes   = flag.IntSlice("modes", []int{8, 12}, "Interferometer mode counts to sweep.")
	photons = flag.IntSlice("photons", []int{2, 3, 4}, "Photon numbers to sweep.")
	depth   = flag.IntSlice("depth", []int{6}, "Brick-wall mesh depths to sweep.")
	queries = flag.IntSlice("queries", []int{64}, "Amplitude queries to time per combination.")
	seed    = flag.Int64("seed", 1, "Seed for the random interferometer and query states.")
)

var (
	inputs  = []string{"modes", "photons", "depth", "queries"}
	columns = []string{"Modes", "Photons", "Depth", "Queries", "ComposeMicros",
		"AmplitudeMicros", "DistributionMillis", "BasisDim", "UnitarityDefect"}
)

// An Experiment packages together the result of benchmarking a single
// parameterization for easy formatting.
type Experiment struct {
	Modes   int
	Photons int
	Depth   int
	Queries int

	ComposeMicros      int64
	AmplitudeMicros    int64 // mean per query
	DistributionMillis int64
	BasisDim           int
	UnitarityDefect    float64
}

func main() {
	flag.Parse()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	os.Stdout.WriteString(header() + "\n")
	tmpl := template.Must(template.New("line").Parse(lineTmpl()))
	var args [][]interface{}
	for _, inp := range inputs {
		args = append(args, lookupInput(inp, log))
	}
	applyCartesian(func(args []interface{}) {
		exp := &Experiment{
			Modes:   args[inpIndex("modes")].(int),
			Photons: args[inpIndex("photons")].(int),
			Depth:   args[inpIndex("depth")].(int),
			Queries: args[inpIndex("queries")].(int),
		}
		if err := bench(exp); err != nil {
			log.Err(err).Int("modes", exp.Modes).Int("photons", exp.Photons).Msg("benching")
			return
		}
		if err := tmpl.Execute(os.Stdout, exp); err != nil {
			log.Fatal().Err(err).Msg("BUG: could not fill in line template")
		}
	}, args)
}

func inpIndex(v string) int {
	for i, inp := range inputs {
		if inp == v {
			return i
		}
	}
	return -1
}

func bench(exp *Experiment) error {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(*seed))
	c, err := linopt.NewRandomCircuit(exp.Modes, exp.Depth, rng)
	if err != nil {
		return err
	}
	sim, err := linopt.NewSimulator(linopt.SimulatorOpts{Circuit: c})
	if err != nil {
		return err
	}

	start := time.Now()
	u, err := sim.Unitary()
	if err != nil {
		return err
	}
	exp.ComposeMicros = time.Since(start).Microseconds()
	exp.UnitarityDefect = linopt.UnitarityDefect(u)

	basis := fock.Enumerate(exp.Modes, exp.Photons)
	exp.BasisDim = len(basis)

	start = time.Now()
	for q := 0; q < exp.Queries; q++ {
		in := basis[rng.Intn(len(basis))]
		out := basis[rng.Intn(len(basis))]
		if _, err := sim.Amplitude(ctx, in, out); err != nil {
			return err
		}
	}
	exp.AmplitudeMicros = time.Since(start).Microseconds() / int64(exp.Queries)

	// Distribution over a bounded slice of the basis; the full cartesian
	// product at high dimension would dwarf the numbers we care about.
	ls := linopt.NewLabelSet()
	for i, s := range basis {
		if i == 32 {
			break
		}
		if err := ls.Add(s.String(), s); err != nil {
			return err
		}
	}
	start = time.Now()
	if _, err := sim.Distribution(ctx, ls, ls, linopt.NormRaw); err != nil {
		return err
	}
	exp.DistributionMillis = time.Since(start).Milliseconds()
	return nil
}

func header() string {
	return strings.Join(columns, ", ")
}

func lineTmpl() string {
	var els []string
	for _, c := range columns {
		els = append(els, "{{."+c+"}}")
	}
	return strings.Join(els, ", ") + "\n"
}

func lookupInput(name string, log zerolog.Logger) []interface{} {
	var r []interface{}
	if v, err := flag.CommandLine.GetIntSlice(name); err == nil {
		for _, val := range v {
			r = append(r, val)
		}
	} else {
		log.Fatal().Str("input", name).Msg("unknown type for input")
	}
	return r
}

func applyCartesian(f func([]interface{}), args [][]interface{}) {
	for i := range args {
		if len(args[i]) == 1 {
			continue
		}
		l := make([][]interface{}, len(args))
		r := make([][]interface{}, len(args))
		copy(l, args)
		copy(r, args)
		l[i] = args[i][:1]
		r[i] = args[i][1:]
		applyCartesian(f, l)
		applyCartesian(f, r)
		return
	}
	x := make([]interface{}, 0, len(args))
	for _, a := range args {
		x = append(x, a[0])
	}
	f(x)
}
