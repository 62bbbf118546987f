package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/afero"

	"github.com/roach88/rpncalc/internal/engine"
	"github.com/roach88/rpncalc/internal/store"
	"github.com/roach88/rpncalc/internal/testutil"
)

// dumper renders values in mismatch messages.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Run executes a scenario against a real engine and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, and the
// random source replays the scenario's rolls so runs are reproducible.
//
// Execution flow:
//  1. Create a fresh in-memory store and seed the setup stacks
//  2. Open an engine on the scenario's stack
//  3. Execute each step, checking its error code and recording the transcript
//  4. Close the engine and check the stored stacks match the live ones
//  5. Compare the final state with the expectations
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	name := engine.NormalizeName(scenario.Stack)
	if len(scenario.Setup.Primary) > 0 || len(scenario.Setup.Secondary) > 0 {
		if err := st.Save(ctx, name, scenario.Setup.Primary, scenario.Setup.Secondary); err != nil {
			return nil, fmt.Errorf("failed to seed stack: %w", err)
		}
	}

	opts := []engine.Option{
		engine.WithStackName(name),
		engine.WithRand(testutil.NewSequenceRand(scenario.Rolls...)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if scenario.MemorySlots > 0 {
		opts = append(opts, engine.WithMemorySlots(scenario.MemorySlots))
	}
	eng := engine.New(st, opts...)
	if err := eng.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		res, err := eng.Execute(ctx, step.Input)
		checkStep(result, i, step, err)

		result.addLine("> " + step.Input)
		if err != nil {
			result.addLine("  ! " + err.Error())
		}
		for _, line := range res.Report {
			result.addLine("  | " + line)
		}
		result.Reports = append(result.Reports, res.Report...)
		result.addLine("  = " + formatValues(eng.Primary().Values()))

		if res.Exit {
			break
		}
	}

	if err := eng.Close(ctx); err != nil {
		return nil, fmt.Errorf("failed to close engine: %w", err)
	}

	result.Primary = eng.Primary().Values()
	result.Secondary = eng.Secondary().Values()
	result.addLine("primary:   " + formatValues(result.Primary))
	result.addLine("secondary: " + formatValues(result.Secondary))

	checkPersisted(ctx, result, st, eng.StackName())
	checkExpect(result, scenario.Expect)

	return result, nil
}

func checkStep(result *Result, i int, step Step, err error) {
	got := string(engine.CodeOf(err))
	if err != nil && got == "" {
		got = "internal"
	}
	if got == step.Error {
		return
	}
	switch {
	case step.Error == "":
		result.AddError(fmt.Sprintf("steps[%d] %q: unexpected error: %v", i, step.Input, err))
	case err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %q: expected error %s, got success", i, step.Input, step.Error))
	default:
		result.AddError(fmt.Sprintf("steps[%d] %q: expected error %s, got %v", i, step.Input, step.Error, err))
	}
}

// checkPersisted verifies that what the engine saved on close reads back
// identically from the store.
func checkPersisted(ctx context.Context, result *Result, st *store.Store, name string) {
	p, s, err := st.Load(ctx, name)
	if err != nil {
		result.AddError(fmt.Sprintf("reload stack %q: %v", name, err))
		return
	}
	if !sameValues(p, result.Primary) || !sameValues(s, result.Secondary) {
		result.AddError(fmt.Sprintf("stored stack %q differs from session:\n%s", name,
			dumper.Sdump(map[string][]float64{
				"stored primary":    p,
				"stored secondary":  s,
				"session primary":   result.Primary,
				"session secondary": result.Secondary,
			})))
	}
}

func checkExpect(result *Result, want Expect) {
	if want.Primary != nil && !sameValues(*want.Primary, result.Primary) {
		result.AddError(fmt.Sprintf("primary stack mismatch\nwant: %sgot:  %s",
			dumper.Sdump(*want.Primary), dumper.Sdump(result.Primary)))
	}
	if want.Secondary != nil && !sameValues(*want.Secondary, result.Secondary) {
		result.AddError(fmt.Sprintf("secondary stack mismatch\nwant: %sgot:  %s",
			dumper.Sdump(*want.Secondary), dumper.Sdump(result.Secondary)))
	}
	for _, line := range want.Report {
		if !slices.Contains(result.Reports, line) {
			result.AddError(fmt.Sprintf("report line not produced: %q", line))
		}
	}
}

// sameValues compares stacks allowing for decimal literals in YAML that
// differ from the computed value in the last few bits. NaN equals NaN.
func sameValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
			continue
		}
		if a[i] == b[i] {
			continue
		}
		if math.Abs(a[i]-b[i]) > 1e-9*math.Max(1, math.Abs(b[i])) {
			return false
		}
	}
	return true
}

func formatValues(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Outcome pairs a scenario file with the result of running it.
type Outcome struct {
	Path     string
	Scenario *Scenario
	Result   *Result
	Err      error
}

// RunDir loads and runs every scenario in dir. When filter is non-empty,
// only scenarios whose name matches it as a glob pattern are run. Load and
// run failures are reported per file in Outcome.Err; the returned error
// covers only the directory scan and a malformed filter.
func RunDir(fs afero.Fs, dir, filter string) ([]Outcome, error) {
	if filter != "" {
		if _, err := path.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}
	paths, err := FindScenarios(fs, dir)
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for _, file := range paths {
		scenario, err := LoadScenario(fs, file)
		if err != nil {
			outcomes = append(outcomes, Outcome{Path: file, Err: err})
			continue
		}
		if filter != "" {
			if ok, _ := path.Match(filter, scenario.Name); !ok {
				continue
			}
		}

		result, err := Run(scenario)
		outcomes = append(outcomes, Outcome{
			Path:     file,
			Scenario: scenario,
			Result:   result,
			Err:      err,
		})
	}
	return outcomes, nil
}
