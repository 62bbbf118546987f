package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/rpncalc/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern on the scenario name)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run calculator scenarios",
		Long: `Run YAML calculator scenarios against a fresh in-memory engine.

Each scenario feeds its input lines to the calculator and checks the
expected error codes, final stacks and report lines. When a golden
directory sits next to the scenarios directory, the session transcript
is compared with golden/<name>.golden as well.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, bad filter, etc.)

Examples:
  rpncalc test ./scenarios
  rpncalc test ./scenarios --filter "mem*"
  rpncalc test ./scenarios --update
  rpncalc test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	fs := opts.filesystem()
	if ok, err := afero.DirExists(fs, scenariosDir); err != nil || !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	outcomes, err := harness.RunDir(fs, scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	if len(outcomes) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{
				Scenarios: []ScenarioResult{},
				Total:     0,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(outcomes)),
		Total:     len(outcomes),
	}
	goldenDir := filepath.Join(filepath.Dir(filepath.Clean(scenariosDir)), "golden")

	for _, o := range outcomes {
		scenResult := checkOutcome(fs, o, goldenDir, opts)
		if opts.Format != "json" {
			printScenarioResult(cmd, scenResult, opts.Update)
		}
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if err := outputTestJSON(cmd, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}

// checkOutcome turns a harness outcome into a ScenarioResult, comparing or
// rewriting the golden transcript when a golden directory exists.
func checkOutcome(fs afero.Fs, o harness.Outcome, goldenDir string, opts *TestOptions) ScenarioResult {
	if o.Err != nil {
		name := filepath.Base(o.Path)
		if o.Scenario != nil {
			name = o.Scenario.Name
		}
		return ScenarioResult{
			Name:   name,
			Pass:   false,
			Errors: []string{o.Err.Error()},
		}
	}

	res := ScenarioResult{
		Name:   o.Scenario.Name,
		Pass:   o.Result.Pass,
		Errors: o.Result.Errors,
	}

	goldenPath := filepath.Join(goldenDir, o.Scenario.Name+".golden")
	transcript := []byte(harness.Transcript(o.Result))

	if opts.Update {
		if err := fs.MkdirAll(goldenDir, 0o755); err != nil {
			return failed(res, fmt.Sprintf("failed to create golden directory: %v", err))
		}
		if err := afero.WriteFile(fs, goldenPath, transcript, 0o644); err != nil {
			return failed(res, fmt.Sprintf("failed to update golden file: %v", err))
		}
		return res
	}

	want, err := afero.ReadFile(fs, goldenPath)
	if err != nil {
		// No golden file: assertions only.
		return res
	}
	if !bytes.Equal(want, transcript) {
		return failed(res, "transcript does not match golden file (run with --update to regenerate)")
	}
	return res
}

func failed(res ScenarioResult, msg string) ScenarioResult {
	res.Pass = false
	res.Errors = append(res.Errors, msg)
	return res
}

func printScenarioResult(cmd *cobra.Command, res ScenarioResult, updated bool) {
	w := cmd.OutOrStdout()
	if !res.Pass {
		fmt.Fprintf(w, "✗ %s\n", res.Name)
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(e, "\n", "\n  "))
		}
		return
	}
	if updated {
		fmt.Fprintf(w, "✓ %s (golden updated)\n", res.Name)
		return
	}
	fmt.Fprintf(w, "✓ %s\n", res.Name)
}

func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "SCENARIO_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(response)
}
