package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step and expectation matched.
	Pass bool `json:"pass"`

	// Errors contains mismatch descriptions. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Transcript records each step and the final stacks, one line each
	// (report lines are indented under their step).
	Transcript []string `json:"transcript"`

	// Primary and Secondary are the final stacks in push order.
	Primary   []float64 `json:"primary"`
	Secondary []float64 `json:"secondary"`

	// Reports collects every report line produced during the session.
	Reports []string `json:"reports,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Errors:     []string{},
		Transcript: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addLine(line string) {
	r.Transcript = append(r.Transcript, line)
}
