// Package optimization provides shared data structures for optimization results.
package optimization

import "fmt"

// Summary captures the result of a single optimization directive.
type Summary struct {
	Scenario        string   `json:"scenario"`
	Field           string   `json:"field"`
	Kind            string   `json:"kind"`
	Target          float64  `json:"target"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	Metric          float64  `json:"metric"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}

func (s Summary) String() string {
	state := "converged"
	if !s.Converged {
		state = "not converged"
	}
	return fmt.Sprintf("%s %s -> %s for %s %g (%s after %d iterations)",
		s.Field, s.OriginalDisplay, s.ValueDisplay, s.Kind, s.Target, state, s.Iterations)
}
