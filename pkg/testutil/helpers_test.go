package testutil

import (
	"testing"

	"github.com/iwvelando/lead-budget/internal/budget"
	"github.com/iwvelando/lead-budget/internal/projection"
)

func TestFindProjection(t *testing.T) {
	results := []projection.Projection{
		{Name: "Scenario A", Inputs: budget.Inputs{Regions: 1}},
		{Name: "Scenario B", Inputs: budget.Inputs{Regions: 2}},
		{Name: "Another Scenario", Inputs: budget.Inputs{Regions: 3}},
	}

	tests := []struct {
		name            string
		searchName      string
		expectFound     bool
		expectedRegions int
	}{
		{
			name:            "Find existing scenario A",
			searchName:      "Scenario A",
			expectFound:     true,
			expectedRegions: 1,
		},
		{
			name:            "Find last scenario",
			searchName:      "Another Scenario",
			expectFound:     true,
			expectedRegions: 3,
		},
		{
			name:        "Case sensitive search",
			searchName:  "scenario a",
			expectFound: false,
		},
		{
			name:        "Non-existent scenario",
			searchName:  "Missing",
			expectFound: false,
		},
		{
			name:        "Empty search name",
			searchName:  "",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindProjection(results, tt.searchName)
			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindProjection(%q) = %v, expected nil", tt.searchName, result.Name)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindProjection(%q) = nil, expected match", tt.searchName)
			}
			if result.Inputs.Regions != tt.expectedRegions {
				t.Errorf("FindProjection(%q).Inputs.Regions = %d, expected %d", tt.searchName, result.Inputs.Regions, tt.expectedRegions)
			}
		})
	}
}

func TestFindProjectionReturnsPointerIntoSlice(t *testing.T) {
	results := []projection.Projection{{Name: "only"}}

	result := FindProjection(results, "only")
	result.Name = "renamed"

	if results[0].Name != "renamed" {
		t.Errorf("expected pointer into results slice")
	}
	if FindProjection(nil, "only") != nil {
		t.Errorf("expected nil for nil slice")
	}
}

func TestWithinDelta(t *testing.T) {
	tests := []struct {
		got, want, delta float64
		expected         bool
	}{
		{1.0, 1.0, 0, true},
		{1.0, 1.05, 0.1, true},
		{1.05, 1.0, 0.1, true},
		{1.0, 2.0, 0.5, false},
	}

	for _, tt := range tests {
		if got := WithinDelta(tt.got, tt.want, tt.delta); got != tt.expected {
			t.Errorf("WithinDelta(%v, %v, %v) = %v, expected %v", tt.got, tt.want, tt.delta, got, tt.expected)
		}
	}
}
