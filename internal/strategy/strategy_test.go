package strategy

import (
	"testing"

	"github.com/Iron-Ham/triage/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"smart_balance", SmartBalance, false},
		{"FASTEST_WINS", FastestWins, false},
		{" high-impact ", HighImpact, false},
		{"deadline_driven", DeadlineDriven, false},
		{"", "", true},
		{"random", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("error should match ErrInvalidInput: %v", err)
			}
		})
	}
}

func TestDescriptions(t *testing.T) {
	for _, s := range All() {
		if s.Description() == "" {
			t.Errorf("%s has no description", s)
		}
	}
	if Strategy("bogus").Description() != "" {
		t.Error("unknown strategy should have no description")
	}
}

func TestNextWraps(t *testing.T) {
	s := SmartBalance
	seen := map[Strategy]bool{}
	for i := 0; i < len(All()); i++ {
		seen[s] = true
		s = s.Next()
	}
	if s != SmartBalance {
		t.Errorf("after a full cycle got %q, want %q", s, SmartBalance)
	}
	if len(seen) != len(All()) {
		t.Errorf("cycle visited %d strategies, want %d", len(seen), len(All()))
	}
	if Strategy("bogus").Next() != Default {
		t.Error("Next of an unknown strategy should return Default")
	}
}

func TestSelector(t *testing.T) {
	sel := NewSelector("nonsense")
	if sel.Current() != Default {
		t.Fatalf("Current() = %q, want default", sel.Current())
	}

	if err := sel.Set(HighImpact); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if sel.Current() != HighImpact {
		t.Errorf("Current() = %q, want high_impact", sel.Current())
	}

	if err := sel.Set("bogus"); err == nil {
		t.Error("Set(bogus) should fail")
	}
	if sel.Current() != HighImpact {
		t.Error("failed Set should not change the selection")
	}

	if got, err := sel.SetName("deadline-driven"); err != nil || got != DeadlineDriven {
		t.Errorf("SetName = %q, %v", got, err)
	}
	if got := sel.Cycle(); got != SmartBalance {
		t.Errorf("Cycle() = %q, want smart_balance", got)
	}
}
