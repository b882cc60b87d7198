package explain

import (
	"reflect"
	"testing"
)

func TestJustify(t *testing.T) {
	tests := []struct {
		name        string
		explanation string
		importance  int
		want        []string
	}{
		{
			name:        "nothing matches",
			explanation: "Balanced scoring.",
			importance:  5,
			want:        []string{},
		},
		{
			name:        "overdue",
			explanation: "• Urgency: Task is overdue by 3 day(s).",
			importance:  5,
			want:        []string{ReasonUrgentDeadline},
		},
		{
			name:        "due today, any case",
			explanation: "Task is Due Today. Very high urgency score (1.5) applied",
			importance:  5,
			want:        []string{ReasonUrgentDeadline},
		},
		{
			name:        "due soon",
			explanation: "• Urgency: Task due in 2 day(s). High urgency score (1.2)",
			importance:  5,
			want:        []string{"due in 2 day(s)"},
		},
		{
			name:        "due in compact form",
			explanation: "Due in 1d",
			importance:  5,
			want:        []string{"due in 1 day(s)"},
		},
		{
			name:        "due later is not a reason",
			explanation: "Task due in 6 day(s).",
			importance:  5,
			want:        []string{},
		},
		{
			name:        "quick win",
			explanation: "• Effort: Estimated 1 hour(s) (quick win).",
			importance:  5,
			want:        []string{ReasonShortTask},
		},
		{
			name:        "low-effort",
			explanation: "A low-effort change.",
			importance:  5,
			want:        []string{ReasonShortTask},
		},
		{
			name:        "high importance from text",
			explanation: "Marked as high importance.",
			importance:  3,
			want:        []string{ReasonHighImportance},
		},
		{
			name:        "high importance from field",
			explanation: "",
			importance:  8,
			want:        []string{ReasonHighImportance},
		},
		{
			name:        "downstream count",
			explanation: "• Dependencies: 2 task(s) depend on completing this task",
			importance:  5,
			want:        []string{ReasonBlocksOthers},
		},
		{
			name:        "depend on this",
			explanation: "Several tasks depend on this one.",
			importance:  5,
			want:        []string{ReasonBlocksOthers},
		},
		{
			name:        "no dependents is not a reason",
			explanation: "• Dependencies: No other tasks depend on this task",
			importance:  5,
			want:        []string{},
		},
		{
			name:        "zero dependents is not a reason",
			explanation: "0 task(s) depend on completing this task",
			importance:  5,
			want:        []string{},
		},
		{
			name:        "reasons keep rule order",
			explanation: "2 task(s) depend on completing this task\n(quick win)\nTask due in 1 day(s)\nTask is overdue",
			importance:  9,
			want: []string{
				ReasonUrgentDeadline,
				"due in 1 day(s)",
				ReasonShortTask,
				ReasonHighImportance,
				ReasonBlocksOthers,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := scored(tt.explanation)
			st.Importance = tt.importance

			got := Justify(st)
			if !reflect.DeepEqual(got.Reasons, tt.want) {
				t.Errorf("Reasons = %v, want %v", got.Reasons, tt.want)
			}
			if got.Text != JustificationText(tt.want) {
				t.Errorf("Text = %q, want %q", got.Text, JustificationText(tt.want))
			}
		})
	}
}

func TestJustificationText(t *testing.T) {
	tests := []struct {
		reasons []string
		want    string
	}{
		{nil, "Recommended based on balanced factors."},
		{[]string{"short task"}, "Recommended based on balanced factors. Priority due to: short task."},
		{
			[]string{"urgent deadline", "high importance"},
			"Recommended based on balanced factors. Priority due to: urgent deadline, high importance.",
		},
	}

	for _, tt := range tests {
		if got := JustificationText(tt.reasons); got != tt.want {
			t.Errorf("JustificationText(%v) = %q, want %q", tt.reasons, got, tt.want)
		}
	}
}
