package cadscript

import (
	"errors"
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain code untouched",
			raw:  "import cadquery as cq\nresult = cq.Workplane(\"XY\").box(10, 10, 10)",
			want: "import cadquery as cq\nresult = cq.Workplane(\"XY\").box(10, 10, 10)",
		},
		{
			name: "strips python fence",
			raw:  "```python\nimport cadquery as cq\nresult = cq.Workplane(\"XY\").box(1, 2, 3)\n```",
			want: "import cadquery as cq\nresult = cq.Workplane(\"XY\").box(1, 2, 3)",
		},
		{
			name: "strips bare fence",
			raw:  "```\nresult = cq.Workplane(\"XY\").box(1, 1, 1)\n```",
			want: "result = cq.Workplane(\"XY\").box(1, 1, 1)",
		},
		{
			name: "drops chatter lead-in",
			raw:  "Here is the code you asked for:\nimport cadquery as cq\nresult = cq.Workplane(\"XY\").box(5, 5, 5)",
			want: "import cadquery as cq\nresult = cq.Workplane(\"XY\").box(5, 5, 5)",
		},
		{
			name: "drops multiple chatter lines",
			raw:  "Sure! Happy to help.\nBelow is the script:\nresult = cq.Workplane(\"XY\").box(2, 2, 2)\nThis code creates a cube.",
			want: "result = cq.Workplane(\"XY\").box(2, 2, 2)",
		},
		{
			name: "trims surrounding whitespace",
			raw:  "\n\n  result = cq.Workplane(\"XY\").box(4, 4, 4)\n\n",
			want: "result = cq.Workplane(\"XY\").box(4, 4, 4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.raw)
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckSafe(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		unsafe bool
	}{
		{"clean script", "import cadquery as cq\nresult = cq.Workplane(\"XY\").box(1, 1, 1)", false},
		{"os import", "import os\nos.remove('/etc/passwd')", true},
		{"subprocess", "import subprocess", true},
		{"eval", "eval('1+1')", true},
		{"open", "open('secrets.txt')", true},
		{"dunder import", "__import__('os')", true},
		{"requests", "requests.get('http://example.com')", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSafe(tt.code)
			if tt.unsafe && !errors.Is(err, ErrUnsafeScript) {
				t.Errorf("CheckSafe() = %v, want ErrUnsafeScript", err)
			}
			if !tt.unsafe && err != nil {
				t.Errorf("CheckSafe() = %v, want nil", err)
			}
		})
	}
}

func TestAutoCorrect(t *testing.T) {
	t.Run("adds missing import", func(t *testing.T) {
		got := AutoCorrect("result = cq.Workplane(\"XY\").box(1, 1, 1)")
		if !strings.HasPrefix(got, "import cadquery as cq\n") {
			t.Errorf("AutoCorrect() did not prepend import: %q", got)
		}
	})

	t.Run("keeps existing import", func(t *testing.T) {
		code := "import cadquery as cq\nresult = cq.Workplane(\"XY\").box(1, 1, 1)"
		got := AutoCorrect(code)
		if got != code {
			t.Errorf("AutoCorrect() changed already-correct code: %q", got)
		}
		if strings.Count(got, "import cadquery") != 1 {
			t.Errorf("AutoCorrect() duplicated import: %q", got)
		}
	})
}
