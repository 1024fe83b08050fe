package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []Entry
	}{
		{
			name:   "empty script yields placeholder",
			script: "",
			want:   []Entry{PlaceholderEntry},
		},
		{
			name:   "unrecognized script yields placeholder",
			script: "import cadquery as cq\nresult = cq.Workplane(\"XY\")",
			want:   []Entry{PlaceholderEntry},
		},
		{
			name:   "single box",
			script: `result = cq.Workplane("XY").box(30, 20, 10)`,
			want:   []Entry{{Name: "Box", Details: "30x20x10"}},
		},
		{
			name:   "decimal and negative arguments",
			script: `result = cq.Workplane("XY").box(10.5, 20, 3).extrude(-5)`,
			want: []Entry{
				{Name: "Box", Details: "10.5x20x3"},
				{Name: "Extrude", Details: "h=-5"},
			},
		},
		{
			name:   "box with hole and fillet in catalogue order",
			script: `result = cq.Workplane("XY").box(10, 10, 10).faces(">Z").hole(5).edges().fillet(2)`,
			want: []Entry{
				{Name: "Box", Details: "10x10x10"},
				{Name: "Through Hole", Details: "d=5"},
				{Name: "Fillet", Details: "r=2"},
			},
		},
		{
			name:   "repeated operation keeps occurrence order",
			script: ".box(1, 1, 1)\n.box(2, 2, 2)\n.fillet(3)",
			want: []Entry{
				{Name: "Box", Details: "1x1x1"},
				{Name: "Box", Details: "2x2x2"},
				{Name: "Fillet", Details: "r=3"},
			},
		},
		{
			name:   "booleans without numeric details",
			script: `result = a.cut(b).union(c)`,
			want: []Entry{
				{Name: "Cut", Details: "boolean subtraction"},
				{Name: "Union", Details: "boolean union"},
			},
		},
		{
			name:   "counterbore hole",
			script: `.cboreHole(5, 10, 3)`,
			want:   []Entry{{Name: "Counterbore Hole", Details: "d=5, cbore=10x3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.script))
		})
	}
}

func TestSummarizeNeverEmpty(t *testing.T) {
	// The display layer relies on always receiving at least one entry.
	for _, script := range []string{"", "   ", "x = 1", "# comment only"} {
		assert.NotEmpty(t, Summarize(script))
	}
}

func TestSummarizeCatalogueOrderBeforeOccurrenceOrder(t *testing.T) {
	// Fillet appears before Box in the text, but Box sorts first.
	got := Summarize(".fillet(2)\n.box(1, 2, 3)")
	assert.Equal(t, []Entry{
		{Name: "Box", Details: "1x2x3"},
		{Name: "Fillet", Details: "r=2"},
	}, got)
}
