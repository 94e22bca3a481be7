package data

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/flappyball/core/internal/body"
)

const table = `
patterns:
  - name: low
    sides: [down]
  - name: high
    sides: [up]
  - name: gap
    sides: [up, down]
    min_score: 2
sequence: [low, gap, high]
`

func TestSidesRotatesAndUnlocks(t *testing.T) {
	tbl, err := ParsePatternTable([]byte(table))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		n, score int
		want     []body.Side
	}{
		{0, 0, []body.Side{body.Down}},
		{1, 0, []body.Side{body.Up}}, // gap locked, next in rotation
		{1, 2, []body.Side{body.Up, body.Down}},
		{2, 0, []body.Side{body.Up}},
		{3, 0, []body.Side{body.Down}},
		{4, 5, []body.Side{body.Up, body.Down}},
	}
	for _, tt := range tests {
		got := tbl.Sides(tt.n, tt.score)
		if len(got) != len(tt.want) {
			t.Errorf("Sides(%d,%d) = %v, want %v", tt.n, tt.score, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Sides(%d,%d) = %v, want %v", tt.n, tt.score, got, tt.want)
			}
		}
	}
}

func TestSidesAllLocked(t *testing.T) {
	tbl, err := ParsePatternTable([]byte("patterns:\n  - name: gap\n    sides: [up, down]\n    min_score: 9\nsequence: [gap]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Sides(0, 0); got != nil {
		t.Errorf("Sides = %v, want nil", got)
	}
}

func TestParseRejects(t *testing.T) {
	bad := map[string]string{
		"unknown side":      "patterns:\n  - name: x\n    sides: [left]\nsequence: [x]\n",
		"no sides":          "patterns:\n  - name: x\nsequence: [x]\n",
		"unknown in seq":    "patterns:\n  - name: x\n    sides: [up]\nsequence: [y]\n",
		"empty sequence":    "patterns:\n  - name: x\n    sides: [up]\n",
		"duplicate pattern": "patterns:\n  - name: x\n    sides: [up]\n  - name: x\n    sides: [down]\nsequence: [x]\n",
		"not yaml":          "patterns: [",
	}
	for name, raw := range bad {
		if _, err := ParsePatternTable([]byte(raw)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadShippedTable(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "data", "yaml", "obstacle_patterns.yaml")
	tbl, err := LoadPatternTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Count() != 3 || tbl.Get("gap") == nil {
		t.Errorf("patterns = %v", tbl.Names())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := LoadPatternTable(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
