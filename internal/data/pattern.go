package data

import (
	"fmt"
	"os"

	"github.com/flappyball/core/internal/body"
	"gopkg.in/yaml.v3"
)

// Pattern is one spawn event's worth of obstacles.
type Pattern struct {
	Name     string      `yaml:"name"`
	Sides    []body.Side `yaml:"sides"`
	MinScore int         `yaml:"min_score"`
}

type patternFile struct {
	Patterns []Pattern `yaml:"patterns"`
	Sequence []string  `yaml:"sequence"`
}

// PatternTable holds the named spawn patterns and the default rotation.
type PatternTable struct {
	patterns map[string]*Pattern
	names    []string
	sequence []*Pattern
}

// LoadPatternTable loads obstacle_patterns.yaml.
func LoadPatternTable(path string) (*PatternTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read obstacle patterns: %w", err)
	}
	return ParsePatternTable(raw)
}

func ParsePatternTable(raw []byte) (*PatternTable, error) {
	var f patternFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse obstacle patterns: %w", err)
	}
	t := &PatternTable{
		patterns: make(map[string]*Pattern, len(f.Patterns)),
	}
	for i := range f.Patterns {
		p := &f.Patterns[i]
		if len(p.Sides) == 0 {
			return nil, fmt.Errorf("pattern %q: no sides", p.Name)
		}
		for _, s := range p.Sides {
			if !s.Valid() {
				return nil, fmt.Errorf("pattern %q: unknown side %q", p.Name, s)
			}
		}
		if _, dup := t.patterns[p.Name]; dup {
			return nil, fmt.Errorf("pattern %q defined twice", p.Name)
		}
		t.patterns[p.Name] = p
		t.names = append(t.names, p.Name)
	}
	for _, name := range f.Sequence {
		p, ok := t.patterns[name]
		if !ok {
			return nil, fmt.Errorf("sequence names unknown pattern %q", name)
		}
		t.sequence = append(t.sequence, p)
	}
	if len(t.sequence) == 0 {
		return nil, fmt.Errorf("obstacle patterns: empty sequence")
	}
	return t, nil
}

// Get returns the named pattern, or nil if none.
func (t *PatternTable) Get(name string) *Pattern {
	return t.patterns[name]
}

// Names lists pattern names in file order.
func (t *PatternTable) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *PatternTable) Count() int {
	return len(t.patterns)
}

// Sides walks the rotation from spawn event n, skipping patterns the score
// has not unlocked. With nothing unlocked it returns nil and the caller's
// default applies.
func (t *PatternTable) Sides(n, score int) []body.Side {
	for i := 0; i < len(t.sequence); i++ {
		p := t.sequence[(n+i)%len(t.sequence)]
		if score >= p.MinScore {
			return p.Sides
		}
	}
	return nil
}
