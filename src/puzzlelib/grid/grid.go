package grid

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownTier   = errors.New("unknown difficulty tier")
	ErrUnknownScheme = errors.New("unknown tier scheme")
)

// Tier is a named grid configuration. Pieces() is always Rows*Cols.
type Tier struct {
	Name       string  `yaml:"name"`
	Label      string  `yaml:"label,omitempty"`
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
	Multiplier float64 `yaml:"multiplier"`
}

func (t Tier) Pieces() int {
	return t.Rows * t.Cols
}

func (t Tier) String() string {
	if t.Label != "" {
		return t.Label
	}
	return fmt.Sprintf("%s (%d×%d)", t.Name, t.Rows, t.Cols)
}

// Contains reports whether pos addresses a cell of this grid.
func (t Tier) Contains(pos int) bool {
	return pos >= 0 && pos < t.Pieces()
}

// Table is an ordered, immutable set of tiers.
type Table struct {
	Scheme string `yaml:"scheme"`
	Tiers  []Tier `yaml:"tiers"`
}

func (tb Table) Lookup(name string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range tb.Tiers {
		if t.Name == key {
			return t, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: %q in scheme %q", ErrUnknownTier, name, tb.Scheme)
}

func (tb Table) Names() []string {
	out := make([]string, 0, len(tb.Tiers))
	for _, t := range tb.Tiers {
		out = append(out, t.Name)
	}
	return out
}

// Multiplier returns the score multiplier of name, 1.0 for unknown tiers.
func (tb Table) Multiplier(name string) float64 {
	t, err := tb.Lookup(name)
	if err != nil {
		return 1.0
	}
	return t.Multiplier
}

func (tb Table) Validate() error {
	if len(tb.Tiers) == 0 {
		return errors.New("tier table is empty")
	}
	seen := make(map[string]bool, len(tb.Tiers))
	for i, t := range tb.Tiers {
		if t.Name == "" {
			return fmt.Errorf("tier %d: missing name", i)
		}
		if t.Name != strings.ToLower(t.Name) {
			return fmt.Errorf("tier %q: name must be lower case", t.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("tier %q: duplicate name", t.Name)
		}
		seen[t.Name] = true
		if t.Rows < 1 || t.Cols < 1 {
			return fmt.Errorf("tier %q: rows and cols must be positive", t.Name)
		}
		if t.Multiplier <= 0 {
			return fmt.Errorf("tier %q: multiplier must be positive", t.Name)
		}
	}
	return nil
}

// Classic is the six-tier web scheme.
func Classic() Table {
	return Table{
		Scheme: "classic",
		Tiers: []Tier{
			{Name: "beginner", Label: "Beginner (2×2)", Rows: 2, Cols: 2, Multiplier: 0.5},
			{Name: "easy", Label: "Easy (3×3)", Rows: 3, Cols: 3, Multiplier: 1.0},
			{Name: "medium", Label: "Medium (4×4)", Rows: 4, Cols: 4, Multiplier: 1.5},
			{Name: "hard", Label: "Hard (5×5)", Rows: 5, Cols: 5, Multiplier: 2.0},
			{Name: "expert", Label: "Expert (6×6)", Rows: 6, Cols: 6, Multiplier: 2.5},
			{Name: "master", Label: "Master (7×7)", Rows: 7, Cols: 7, Multiplier: 3.0},
		},
	}
}

// Totem is the three-tier kiosk scheme.
func Totem() Table {
	return Table{
		Scheme: "totem",
		Tiers: []Tier{
			{Name: "easy", Label: "Easy (4×4)", Rows: 4, Cols: 4, Multiplier: 1.0},
			{Name: "medium", Label: "Medium (6×6)", Rows: 6, Cols: 6, Multiplier: 2.0},
			{Name: "hard", Label: "Hard (8×8)", Rows: 8, Cols: 8, Multiplier: 3.0},
		},
	}
}

func Scheme(name string) (Table, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return Classic(), nil
	case "totem":
		return Totem(), nil
	default:
	}
	return Table{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

func DecodeYAML(r io.Reader) (Table, error) {
	var tb Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tb); err != nil {
		return Table{}, fmt.Errorf("error decode tier table: %w", err)
	}
	for i := range tb.Tiers {
		tb.Tiers[i].Name = strings.ToLower(strings.TrimSpace(tb.Tiers[i].Name))
	}
	if tb.Scheme == "" {
		tb.Scheme = "custom"
	}
	if err := tb.Validate(); err != nil {
		return Table{}, err
	}
	return tb, nil
}

func LoadYAML(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return DecodeYAML(f)
}

func (tb Table) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tb); err != nil {
		return err
	}
	return enc.Close()
}

// Resolve picks the table for a deployment: an explicit YAML path wins over a scheme name.
func Resolve(path, scheme string) (Table, error) {
	if path != "" {
		return LoadYAML(path)
	}
	return Scheme(scheme)
}
