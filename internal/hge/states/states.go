// Package states holds the closed set of faction states that yield
// high grade manufactured materials and the materials each one yields.
package states

import (
	"fmt"
	"slices"
	"strings"

	"github.com/greeddj/go-hge/internal/hge/helpers"
)

// State is a recognized faction state or allegiance name, lower-cased.
type State string

const (
	Federation  State = "federation"
	Empire      State = "empire"
	Boom        State = "boom"
	CivilUnrest State = "civil unrest"
	War         State = "war"
	Outbreak    State = "outbreak"

	// civilWar is tallied as War.
	civilWar = "civil war"
)

// Recognized lists every state a Counts carries, in display order.
var Recognized = []State{Federation, Empire, Boom, CivilUnrest, War, Outbreak}

// Counts maps each recognized state to the number of faction occurrences.
type Counts map[State]int

// NewCounts returns zero counts for every recognized state.
func NewCounts() Counts {
	c := make(Counts, len(Recognized))
	for _, s := range Recognized {
		c[s] = 0
	}
	return c
}

// Tally counts recognized names among names, case-insensitively.
// "civil war" occurrences are added to War; other names are ignored.
func Tally(names []string) Counts {
	c := NewCounts()
	for _, name := range names {
		name = helpers.Normalize(name)
		if name == civilWar {
			c[War]++
			continue
		}
		if _, ok := c[State(name)]; ok {
			c[State(name)]++
		}
	}
	return c
}

// Normalize returns a copy holding exactly the recognized keys with
// non-negative values.
func (c Counts) Normalize() Counts {
	out := NewCounts()
	for _, s := range Recognized {
		out[s] = max(c[s], 0)
	}
	return out
}

// Active returns the states with a non-zero count in display order.
func (c Counts) Active() []State {
	var out []State
	for _, s := range Recognized {
		if c[s] > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Materials returns the materials yielded by the active states, in G5 order.
func (c Counts) Materials() []Material {
	var out []Material
	for _, m := range G5 {
		if c.Yields(m) {
			out = append(out, m)
		}
	}
	return out
}

// Yields reports whether any active state yields m.
func (c Counts) Yields(m Material) bool {
	for _, s := range c.Active() {
		if slices.Contains(yields[s], m) {
			return true
		}
	}
	return false
}

// Material is a grade 5 manufactured material family.
type Material string

const (
	Chemical             Material = "Chemical"
	Composite            Material = "Composite"
	Shielding            Material = "Shielding"
	Heat                 Material = "Heat"
	Alloys               Material = "Alloys"
	MechanicalComponents Material = "Mechanical components"
	Thermic              Material = "Thermic"
	Capacitors           Material = "Capacitors"
)

// G5 lists every material in display order.
var G5 = []Material{Chemical, Composite, Shielding, Heat, Alloys, MechanicalComponents, Thermic, Capacitors}

var yields = map[State][]Material{
	Federation:  {Composite},
	Empire:      {Shielding},
	Boom:        {Heat, Alloys},
	CivilUnrest: {MechanicalComponents},
	War:         {Thermic, Capacitors},
	Outbreak:    {Chemical},
}

// Yield returns the materials a state yields.
func Yield(s State) []Material {
	return slices.Clone(yields[s])
}

// MaterialByName resolves a material case-insensitively.
func MaterialByName(name string) (Material, error) {
	want := helpers.Normalize(name)
	for _, m := range G5 {
		if strings.ToLower(string(m)) == want {
			return m, nil
		}
	}
	names := make([]string, len(G5))
	for i, m := range G5 {
		names[i] = string(m)
	}
	return "", fmt.Errorf("%w %q, expected one of: %s", helpers.ErrUnknownMaterial, name, strings.Join(names, ", "))
}
