package planner

import (
	"math/rand/v2"

	"diet-planner/internal/recipe"
)

// Selector is the seeded source behind every random choice in a run.
// Equal seeds produce equal sequences.
type Selector struct {
	rng *rand.Rand
}

// NewSelector returns a Selector seeded with seed.
func NewSelector(seed uint64) *Selector {
	return &Selector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a value in [0, n). n must be positive.
func (s *Selector) IntN(n int) int {
	return s.rng.IntN(n)
}

// Shuffle returns a shuffled copy of recipes.
func (s *Selector) Shuffle(recipes []recipe.Recipe) []recipe.Recipe {
	out := make([]recipe.Recipe, len(recipes))
	copy(out, recipes)
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// UsedSet tracks recipe names already placed in a plan.
type UsedSet map[string]struct{}

// Add records name.
func (u UsedSet) Add(name string) {
	u[name] = struct{}{}
}

// Has reports whether name was recorded.
func (u UsedSet) Has(name string) bool {
	_, ok := u[name]
	return ok
}

// Merge adds every name in other.
func (u UsedSet) Merge(other UsedSet) {
	for name := range other {
		u[name] = struct{}{}
	}
}

func without(pool []recipe.Recipe, sets ...UsedSet) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(pool))
next:
	for _, r := range pool {
		for _, s := range sets {
			if s.Has(r.Name) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}
