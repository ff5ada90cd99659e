package planner

// Rung is one step of a relaxation ladder. Pool returns the candidates
// available once every earlier, stricter rung has come up empty.
type Rung[T any] struct {
	Name string
	Pool func() []T
}

// Climb tries each rung in order and returns the first non-empty pool along
// with the name of the rung that produced it. It reports false when every
// rung is exhausted.
func Climb[T any](rungs ...Rung[T]) ([]T, string, bool) {
	for _, r := range rungs {
		if pool := r.Pool(); len(pool) > 0 {
			return pool, r.Name, true
		}
	}
	return nil, "", false
}
