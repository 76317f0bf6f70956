// Package ordering holds the fractional ordering key used for columns on a
// board and cards in a column. Only relative order carries meaning.
package ordering

import "math"

// DefaultEpsilon is the smallest adjacent gap tolerated before a scope has
// to be respread.
const DefaultEpsilon = 1e-5

// Position is an ordering key scoped to one container.
type Position float64

// First is the key given to the first item of an empty scope.
const First Position = 1.0

// Between returns a key for an item placed after prev and before next.
// A nil neighbour means the item goes to that end of the scope.
func Between(prev, next *Position) Position {
	switch {
	case prev == nil && next == nil:
		return First
	case prev == nil:
		return *next / 2
	case next == nil:
		return *prev + 1
	default:
		return (*prev + *next) / 2
	}
}

// Append returns the key for an item added after the current maximum.
func Append(last *Position) Position {
	if last == nil {
		return First
	}
	return *last + 1
}

// Valid reports whether p can be stored as an ordering key.
func (p Position) Valid() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float64 returns p as a plain float.
func (p Position) Float64() float64 {
	return float64(p)
}

// Ptr returns a pointer to p, handy for Between arguments.
func (p Position) Ptr() *Position {
	return &p
}

// Crowded reports whether any adjacent pair of sorted keys is closer than
// epsilon. Fewer than two keys are never crowded.
func Crowded(sorted []Position, epsilon float64) bool {
	for i := 1; i < len(sorted); i++ {
		if float64(sorted[i]-sorted[i-1]) < epsilon {
			return true
		}
	}
	return false
}

// Spread returns n evenly spaced keys 1.0, 2.0, ... n.0.
func Spread(n int) []Position {
	out := make([]Position, n)
	for i := range out {
		out[i] = Position(i + 1)
	}
	return out
}
