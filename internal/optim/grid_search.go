// Package optim searches field parameters for the configuration that
// minimizes a run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrNoFeasiblePoint = errors.New("optim: every evaluation failed")

// Evaluate runs one parameter combination and returns the value to
// minimize.
type Evaluate func(ctx context.Context, params map[string]float64) (float64, error)

// Point is one evaluated parameter combination. Err is set when the
// evaluation failed; Value is then meaningless.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// NewGridSearch pairs each parameter name with its candidate values.
func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters with %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of points on the grid.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every grid point in order. Failed evaluations are
// kept in the returned points but never chosen as best. Cancellation
// stops the search and returns the context error.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate) (Point, []Point, error) {
	points := make([]Point, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, eval, &points); err != nil {
		return Point{}, points, err
	}

	best := Point{Value: math.Inf(1)}
	found := false
	for _, p := range points {
		if p.Err == nil && p.Value < best.Value {
			best, found = p, true
		}
	}
	if !found {
		return Point{}, points, ErrNoFeasiblePoint
	}
	return best, points, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval Evaluate, points *[]Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		val, err := eval(ctx, params)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil && (math.IsNaN(val) || math.IsInf(val, 0)) {
			err = fmt.Errorf("optim: non-finite value %v", val)
		}
		*points = append(*points, Point{Params: params, Value: val, Err: err})
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval, points); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	step := (hi - lo) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Ranked returns the successful points ordered from best to worst.
func Ranked(points []Point) []Point {
	ok := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Err == nil {
			ok = append(ok, p)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool { return ok[i].Value < ok[j].Value })
	return ok
}
