package dfs

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/crtfuse/core"
)

// Components returns the connected components of g.
// Each component is sorted lex asc; components are ordered by their first
// (smallest) member. Isolated vertices form singleton components.
//
// Errors: ErrGraphNil, ctx.Err() on cancellation, OnVisit hook errors.
// Complexity: O(V+E) plus sorting.
func Components(g *core.Graph, opts ...Option) ([][]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := applyOptions(opts)

	verts := g.Vertices()
	state := make(map[string]int, len(verts))
	var comps [][]string

	for _, root := range verts {
		if state[root] != White {
			continue
		}
		var comp []string
		stack := []string{root}
		state[root] = Gray
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if err := o.visit(id); err != nil {
				return nil, fmt.Errorf("dfs: Components: %w", err)
			}
			comp = append(comp, id)

			nbrs, err := g.NeighborIDs(id)
			if err != nil {
				return nil, fmt.Errorf("dfs: Components: %w", err)
			}
			for _, nbr := range nbrs {
				if state[nbr] == White {
					state[nbr] = Gray
					stack = append(stack, nbr)
				}
			}
			state[id] = Black
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}

	// verts is sorted and each root is the smallest unvisited vertex, so
	// comps is already ordered by first member.
	return comps, nil
}
