// Package dfs: closed-loop detection on undirected core.Graphs.
// DetectCycles walks every component with three-color DFS. A neighbor that is
// Gray and is not the DFS parent closes a back edge; the path segment from that
// neighbor to the current vertex is the loop. Simple graphs never yield
// segments shorter than 3, so every recorded loop has length ≥ 3.
//
// Every loop costs O(L) to locate and canonicalize. A dense graph has
// E − V + C back edges, so callers that only need counts should either skip
// DetectCycles or bound it with WithMaxLoops.
//
// Complexity:
//
//   - Time:   O(V + E·log d + R·L) for R recorded loops
//   - Memory: O(V + R·L)
package dfs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/crtfuse/core"
)

// DetectCycles reports the closed loops of g.
// Returns (true, loops, nil) if any loop is found, (false, nil, nil) otherwise.
// Each loop is closed ([v0, …, v0]) and canonical; loops are sorted by signature.
// With WithMaxLoops(n) at most n loops are returned: the first n distinct
// loops in walk order, then sorted.
func DetectCycles(g *core.Graph, opts ...Option) (bool, [][]string, error) {
	if g == nil {
		return false, nil, ErrGraphNil
	}
	o := applyOptions(opts)

	verts := g.Vertices()
	w := &cycleWalker{
		g:     g,
		opts:  &o,
		state: make(map[string]int, len(verts)),
		path:  make([]string, 0, len(verts)),
		seen:  make(map[string]struct{}),
	}
	for _, v := range verts {
		if w.state[v] == White {
			if err := w.visit(v, ""); err != nil {
				return false, nil, fmt.Errorf("dfs: DetectCycles: %w", err)
			}
		}
	}
	if len(w.cycles) == 0 {
		return false, nil, nil
	}

	order := make([]int, len(w.cycles))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return strings.Compare(w.sigs[a], w.sigs[b]) })
	out := make([][]string, len(order))
	for k, i := range order {
		out[k] = w.cycles[i]
	}

	return true, out, nil
}

type cycleWalker struct {
	g      *core.Graph
	opts   *Options
	state  map[string]int
	path   []string
	seen   map[string]struct{}
	cycles [][]string
	sigs   []string // sigs[i] is the signature of cycles[i]
}

// visit performs recursive DFS from id, skipping the tree edge back to parent.
func (w *cycleWalker) visit(id, parent string) error {
	if err := w.opts.visit(id); err != nil {
		return err
	}
	w.state[id] = Gray
	w.path = append(w.path, id)

	nbrs, err := w.g.NeighborIDs(id)
	if err != nil {
		return fmt.Errorf("NeighborIDs(%q): %w", id, err)
	}
	for _, nbr := range nbrs {
		if nbr == parent {
			continue
		}
		switch w.state[nbr] {
		case White:
			if err = w.visit(nbr, id); err != nil {
				return err
			}
		case Gray:
			w.record(nbr)
		}
	}

	w.path = w.path[:len(w.path)-1]
	w.state[id] = Black

	return nil
}

// record stores the loop path[idx(start):] if its canonical form is new.
func (w *cycleWalker) record(start string) {
	if w.opts.MaxLoops > 0 && len(w.cycles) >= w.opts.MaxLoops {
		return
	}
	idx := slices.Index(w.path, start)
	if idx < 0 || len(w.path)-idx < 3 {
		return
	}
	sig, closed := canonical(w.path[idx:])
	if _, dup := w.seen[sig]; dup {
		return
	}
	w.seen[sig] = struct{}{}
	w.cycles = append(w.cycles, closed)
	w.sigs = append(w.sigs, sig)
}
