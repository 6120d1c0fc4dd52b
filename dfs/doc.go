// Package dfs implements depth‑first connectivity and cycle analysis on an
// undirected core.Graph.
//
// What:
//
//   - Components: connected components via iterative DFS. Each component is
//     sorted; components are ordered by their smallest member.
//   - DetectCycles: closed loops of length ≥ 3 found as DFS back edges with
//     vertex coloring (White, Gray, Black). Every back edge closes exactly one
//     loop through the DFS tree, so the result is a cycle basis whose size is
//     the cyclomatic number E − V + C. Loops are canonicalized with Booth's
//     minimal rotation (or its reversal) and sorted by signature.
//
// Complexity:
//
//   - Components:   Time O(V+E), Memory O(V)
//   - DetectCycles: Time O(V+E + C·L), Memory O(V + L_max)
//     (C=#loops, L=avg loop length)
//
// Errors:
//
//   - ErrGraphNil       graph pointer is nil
//   - context.Canceled  traversal canceled via WithContext
package dfs
