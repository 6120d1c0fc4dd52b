// Package dfs provides the helpers used to canonicalize loops:
// signature joining and Booth's minimal-rotation algorithm.
package dfs

import (
	"slices"
	"strings"
)

// JoinSig concatenates the elements of c with commas, producing a single string signature.
// Time Complexity: O(n + total length of elements).
func JoinSig(c []string) string {
	return strings.Join(c, ",")
}

// MinimalRotation implements Booth's algorithm to find the lexicographically minimal rotation of s.
// It returns a new slice of length len(s); s is not modified.
// Algorithm overview:
//  1. Work on the doubled sequence s+s of length 2n.
//  2. Maintain failure links f initialized to -1.
//  3. Track candidate start k; for j in 1..2n-1 move k whenever a smaller
//     continuation is found.
//  4. The rotation starting at k is minimal.
//
// Time Complexity: O(n).
func MinimalRotation(s []string) []string {
	n := len(s)
	if n == 0 {
		return nil
	}
	doubled := slices.Concat(s, s)
	f := make([]int, 2*n)
	for i := range f {
		f[i] = -1
	}
	k := 0
	for j := 1; j < 2*n; j++ {
		i := f[j-k-1]
		for i != -1 && doubled[j] != doubled[k+i+1] {
			if doubled[j] < doubled[k+i+1] {
				k = j - i - 1
			}
			i = f[i]
		}
		if doubled[j] != doubled[k+i+1] { // here i == -1
			if doubled[j] < doubled[k] {
				k = j
			}
			f[j-k] = -1
		} else {
			f[j-k] = i + 1
		}
	}

	return slices.Clone(doubled[k : k+n])
}

// canonical returns the signature and closed form [v0, …, v0] of an open loop
// [v0, …, vL-1], choosing the smaller of the minimal forward rotation and the
// minimal rotation of the reversal so that both traversal directions agree.
func canonical(loop []string) (string, []string) {
	rotF := MinimalRotation(loop)
	rev := slices.Clone(loop)
	slices.Reverse(rev)
	rotB := MinimalRotation(rev)

	picked := rotF
	if slices.Compare(rotB, rotF) < 0 {
		picked = rotB
	}
	closed := append(picked, picked[0])

	return JoinSig(closed), closed
}
