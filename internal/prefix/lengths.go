// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "sort"

// GenerateLengths implements spec.md §4.1's gen_lengths: a length-limited
// Huffman construction using the package-merge algorithm. codes must be
// sorted by ascending Cnt (SortByCount) on entry; symbols with Cnt == 0
// receive Len == 0 and are excluded from the tree. On success, every
// remaining symbol is assigned a Len in [1, maxBits] and the resulting
// lengths satisfy the Kraft equality.
//
// codes is left in an implementation-defined order; callers must re-sort
// (typically via SortBySymbol) before calling GeneratePrefixes.
func GenerateLengths(codes PrefixCodes, maxBits uint) error {
	if maxBits == 0 || maxBits > MaxPrefixBits {
		return ErrLenRange
	}
	if len(codes) > 1<<15 {
		return ErrLenRange
	}

	// Partition out zero-frequency symbols; they get Len == 0.
	var active []int // indices into codes with Cnt > 0
	for i, c := range codes {
		codes[i].Len = 0
		if c.Cnt > 0 {
			active = append(active, i)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		codes[active[0]].Len = 1
		return nil
	}

	// Package-merge: build maxBits levels of "packages", each level
	// merging pairs of the previous level's packages with the original
	// leaves, sorted by weight and truncated to the smallest 2*(n-1)
	// entries.
	type item struct {
		weight uint64
		leaves []int // indices into active, i.e. original symbol indices
	}

	leaves := make([]item, len(active))
	for i, idx := range active {
		leaves[i] = item{weight: uint64(codes[idx].Cnt), leaves: []int{idx}}
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].weight < leaves[j].weight })

	// Each level's merged package list is truncated to its smallest
	// 2*(n-1) items before it feeds the next round's pairing; only the
	// final (maxBits-th) truncated level's leaf multiset determines the
	// code lengths. Counting from every round's untruncated list (as
	// opposed to just the last one) overcounts and pushes lengths past
	// maxBits.
	limit := 2 * (len(active) - 1)
	level := leaves // level 1 has len(active) items, already <= limit
	for b := uint(1); b < maxBits; b++ {
		// Merge: form packages by pairing adjacent items of this level,
		// then merge that package list with the original leaves, kept
		// sorted by weight.
		var packages []item
		for i := 0; i+1 < len(level); i += 2 {
			packages = append(packages, item{
				weight: level[i].weight + level[i+1].weight,
				leaves: append(append([]int{}, level[i].leaves...), level[i+1].leaves...),
			})
		}
		merged := make([]item, 0, len(packages)+len(leaves))
		pi, li := 0, 0
		for pi < len(packages) || li < len(leaves) {
			switch {
			case li >= len(leaves):
				merged = append(merged, packages[pi])
				pi++
			case pi >= len(packages):
				merged = append(merged, leaves[li])
				li++
			case packages[pi].weight <= leaves[li].weight:
				merged = append(merged, packages[pi])
				pi++
			default:
				merged = append(merged, leaves[li])
				li++
			}
		}
		if len(merged) > limit {
			merged = merged[:limit]
		}
		level = merged
	}
	if len(level) > limit {
		level = level[:limit]
	}

	counts := make([]int, len(active)) // how many times each leaf appears in the final truncated level
	for _, it := range level {
		for _, idx := range it.leaves {
			counts[indexOf(active, idx)]++
		}
	}

	for i, idx := range active {
		n := counts[i]
		if n == 0 {
			n = 1 // Defensive floor; a correct package-merge never leaves a symbol uncounted.
		}
		codes[idx].Len = uint32(n)
	}

	// Verify Kraft equality; package-merge guarantees this for a valid
	// input, but a caller-supplied maxBits that is too small to represent
	// len(active) symbols cannot be satisfied.
	var sum uint64
	for _, idx := range active {
		sum += uint64(1) << (maxBits - uint(codes[idx].Len))
	}
	if sum != uint64(1)<<maxBits {
		return ErrLenRange
	}
	return nil
}

func indexOf(active []int, idx int) int {
	// active is sorted ascending by construction (built from a single
	// ascending scan over codes), so this is a binary search.
	lo, hi := 0, len(active)
	for lo < hi {
		mid := (lo + hi) / 2
		if active[mid] < idx {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
