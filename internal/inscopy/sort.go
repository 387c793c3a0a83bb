package inscopy

import (
	"sort"

	"golang.org/x/exp/slices"
)

// SortByCode restores code order (the order the wire format's prefix
// alphabet numbers rows in).
func (t Table) SortByCode() {
	slices.SortFunc(t, func(a, b Row) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		default:
			return 0
		}
	})
}

// SortByLength orders rows by (ZeroDistanceTF, InsertFirst, CopyFirst),
// grouping rows that share an insert-length start together so Encode can
// binary search the group boundary and linear-scan within it.
func (t Table) SortByLength() {
	slices.SortFunc(t, func(a, b Row) int {
		switch {
		case a.ZeroDistanceTF != b.ZeroDistanceTF:
			if a.ZeroDistanceTF {
				return 1
			}
			return -1
		case a.InsertFirst < b.InsertFirst:
			return -1
		case a.InsertFirst > b.InsertFirst:
			return 1
		case a.CopyFirst < b.CopyFirst:
			return -1
		case a.CopyFirst > b.CopyFirst:
			return 1
		default:
			return 0
		}
	})
}

// groupBounds returns the [start, end) index range of the rows sharing
// zeroTF, via one binary search against the ZeroDistanceTF-major sort
// order SortByLength establishes.
func (t Table) groupBounds(zeroTF bool) (start, end int) {
	firstTrue := sort.Search(len(t), func(i int) bool { return t[i].ZeroDistanceTF })
	if !zeroTF {
		return 0, firstTrue
	}
	return firstTrue, len(t)
}

// Encode finds the row whose insert/copy ranges contain insertLen/copyLen
// and whose ZeroDistanceTF matches zeroTF, returning its index in a
// length-sorted Table or NotFound. Assumes t is already SortByLength'd.
//
// Two binary searches narrow the search to the rows sharing zeroTF and
// then to the InsertFirst insertion point within that group; the group is
// then scanned (bounded — at most 24 rows share an InsertFirst in the
// Brotli insert-copy preset; every DEFLATE row has InsertFirst 0) for a
// row whose copy range also contains copyLen.
func (t Table) Encode(insertLen, copyLen uint32, zeroTF bool) int {
	start, end := t.groupBounds(zeroTF)
	group := t[start:end]

	lo := sort.Search(len(group), func(i int) bool { return group[i].InsertFirst > insertLen })
	for i := lo - 1; i >= 0; i-- {
		iLo, iHi := group[i].InsertRange()
		if insertLen < iLo {
			continue
		}
		if insertLen > iHi {
			break
		}
		if group[i].Type == Insert {
			return start + i
		}
		cLo, cHi := group[i].CopyRange()
		if copyLen >= cLo && copyLen <= cHi {
			return start + i
		}
	}
	// Fall back to scanning the whole group, for a match that lies before
	// the point where the backward scan stopped.
	for i, row := range group {
		iLo, iHi := row.InsertRange()
		if insertLen < iLo || insertLen > iHi {
			continue
		}
		if row.Type == Insert {
			return start + i
		}
		cLo, cHi := row.CopyRange()
		if copyLen >= cLo && copyLen <= cHi {
			return start + i
		}
	}
	return NotFound
}
