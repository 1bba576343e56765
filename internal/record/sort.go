package record

import "sync"

// DefaultSortThreshold is the smallest sub-slice length whose left half is
// sorted on a new goroutine. Shorter splits are sorted on the calling
// goroutine, which bounds goroutine creation to O(n/threshold).
const DefaultSortThreshold = 1024

// Sort orders records in place by Compare using DefaultSortThreshold.
func Sort(records []Record) {
	SortThreshold(records, DefaultSortThreshold)
}

// SortThreshold orders records in place by Compare with a parallel merge
// sort. A threshold <= 0 forks on every split.
//
// On ties (Compare == 0) the merge takes the left element first.
func SortThreshold(records []Record, threshold int) {
	n := len(records)
	if n < 2 {
		return
	}
	mid := n / 2
	left := make([]Record, mid)
	right := make([]Record, n-mid)
	copy(left, records[:mid])
	copy(right, records[mid:])

	if threshold <= 0 || n >= threshold {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			SortThreshold(left, threshold)
		}()
		SortThreshold(right, threshold)
		wg.Wait()
	} else {
		SortThreshold(left, threshold)
		SortThreshold(right, threshold)
	}

	merge(records, left, right)
}

// merge writes the ordered union of left and right into dst, which must
// have room for both.
func merge(dst, left, right []Record) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if Compare(left[i], right[j]) <= 0 {
			dst[k] = left[i]
			i++
		} else {
			dst[k] = right[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
}
