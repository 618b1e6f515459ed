package autocorrect

// Distance returns the Damerau-Levenshtein distance between a and b,
// counting insertions, deletions, substitutions and transpositions of
// adjacent characters. A substring is never edited twice.
func Distance(a, b string) int {
	return boundedDistance([]rune(a), []rune(b), -1)
}

// boundedDistance computes the same distance but stops as soon as the
// result is known to be at least limit, returning limit in that case.
// A negative limit disables the early exit.
//
// The table is indexed from -1 on both axes; row and column -1 hold the
// cost of reaching the empty prefix and are seeded with i+j+2. Everything
// is shifted by one so index -1 lives at 0.
func boundedDistance(a, b []rune, limit int) int {
	rows, cols := len(a)+1, len(b)+1
	dist := make([][]int, rows)
	for i := range dist {
		dist[i] = make([]int, cols)
		for j := range dist[i] {
			dist[i][j] = i + j
		}
	}

	at := func(i, j int) int { return dist[i+1][j+1] }
	prevMin := -1
	for i := 0; i < len(a); i++ {
		rowMin := at(i, -1)
		for j := 0; j < len(b); j++ {
			insertCost := at(i, j-1) + 1
			deleteCost := at(i-1, j) + 1
			subCost := at(i-1, j-1)
			if a[i] != b[j] {
				subCost++
			}
			d := min(insertCost, deleteCost, subCost)

			if i > 0 && j > 0 && a[i-1] == b[j] && a[i] == b[j-1] {
				d = min(d, at(i-2, j-2)+1)
			}
			dist[i+1][j+1] = d
			rowMin = min(rowMin, d)
		}

		// every later cell is derived from this row, the previous row
		// or the same row, so once both are past the limit we are done
		if limit >= 0 && rowMin >= limit && prevMin >= limit {
			return limit
		}
		prevMin = rowMin
	}
	if limit >= 0 && dist[rows-1][cols-1] > limit {
		return limit
	}
	return dist[rows-1][cols-1]
}
