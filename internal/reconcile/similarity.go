package reconcile

import "strings"

// NormalizeName reduces a device name to the join key used for exact
// matching between inventories: lowercase with spaces, hyphens, and
// underscores removed. "Kitchen Lamp", "kitchen-lamp", and "kitchen_lamp"
// all normalize to "kitchenlamp".
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '-', '_':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Levenshtein computes the classic edit distance between two strings over
// code points, with unit cost for insert, delete, and substitute.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	d := make([][]int, len(ra)+1)
	for i := range d {
		d[i] = make([]int, len(rb)+1)
		d[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		d[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d[i][j] = min(
				d[i-1][j]+1,      // delete
				d[i][j-1]+1,      // insert
				d[i-1][j-1]+cost, // substitute
			)
		}
	}

	return d[len(ra)][len(rb)]
}

// Similarity scores how alike two names are, in [0, 1]. Identical strings
// (case-folded) score 1.0; if either is empty the score is 0.0. Otherwise
// the score is 1 - distance/max(len(a), len(b)).
func Similarity(a, b string) float64 {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	if la == lb {
		if la == "" {
			return 0.0
		}
		return 1.0
	}
	if la == "" || lb == "" {
		return 0.0
	}

	longest := len([]rune(la))
	if lb2 := len([]rune(lb)); lb2 > longest {
		longest = lb2
	}

	return 1.0 - float64(Levenshtein(la, lb))/float64(longest)
}
