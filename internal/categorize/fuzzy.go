package categorize

// lcsRatio scores how similar two keys are: twice the longest common
// substring length over the combined length. 1.0 means identical, 0 means
// nothing shared.
func lcsRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lcs := longestCommonSubstring(a, b)
	return float64(2*lcs) / float64(len(a)+len(b))
}

// longestCommonSubstring returns the length of the longest contiguous run
// shared by a and b.
func longestCommonSubstring(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	return best
}
