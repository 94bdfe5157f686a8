package resolve

// Score returns the similarity of two company names in [0, 1]. Both names
// are normalized first; if either has no identity the score is 0 so blank
// names never match each other. The result is symmetric and is 1 exactly
// when the normalized keys are equal.
func Score(a, b string) float64 {
	return keyScore(Normalize(a), Normalize(b))
}

func keyScore(ka, kb string) float64 {
	if ka == "" || kb == "" {
		return 0
	}
	if ka == kb {
		return 1
	}
	// The block search below prefers the earliest match in its first
	// argument, so order the pair to keep Score symmetric.
	if ka > kb {
		ka, kb = kb, ka
	}
	return ratio([]rune(ka), []rune(kb))
}

// ratio is the Ratcliff/Obershelp similarity 2*M/T, where M is the number of
// runes in the matching blocks and T is the combined length.
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingRunes(a, b)) / float64(total)
}

type span struct {
	alo, ahi, blo, bhi int
}

// matchingRunes sums the sizes of the matching blocks found by repeatedly
// taking the longest common substring and recursing on both sides of it.
func matchingRunes(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, s)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside s. Ties
// resolve to the block starting earliest in a, then earliest in b.
func longestMatch(a []rune, b2j map[rune][]int, s span) (besti, bestj, bestk int) {
	besti, bestj = s.alo, s.blo
	j2len := map[int]int{}
	for i := s.alo; i < s.ahi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}
