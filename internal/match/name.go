package match

import "github.com/agnivade/levenshtein"

// editSimilarity is the normalized edit-distance score over two already
// normalized strings: 1 - distance/len(longer), clamped to [0,1]. Two empty
// strings carry no signal and score 0.
func editSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	d := levenshtein.ComputeDistance(a, b)
	score := 1 - float64(d)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}
