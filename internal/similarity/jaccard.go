// Package similarity computes set similarity between candidates, used by the
// collaborative recommender to find users with overlapping profiles.
package similarity

// Jaccard returns |A∩B| / |A∪B| for two sets. Two empty sets are considered
// identical (1.0); if exactly one set is empty the similarity is 0.0.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for item := range a {
		if b[item] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
