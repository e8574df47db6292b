package airquality

// Distribute bins the overall index of every bucket into severity
// categories. All labels appear in canonical band order, zero-filled;
// buckets with an undefined overall index are left out of every count.
func Distribute(buckets []Bucket) []CategoryCount {
	counts := make(map[string]int, len(categoryBands))
	for _, b := range buckets {
		if b.OverallIndex == nil {
			continue
		}
		label := CategoryFor(b.OverallIndex)
		if label == CategoryUndefined {
			continue
		}
		counts[label]++
	}

	out := make([]CategoryCount, 0, len(categoryBands))
	for _, band := range categoryBands {
		out = append(out, CategoryCount{Label: band.Label, Count: counts[band.Label]})
	}
	return out
}
