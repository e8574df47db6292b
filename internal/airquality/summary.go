package airquality

// Summarize derives the four headline statistics from an aggregated
// bucket sequence. Buckets without a defined overall index never count
// toward averages, exceedance, or the worst bucket. The pollutant
// order is the tie-break order for the top driver.
func Summarize(buckets []Bucket, pollutants []Pollutant, threshold float64) SummaryResult {
	var result SummaryResult

	var sum float64
	var defined, exceeding int
	for _, b := range buckets {
		if b.OverallIndex == nil {
			continue
		}
		sum += *b.OverallIndex
		defined++
		if *b.OverallIndex >= threshold {
			exceeding++
		}
		if result.WorstBucket == nil || *b.OverallIndex > result.WorstBucket.Index {
			// Strict comparison keeps the earliest bucket on ties.
			result.WorstBucket = &WorstBucket{Timestamp: b.Timestamp, Index: *b.OverallIndex}
		}
	}
	if defined > 0 {
		result.AverageIndex = ptr(sum / float64(defined))
		result.ExceedanceRate = ptr(float64(exceeding) / float64(defined))
	}

	var bestMean float64
	for _, pm := range MeanIndexByPollutant(buckets, pollutants) {
		if pm.Mean == nil {
			continue
		}
		// Strict comparison keeps the first requested pollutant on ties.
		if result.TopDriver == nil || *pm.Mean > bestMean {
			p := pm.Pollutant
			result.TopDriver = &p
			bestMean = *pm.Mean
		}
	}

	return result
}

// MeanIndexByPollutant computes the contribution ranking: the mean
// per-pollutant index across all buckets, ignoring undefined entries.
// The result preserves the requested pollutant order; Mean is nil for
// pollutants with no defined index anywhere.
func MeanIndexByPollutant(buckets []Bucket, pollutants []Pollutant) []PollutantMean {
	out := make([]PollutantMean, 0, len(pollutants))
	for _, p := range pollutants {
		out = append(out, PollutantMean{
			Pollutant: p,
			Label:     p.Label(),
			Mean:      meanOf(buckets, p),
		})
	}
	return out
}

func meanOf(buckets []Bucket, p Pollutant) *float64 {
	var acc meanAcc
	for _, b := range buckets {
		if v := b.Index[p]; v != nil {
			acc.add(*v)
		}
	}
	if acc.count == 0 {
		return nil
	}
	return ptr(acc.mean())
}
