package airquality

// CategoryUndefined is the placeholder label returned when an index is
// missing or falls outside every band. It is a regular value, not an
// error.
const CategoryUndefined = "—"

// CategoryBand maps one contiguous index range to a severity label.
type CategoryBand struct {
	IndexLow  float64
	IndexHigh float64
	Label     string
}

// categoryBands covers 0-500 with integer boundaries, ordered by
// severity. Fractional indices between two bands (e.g. 50.5) match no
// band and classify as CategoryUndefined.
var categoryBands = []CategoryBand{
	{0, 50, "Good"},
	{51, 100, "Moderate"},
	{101, 150, "Unhealthy for Sensitive Groups"},
	{151, 200, "Unhealthy"},
	{201, 300, "Very Unhealthy"},
	{301, 500, "Hazardous"},
}

// CategoryLabels returns the band labels in canonical order.
func CategoryLabels() []string {
	labels := make([]string, 0, len(categoryBands))
	for _, band := range categoryBands {
		labels = append(labels, band.Label)
	}
	return labels
}

// CategoryFor classifies an index into a severity label. A nil index
// or one outside every band yields CategoryUndefined.
func CategoryFor(index *float64) string {
	if index == nil {
		return CategoryUndefined
	}
	for _, band := range categoryBands {
		if band.IndexLow <= *index && *index <= band.IndexHigh {
			return band.Label
		}
	}
	return CategoryUndefined
}
