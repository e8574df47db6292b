package airquality

// Breakpoint maps one concentration segment to one index segment.
// Segments are contiguous and strictly increasing in both dimensions;
// adjacent segments share no concentration values (e.g. pm25 steps
// from 12.0 to 12.1).
type Breakpoint struct {
	ConcLow   float64
	ConcHigh  float64
	IndexLow  float64
	IndexHigh float64
}

// IndexCeiling is the fixed index assigned to any concentration above
// the highest breakpoint of its pollutant.
const IndexCeiling = 500.0

// breakpointTable holds the EPA-style breakpoints per pollutant,
// ordered by concentration.
var breakpointTable = map[Pollutant][]Breakpoint{
	PM25: {
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	},
	O3: {
		{0, 54, 0, 50},
		{55, 70, 51, 100},
		{71, 85, 101, 150},
		{86, 105, 151, 200},
		{106, 200, 201, 300},
	},
}

// Breakpoints returns the breakpoint segments for a pollutant, nil for
// unknown codes.
func Breakpoints(p Pollutant) []Breakpoint {
	return breakpointTable[p]
}
