// Package scan drives a sampling pass over a video: it computes evenly
// spaced timestamps, seeks to each with a bounded wait, and captures a
// candidate frame per timestamp, tolerating individual capture failures.
package scan

// Steps is the number of sample points per scan.
const Steps = 12

// Plan divides duration into steps+1 equal intervals and returns the
// interior boundaries, duration*i/(steps+1) for i=1..steps. The exact
// start and end are skipped; they are often blank or transitional.
func Plan(duration float64, steps int) []float64 {
	timestamps := make([]float64, 0, steps)
	for i := 1; i <= steps; i++ {
		timestamps = append(timestamps, duration*float64(i)/float64(steps+1))
	}
	return timestamps
}
