// Package optlog extracts structured improvement records from optimizer
// log files, reading incrementally as the file grows.
package optlog

// Record is one accepted improvement: the rolling generation metrics that
// were in effect when the improvement marker appeared, plus the parameter
// values dumped after it. Records are append-only once extracted.
type Record struct {
	Generation int                `json:"generation"`
	Fitness    *float64           `json:"fitness"`
	Mean       *float64           `json:"mean"`
	Variance   *float64           `json:"variance"`
	P95        *float64           `json:"p95,omitempty"`
	Max        *float64           `json:"max,omitempty"`
	Params     map[string]float64 `json:"params"`
}

// Rolling holds the most recently observed scalar metrics. Optional fields
// are nil until a generation line has reported them; older log formats never
// report p95/max at all.
type Rolling struct {
	Generation int
	Fitness    *float64
	Mean       *float64
	Variance   *float64
	P95        *float64
	Max        *float64
}

// snapshot returns a copy with the optional fields re-boxed so later
// generation lines cannot mutate values already attached to a record.
func (r Rolling) snapshot() Rolling {
	return Rolling{
		Generation: r.Generation,
		Fitness:    copyFloat(r.Fitness),
		Mean:       copyFloat(r.Mean),
		Variance:   copyFloat(r.Variance),
		P95:        copyFloat(r.P95),
		Max:        copyFloat(r.Max),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
