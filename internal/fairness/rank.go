package fairness

import "slices"

// Rank brackets where a value falls in a ReferenceTable.
// When Found, Low and High span the whole run of entries equal to the value.
// Otherwise they are the neighbours on either side, or both the first
// (last) index when the value lies below (above) every entry.
type Rank struct {
	Low, High int
	Found     bool
}

// Locate ranks v in the table. The table must not be empty.
func (t ReferenceTable) Locate(v int) Rank {
	last := len(t.values) - 1
	switch {
	case v < t.values[0]:
		return Rank{Low: 0, High: 0}
	case v > t.values[last]:
		return Rank{Low: last, High: last}
	}

	i, found := slices.BinarySearch(t.values, v)
	if !found {
		// t.values[i-1] < v < t.values[i]; i > 0 since v >= t.values[0]
		return Rank{Low: i - 1, High: i}
	}
	// i is the leftmost match; extend right over the run of ties
	j := i
	for j < last && t.values[j+1] == v {
		j++
	}
	return Rank{Low: i, High: j, Found: true}
}

// Probability is a displayed p-value. Bound marks a value that is only an
// upper limit because the observation exceeded every simulated trial.
type Probability struct {
	P     float64
	Bound bool
}

// PValue is the one-sided upper-tail probability of a fair die producing
// a deviation at least as large as v, using the midpoint of v's rank.
func (t ReferenceTable) PValue(v int) Probability {
	r := t.Locate(v)
	n := float64(len(t.values))
	if !r.Found && v > t.values[r.Low] && r.Low == len(t.values)-1 {
		return Probability{P: 1 / n, Bound: true}
	}
	return Probability{P: 1 - float64(r.Low+r.High)/(2*n)}
}
