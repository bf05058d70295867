package fairness

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

func (p Probability) String() string {
	if p.Bound {
		return fmt.Sprintf("p<%5.4f", p.P)
	}
	return fmt.Sprintf("p=%5.4f", p.P)
}

// Label names the interval test after its confidence level.
func (r ConfidenceResult) Label() string {
	if r.Z == DefaultZ {
		return "ConfInt99"
	}
	return fmt.Sprintf("ConfInt(z=%g)", r.Z)
}

func (r ConfidenceResult) String() string {
	anomalies := r.Anomalies()
	if len(anomalies) == 0 {
		return "OK"
	}
	parts := make([]string, len(anomalies))
	for i, a := range anomalies {
		sign := "+"
		if a.Flag == Below {
			sign = "-"
		}
		parts[i] = fmt.Sprintf("%d%s", a.Face, sign)
	}
	return strings.Join(parts, " ")
}

// WriteTo prints one line per test.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "ECDF: %s\n", r.ECDF)
	fmt.Fprintf(&b, "ChiSq: p=%5.4f\n", r.ChiSquared.P)
	fmt.Fprintf(&b, "%s: %s\n", r.Confidence.Label(), r.Confidence)
	return b.WriteTo(w)
}

// WriteDetails prints the statistics behind each p-value.
func (r Report) WriteDetails(w io.Writer) error {
	s, err := r.Table.Summary()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w,
		"sides=%d n=%d\n"+
			"deviation=%d trials=%d null mean=%.2f sd=%.2f p95=%.0f p99=%.0f\n"+
			"chisq=%.4f df=%d\n",
		r.Sides, r.SampleSize,
		r.Deviation, r.Table.Len(), s.Mean, s.StdDev, s.P95, s.P99,
		r.ChiSquared.Statistic, r.ChiSquared.DegreesOfFreedom)
	return err
}
