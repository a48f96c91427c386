package genderlens

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the significance level the hypothesis-test helpers
// fall back to when given a non-positive one.
const DefaultAlpha = 0.05

// WelchTTest compares the means of two samples without assuming equal
// variances, returning the t statistic and the two-sided p-value. The
// degrees of freedom follow the Welch-Satterthwaite approximation.
func WelchTTest(a, b []float64) (t, p float64, err error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, fmt.Errorf("%w: need at least two observations per sample", ErrDegenerateInput)
	}

	meanA, meanB := stat.Mean(a, nil), stat.Mean(b, nil)
	varA, varB := stat.Variance(a, nil), stat.Variance(b, nil)
	nA, nB := float64(len(a)), float64(len(b))

	seA, seB := varA/nA, varB/nB
	se := seA + seB
	if se == 0 {
		return 0, 0, fmt.Errorf("%w: zero variance in both samples", ErrDegenerateInput)
	}

	t = (meanA - meanB) / math.Sqrt(se)
	df := se * se / (seA*seA/(nA-1) + seB*seB/(nB-1))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return t, p, nil
}

// IndependentTTest reports whether the two samples' means differ
// significantly at the given level, by Welch's t-test. A non-positive
// alpha means DefaultAlpha.
func IndependentTTest(a, b []float64, alpha float64) (bool, error) {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	_, p, err := WelchTTest(a, b)
	if err != nil {
		return false, err
	}
	return p < alpha, nil
}

// pearson returns the correlation coefficient of two paired samples
// and the two-sided p-value of its difference from zero.
func pearson(a, b []float64) (r, p float64, err error) {
	if len(a) != len(b) {
		return 0, 0, fmt.Errorf("%w: paired samples of length %d and %d", ErrConfiguration, len(a), len(b))
	}
	if len(a) < 3 {
		return 0, 0, fmt.Errorf("%w: need at least three paired observations", ErrDegenerateInput)
	}

	r = stat.Correlation(a, b, nil)
	if math.IsNaN(r) {
		return 0, 0, fmt.Errorf("%w: zero variance in a sample", ErrDegenerateInput)
	}

	n := float64(len(a))
	if 1-r*r <= 0 {
		return r, 0, nil
	}
	t := r * math.Sqrt((n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
	p = 2 * dist.CDF(-math.Abs(t))
	return r, p, nil
}

// PearsonSignificant reports whether two paired samples correlate
// significantly at the given level. A non-positive alpha means
// DefaultAlpha.
func PearsonSignificant(a, b []float64, alpha float64) (bool, error) {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	_, p, err := pearson(a, b)
	if err != nil {
		return false, err
	}
	return p < alpha, nil
}

// RegressionSignificant fits y against x by least squares and reports
// whether the slope differs significantly from zero at the given
// level. A non-positive alpha means DefaultAlpha.
func RegressionSignificant(x, y []float64, alpha float64) (bool, error) {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	if len(x) != len(y) {
		return false, fmt.Errorf("%w: paired samples of length %d and %d", ErrConfiguration, len(x), len(y))
	}
	if len(x) < 3 {
		return false, fmt.Errorf("%w: need at least three paired observations", ErrDegenerateInput)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	meanX := stat.Mean(x, nil)
	var sse, sxx float64
	for i := range x {
		resid := y[i] - (intercept + slope*x[i])
		sse += resid * resid
		dx := x[i] - meanX
		sxx += dx * dx
	}
	if sxx == 0 {
		return false, fmt.Errorf("%w: zero variance in x", ErrDegenerateInput)
	}

	var p float64
	switch {
	case sse == 0 && slope == 0:
		p = 1
	case sse == 0:
		p = 0
	default:
		n := float64(len(x))
		se := math.Sqrt(sse / (n - 2) / sxx)
		t := slope / se
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
		p = 2 * dist.CDF(-math.Abs(t))
	}
	return p < alpha, nil
}

// DistanceStats summarizes the gaps between consecutive identifier
// occurrences. A document with fewer than two occurrences has no gaps
// and yields the zero value with Count 0.
type DistanceStats struct {
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

func summarizeDistances(dists []int) DistanceStats {
	if len(dists) == 0 {
		return DistanceStats{}
	}
	data := make([]float64, len(dists))
	for i, d := range dists {
		data[i] = float64(d)
	}
	sort.Float64s(data)

	mid := len(data) / 2
	median := data[mid]
	if len(data)%2 == 0 {
		median = (data[mid-1] + data[mid]) / 2
	}
	return DistanceStats{
		Median: median,
		Mean:   stat.Mean(data, nil),
		Min:    floats.Min(data),
		Max:    floats.Max(data),
		Count:  len(dists),
	}
}

// DistanceAnalysis measures, for every document and gender, how far
// apart the gender's identifiers occur: the distances between
// consecutive occurrences, summarized per document. Sparse mentions
// yield large distances. A nil or empty gender list falls back to
// BinaryGroup.
func DistanceAnalysis(c *Corpus, genders []Gender) (map[string]map[string]DistanceStats, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil corpus", ErrConfiguration)
	}
	if len(genders) == 0 {
		genders = BinaryGroup()
	}

	out := make(map[string]map[string]DistanceStats, c.Len())
	for _, doc := range c.Documents() {
		perGender := make(map[string]DistanceStats, len(genders))
		for _, g := range genders {
			perGender[g.Label()] = summarizeDistances(doc.InstanceDistances(g.Identifiers()...))
		}
		out[doc.Label()] = perGender
	}
	return out, nil
}
