package genderlens

import (
	"math"
	"testing"
)

func TestWelchTTest(t *testing.T) {
	a := []float64{3, 4, 8, 6, 2}
	b := []float64{14, 8, 17, 9, 16}

	tstat, p, err := WelchTTest(a, b)
	if err != nil {
		t.Fatalf("WelchTTest failed: %v", err)
	}
	if tstat >= 0 {
		t.Errorf("t = %v, want negative when the first mean is smaller", tstat)
	}
	if p <= 0.001 || p >= 0.05 {
		t.Errorf("p = %v, want roughly 0.007", p)
	}

	same := []float64{1, 2, 3, 4, 5}
	tstat, p, err = WelchTTest(same, same)
	if err != nil {
		t.Fatalf("WelchTTest failed: %v", err)
	}
	if tstat != 0 {
		t.Errorf("t = %v comparing a sample with itself, want 0", tstat)
	}
	if math.Abs(p-1) > 1e-9 {
		t.Errorf("p = %v comparing a sample with itself, want 1", p)
	}
}

func TestIndependentTTest(t *testing.T) {
	tests := []struct {
		a, b  []float64
		alpha float64
		want  bool
		desc  string
	}{
		{[]float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4, 5}, 0, false, "identical samples"},
		{[]float64{3, 4, 8, 6, 2}, []float64{14, 8, 17, 9, 16}, 0, true, "clearly shifted means"},
		{[]float64{3, 4, 8, 6, 2}, []float64{14, 8, 17, 9, 16}, 0.0001, false, "strict alpha"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := IndependentTTest(tt.a, tt.b, tt.alpha)
			if err != nil {
				t.Fatalf("IndependentTTest failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("IndependentTTest = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTTestErrors(t *testing.T) {
	if _, _, err := WelchTTest([]float64{1}, []float64{1, 2}); !errorsIsDegenerate(err) {
		t.Errorf("single observation: got %v, want a degenerate-input error", err)
	}
	if _, _, err := WelchTTest([]float64{2, 2, 2}, []float64{3, 3, 3}); !errorsIsDegenerate(err) {
		t.Errorf("zero variance: got %v, want a degenerate-input error", err)
	}
}

func TestPearsonSignificant(t *testing.T) {
	perfect := []float64{1, 2, 3, 4, 5}
	got, err := PearsonSignificant(perfect, perfect, 0)
	if err != nil {
		t.Fatalf("PearsonSignificant failed: %v", err)
	}
	if !got {
		t.Error("a perfect correlation was not significant")
	}

	got, err = PearsonSignificant([]float64{3, 4, 8, 6, 2}, []float64{14, 8, 17, 9, 16}, 0)
	if err != nil {
		t.Fatalf("PearsonSignificant failed: %v", err)
	}
	if got {
		t.Error("a near-zero correlation tested significant")
	}

	if _, err := PearsonSignificant([]float64{1, 2}, []float64{1, 2, 3}, 0); !errorsIsConfiguration(err) {
		t.Errorf("length mismatch: got %v, want a configuration error", err)
	}
	if _, err := PearsonSignificant([]float64{1, 2}, []float64{1, 2}, 0); !errorsIsDegenerate(err) {
		t.Errorf("two pairs: got %v, want a degenerate-input error", err)
	}
	if _, err := PearsonSignificant([]float64{2, 2, 2}, []float64{1, 2, 3}, 0); !errorsIsDegenerate(err) {
		t.Errorf("flat sample: got %v, want a degenerate-input error", err)
	}
}

func TestRegressionSignificant(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	got, err := RegressionSignificant(x, x, 0)
	if err != nil {
		t.Fatalf("RegressionSignificant failed: %v", err)
	}
	if !got {
		t.Error("a perfect linear fit was not significant")
	}

	got, err = RegressionSignificant([]float64{3, 4, 8, 6, 2}, []float64{14, 8, 17, 9, 16}, 0)
	if err != nil {
		t.Fatalf("RegressionSignificant failed: %v", err)
	}
	if got {
		t.Error("an uncorrelated pair fit a significant slope")
	}

	// flat but exact: slope zero fits perfectly and is no trend
	got, err = RegressionSignificant(x, []float64{7, 7, 7, 7, 7}, 0)
	if err != nil {
		t.Fatalf("RegressionSignificant failed: %v", err)
	}
	if got {
		t.Error("a constant response tested significant")
	}

	if _, err := RegressionSignificant([]float64{2, 2, 2}, []float64{1, 2, 3}, 0); !errorsIsDegenerate(err) {
		t.Errorf("constant x: got %v, want a degenerate-input error", err)
	}
}

func TestSummarizeDistances(t *testing.T) {
	tests := []struct {
		dists []int
		want  DistanceStats
		desc  string
	}{
		{[]int{4, 2}, DistanceStats{Median: 3, Mean: 3, Min: 2, Max: 4, Count: 2}, "even count interpolates the median"},
		{[]int{5, 1, 3}, DistanceStats{Median: 3, Mean: 3, Min: 1, Max: 5, Count: 3}, "odd count takes the middle"},
		{[]int{7}, DistanceStats{Median: 7, Mean: 7, Min: 7, Max: 7, Count: 1}, "single distance"},
		{nil, DistanceStats{}, "no distances"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := summarizeDistances(tt.dists); got != tt.want {
				t.Errorf("summarizeDistances = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDistanceAnalysis(t *testing.T) {
	c := NewCorpus("c", tokenDoc(t, "novel", 0, "", "her", "a", "b", "c", "her", "d", "her"))

	stats, err := DistanceAnalysis(c, nil)
	if err != nil {
		t.Fatalf("DistanceAnalysis failed: %v", err)
	}

	female := stats["novel"]["Female"]
	want := DistanceStats{Median: 3, Mean: 3, Min: 2, Max: 4, Count: 2}
	if female != want {
		t.Errorf("Female stats = %+v, want %+v", female, want)
	}

	male := stats["novel"]["Male"]
	if male.Count != 0 || male != (DistanceStats{}) {
		t.Errorf("Male stats = %+v, want the zero value for no occurrences", male)
	}

	if _, err := DistanceAnalysis(nil, nil); !errorsIsConfiguration(err) {
		t.Errorf("nil corpus: got %v, want a configuration error", err)
	}
}
