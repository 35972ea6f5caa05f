package grades

import (
	"math"
	"testing"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		mark  float64
		scale Scale
		want  Letter
	}{
		{"standard 90 is A+", 90, ScaleStandard, APlus},
		{"standard 89.99 is A", 89.99, ScaleStandard, A},
		{"standard 100 is A+", 100, ScaleStandard, APlus},
		{"standard 40 is D-", 40, ScaleStandard, DMinus},
		{"standard 39.99 is E+", 39.99, ScaleStandard, EPlus},
		{"standard 0.01 is G-", 0.01, ScaleStandard, GMinus},
		{"standard 0.005 is NM", 0.005, ScaleStandard, NM},
		{"standard 0 is NM", 0, ScaleStandard, NM},
		{"alt 85 is A-", 85, ScaleAltLinear, AMinus},
		{"alt 95 is A+", 95, ScaleAltLinear, APlus},
		{"alt 94.99 is A", 94.99, ScaleAltLinear, A},
		{"alt 0.015 is G-", 0.015, ScaleAltLinear, GMinus},
		{"alt 0.02 is G", 0.02, ScaleAltLinear, G},
		{"alt 40 is D-", 40, ScaleAltLinear, DMinus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.mark, tt.scale); got != tt.want {
				t.Errorf("Classify(%v, %s) = %s, want %s", tt.mark, tt.scale, got, tt.want)
			}
		})
	}
}

func TestClassifyOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		mark float64
		want Letter
	}{
		{"above 100 clamps to A+", 150, APlus},
		{"negative clamps to NM", -5, NM},
		{"NaN", math.NaN(), NM},
		{"+Inf", math.Inf(1), NM},
		{"-Inf", math.Inf(-1), NM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range Scales {
				if got := Classify(tt.mark, s); got != tt.want {
					t.Errorf("Classify(%v, %s) = %s, want %s", tt.mark, s, got, tt.want)
				}
			}
		})
	}
}

func TestClassifyUnknownScale(t *testing.T) {
	if got := Classify(75, Scale("pass_fail")); got != NM {
		t.Errorf("expected NM for unknown scale, got %s", got)
	}
}

func TestBandsCoverPercentAxis(t *testing.T) {
	for _, s := range Scales {
		t.Run(string(s), func(t *testing.T) {
			bands := Bands(s)
			if len(bands) != 22 {
				t.Fatalf("expected 22 bands, got %d", len(bands))
			}
			if bands[0].Upper <= 100 {
				t.Errorf("top band upper %v must exceed 100", bands[0].Upper)
			}
			if last := bands[len(bands)-1]; last.Lower != 0 || last.Letter != NM {
				t.Errorf("bottom band should be NM from 0, got %+v", last)
			}
			seen := map[Letter]bool{}
			for i, b := range bands {
				if b.Lower >= b.Upper {
					t.Errorf("band %s is empty: [%v, %v)", b.Letter, b.Lower, b.Upper)
				}
				if seen[b.Letter] {
					t.Errorf("letter %s appears twice", b.Letter)
				}
				seen[b.Letter] = true
				if i > 0 && bands[i-1].Lower != b.Upper {
					t.Errorf("gap or overlap between %s and %s: %v != %v",
						bands[i-1].Letter, b.Letter, bands[i-1].Lower, b.Upper)
				}
			}
		})
	}
}

func TestBandsReturnsCopy(t *testing.T) {
	bands := Bands(ScaleStandard)
	bands[0].Lower = 0
	if Classify(50, ScaleStandard) != CMinus {
		t.Error("mutating the returned bands must not change classification")
	}
}

func TestClassifyMonotonic(t *testing.T) {
	for _, s := range Scales {
		prev := Classify(0, s)
		for i := 1; i <= 10000; i++ {
			mark := float64(i) / 100
			got := Classify(mark, s)
			if got.Rank() < prev.Rank() {
				t.Fatalf("%s: rank dropped from %s to %s at %v", s, prev, got, mark)
			}
			prev = got
		}
	}
}

func TestClassifyRoundTripsLowerBounds(t *testing.T) {
	for _, s := range Scales {
		for _, l := range Letters {
			lower, ok := LetterLowerBound(s, l)
			if l == ABS {
				if ok {
					t.Errorf("%s: ABS should have no band", s)
				}
				continue
			}
			if !ok {
				t.Fatalf("%s: missing band for %s", s, l)
			}
			if got := Classify(lower, s); got != l {
				t.Errorf("%s: lower bound %v of %s classifies as %s", s, lower, l, got)
			}
		}
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in   string
		want Scale
		ok   bool
	}{
		{"standard_40", ScaleStandard, true},
		{"standard", ScaleStandard, true},
		{"alt_linear_40", ScaleAltLinear, true},
		{"Alt-Linear", ScaleAltLinear, true},
		{"curve", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseScale(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseScale(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
