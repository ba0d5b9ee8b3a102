package similarity

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "great video", "great video", 1.0},
		{"identical after normalization", "Great video!!", "great   video", 1.0},
		{"empty side", "", "anything", 0},
		{"mostly disjoint", "nice", "cool", 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioSymmetric(t *testing.T) {
	a, b := "love this song", "love this son"
	if got, rev := Ratio(a, b), Ratio(b, a); got != rev {
		t.Errorf("Ratio not symmetric: %v vs %v", got, rev)
	}
}

func TestRatioNearDuplicate(t *testing.T) {
	// One dropped character should still score far above the duplicate bar.
	got := Ratio("love this song", "love this son")
	if got < 0.90 {
		t.Errorf("Ratio = %v, want >= 0.90", got)
	}
}

func TestNewFallbacks(t *testing.T) {
	c := New(0, -1)
	if c.Same != DefaultSame || c.Cross != DefaultCross {
		t.Errorf("New(0, -1) = %+v, want defaults", c)
	}
	c = New(0.5, 0.6)
	if c.Same != 0.5 || c.Cross != 0.6 {
		t.Errorf("New(0.5, 0.6) = %+v", c)
	}
}

func TestUniqueWithin(t *testing.T) {
	c := New(0, 0)

	tests := []struct {
		name  string
		texts []string
		want  bool
	}{
		{"empty", nil, true},
		{"single", []string{"only one"}, true},
		{"distinct pair", []string{"great editing in this video", "the soundtrack choice surprised me"}, true},
		{"near duplicates", []string{"Great video!", "great video"}, false},
		{"duplicate buried in triple", []string{"first unique message", "second unique message", "first unique message"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.UniqueWithin(tt.texts); got != tt.want {
				t.Errorf("UniqueWithin(%v) = %v, want %v", tt.texts, got, tt.want)
			}
		})
	}
}

func TestDistinctAcross(t *testing.T) {
	c := New(0, 0)

	comments := []string{"the editing here is superb", "never expected that ending"}
	replies := []string{"totally agree with the top comment", "watching this again tomorrow"}
	if !c.DistinctAcross(comments, replies) {
		t.Error("DistinctAcross = false for distinct sets, want true")
	}

	replies[1] = "the editing here is superb"
	if c.DistinctAcross(comments, replies) {
		t.Error("DistinctAcross = true with a copied comment, want false")
	}

	if !c.DistinctAcross(nil, replies) {
		t.Error("DistinctAcross with an empty side should be true")
	}
}
