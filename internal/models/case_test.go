package models

import (
	"strings"
	"testing"

	"advoga/internal/domain"
)

func TestQualityScore(t *testing.T) {
	long := strings.Repeat("processo ", 80)
	cases := []struct {
		name string
		c    Case
		want int
	}{
		{"low probability, thin payload", Case{Probability: domain.ProbabilityLow, Description: "curto"}, 60},
		{"medium probability", Case{Probability: domain.ProbabilityMedium, Description: "curto"}, 70},
		{"high probability", Case{Probability: domain.ProbabilityHigh, Description: "curto"}, 80},
		{"high with sub area", Case{Probability: domain.ProbabilityHigh, SubArea: "telefonia", Description: "curto"}, 90},
		{"everything, capped", Case{Probability: domain.ProbabilityHigh, SubArea: "telefonia", Description: long}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.QualityScore(); got != tc.want {
				t.Fatalf("score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStringListContains(t *testing.T) {
	l := StringList{"familia", "consumidor"}
	if !l.Contains("consumidor") {
		t.Fatal("expected to contain consumidor")
	}
	if l.Contains("bancario") {
		t.Fatal("should not contain bancario")
	}
	var empty StringList
	if empty.Contains("familia") {
		t.Fatal("empty list contains nothing")
	}
}
