package ranker

import (
	"math"
	"testing"
	"time"

	"advoga/config"
	"advoga/internal/domain"
	"advoga/internal/models"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func weights() config.ScoringConfig {
	return config.ScoringConfig{
		PriorityBonus:     40,
		StandardBonus:     25,
		PerformanceWeight: 0.25,
		FairnessCeiling:   20,
		FairnessWindow:    24 * time.Hour,
		CityBonus:         10,
		StateBonus:        5,
	}
}

func candidate(id uint, mutate ...func(*Candidate)) Candidate {
	expires := now.Add(30 * 24 * time.Hour)
	c := Candidate{
		Lawyer: models.Lawyer{
			ID:       id,
			Areas:    models.StringList{"consumidor"},
			Active:   true,
			Verified: true,
		},
		Subscription: models.Subscription{
			LawyerID:  id,
			Status:    domain.SubscriptionActive,
			ExpiresAt: &expires,
			Plan:      models.Plan{FeatureLeads: true, LeadsPerMonth: 10},
		},
	}
	for _, fn := range mutate {
		fn(&c)
	}
	return c
}

func withPriorityPlan(c *Candidate) {
	c.Subscription.Plan.FeaturePriorityLeads = true
	c.Subscription.Plan.LeadsPerMonth = domain.QuotaUnlimited
}

func TestRankFreshStandardBeatsBusyPriority(t *testing.T) {
	twoHoursAgo := now.Add(-2 * time.Hour)
	busy := candidate(1, withPriorityPlan, func(c *Candidate) {
		c.Lawyer.SuccessScore = 90
		c.Lawyer.LastLeadAt = &twoHoursAgo
	})
	fresh := candidate(2, func(c *Candidate) {
		c.Lawyer.SuccessScore = 95
	})

	ranked := Rank([]Candidate{busy, fresh}, "consumidor", "", "", nil, now, weights())
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
	if ranked[0].LawyerID != 2 {
		t.Fatalf("winner = %d, want the never-led standard lawyer", ranked[0].LawyerID)
	}
	// 25 + 95*0.25 + 20
	if got, want := ranked[0].Score, 68.75; math.Abs(got-want) > 1e-9 {
		t.Fatalf("fresh score = %.4f, want %.4f", got, want)
	}
	// 40 + 90*0.25 + (2h/24h)*20
	if got, want := ranked[1].Score, 40+22.5+20.0/12; math.Abs(got-want) > 1e-9 {
		t.Fatalf("busy score = %.4f, want %.4f", got, want)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	candidates := []Candidate{
		candidate(3), candidate(1), candidate(2),
	}
	first := Rank(candidates, "consumidor", "", "", nil, now, weights())
	for i := 0; i < 5; i++ {
		again := Rank(candidates, "consumidor", "", "", nil, now, weights())
		for j := range first {
			if again[j].LawyerID != first[j].LawyerID || again[j].Score != first[j].Score {
				t.Fatalf("run %d diverged at %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
	// equal scores break ties by lawyer ID ascending
	for j := 1; j < len(first); j++ {
		if first[j-1].LawyerID > first[j].LawyerID {
			t.Fatalf("tie break broken: %+v", first)
		}
	}
}

func TestRankExcluded(t *testing.T) {
	candidates := []Candidate{candidate(1), candidate(2)}
	excluded := map[uint]struct{}{1: {}}
	ranked := Rank(candidates, "consumidor", "", "", excluded, now, weights())
	if len(ranked) != 1 || ranked[0].LawyerID != 2 {
		t.Fatalf("ranked = %+v, want only lawyer 2", ranked)
	}
}

func TestRankHardFilter(t *testing.T) {
	lapsed := now.Add(-time.Hour)
	cases := []struct {
		name string
		c    Candidate
	}{
		{"inactive", candidate(1, func(c *Candidate) { c.Lawyer.Active = false })},
		{"unverified", candidate(2, func(c *Candidate) { c.Lawyer.Verified = false })},
		{"wrong area", candidate(3, func(c *Candidate) { c.Lawyer.Areas = models.StringList{"familia"} })},
		{"cancelled subscription", candidate(4, func(c *Candidate) { c.Subscription.Status = domain.SubscriptionCancelled })},
		{"expired subscription", candidate(5, func(c *Candidate) { c.Subscription.ExpiresAt = &lapsed })},
		{"plan without leads", candidate(6, func(c *Candidate) { c.Subscription.Plan.FeatureLeads = false })},
		{"quota exhausted", candidate(7, func(c *Candidate) { c.Subscription.LeadsUsed = 10 })},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ranked := Rank([]Candidate{tc.c}, "consumidor", "", "", nil, now, weights())
			if len(ranked) != 0 {
				t.Fatalf("candidate passed the hard filter: %+v", ranked)
			}
		})
	}
}

func TestRankUnlimitedQuota(t *testing.T) {
	c := candidate(1, withPriorityPlan, func(c *Candidate) {
		c.Subscription.LeadsUsed = 5000
	})
	ranked := Rank([]Candidate{c}, "consumidor", "", "", nil, now, weights())
	if len(ranked) != 1 {
		t.Fatal("unlimited plan must never hit the quota gate")
	}
}

func TestFairnessBonus(t *testing.T) {
	w := weights()
	halfWindow := now.Add(-12 * time.Hour)
	overWindow := now.Add(-72 * time.Hour)
	justNow := now

	if got := fairness(nil, now, w); got != w.FairnessCeiling {
		t.Fatalf("never led = %.2f, want ceiling %.2f", got, w.FairnessCeiling)
	}
	if got := fairness(&halfWindow, now, w); math.Abs(got-10) > 1e-9 {
		t.Fatalf("half window = %.2f, want 10", got)
	}
	if got := fairness(&overWindow, now, w); got != w.FairnessCeiling {
		t.Fatalf("beyond window = %.2f, want capped at %.2f", got, w.FairnessCeiling)
	}
	if got := fairness(&justNow, now, w); got != 0 {
		t.Fatalf("just led = %.2f, want 0", got)
	}
}

func TestFairnessNeverRanksShorterWaitHigher(t *testing.T) {
	waits := []time.Duration{0, time.Hour, 6 * time.Hour, 12 * time.Hour, 24 * time.Hour, 100 * time.Hour}
	for i := 1; i < len(waits); i++ {
		shorter := now.Add(-waits[i-1])
		longer := now.Add(-waits[i])
		a := candidate(1, func(c *Candidate) { c.Lawyer.LastLeadAt = &longer })
		b := candidate(2, func(c *Candidate) { c.Lawyer.LastLeadAt = &shorter })
		ranked := Rank([]Candidate{a, b}, "consumidor", "", "", nil, now, weights())
		if ranked[0].LawyerID != 1 && ranked[0].Score != ranked[1].Score {
			t.Fatalf("wait %s must not outrank wait %s: %+v", waits[i-1], waits[i], ranked)
		}
	}
}

func TestLocationAffinity(t *testing.T) {
	inCity := candidate(1, func(c *Candidate) {
		c.Lawyer.Cities = models.StringList{"sao paulo"}
		c.Lawyer.States = models.StringList{"SP"}
	})
	inState := candidate(2, func(c *Candidate) {
		c.Lawyer.States = models.StringList{"SP"}
	})
	elsewhere := candidate(3)

	ranked := Rank([]Candidate{elsewhere, inState, inCity}, "consumidor", "sao paulo", "SP", nil, now, weights())
	if ranked[0].LawyerID != 1 || ranked[1].LawyerID != 2 || ranked[2].LawyerID != 3 {
		t.Fatalf("order = %+v, want city > state > none", ranked)
	}
	if diff := ranked[0].Score - ranked[1].Score; math.Abs(diff-5) > 1e-9 {
		t.Fatalf("city vs state gap = %.2f, want 5", diff)
	}
	if diff := ranked[1].Score - ranked[2].Score; math.Abs(diff-5) > 1e-9 {
		t.Fatalf("state vs none gap = %.2f, want 5", diff)
	}
}

func TestRankEmptyInput(t *testing.T) {
	if ranked := Rank(nil, "consumidor", "", "", nil, now, weights()); len(ranked) != 0 {
		t.Fatalf("ranked = %+v, want empty", ranked)
	}
}
