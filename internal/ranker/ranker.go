// Package ranker orders eligible lawyers for a lead. Ranking is a pure
// function of a directory/ledger snapshot, so repeated calls on unchanged
// input are reproducible and safe to retry.
package ranker

import (
	"sort"
	"time"

	"advoga/config"
	"advoga/internal/models"
)

// Candidate is one lawyer plus their subscription snapshot (plan preloaded).
type Candidate struct {
	Lawyer       models.Lawyer
	Subscription models.Subscription
}

type Scored struct {
	LawyerID uint
	Score    float64
}

// Rank filters candidates through the hard eligibility gate and orders the
// survivors by score, highest first. Ties break by lawyer ID ascending.
// An empty result means "no match", not an error.
func Rank(candidates []Candidate, area, city, state string, excluded map[uint]struct{}, now time.Time, w config.ScoringConfig) []Scored {
	ranked := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := excluded[c.Lawyer.ID]; skip {
			continue
		}
		if !eligible(&c, area, now) {
			continue
		}
		ranked = append(ranked, Scored{
			LawyerID: c.Lawyer.ID,
			Score:    score(&c, city, state, now, w),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].LawyerID < ranked[j].LawyerID
	})
	return ranked
}

// eligible applies the hard filter: active, verified, area served,
// subscription in good standing with lead quota left.
func eligible(c *Candidate, area string, now time.Time) bool {
	if !c.Lawyer.Active || !c.Lawyer.Verified {
		return false
	}
	if area != "" && !c.Lawyer.Areas.Contains(area) {
		return false
	}
	return c.Subscription.LeadEligible(now)
}

func score(c *Candidate, city, state string, now time.Time, w config.ScoringConfig) float64 {
	var s float64

	// Plan tier: paying for priority buys queue position.
	if c.Subscription.Plan.FeaturePriorityLeads {
		s += w.PriorityBonus
	} else if c.Subscription.Plan.FeatureLeads {
		s += w.StandardBonus
	}

	// Historical performance, linear over the 0-100 success score.
	s += c.Lawyer.SuccessScore * w.PerformanceWeight

	// Rotation: waiting lawyers climb toward the ceiling; a lawyer who has
	// never received a lead starts at the ceiling so new entrants are not
	// starved.
	s += fairness(c.Lawyer.LastLeadAt, now, w)

	// Location affinity: exact city beats state-only beats nothing.
	if city != "" && c.Lawyer.Cities.Contains(city) {
		s += w.CityBonus
	} else if state != "" && c.Lawyer.States.Contains(state) {
		s += w.StateBonus
	}

	return s
}

func fairness(lastLeadAt *time.Time, now time.Time, w config.ScoringConfig) float64 {
	if lastLeadAt == nil {
		return w.FairnessCeiling
	}
	waited := now.Sub(*lastLeadAt)
	if waited <= 0 {
		return 0
	}
	bonus := float64(waited) / float64(w.FairnessWindow) * w.FairnessCeiling
	if bonus > w.FairnessCeiling {
		return w.FairnessCeiling
	}
	return bonus
}
