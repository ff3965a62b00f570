package service

import (
	"sync"
	"time"

	"advoga/config"
	"advoga/internal/domain"
	"advoga/internal/models"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testScoring() config.ScoringConfig {
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

func testDispatchConfig() config.DispatchConfig {
	return config.DispatchConfig{
		ExclusivityWindow:     24 * time.Hour,
		HighProbabilityWindow: 48 * time.Hour,
		MaxAssignRetries:      3,
	}
}

func standardPlan() models.Plan {
	return models.Plan{ID: 2, Name: "Leads", FeatureLeads: true, LeadsPerMonth: 10, Active: true}
}

func priorityPlan() models.Plan {
	return models.Plan{ID: 5, Name: "Full", FeatureLeads: true, FeaturePriorityLeads: true,
		LeadsPerMonth: domain.QuotaUnlimited, Active: true}
}

func seedLawyer(s *memStore, id uint, plan models.Plan, mutate ...func(*models.Lawyer, *models.Subscription)) {
	expires := testNow.Add(30 * 24 * time.Hour)
	l := &models.Lawyer{
		ID:       id,
		Email:    "lawyer@example.com",
		Areas:    models.StringList{"consumidor"},
		Cities:   models.StringList{"sao paulo"},
		States:   models.StringList{"SP"},
		Active:   true,
		Verified: true,
	}
	sub := &models.Subscription{
		ID:        id,
		LawyerID:  id,
		PlanID:    plan.ID,
		Status:    domain.SubscriptionActive,
		ExpiresAt: &expires,
		Plan:      plan,
	}
	for _, fn := range mutate {
		fn(l, sub)
	}
	s.lawyers[id] = l
	s.subs[id] = sub
}

func seedPaidCase(s *memStore, id uint) {
	s.cases[id] = &models.Case{
		ID:          id,
		UserID:      1,
		Description: "Cobranca indevida no cartao apos cancelamento da assinatura.",
		Area:        "consumidor",
		City:        "sao paulo",
		State:       "SP",
		Probability: domain.ProbabilityMedium,
		Status:      domain.CaseStatusPaid,
		ReportPaid:  true,
		User: models.User{
			ID:    1,
			Name:  "Maria Silva",
			Email: "maria@example.com",
			Phone: "+5511999990000",
		},
	}
}

// chanNotifier records lead offers on a channel so tests can wait for the
// fire-and-forget delivery goroutine.
type chanNotifier struct {
	offers chan uint
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{offers: make(chan uint, 16)}
}

func (n *chanNotifier) NotifyLeadOffer(lawyerID uint, c *models.Case, expiresAt time.Time) error {
	n.offers <- lawyerID
	return nil
}

func (n *chanNotifier) waitOffer(timeout time.Duration) (uint, bool) {
	select {
	case id := <-n.offers:
		return id, true
	case <-time.After(timeout):
		return 0, false
	}
}

// failingNotifier always errors; deliveries must never affect referrals.
type failingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *failingNotifier) NotifyLeadOffer(lawyerID uint, c *models.Case, expiresAt time.Time) error {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
	return errNotifyDown
}

var errNotifyDown = &notifyDownError{}

type notifyDownError struct{}

func (*notifyDownError) Error() string { return "notification channel down" }
