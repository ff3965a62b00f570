package service

import (
	"errors"
	"log"
	"time"

	"advoga/config"
	"advoga/internal/domain"
	"advoga/internal/models"
	"advoga/internal/ranker"
)

// Notifier is the external notification sink. Delivery is best effort:
// failures are logged and never roll back a referral.
type Notifier interface {
	NotifyLeadOffer(lawyerID uint, c *models.Case, expiresAt time.Time) error
}

// DispatchService turns a paid case into an active referral and re-circulates
// the lead when a referral terminates without acceptance.
type DispatchService struct {
	store    Store
	notifier Notifier
	scoring  config.ScoringConfig
	cfg      config.DispatchConfig
	now      func() time.Time
}

func NewDispatchService(store Store, notifier Notifier, scoring config.ScoringConfig, cfg config.DispatchConfig) *DispatchService {
	return &DispatchService{
		store:    store,
		notifier: notifier,
		scoring:  scoring,
		cfg:      cfg,
		now:      time.Now,
	}
}

// OnCasePaid is invoked once when the payment collaborator marks a case paid.
func (s *DispatchService) OnCasePaid(caseID uint) error {
	_, err := s.TryAssign(caseID, nil)
	return err
}

// OnReferralTerminated re-runs assignment after a reject or expiry. Lawyers
// already attempted for the case are excluded from the re-ranking.
func (s *DispatchService) OnReferralTerminated(caseID uint, excluded map[uint]struct{}) error {
	_, err := s.TryAssign(caseID, excluded)
	return err
}

type assignment struct {
	referral *models.Referral
	kase     *models.Case
}

// TryAssign ranks candidates for the case and, when one exists, atomically
// creates the pending referral and bumps the lawyer's counters. Calling it
// while the case already has a pending referral is a no-op, so duplicate
// trigger events are harmless. Lost races are retried a bounded number of
// times before surfacing. The bool reports whether a new referral was created
// by this call.
func (s *DispatchService) TryAssign(caseID uint, excluded map[uint]struct{}) (bool, error) {
	var assigned *assignment
	var err error
	for attempt := 0; attempt <= s.cfg.MaxAssignRetries; attempt++ {
		assigned, err = s.tryAssignOnce(caseID, excluded)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return false, err
	}
	if assigned == nil {
		return false, nil
	}
	log.Printf("[dispatch] case %d assigned to lawyer %d (window ends %s)",
		caseID, assigned.referral.LawyerID, assigned.referral.ExpiresAt.Format(time.RFC3339))
	go s.notify(assigned)
	return true, nil
}

func (s *DispatchService) tryAssignOnce(caseID uint, excluded map[uint]struct{}) (*assignment, error) {
	now := s.now()
	var assigned *assignment
	err := s.store.InTx(func(tx Store) error {
		kase, err := tx.Cases().GetByIDForUpdate(caseID)
		if err != nil {
			return err
		}
		if kase == nil || !kase.ReportPaid {
			return nil
		}
		pending, err := tx.Referrals().PendingByCase(caseID)
		if err != nil {
			return err
		}
		if pending != nil {
			// Someone already holds the exclusivity window.
			return nil
		}
		tried, err := tx.Referrals().AttemptedLawyerIDs(caseID)
		if err != nil {
			return err
		}
		excl := make(map[uint]struct{}, len(excluded)+len(tried))
		for id := range excluded {
			excl[id] = struct{}{}
		}
		for _, id := range tried {
			excl[id] = struct{}{}
		}
		candidates, err := tx.Lawyers().EligibleCandidates(kase.Area, now)
		if err != nil {
			return err
		}
		ranked := ranker.Rank(candidates, kase.Area, kase.City, kase.State, excl, now, s.scoring)
		if len(ranked) == 0 {
			log.Printf("[dispatch] case %d unassignable: no eligible lawyer for area %q", caseID, kase.Area)
			return nil
		}
		chosen := ranked[0].LawyerID
		ref := &models.Referral{
			CaseID:    caseID,
			LawyerID:  chosen,
			Status:    domain.ReferralStatusPending,
			SentAt:    now,
			ExpiresAt: now.Add(s.windowFor(kase.Probability)),
		}
		if err := tx.Referrals().Create(ref); err != nil {
			return err
		}
		if err := tx.Lawyers().MarkLeadSent(chosen, now); err != nil {
			return err
		}
		if err := tx.Cases().SetStatus(caseID, domain.CaseStatusReferred); err != nil {
			return err
		}
		assigned = &assignment{referral: ref, kase: kase}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

func (s *DispatchService) windowFor(probability string) time.Duration {
	if probability == domain.ProbabilityHigh {
		return s.cfg.HighProbabilityWindow
	}
	return s.cfg.ExclusivityWindow
}

func (s *DispatchService) notify(a *assignment) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyLeadOffer(a.referral.LawyerID, a.kase, a.referral.ExpiresAt); err != nil {
		log.Printf("[dispatch] notify lawyer %d for case %d: %v", a.referral.LawyerID, a.kase.ID, err)
	}
}
