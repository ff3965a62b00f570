package service

import (
	"errors"
	"log"
	"time"

	"advoga/internal/domain"
	"advoga/internal/models"
)

// sweepBatchSize bounds how many expired referrals one sweep pass handles.
const sweepBatchSize = 200

// ReferralService owns the referral lifecycle: PENDING is the only live
// state; ACCEPTED, REJECTED and EXPIRED are terminal. Counter updates always
// ride the same transaction as the status swap.
type ReferralService struct {
	store    Store
	dispatch *DispatchService
	now      func() time.Time
}

func NewReferralService(store Store, dispatch *DispatchService) *ReferralService {
	return &ReferralService{store: store, dispatch: dispatch, now: time.Now}
}

// ClientContact is released to the lawyer only on acceptance.
type ClientContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CaseSummary struct {
	CaseID       uint   `json:"case_id"`
	Area         string `json:"area"`
	SubArea      string `json:"sub_area"`
	Probability  string `json:"probability"`
	Description  string `json:"description"`
	QualityScore int    `json:"quality_score"`
}

type AcceptResult struct {
	Client ClientContact `json:"client"`
	Case   CaseSummary   `json:"case"`
}

// Accept transitions the lawyer's pending referral for the case to ACCEPTED
// and returns the client contact payload. A lapsed window is transitioned to
// EXPIRED as a side effect, the case is re-dispatched, and ErrReferralExpired
// is returned. Concurrent accepts on the same referral resolve to exactly one
// success.
func (s *ReferralService) Accept(lawyerID, caseID uint) (*AcceptResult, error) {
	ref, err := s.store.Referrals().PendingByCaseAndLawyer(caseID, lawyerID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, domain.ErrReferralNotFound
	}
	now := s.now()
	if !now.Before(ref.ExpiresAt) {
		s.expire(ref)
		return nil, domain.ErrReferralExpired
	}
	err = s.store.InTx(func(tx Store) error {
		swapped, err := tx.Referrals().CompareAndSwapStatus(ref.ID,
			domain.ReferralStatusPending, domain.ReferralStatusAccepted, &now, "")
		if err != nil {
			return err
		}
		if !swapped {
			return domain.ErrReferralNotFound
		}
		if err := tx.Lawyers().RecordOutcome(lawyerID, true); err != nil {
			return err
		}
		return tx.Subscriptions().IncrementLeadsUsed(lawyerID)
	})
	if err != nil {
		return nil, err
	}
	kase, err := s.store.Cases().GetByID(caseID)
	if err != nil {
		return nil, err
	}
	return &AcceptResult{
		Client: ClientContact{
			Name:  kase.User.Name,
			Email: kase.User.Email,
			Phone: kase.User.Phone,
		},
		Case: CaseSummary{
			CaseID:       kase.ID,
			Area:         kase.Area,
			SubArea:      kase.SubArea,
			Probability:  kase.Probability,
			Description:  kase.Description,
			QualityScore: kase.QualityScore(),
		},
	}, nil
}

// Reject declines the pending referral, counts it against the lawyer's
// acceptance rate and hands the case back to dispatch with this lawyer
// excluded.
func (s *ReferralService) Reject(lawyerID, caseID uint, reason string) error {
	ref, err := s.store.Referrals().PendingByCaseAndLawyer(caseID, lawyerID)
	if err != nil {
		return err
	}
	if ref == nil {
		return domain.ErrReferralNotFound
	}
	now := s.now()
	if !now.Before(ref.ExpiresAt) {
		s.expire(ref)
		return domain.ErrReferralExpired
	}
	err = s.store.InTx(func(tx Store) error {
		swapped, err := tx.Referrals().CompareAndSwapStatus(ref.ID,
			domain.ReferralStatusPending, domain.ReferralStatusRejected, &now, reason)
		if err != nil {
			return err
		}
		if !swapped {
			return domain.ErrReferralNotFound
		}
		return tx.Lawyers().RecordOutcome(lawyerID, false)
	})
	if err != nil {
		return err
	}
	s.redispatch(ref)
	return nil
}

// SweepExpired transitions every pending referral past its deadline to
// EXPIRED and re-dispatches the case. Each transition is a conditional
// update, so concurrent or redundant sweep runs apply it exactly once.
// Expiry is not counted against the lawyer's acceptance rate.
func (s *ReferralService) SweepExpired() (int, error) {
	refs, err := s.store.Referrals().ListExpiredPending(s.now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range refs {
		ref := refs[i]
		swapped, err := s.store.Referrals().CompareAndSwapStatus(ref.ID,
			domain.ReferralStatusPending, domain.ReferralStatusExpired, nil, "")
		if err != nil {
			log.Printf("[sweep] referral %d: %v", ref.ID, err)
			continue
		}
		if !swapped {
			// another sweeper got there first
			continue
		}
		count++
		s.redispatch(&ref)
	}
	return count, nil
}

// expire applies the opportunistic PENDING -> EXPIRED transition discovered
// during an accept/reject on a lapsed window.
func (s *ReferralService) expire(ref *models.Referral) {
	swapped, err := s.store.Referrals().CompareAndSwapStatus(ref.ID,
		domain.ReferralStatusPending, domain.ReferralStatusExpired, nil, "")
	if err != nil {
		log.Printf("[referral] expire %d: %v", ref.ID, err)
		return
	}
	if swapped {
		s.redispatch(ref)
	}
}

func (s *ReferralService) redispatch(ref *models.Referral) {
	if s.dispatch == nil {
		return
	}
	excluded := map[uint]struct{}{ref.LawyerID: {}}
	if err := s.dispatch.OnReferralTerminated(ref.CaseID, excluded); err != nil &&
		!errors.Is(err, domain.ErrNoEligibleLawyer) {
		log.Printf("[referral] redispatch case %d: %v", ref.CaseID, err)
	}
}
