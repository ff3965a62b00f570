package service

import (
	"sync"
	"testing"
	"time"

	"advoga/internal/domain"
	"advoga/internal/models"
)

func newTestReferralService(s *memStore, withDispatch bool) (*ReferralService, *DispatchService) {
	var d *DispatchService
	if withDispatch {
		d = newTestDispatch(s, nil)
	}
	svc := NewReferralService(s, d)
	svc.now = func() time.Time { return testNow }
	return svc, d
}

func seedPendingReferral(t *testing.T, s *memStore, caseID, lawyerID uint, expiresAt time.Time) *models.Referral {
	t.Helper()
	ref := &models.Referral{
		CaseID:    caseID,
		LawyerID:  lawyerID,
		Status:    domain.ReferralStatusPending,
		SentAt:    testNow.Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
	if err := s.Referrals().Create(ref); err != nil {
		t.Fatalf("seed referral: %v", err)
	}
	// mirror what dispatch does on assignment
	if err := s.Lawyers().MarkLeadSent(lawyerID, ref.SentAt); err != nil {
		t.Fatalf("mark lead sent: %v", err)
	}
	return ref
}

func TestAcceptReleasesClientContact(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedPaidCase(s, 100)
	ref := seedPendingReferral(t, s, 100, 1, testNow.Add(time.Hour))
	svc, _ := newTestReferralService(s, false)

	result, err := svc.Accept(1, 100)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if result.Client.Email != "maria@example.com" || result.Client.Phone == "" {
		t.Fatalf("client contact not released: %+v", result.Client)
	}
	if result.Case.CaseID != 100 || result.Case.QualityScore == 0 {
		t.Fatalf("case summary incomplete: %+v", result.Case)
	}

	got := s.referralByID(ref.ID)
	if got.Status != domain.ReferralStatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", got.Status)
	}
	if got.RespondedAt == nil {
		t.Fatal("responded at not stamped")
	}

	l, _ := s.Lawyers().GetByID(1)
	if l.AcceptedLeads != 1 || l.RejectedLeads != 0 {
		t.Fatalf("counters = %d accepted / %d rejected", l.AcceptedLeads, l.RejectedLeads)
	}
	if l.SuccessScore != 100 {
		t.Fatalf("success score = %.2f, want 100", l.SuccessScore)
	}
	if s.subs[1].LeadsUsed != 1 {
		t.Fatalf("leads used = %d, want 1", s.subs[1].LeadsUsed)
	}
}

func TestAcceptWithoutPendingReferral(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedPaidCase(s, 100)
	svc, _ := newTestReferralService(s, false)

	if _, err := svc.Accept(1, 100); err != domain.ErrReferralNotFound {
		t.Fatalf("err = %v, want ErrReferralNotFound", err)
	}
}

func TestAcceptByWrongLawyer(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedLawyer(s, 2, standardPlan())
	seedPaidCase(s, 100)
	seedPendingReferral(t, s, 100, 1, testNow.Add(time.Hour))
	svc, _ := newTestReferralService(s, false)

	if _, err := svc.Accept(2, 100); err != domain.ErrReferralNotFound {
		t.Fatalf("err = %v, want ErrReferralNotFound", err)
	}
}

func TestAcceptAfterWindowExpiresAndRedispatches(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedLawyer(s, 2, standardPlan())
	seedPaidCase(s, 100)
	ref := seedPendingReferral(t, s, 100, 1, testNow.Add(-time.Minute))
	svc, _ := newTestReferralService(s, true)

	if _, err := svc.Accept(1, 100); err != domain.ErrReferralExpired {
		t.Fatalf("err = %v, want ErrReferralExpired", err)
	}
	if got := s.referralByID(ref.ID); got.Status != domain.ReferralStatusExpired {
		t.Fatalf("status = %s, want EXPIRED", got.Status)
	}
	next := s.referralFor(100, 2)
	if next == nil || next.Status != domain.ReferralStatusPending {
		t.Fatal("case should be re-dispatched to the next lawyer")
	}

	// expiry is not a rejection
	l, _ := s.Lawyers().GetByID(1)
	if l.RejectedLeads != 0 {
		t.Fatalf("rejected leads = %d, want 0", l.RejectedLeads)
	}
}

func TestRejectRedispatchesExcludingRejector(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, priorityPlan())
	seedLawyer(s, 2, standardPlan())
	seedPaidCase(s, 100)
	ref := seedPendingReferral(t, s, 100, 1, testNow.Add(time.Hour))
	svc, _ := newTestReferralService(s, true)

	if err := svc.Reject(1, 100, "conflito de interesse"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	got := s.referralByID(ref.ID)
	if got.Status != domain.ReferralStatusRejected {
		t.Fatalf("status = %s, want REJECTED", got.Status)
	}
	if got.ResponseMessage != "conflito de interesse" {
		t.Fatalf("message = %q", got.ResponseMessage)
	}

	l, _ := s.Lawyers().GetByID(1)
	if l.RejectedLeads != 1 || l.AcceptedLeads != 0 {
		t.Fatalf("counters = %d accepted / %d rejected", l.AcceptedLeads, l.RejectedLeads)
	}
	if l.SuccessScore != 0 {
		t.Fatalf("success score = %.2f, want 0", l.SuccessScore)
	}

	next := s.referralFor(100, 2)
	if next == nil || next.Status != domain.ReferralStatusPending {
		t.Fatal("case should move on to the next lawyer")
	}
}

func TestConcurrentAcceptsSingleWinner(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedPaidCase(s, 100)
	seedPendingReferral(t, s, 100, 1, testNow.Add(time.Hour))
	svc, _ := newTestReferralService(s, false)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Accept(1, 100)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
		} else if err != domain.ErrReferralNotFound {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	if s.subs[1].LeadsUsed != 1 {
		t.Fatalf("leads used = %d, want 1", s.subs[1].LeadsUsed)
	}
	l, _ := s.Lawyers().GetByID(1)
	if l.AcceptedLeads != 1 {
		t.Fatalf("accepted leads = %d, want 1", l.AcceptedLeads)
	}
}

func TestSweepExpiredTransitionsAndRedispatches(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedLawyer(s, 2, standardPlan())
	seedPaidCase(s, 100)
	seedPaidCase(s, 200)
	expired := seedPendingReferral(t, s, 100, 1, testNow.Add(-time.Minute))
	live := seedPendingReferral(t, s, 200, 2, testNow.Add(time.Hour))
	svc, _ := newTestReferralService(s, true)

	n, err := svc.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired = %d, want 1", n)
	}
	if got := s.referralByID(expired.ID); got.Status != domain.ReferralStatusExpired {
		t.Fatalf("status = %s, want EXPIRED", got.Status)
	}
	if got := s.referralByID(live.ID); got.Status != domain.ReferralStatusPending {
		t.Fatalf("live referral touched: %s", got.Status)
	}
	// case 100 circulates to lawyer 2
	if next := s.referralFor(100, 2); next == nil || next.Status != domain.ReferralStatusPending {
		t.Fatal("expired case should be re-dispatched")
	}
}

func TestSweepExpiredIsIdempotent(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedPaidCase(s, 100)
	seedPendingReferral(t, s, 100, 1, testNow.Add(-time.Minute))
	svc, _ := newTestReferralService(s, true)

	if n, _ := svc.SweepExpired(); n != 1 {
		t.Fatalf("first sweep expired %d, want 1", n)
	}
	if n, _ := svc.SweepExpired(); n != 0 {
		t.Fatalf("second sweep expired %d, want 0", n)
	}
}

func TestSweepDoesNotPenalizeLawyer(t *testing.T) {
	s := newMemStore()
	seedLawyer(s, 1, standardPlan())
	seedPaidCase(s, 100)
	seedPendingReferral(t, s, 100, 1, testNow.Add(-time.Minute))
	svc, _ := newTestReferralService(s, true)

	if _, err := svc.SweepExpired(); err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	l, _ := s.Lawyers().GetByID(1)
	if l.RejectedLeads != 0 || l.AcceptedLeads != 0 {
		t.Fatalf("counters moved on expiry: %d accepted / %d rejected", l.AcceptedLeads, l.RejectedLeads)
	}
}
