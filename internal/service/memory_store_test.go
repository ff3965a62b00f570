package service

import (
	"sort"
	"sync"
	"time"

	"advoga/internal/domain"
	"advoga/internal/models"
	"advoga/internal/ranker"
)

// memStore is the in-memory Store used by the service tests. Individual
// operations lock the data mutex; InTx additionally serializes whole
// transaction bodies, which is enough to honor the conditional-update
// contract without a database.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	cases     map[uint]*models.Case
	lawyers   map[uint]*models.Lawyer
	subs      map[uint]*models.Subscription
	referrals map[uint]*models.Referral
	refSeq    uint
}

func newMemStore() *memStore {
	return &memStore{
		cases:     make(map[uint]*models.Case),
		lawyers:   make(map[uint]*models.Lawyer),
		subs:      make(map[uint]*models.Subscription),
		referrals: make(map[uint]*models.Referral),
	}
}

func (s *memStore) Cases() CaseStore                 { return memCases{s} }
func (s *memStore) Lawyers() LawyerStore             { return memLawyers{s} }
func (s *memStore) Referrals() ReferralStore         { return memReferrals{s} }
func (s *memStore) Subscriptions() SubscriptionStore { return memSubs{s} }

func (s *memStore) InTx(fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

var _ Store = (*memStore)(nil)

type memCases struct{ s *memStore }

func (m memCases) GetByID(id uint) (*models.Case, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.cases[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m memCases) GetByIDForUpdate(id uint) (*models.Case, error) {
	return m.GetByID(id)
}

func (m memCases) SetStatus(id uint, status string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.cases[id]; ok {
		c.Status = status
	}
	return nil
}

type memLawyers struct{ s *memStore }

func (m memLawyers) GetByID(id uint) (*models.Lawyer, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	l, ok := m.s.lawyers[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m memLawyers) EligibleCandidates(area string, now time.Time) ([]ranker.Candidate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	ids := make([]uint, 0, len(m.s.lawyers))
	for id := range m.s.lawyers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []ranker.Candidate
	for _, id := range ids {
		l := m.s.lawyers[id]
		sub, ok := m.s.subs[id]
		if !ok {
			continue
		}
		if !l.Active || !l.Verified {
			continue
		}
		if area != "" && !l.Areas.Contains(area) {
			continue
		}
		if !sub.LeadEligible(now) {
			continue
		}
		out = append(out, ranker.Candidate{Lawyer: *l, Subscription: *sub})
	}
	return out, nil
}

func (m memLawyers) MarkLeadSent(id uint, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	l, ok := m.s.lawyers[id]
	if !ok {
		return nil
	}
	l.TotalLeads++
	t := at
	l.LastLeadAt = &t
	return nil
}

func (m memLawyers) RecordOutcome(id uint, accepted bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	l, ok := m.s.lawyers[id]
	if !ok {
		return nil
	}
	if accepted {
		l.AcceptedLeads++
	} else {
		l.RejectedLeads++
	}
	if l.TotalLeads > 0 {
		l.SuccessScore = float64(l.AcceptedLeads) * 100 / float64(l.TotalLeads)
	}
	return nil
}

type memReferrals struct{ s *memStore }

func (m memReferrals) Create(ref *models.Referral) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.referrals {
		if r.CaseID == ref.CaseID && r.LawyerID == ref.LawyerID {
			return domain.ErrConflict
		}
	}
	m.s.refSeq++
	ref.ID = m.s.refSeq
	cp := *ref
	m.s.referrals[ref.ID] = &cp
	return nil
}

func (m memReferrals) PendingByCase(caseID uint) (*models.Referral, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.referrals {
		if r.CaseID == caseID && r.Status == domain.ReferralStatusPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memReferrals) PendingByCaseAndLawyer(caseID, lawyerID uint) (*models.Referral, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.referrals {
		if r.CaseID == caseID && r.LawyerID == lawyerID && r.Status == domain.ReferralStatusPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memReferrals) AttemptedLawyerIDs(caseID uint) ([]uint, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []uint
	for _, r := range m.s.referrals {
		if r.CaseID == caseID {
			ids = append(ids, r.LawyerID)
		}
	}
	return ids, nil
}

func (m memReferrals) CompareAndSwapStatus(id uint, from, to string, respondedAt *time.Time, message string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.referrals[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.RespondedAt = respondedAt
	if message != "" {
		r.ResponseMessage = message
	}
	return true, nil
}

func (m memReferrals) ListExpiredPending(now time.Time, limit int) ([]models.Referral, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Referral
	for _, r := range m.s.referrals {
		if r.Status == domain.ReferralStatusPending && !r.ExpiresAt.After(now) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memSubs struct{ s *memStore }

func (m memSubs) IncrementLeadsUsed(lawyerID uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sub, ok := m.s.subs[lawyerID]; ok {
		sub.LeadsUsed++
	}
	return nil
}

// referralByID reads the canonical referral row for assertions.
func (s *memStore) referralByID(id uint) *models.Referral {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.referrals[id]; ok {
		cp := *r
		return &cp
	}
	return nil
}

func (s *memStore) referralFor(caseID, lawyerID uint) *models.Referral {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.referrals {
		if r.CaseID == caseID && r.LawyerID == lawyerID {
			cp := *r
			return &cp
		}
	}
	return nil
}
