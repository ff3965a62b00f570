package service

import (
	"time"

	"advoga/internal/models"
	"advoga/internal/ranker"
)

// Store is the persistence boundary the dispatch coordinator and the
// referral state machine run on. The conditional primitives (pending-guarded
// create, CompareAndSwapStatus) carry the concurrency contract, so the
// invariants hold independent of storage technology: the gorm implementation
// lives in internal/repository, tests use an in-memory one.
type Store interface {
	Cases() CaseStore
	Lawyers() LawyerStore
	Referrals() ReferralStore
	Subscriptions() SubscriptionStore

	// InTx runs fn against a Store bound to one transaction; returning an
	// error rolls everything back.
	InTx(fn func(Store) error) error
}

type CaseStore interface {
	GetByID(id uint) (*models.Case, error)
	// GetByIDForUpdate locks the case row for the duration of the enclosing
	// transaction. This is the per-case serialization boundary that keeps
	// "at most one pending referral per case" true under concurrent dispatch.
	GetByIDForUpdate(id uint) (*models.Case, error)
	SetStatus(id uint, status string) error
}

type LawyerStore interface {
	GetByID(id uint) (*models.Lawyer, error)
	// EligibleCandidates returns lawyers passing the SQL half of the hard
	// filter (active, verified, live lead-capable subscription, area served)
	// with plan data preloaded. The ranker re-checks eligibility on the
	// snapshot.
	EligibleCandidates(area string, now time.Time) ([]ranker.Candidate, error)
	// MarkLeadSent bumps total_leads and last_lead_at for a fresh assignment.
	MarkLeadSent(id uint, at time.Time) error
	// RecordOutcome bumps accepted or rejected counters and recomputes the
	// success score in the same statement.
	RecordOutcome(id uint, accepted bool) error
}

type ReferralStore interface {
	// Create inserts a new referral row; a duplicate (case, lawyer) attempt
	// surfaces as domain.ErrConflict.
	Create(ref *models.Referral) error
	PendingByCase(caseID uint) (*models.Referral, error)
	PendingByCaseAndLawyer(caseID, lawyerID uint) (*models.Referral, error)
	// AttemptedLawyerIDs lists every lawyer this case was ever offered to.
	AttemptedLawyerIDs(caseID uint) ([]uint, error)
	// CompareAndSwapStatus transitions a referral from one status to another
	// only if it still holds the expected status; reports whether the swap
	// applied. Duplicate sweeps and racing accepts are resolved here.
	CompareAndSwapStatus(id uint, from, to string, respondedAt *time.Time, message string) (bool, error)
	ListExpiredPending(now time.Time, limit int) ([]models.Referral, error)
}

type SubscriptionStore interface {
	IncrementLeadsUsed(lawyerID uint) error
}
