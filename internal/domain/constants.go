package domain

const (
	RoleClient = "CLIENT"
	RoleLawyer = "LAWYER"
	RoleAdmin  = "ADMIN"
)

const (
	CaseStatusPending  = "PENDING"
	CaseStatusAnalyzed = "ANALYZED"
	CaseStatusPaid     = "PAID"
	CaseStatusReferred = "REFERRED"
	CaseStatusClosed   = "CLOSED"
)

const (
	ReferralStatusPending  = "PENDING"
	ReferralStatusAccepted = "ACCEPTED"
	ReferralStatusRejected = "REJECTED"
	ReferralStatusExpired  = "EXPIRED"
)

const (
	ProbabilityLow    = "low"
	ProbabilityMedium = "medium"
	ProbabilityHigh   = "high"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionSuspended = "suspended"
)

// QuotaUnlimited marks a plan quota with no cap. Zero means no access at all,
// so "unlimited" needs its own sentinel.
const QuotaUnlimited = -1

// Practice areas served by the marketplace.
var Areas = []string{"familia", "consumidor", "bancario", "saude", "aereo"}
