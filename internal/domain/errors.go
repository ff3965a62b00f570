package domain

import "errors"

// Error taxonomy for the lead distribution flow. Handlers map these to HTTP
// statuses; services check them with errors.Is.
var (
	// ErrReferralNotFound: no pending referral exists for the (case, lawyer) pair.
	ErrReferralNotFound = errors.New("referral not found")
	// ErrReferralExpired: the exclusivity window lapsed before the lawyer acted.
	ErrReferralExpired = errors.New("referral expired")
	// ErrNoEligibleLawyer: the ranker produced an empty candidate list. This is
	// a terminal business outcome for the case, not a failure.
	ErrNoEligibleLawyer = errors.New("no eligible lawyer")
	// ErrConflict: a concurrent update won the race; callers retry a bounded
	// number of times before surfacing a transient failure.
	ErrConflict = errors.New("persistence conflict")
)
