package repository

import (
	"advoga/internal/service"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of service.Store. InTx yields a
// Store bound to one transaction so the state machine can combine a status
// swap with counter updates atomically.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Cases() service.CaseStore                 { return NewCaseRepository(s.db) }
func (s *Store) Lawyers() service.LawyerStore             { return NewLawyerRepository(s.db) }
func (s *Store) Referrals() service.ReferralStore         { return NewReferralRepository(s.db) }
func (s *Store) Subscriptions() service.SubscriptionStore { return NewSubscriptionRepository(s.db) }

func (s *Store) InTx(fn func(service.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

var _ service.Store = (*Store)(nil)
