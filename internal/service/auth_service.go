package service

import (
	"errors"
	"strconv"
	"strings"

	"advoga/config"
	"advoga/internal/auth"
	"advoga/internal/domain"
	"advoga/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type userAccountStore interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(u *models.User) error
}

type lawyerAccountStore interface {
	GetByEmail(email string) (*models.Lawyer, error)
	Create(l *models.Lawyer) error
}

// AuthService issues JWT pairs for clients and lawyers.
type AuthService struct {
	cfg     *config.Config
	users   userAccountStore
	lawyers lawyerAccountStore
}

func NewAuthService(cfg *config.Config, users userAccountStore, lawyers lawyerAccountStore) *AuthService {
	return &AuthService{cfg: cfg, users: users, lawyers: lawyers}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *AuthService) RegisterUser(email, name, phone, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, Name: name, Phone: phone, PasswordHash: string(hash), Active: true}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) LoginUser(email, password string) (*models.User, *TokenPair, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !u.Active {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.tokens(u.ID, u.Email, domain.RoleClient)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *AuthService) RegisterLawyer(email, name, oab, phone, password string, areas, cities, states []string) (*models.Lawyer, error) {
	existing, err := s.lawyers.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	l := &models.Lawyer{
		Email:        email,
		Name:         name,
		OAB:          oab,
		Phone:        phone,
		PasswordHash: string(hash),
		Areas:        areas,
		Cities:       cities,
		States:       states,
		Active:       true,
		// Verified stays false until the OAB registration is checked.
	}
	if err := s.lawyers.Create(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *AuthService) LoginLawyer(email, password string) (*models.Lawyer, *TokenPair, error) {
	l, err := s.lawyers.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if l == nil || !l.Active {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.tokens(l.ID, l.Email, domain.RoleLawyer)
	if err != nil {
		return nil, nil, err
	}
	return l, pair, nil
}

// Refresh exchanges a refresh token for a fresh pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	subject, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(subject, ":", 2)
	if len(parts) != 2 {
		return nil, auth.ErrInvalidToken
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	email := ""
	if parts[0] == domain.RoleClient {
		if u, err := s.users.GetByID(uint(id)); err == nil && u != nil {
			email = u.Email
		}
	}
	return s.tokens(uint(id), email, parts[0])
}

func (s *AuthService) tokens(id uint, email, role string) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, id, email, role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, id, role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
