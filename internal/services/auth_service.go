package services

import (
	"context"
	"errors"
	"time"

	"stockaudit/internal/common"
	"stockaudit/internal/models"
	"stockaudit/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionTokenLifetime = 24 * time.Hour

// ErrInvalidCredentials is returned for unknown emails, wrong passwords and
// deactivated managers alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService signs managers in and issues their session JWTs. Sessions only
// identify the counting manager; counting itself stays open to anonymous
// operators.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.SessionTokenResponse, *models.Manager, error)
}

type authService struct {
	managerRepo repositories.ManagerRepository
	jwtSecret   []byte
}

func NewAuthService(managerRepo repositories.ManagerRepository, jwtSecret string) AuthService {
	return &authService{managerRepo: managerRepo, jwtSecret: []byte(jwtSecret)}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.SessionTokenResponse, *models.Manager, error) {
	manager, err := s.managerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !manager.Active || manager.PasswordHash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   manager.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenLifetime)),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	return &models.SessionTokenResponse{
		Token:     signed,
		ExpiresIn: int64(sessionTokenLifetime.Seconds()),
	}, manager, nil
}
