package services

import (
	"context"
	"time"

	"innkeep/config"
	"innkeep/internal/database"
	"innkeep/internal/logger"
	. "innkeep/internal/models"
	"innkeep/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTokenTTL = 24 * time.Hour

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and validates admin session tokens with role claims.
type AuthService struct {
	db        database.DB
	adminRepo repositories.AdminRepository
	secret    []byte
	log       logger.Logger
}

func NewAuthService(db database.DB, repos repositories.Repository, cfg config.Config) *AuthService {
	return &AuthService{
		db:        db,
		adminRepo: repos.Admin,
		secret:    []byte(cfg.JWTSecret),
		log:       logger.New("authService"),
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *Admin, error) {
	log := s.log.Function("Login")

	admin, err := s.adminRepo.GetByEmail(ctx, s.db.SQL, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, log.Err("failed to look up admin", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := SessionClaims{
		Role: string(admin.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, log.Err("failed to sign session token", err)
	}

	log.Info("admin logged in", "adminID", admin.ID, "role", admin.Role)
	return token, admin, nil
}

// ValidateToken parses a session token and returns the admin it belongs to.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Admin, error) {
	log := s.log.Function("ValidateToken")

	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.adminRepo.GetByID(ctx, s.db.SQL, adminID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, log.Err("failed to load admin for token", err)
	}

	return admin, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
