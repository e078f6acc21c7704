package services

import (
	"context"
	"time"

	"innkeep/config"
	"innkeep/internal/database"
	"innkeep/internal/logger"
	. "innkeep/internal/models"
	"innkeep/internal/policy"
	"innkeep/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestAccessService issues signed guest links and resolves them back to the
// stay they scope. The JWT carries only an opaque token ID; revocation and
// expiry live on the GuestLink row so a leaked token can be cut off.
type GuestAccessService struct {
	db       database.DB
	stayRepo repositories.StayRepository
	linkRepo repositories.GuestLinkRepository
	tx       TxExecutor
	clock    policy.Clock
	secret   []byte
	ttl      time.Duration
	log      logger.Logger
}

type guestClaims struct {
	StayID string `json:"stayId"`
	jwt.RegisteredClaims
}

func NewGuestAccessService(
	db database.DB,
	repos repositories.Repository,
	tx TxExecutor,
	clock policy.Clock,
	cfg config.Config,
) *GuestAccessService {
	return &GuestAccessService{
		db:       db,
		stayRepo: repos.Stay,
		linkRepo: repos.GuestLink,
		tx:       tx,
		clock:    clock,
		secret:   []byte(cfg.JWTSecret),
		ttl:      time.Duration(cfg.GuestLinkTTLHours) * time.Hour,
		log:      logger.New("guestAccessService"),
	}
}

// IssueLink creates a guest link for a stay in the caller's scope and
// returns the signed token to hand to the guest.
func (s *GuestAccessService) IssueLink(
	ctx context.Context,
	stayID, adminID uuid.UUID,
) (string, *GuestLink, error) {
	log := s.log.Function("IssueLink")

	now := s.clock.Now()
	tokenID := uuid.NewString()

	var link *GuestLink
	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		stay, err := s.stayRepo.GetByIDForOwner(ctx, tx, stayID, adminID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrStayNotFound
			}
			return err
		}

		link = &GuestLink{
			StayID:    stay.ID,
			TokenID:   tokenID,
			ExpiresAt: now.Add(s.ttl),
		}
		return s.linkRepo.Create(ctx, tx, link)
	})
	if err != nil {
		return "", nil, err
	}

	claims := guestClaims{
		StayID: stayID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(link.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, log.Err("failed to sign guest link token", err)
	}

	log.Info("guest link issued", "stayID", stayID, "expiresAt", link.ExpiresAt)
	return token, link, nil
}

// ResolveLink validates a guest token and returns the stay it scopes.
func (s *GuestAccessService) ResolveLink(ctx context.Context, tokenString string) (*Stay, error) {
	log := s.log.Function("ResolveLink")

	var claims guestClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrGuestLinkInvalid
	}

	link, err := s.linkRepo.GetByTokenID(ctx, s.db.SQL, claims.Subject)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGuestLinkInvalid
		}
		return nil, log.Err("failed to resolve guest link", err)
	}

	if !link.IsUsable(s.clock.Now()) {
		return nil, ErrGuestLinkInvalid
	}

	return &link.Stay, nil
}
