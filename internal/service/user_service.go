package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username string
	Email    string
	Referrer string
}

// UserService manages the referral tree membership of users.
type UserService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewUserService(store *repository.Store, log *zap.Logger) *UserService {
	return &UserService{store: store, log: log}
}

// Register creates a user under an optional referrer, together with an
// unpurchased license and one empty wallet of each kind.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	referrer := strings.TrimSpace(in.Referrer)
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", domain.ErrInvalidInput)
	}
	if referrer == username {
		return nil, fmt.Errorf("user %q cannot refer themselves: %w", username, domain.ErrReferralCycle)
	}

	user := &models.User{Username: username}
	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = &email
	}
	if referrer != "" {
		user.Referrer = &referrer
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Users.Exists(username)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("user %q: %w", username, domain.ErrAlreadyExists)
		}
		if referrer != "" {
			if _, err := tx.Users.GetByUsername(referrer); err != nil {
				return fmt.Errorf("referrer: %w", err)
			}
		}
		if err := tx.Users.Create(user); err != nil {
			return err
		}
		if err := tx.Licenses.Create(&models.License{
			UserID:  user.ID,
			Price:   decimal.Zero,
			Cap:     decimal.Zero,
			Accrued: decimal.Zero,
		}); err != nil {
			return err
		}
		for _, kind := range []string{domain.WalletCommissions, domain.WalletDividends} {
			if err := tx.Wallets.Create(&models.Wallet{UserID: user.ID, Kind: kind, Balance: decimal.Zero}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("username", username), zap.String("referrer", referrer))
	return user, nil
}

// Get returns the user with license, wallets and bonus accumulators.
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return s.store.WithContext(ctx).Users.GetProfile(username)
}

// ChangeReferrer re-parents username under referrer, or makes it a root when
// referrer is empty. Moving a user under one of its own descendants is rejected.
func (s *UserService) ChangeReferrer(ctx context.Context, username, referrer string) (*models.User, error) {
	referrer = strings.TrimSpace(referrer)
	if referrer == username {
		return nil, fmt.Errorf("user %q cannot refer themselves: %w", username, domain.ErrReferralCycle)
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.GetByUsername(username)
		if err != nil {
			return err
		}
		var next *string
		if referrer != "" {
			ancestors, err := upline(tx, referrer, math.MaxInt)
			if err != nil {
				return fmt.Errorf("referrer: %w", err)
			}
			for _, a := range ancestors {
				if a.Username == username {
					return fmt.Errorf("%q is in the downline of %q: %w", referrer, username, domain.ErrReferralCycle)
				}
			}
			next = &referrer
		}
		if err := tx.Users.UpdateReferrer(user.ID, next); err != nil {
			return err
		}
		user.Referrer = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("referrer changed", zap.String("username", username), zap.String("referrer", referrer))
	return user, nil
}
