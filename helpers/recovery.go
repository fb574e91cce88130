package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecoveryHashLength int           = 35
	maxRecoveryTries   int           = 3
	recoveryLifetime   time.Duration = 6 * time.Hour
)

// RequestRecovery replaces the pending recovery requests of an active user
// with a new one. Once the user piles up too many requests the password is
// scrambled, unless it changed within the last hour.
func RequestRecovery(ctx context.Context, db *gorm.DB, email string, now time.Time) (*models.AccountRecovery, error) {
	recovery := &models.AccountRecovery{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active := true
		user := &models.User{}
		if err := tx.Where(&models.User{Email: email, Active: &active}).First(user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return structure.ErrNotFound
			}

			return fmt.Errorf("Could not find user: %w", err)
		}

		// Replaced requests are soft deleted, so they still count as tries.
		tries := []uuid.UUID{}
		if err := tx.Unscoped().Model(&models.AccountRecovery{}).
			Where("user_id = ? AND expires_at > ?", user.ID, now).
			Pluck("id", &tries).Error; err != nil {
			return fmt.Errorf("Could not count recovery tries: %w", err)
		}

		changedRecently := user.LastPasswordChange != nil && now.Sub(*user.LastPasswordChange) < time.Hour

		if len(tries) >= maxRecoveryTries && !changedRecently {
			password, err := utils.RandomPassword(RecoveryHashLength)
			if err != nil {
				return err
			}

			if err := tx.Model(user).Updates(&models.User{
				Password:           utils.HashPassword(password),
				LastPasswordChange: &now,
			}).Error; err != nil {
				return fmt.Errorf("Could not scramble password: %w", err)
			}
		}

		if len(tries) > 0 {
			if err := tx.Where("id IN ?", tries).Delete(&models.AccountRecovery{}).Error; err != nil {
				return fmt.Errorf("Could not delete previous recovery tries: %w", err)
			}
		}

		hash, err := utils.RandomString(RecoveryHashLength)
		if err != nil {
			return err
		}

		recovery = &models.AccountRecovery{
			Hash:      hash,
			UserID:    user.ID,
			ExpiresAt: now.Add(recoveryLifetime),
		}
		if err := tx.Create(recovery).Error; err != nil {
			return fmt.Errorf("Could not create recovery request: %w", err)
		}

		recovery.User = *user

		return nil
	})
	if err != nil {
		return nil, err
	}

	return recovery, nil
}

// FindRecovery returns the pending request for hash, with its user loaded.
func FindRecovery(ctx context.Context, db *gorm.DB, hash string, now time.Time) (*models.AccountRecovery, error) {
	if len(hash) != RecoveryHashLength {
		return nil, structure.ErrNotFound
	}

	recovery := &models.AccountRecovery{}

	if err := db.WithContext(ctx).Model(&models.AccountRecovery{}).
		Joins("LEFT JOIN users u ON account_recoveries.user_id = u.id").
		Where(&models.AccountRecovery{Hash: hash}).
		Where("account_recoveries.expires_at > ?", now).
		Where("u.active = ? AND u.deleted_at IS NULL", true).
		Order("account_recoveries.created_at DESC").
		Preload("User").
		First(recovery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, structure.ErrNotFound
		}

		return nil, fmt.Errorf("Could not find recovery request: %w", err)
	}

	return recovery, nil
}

// CompleteRecovery sets the new password and drops every pending request
// of the user.
func CompleteRecovery(ctx context.Context, db *gorm.DB, recovery *models.AccountRecovery, password string, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", recovery.UserID).Updates(&models.User{
			Password:           utils.HashPassword(password),
			LastPasswordChange: &now,
		}).Error; err != nil {
			return fmt.Errorf("Could not update user password: %w", err)
		}

		if err := tx.Where(&models.AccountRecovery{UserID: recovery.UserID}).Delete(&models.AccountRecovery{}).Error; err != nil {
			return fmt.Errorf("Could not delete recovery requests: %w", err)
		}

		return nil
	})
}
