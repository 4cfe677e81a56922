// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for per-user
// conversation memory.
//
// Memory semantics:
//   - AppendTurn adds one turn and then trims the user's history to the
//     retention cap, oldest first. The leading system turn is not exempt
//     from the cap; a full re-seed replaces the whole sequence.
//   - ReplaceConversation drops everything for a user and seeds a single
//     system turn (idle-expiry reset).
//   - ListRecentTurns returns the newest N turns in chronological order,
//     which is what the model-context builder consumes.
//
// Writes here are last-writer-wins; callers treat failures as non-fatal
// (logged and swallowed), so no retry or write-ahead logic lives here.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
)

// AppendTurn appends one turn to a user's history and trims the history to
// keep at most `keep` turns. A keep value <= 0 disables trimming.
func AppendTurn(ctx context.Context, db *gorm.DB, userID, role, content string, keep int) (*domain.Turn, error) {
	tn := &domain.Turn{
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(tn).Error; err != nil {
		return nil, err
	}
	if keep > 0 {
		if err := TrimConversation(ctx, db, userID, keep); err != nil {
			return nil, err
		}
	}
	return tn, nil
}

// TrimConversation discards the oldest turns of a user so that at most
// `keep` remain. It is a no-op when the history is already within the cap.
func TrimConversation(ctx context.Context, db *gorm.DB, userID string, keep int) error {
	var total int64
	if err := db.WithContext(ctx).
		Model(&domain.Turn{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return err
	}
	if total <= int64(keep) {
		return nil
	}

	// Delete everything older than the keep-th newest turn.
	var cutoff domain.Turn
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq desc").
		Offset(keep - 1).
		Limit(1).
		First(&cutoff).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("user_id = ? AND seq < ?", userID, cutoff.Seq).
		Delete(&domain.Turn{}).Error
}

// ReplaceConversation deletes a user's entire history and seeds it with a
// single system turn. Used when the idle timeout expires a session.
func ReplaceConversation(ctx context.Context, db *gorm.DB, userID, systemContent string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Turn{}).Error; err != nil {
			return err
		}
		seed := &domain.Turn{
			UserID:    userID,
			Role:      domain.RoleSystem,
			Content:   systemContent,
			CreatedAt: time.Now().UTC(),
		}
		return tx.Create(seed).Error
	})
}

// CountTurns returns the number of turns currently retained for a user.
func CountTurns(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Turn{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListRecentTurns returns the newest `limit` turns for a user in
// chronological (oldest-to-newest) order. A limit <= 0 returns the whole
// retained history.
func ListRecentTurns(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Turn, error) {
	q := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var newestFirst []domain.Turn
	if err := q.Find(&newestFirst).Error; err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	out := make([]domain.Turn, len(newestFirst))
	for i, t := range newestFirst {
		out[len(newestFirst)-1-i] = t
	}
	return out, nil
}
