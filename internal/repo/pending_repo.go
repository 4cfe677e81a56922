// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// pending-request log.
//
// The log is append-only from the assistant's point of view: entries are
// never updated or deleted here, duplicates are expected, and resolution
// happens out-of-band through staff tooling.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
)

// AppendPendingRequest inserts a new pending request for staff review.
// No deduplication is performed: repeated identical requests produce
// repeated log entries.
func AppendPendingRequest(ctx context.Context, db *gorm.DB, userID, intent, text string) (*domain.PendingRequest, error) {
	r := &domain.PendingRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Intent:    intent,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// CountPendingRequests returns the total number of logged requests.
func CountPendingRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.PendingRequest{}).
		Count(&total).Error
	return total, err
}

// ListPendingRequestsPage returns a page of the log in insertion order
// (oldest first), for staff tooling. The caller computes offset and limit.
func ListPendingRequestsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.PendingRequest, error) {
	var out []domain.PendingRequest
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
