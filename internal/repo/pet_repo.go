// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the pet
// registry.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a pet is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreatePet inserts a new pet owned by userID with the given status.
// The pet ID is a randomly generated UUID, and CreatedAt is set to UTC.
func CreatePet(ctx context.Context, db *gorm.DB, userID, name, species, breed string, status domain.PetStatus) (*domain.Pet, error) {
	p := &domain.Pet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Species:   species,
		Breed:     breed,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListPets returns all pets belonging to userID in registration order
// (creation time ascending, sequence-stable via created_at then id).
// Removed pets are excluded. It returns an empty slice when the user has
// no pets.
func ListPets(ctx context.Context, db *gorm.DB, userID string) ([]domain.Pet, error) {
	var out []domain.Pet
	err := db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, domain.PetStatusRemoved).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// GetPet fetches a single pet by its ID. Returns ErrNotFound when absent.
func GetPet(ctx context.Context, db *gorm.DB, id string) (*domain.Pet, error) {
	var p domain.Pet
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePetStatus sets the registration status of a pet. Used by staff
// tooling to confirm pending registrations or validate removals. If no rows
// are affected (pet missing) it returns ErrNotFound.
func UpdatePetStatus(ctx context.Context, db *gorm.DB, id string, status domain.PetStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Pet{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
