// Package services – collaborator shims.
//
// Thin adapters binding the repository package's free functions and the
// report archive to the narrow interfaces the services consume. Keeping the
// shims here lets tests swap fakes without touching wiring in main.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
	"github.com/Lehmann-Bruno/petup-assistant/internal/repo"
	"github.com/Lehmann-Bruno/petup-assistant/internal/reports"
)

// GormPetRepo adapts the repo pet functions to PetRepo.
type GormPetRepo struct{}

func (GormPetRepo) CreatePet(ctx context.Context, db *gorm.DB, userID, name, species, breed string, status domain.PetStatus) (*domain.Pet, error) {
	return repo.CreatePet(ctx, db, userID, name, species, breed, status)
}

func (GormPetRepo) ListPets(ctx context.Context, db *gorm.DB, userID string) ([]domain.Pet, error) {
	return repo.ListPets(ctx, db, userID)
}

// GormPendingRepo adapts the repo pending-request functions to PendingRepo.
type GormPendingRepo struct{}

func (GormPendingRepo) AppendPendingRequest(ctx context.Context, db *gorm.DB, userID, intent, text string) (*domain.PendingRequest, error) {
	return repo.AppendPendingRequest(ctx, db, userID, intent, text)
}

// GormConversationRepo adapts the repo conversation functions to
// ConversationRepo.
type GormConversationRepo struct{}

func (GormConversationRepo) AppendTurn(ctx context.Context, db *gorm.DB, userID, role, content string, keep int) (*domain.Turn, error) {
	return repo.AppendTurn(ctx, db, userID, role, content, keep)
}

func (GormConversationRepo) ReplaceConversation(ctx context.Context, db *gorm.DB, userID, systemContent string) error {
	return repo.ReplaceConversation(ctx, db, userID, systemContent)
}

func (GormConversationRepo) ListRecentTurns(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Turn, error) {
	return repo.ListRecentTurns(ctx, db, userID, limit)
}

func (GormConversationRepo) CountTurns(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountTurns(ctx, db, userID)
}

// ArchiveAdapter binds *reports.Archive to ReportArchive.
type ArchiveAdapter struct {
	A *reports.Archive
}

func (a ArchiveAdapter) Latest(petName string) (Entry, bool) {
	e, ok := a.A.Latest(petName)
	if !ok {
		return Entry{}, false
	}
	return Entry{Message: e.Message, Service: e.Service, StatusType: e.StatusType}, true
}

func (a ArchiveAdapter) ArtifactPath(petName string) (string, bool) {
	return a.A.ArtifactPath(petName)
}
