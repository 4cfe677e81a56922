package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
)

// test DB helper
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreatePet_InsertsWithStatus(t *testing.T) {
	db := newTestDB(t, &domain.Pet{})
	ctx := context.Background()

	p, err := CreatePet(ctx, db, "u1", "Rex", "Cachorro", "", domain.PetStatusPending)
	if err != nil {
		t.Fatalf("CreatePet error: %v", err)
	}
	if p.ID == "" || p.UserID != "u1" || p.Name != "Rex" || p.Status != domain.PetStatusPending {
		t.Fatalf("unexpected pet: %+v", p)
	}
	if p.CreatedAt.IsZero() || time.Since(p.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", p.CreatedAt)
	}

	got, err := GetPet(ctx, db, p.ID)
	if err != nil {
		t.Fatalf("GetPet: %v", err)
	}
	if got.ID != p.ID || got.Status != domain.PetStatusPending {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, p)
	}
}

func TestListPets_OrderAndRemovedFilter(t *testing.T) {
	db := newTestDB(t, &domain.Pet{})
	ctx := context.Background()

	t0 := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	seed := []domain.Pet{
		{ID: "a", UserID: "u1", Name: "Rex", Species: "Cachorro", Status: domain.PetStatusPending, CreatedAt: t0},
		{ID: "b", UserID: "u1", Name: "Mel", Species: "Gato", Status: domain.PetStatusConfirmed, CreatedAt: t0.Add(time.Second)},
		{ID: "c", UserID: "u1", Name: "Bob", Species: "Cachorro", Status: domain.PetStatusRemoved, CreatedAt: t0.Add(2 * time.Second)},
		{ID: "d", UserID: "u2", Name: "Luna", Species: "Gato", Status: domain.PetStatusConfirmed, CreatedAt: t0},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed %s: %v", seed[i].ID, err)
		}
	}

	pets, err := ListPets(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListPets: %v", err)
	}
	if len(pets) != 2 || pets[0].ID != "a" || pets[1].ID != "b" {
		t.Fatalf("unexpected listing: %+v", pets)
	}
}

func TestUpdatePetStatus(t *testing.T) {
	db := newTestDB(t, &domain.Pet{})
	ctx := context.Background()

	p, err := CreatePet(ctx, db, "u1", "Rex", "Cachorro", "", domain.PetStatusPending)
	if err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	if err := UpdatePetStatus(ctx, db, p.ID, domain.PetStatusConfirmed); err != nil {
		t.Fatalf("UpdatePetStatus: %v", err)
	}
	got, err := GetPet(ctx, db, p.ID)
	if err != nil {
		t.Fatalf("GetPet: %v", err)
	}
	if got.Status != domain.PetStatusConfirmed {
		t.Fatalf("status = %q; want confirmed", got.Status)
	}

	if err := UpdatePetStatus(ctx, db, "missing", domain.PetStatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
