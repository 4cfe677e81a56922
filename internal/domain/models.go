// Package domain defines the persistence models for the pet registry,
// the pending-request log, and per-user conversation memory. These types
// are mapped with GORM and form the core data layer of the assistant.
package domain

import (
	"fmt"
	"time"
)

// Conversation roles, mirroring the wire roles sent to the model backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PetStatus is the registration state of a pet. Registrations created by the
// assistant start as pending and are confirmed (or removed) by a human
// attendant through staff tooling.
type PetStatus string

const (
	// PetStatusPending marks a registration awaiting human validation.
	PetStatusPending PetStatus = "pending"
	// PetStatusConfirmed marks a registration validated by an attendant.
	PetStatusConfirmed PetStatus = "confirmed"
	// PetStatusRemoved marks a pet whose removal was validated.
	PetStatusRemoved PetStatus = "removed"
)

// Valid reports whether s is one of the known statuses.
func (s PetStatus) Valid() bool {
	switch s {
	case PetStatusPending, PetStatusConfirmed, PetStatusRemoved:
		return true
	}
	return false
}

// Pet is a registered animal owned by a user. Insertion order is
// registration order.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: channel identity of the owner; indexed for per-user listings.
//   - Name: pet name as registered (without any status decoration).
//   - Species / Breed: free-text species and optional breed.
//   - Status: explicit registration state. The legacy "(pendente)" display
//     suffix is presentation only and derived from this field.
type Pet struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;index:idx_user_pets"`
	Name      string    `json:"name"    gorm:"type:varchar(120);not null"`
	Species   string    `json:"species" gorm:"type:varchar(64);not null"`
	Breed     string    `json:"breed"   gorm:"type:varchar(120)"`
	Status    PetStatus `json:"status"  gorm:"type:varchar(16);not null;check:status IN ('pending','confirmed','removed')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Pet.
func (Pet) TableName() string { return "pets" }

// DisplayName renders the pet name for user-facing listings, appending the
// "(pendente)" marker for registrations still awaiting validation.
func (p Pet) DisplayName() string {
	if p.Status == PetStatusPending {
		return p.Name + " (pendente)"
	}
	return p.Name
}

// Describe renders the single-line listing form used in chat replies,
// e.g. "Rex (pendente) (Cachorro - Labrador)".
func (p Pet) Describe() string {
	if p.Breed != "" {
		return fmt.Sprintf("%s (%s - %s)", p.DisplayName(), p.Species, p.Breed)
	}
	return fmt.Sprintf("%s (%s)", p.DisplayName(), p.Species)
}

// PendingRequest is a human-actionable item queued for staff review. The log
// is append-only: entries are never mutated or removed by the assistant, and
// duplicates are expected (no uniqueness constraint).
type PendingRequest struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;index"`
	Intent    string    `json:"intent"  gorm:"type:varchar(255);not null"`
	Text      string    `json:"text"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for PendingRequest.
func (PendingRequest) TableName() string { return "pending_requests" }

// Turn is one message unit of a user's conversation memory, tagged with its
// speaker role. Memory is capped per user after each write (see repo); the
// auto-incremented Seq gives a total order independent of clock resolution.
type Turn struct {
	Seq       uint64    `json:"seq"     gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;index:idx_user_turns"`
	Role      string    `json:"role"    gorm:"type:varchar(16);not null;check:role IN ('system','user','assistant')"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Turn.
func (Turn) TableName() string { return "turns" }
