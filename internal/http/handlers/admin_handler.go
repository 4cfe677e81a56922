// Staff admin HTTP handlers.
//
// This file exposes the read-and-review endpoints attendants use to work the
// assistant's output:
//   - GET  /pending-requests        (paginated review queue)
//   - GET  /users/{id}/pets         (a user's registered pets)
//   - POST /pets/{id}/confirm       (validate a pending registration)
//
// Handlers are transport-thin: they validate input, call the data layer, and
// translate errors into HTTP results.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
	"github.com/Lehmann-Bruno/petup-assistant/internal/repo"
	"github.com/Lehmann-Bruno/petup-assistant/internal/utils"
)

// AdminStore defines the persistence operations the admin API consumes.
type AdminStore interface {
	// CountPendingRequests returns the total size of the review queue.
	CountPendingRequests(ctx context.Context, db *gorm.DB) (int64, error)
	// ListPendingRequestsPage returns one page of the queue, oldest first.
	ListPendingRequestsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.PendingRequest, error)
	// ListPets returns a user's pets in registration order, removed excluded.
	ListPets(ctx context.Context, db *gorm.DB, userID string) ([]domain.Pet, error)
	// UpdatePetStatus sets a pet's registration status.
	UpdatePetStatus(ctx context.Context, db *gorm.DB, id string, status domain.PetStatus) error
}

// GormAdminStore adapts the repo free functions to AdminStore.
type GormAdminStore struct{}

func (GormAdminStore) CountPendingRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountPendingRequests(ctx, db)
}

func (GormAdminStore) ListPendingRequestsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.PendingRequest, error) {
	return repo.ListPendingRequestsPage(ctx, db, offset, limit)
}

func (GormAdminStore) ListPets(ctx context.Context, db *gorm.DB, userID string) ([]domain.Pet, error) {
	return repo.ListPets(ctx, db, userID)
}

func (GormAdminStore) UpdatePetStatus(ctx context.Context, db *gorm.DB, id string, status domain.PetStatus) error {
	return repo.UpdatePetStatus(ctx, db, id, status)
}

// Handlers groups the admin API endpoints.
type Handlers struct {
	db    *gorm.DB
	store AdminStore
}

// New constructs a Handlers bound to the given database handle and store.
func New(db *gorm.DB, store AdminStore) *Handlers {
	return &Handlers{db: db, store: store}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListPendingRequestsResponse wraps a page of the review queue.
type ListPendingRequestsResponse struct {
	Requests   []domain.PendingRequest `json:"requests"`
	Pagination Pagination              `json:"pagination"`
}

// ListPetsResponse wraps a user's pet listing.
type ListPetsResponse struct {
	Pets []domain.Pet `json:"pets"`
}

// ConfirmPetRequest is the JSON payload for validating a registration.
// Status must be "confirmed" or "removed"; pending cannot be re-entered.
type ConfirmPetRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed removed"`
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	return utils.ClampPage(
		utils.AtoiDefault(c.Query("page"), defaultPage),
		utils.AtoiDefault(c.Query("page_size"), defaultPageSize),
		maxPageSize,
	)
}

// ListPendingRequests returns one page of the staff review queue, oldest
// first so attendants work it in arrival order.
func (h *Handlers) ListPendingRequests(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	total, err := h.store.CountPendingRequests(ctx, h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	items, err := h.store.ListPendingRequestsPage(ctx, h.db, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListPendingRequestsResponse{
		Requests: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// ListUserPets returns the registered pets of one user, removed excluded.
func (h *Handlers) ListUserPets(c *gin.Context) {
	uid := c.Param("id")
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id required")
		return
	}

	pets, err := h.store.ListPets(c.Request.Context(), h.db, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListPetsResponse{Pets: pets})
}

// ConfirmPet validates or rejects a pending registration.
func (h *Handlers) ConfirmPet(c *gin.Context) {
	petID := c.Param("id")
	if _, err := uuid.Parse(petID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pet id must be a UUID")
		return
	}

	var req ConfirmPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be confirmed or removed")
		return
	}

	err := h.store.UpdatePetStatus(c.Request.Context(), h.db, petID, domain.PetStatus(req.Status))
	if errors.Is(err, repo.ErrNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "pet not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	noContent(c)
}
