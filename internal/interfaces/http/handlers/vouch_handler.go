package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/interfaces/http/middleware"
	"civic-connect.backend/internal/interfaces/http/response"
	"civic-connect.backend/internal/usecases"
)

// VouchService is the surface of the vouch usecase the handler needs
type VouchService interface {
	Vouch(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchResult, error)
	Status(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchStatus, error)
	ListVouched(ctx context.Context, userID uuid.UUID) ([]*entities.VouchedIssue, string, error)
}

var _ VouchService = (*usecases.VouchUsecase)(nil)

// VouchHandler handles vouch ledger endpoints
type VouchHandler struct {
	vouchUsecase VouchService
}

// NewVouchHandler creates a new vouch handler
func NewVouchHandler(vouchUsecase VouchService) *VouchHandler {
	return &VouchHandler{
		vouchUsecase: vouchUsecase,
	}
}

// Vouch endorses an issue
// POST /api/issues/:id/vouch
func (h *VouchHandler) Vouch(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NewBadRequest("invalid issue id", err))
		return
	}

	identity := middleware.GetIdentity(c)
	result, err := h.vouchUsecase.Vouch(c.Request.Context(), issueID, identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.AlreadyVouched {
		c.JSON(http.StatusConflict, gin.H{
			"message":         "Already vouched for this issue",
			"issue_id":        result.IssueID,
			"vouch_count":     result.VouchCount,
			"vouch_priority":  result.VouchCount,
			"already_vouched": true,
			"user_vouched":    true,
			"source":          result.Source,
		})
		return
	}

	// vouch_priority mirrors vouch_count for older clients
	response.Success(c, http.StatusOK, gin.H{
		"message":         "Vouch recorded",
		"issue_id":        result.IssueID,
		"vouch_count":     result.VouchCount,
		"vouch_priority":  result.VouchCount,
		"already_vouched": false,
		"user_vouched":    result.UserVouched,
		"source":          result.Source,
	})
}

// VouchStatus reports the counter and whether the caller vouched
// GET /api/issues/:id/vouch
func (h *VouchHandler) VouchStatus(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NewBadRequest("invalid issue id", err))
		return
	}

	identity := middleware.GetIdentity(c)
	status, err := h.vouchUsecase.Status(c.Request.Context(), issueID, identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"issue_id":     status.IssueID,
		"title":        status.Title,
		"vouch_count":  status.VouchCount,
		"user_vouched": status.UserVouched,
		"source":       status.Source,
	})
}

// ListVouched returns the issues the caller vouched
// GET /api/user/vouches
func (h *VouchHandler) ListVouched(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Error(c, domainerrors.NewUnauthorized("Authentication required", nil))
		return
	}

	vouched, source, err := h.vouchUsecase.ListVouched(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"vouches": vouched,
		"count":   len(vouched),
		"source":  source,
	})
}
