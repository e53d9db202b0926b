package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/interfaces/http/middleware"
	"civic-connect.backend/internal/interfaces/http/response"
	"civic-connect.backend/internal/usecases"
)

// IssueService is the surface of the issue usecase the handler needs
type IssueService interface {
	CreateIssue(ctx context.Context, identity *entities.Identity, input *entities.CreateIssueInput, image, audio *entities.MediaUpload) (*entities.Issue, string, error)
	ListIssues(ctx context.Context) ([]*entities.Issue, string, error)
	ListNearby(ctx context.Context, identity *entities.Identity) ([]*entities.Issue, string, error)
	GetIssue(ctx context.Context, id uuid.UUID) (*entities.Issue, string, error)
}

var _ IssueService = (*usecases.IssueUsecase)(nil)

// IssueHandler handles issue reporting endpoints
type IssueHandler struct {
	issueUsecase IssueService
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issueUsecase IssueService) *IssueHandler {
	return &IssueHandler{
		issueUsecase: issueUsecase,
	}
}

// CreateIssue accepts a multipart issue report with optional media
// POST /api/issues
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	var input entities.CreateIssueInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.NewBadRequest(err.Error(), err))
		return
	}

	image, err := readUpload(c, "image")
	if err != nil {
		response.Error(c, domainerrors.NewBadRequest("could not read image upload", err))
		return
	}
	audio, err := readUpload(c, "audio")
	if err != nil {
		response.Error(c, domainerrors.NewBadRequest("could not read audio upload", err))
		return
	}

	identity := middleware.GetIdentity(c)
	issue, source, err := h.issueUsecase.CreateIssue(c.Request.Context(), identity, &input, image, audio)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := gin.H{
		"message": "Issue reported successfully",
		"issue":   issue,
		"source":  source,
	}
	if source == usecases.SourceMemory {
		body["warning"] = "Issue stored temporarily; it will not survive a server restart"
	}
	response.Success(c, http.StatusCreated, body)
}

// ListIssues returns all issues
// GET /api/issues
func (h *IssueHandler) ListIssues(c *gin.Context) {
	issues, source, err := h.issueUsecase.ListIssues(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"issues": issues,
		"count":  len(issues),
		"source": source,
	})
}

// ListNearby returns the feed, hiding the caller's own reports
// GET /api/issues/nearby
func (h *IssueHandler) ListNearby(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	issues, source, err := h.issueUsecase.ListNearby(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"issues": issues,
		"count":  len(issues),
		"source": source,
	})
}

// GetIssue returns a single issue
// GET /api/issues/:id
func (h *IssueHandler) GetIssue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.NewBadRequest("invalid issue id", err))
		return
	}

	issue, source, err := h.issueUsecase.GetIssue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"issue":  issue,
		"source": source,
	})
}

// maxUploadBytes caps a single media attachment at 10 MiB
const maxUploadBytes = 10 << 20

func readUpload(c *gin.Context, field string) (*entities.MediaUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == multipart.ErrMessageTooLarge {
			return nil, nil
		}
		// No multipart body at all also means no upload
		if err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, err
	}
	if fileHeader.Size > maxUploadBytes {
		return nil, domainerrors.NewBadRequest("uploaded file too large", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, err
	}

	return &entities.MediaUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
