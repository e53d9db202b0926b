package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
	"civic-connect.backend/internal/interfaces/http/middleware"
)

type authServiceStub struct {
	sendOTPFn       func(ctx context.Context, input *entities.SendOTPInput) (string, error)
	verifyOTPFn     func(ctx context.Context, input *entities.VerifyOTPInput) (*entities.User, string, error)
	firebaseAuthFn  func(ctx context.Context, input *entities.FirebaseAuthInput) (*entities.User, string, error)
	getProfileFn    func(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	updateProfileFn func(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
}

func (s authServiceStub) SendOTP(ctx context.Context, input *entities.SendOTPInput) (string, error) {
	return s.sendOTPFn(ctx, input)
}
func (s authServiceStub) VerifyOTP(ctx context.Context, input *entities.VerifyOTPInput) (*entities.User, string, error) {
	return s.verifyOTPFn(ctx, input)
}
func (s authServiceStub) FirebaseAuth(ctx context.Context, input *entities.FirebaseAuthInput) (*entities.User, string, error) {
	return s.firebaseAuthFn(ctx, input)
}
func (s authServiceStub) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.getProfileFn(ctx, userID)
}
func (s authServiceStub) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	return s.updateProfileFn(ctx, userID, input)
}

type issueServiceStub struct {
	createIssueFn func(ctx context.Context, identity *entities.Identity, input *entities.CreateIssueInput, image, audio *entities.MediaUpload) (*entities.Issue, string, error)
	listIssuesFn  func(ctx context.Context) ([]*entities.Issue, string, error)
	listNearbyFn  func(ctx context.Context, identity *entities.Identity) ([]*entities.Issue, string, error)
	getIssueFn    func(ctx context.Context, id uuid.UUID) (*entities.Issue, string, error)
}

func (s issueServiceStub) CreateIssue(ctx context.Context, identity *entities.Identity, input *entities.CreateIssueInput, image, audio *entities.MediaUpload) (*entities.Issue, string, error) {
	return s.createIssueFn(ctx, identity, input, image, audio)
}
func (s issueServiceStub) ListIssues(ctx context.Context) ([]*entities.Issue, string, error) {
	return s.listIssuesFn(ctx)
}
func (s issueServiceStub) ListNearby(ctx context.Context, identity *entities.Identity) ([]*entities.Issue, string, error) {
	return s.listNearbyFn(ctx, identity)
}
func (s issueServiceStub) GetIssue(ctx context.Context, id uuid.UUID) (*entities.Issue, string, error) {
	return s.getIssueFn(ctx, id)
}

type vouchServiceStub struct {
	vouchFn       func(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchResult, error)
	statusFn      func(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchStatus, error)
	listVouchedFn func(ctx context.Context, userID uuid.UUID) ([]*entities.VouchedIssue, string, error)
}

func (s vouchServiceStub) Vouch(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchResult, error) {
	return s.vouchFn(ctx, issueID, identity)
}
func (s vouchServiceStub) Status(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchStatus, error) {
	return s.statusFn(ctx, issueID, identity)
}
func (s vouchServiceStub) ListVouched(ctx context.Context, userID uuid.UUID) ([]*entities.VouchedIssue, string, error) {
	return s.listVouchedFn(ctx, userID)
}

// setIdentity is a test middleware that injects a fixed caller identity
func setIdentity(identity *entities.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity != nil {
			c.Set(middleware.IdentityKey, identity)
		}
		c.Next()
	}
}
