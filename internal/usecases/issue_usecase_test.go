package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/domain/repositories"
	"civic-connect.backend/internal/usecases"
)

func TestIssueUsecase_CreateIssue_Database(t *testing.T) {
	primary := new(MockIssueRepository)
	fallback := new(MockIssueRepository)
	media := new(MockMediaStore)
	uc := usecases.NewIssueUsecase(primary, fallback, media)

	primary.On("Create", context.Background(), mock.AnythingOfType("*entities.Issue")).Return(nil).Once()

	identity := &entities.Identity{UserID: uuid.New()}
	issue, source, err := uc.CreateIssue(context.Background(), identity, &entities.CreateIssueInput{
		Title:       "Streetlight out",
		Description: "dark stretch near the park",
		Latitude:    12.9716,
		Longitude:   77.5946,
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, usecases.SourceDatabase, source)
	assert.Equal(t, entities.IssueStatusOpen, issue.Status)
	assert.Equal(t, entities.InitialVouchCount, issue.VouchCount)
	require.NotNil(t, issue.UserID)
	assert.Equal(t, identity.UserID, *issue.UserID)
	fallback.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueUsecase_CreateIssue_FallsBackToMemory(t *testing.T) {
	primary := new(MockIssueRepository)
	fallback := new(MockIssueRepository)
	uc := usecases.NewIssueUsecase(primary, fallback, new(MockMediaStore))

	primary.On("Create", context.Background(), mock.AnythingOfType("*entities.Issue")).Return(errors.New("connection refused")).Once()
	fallback.On("Create", context.Background(), mock.AnythingOfType("*entities.Issue")).Return(nil).Once()

	issue, source, err := uc.CreateIssue(context.Background(), nil, &entities.CreateIssueInput{
		Title:       "Pothole",
		Description: "deep one",
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, usecases.SourceMemory, source)
	assert.Nil(t, issue.UserID)
	fallback.AssertExpectations(t)
}

func TestIssueUsecase_CreateIssue_WithMedia(t *testing.T) {
	primary := new(MockIssueRepository)
	media := new(MockMediaStore)
	uc := usecases.NewIssueUsecase(primary, new(MockIssueRepository), media)

	imageData := []byte("jpeg-bytes")
	media.On("Upload", context.Background(), repositories.MediaKindImage, "photo.jpg", imageData, "image/jpeg").
		Return("https://cdn.example/issue-images/1_abc.jpg", "1_abc.jpg", nil).Once()
	primary.On("Create", context.Background(), mock.AnythingOfType("*entities.Issue")).Return(nil).Once()

	issue, _, err := uc.CreateIssue(context.Background(), nil, &entities.CreateIssueInput{
		Title:       "Pothole",
		Description: "deep one",
	}, &entities.MediaUpload{Filename: "photo.jpg", ContentType: "image/jpeg", Data: imageData}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/issue-images/1_abc.jpg", issue.ImageURL.String)
	assert.Equal(t, "1_abc.jpg", issue.ImageFilename.String)
}

func TestIssueUsecase_CreateIssue_MediaFailureIsNotFatal(t *testing.T) {
	primary := new(MockIssueRepository)
	media := new(MockMediaStore)
	uc := usecases.NewIssueUsecase(primary, new(MockIssueRepository), media)

	media.On("Upload", context.Background(), repositories.MediaKindImage, "photo.jpg", mock.Anything, "image/jpeg").
		Return("", "", errors.New("bucket unreachable")).Once()
	primary.On("Create", context.Background(), mock.AnythingOfType("*entities.Issue")).Return(nil).Once()

	issue, source, err := uc.CreateIssue(context.Background(), nil, &entities.CreateIssueInput{
		Title:       "Pothole",
		Description: "deep one",
	}, &entities.MediaUpload{Filename: "photo.jpg", ContentType: "image/jpeg", Data: []byte("x")}, nil)
	require.NoError(t, err)
	assert.Equal(t, usecases.SourceDatabase, source)
	assert.False(t, issue.ImageURL.Valid)
}

func TestIssueUsecase_ListIssues_FallsBack(t *testing.T) {
	primary := new(MockIssueRepository)
	fallback := new(MockIssueRepository)
	uc := usecases.NewIssueUsecase(primary, fallback, new(MockMediaStore))

	memoryIssues := []*entities.Issue{{ID: uuid.New(), Title: "Pothole"}}
	primary.On("List", context.Background()).Return(nil, errors.New("connection refused")).Once()
	fallback.On("List", context.Background()).Return(memoryIssues, nil).Once()

	issues, source, err := uc.ListIssues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, usecases.SourceMemory, source)
	assert.Len(t, issues, 1)
}

func TestIssueUsecase_ListNearby(t *testing.T) {
	primary := new(MockIssueRepository)
	uc := usecases.NewIssueUsecase(primary, new(MockIssueRepository), new(MockMediaStore))

	identity := &entities.Identity{UserID: uuid.New()}
	primary.On("ListExcludingUser", context.Background(), identity.UserID).
		Return([]*entities.Issue{}, nil).Once()

	_, source, err := uc.ListNearby(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, usecases.SourceDatabase, source)
	primary.AssertExpectations(t)
}

func TestIssueUsecase_ListNearby_AnonymousSeesAll(t *testing.T) {
	primary := new(MockIssueRepository)
	uc := usecases.NewIssueUsecase(primary, new(MockIssueRepository), new(MockMediaStore))

	primary.On("List", context.Background()).Return([]*entities.Issue{}, nil).Once()

	_, _, err := uc.ListNearby(context.Background(), nil)
	require.NoError(t, err)
	primary.AssertNotCalled(t, "ListExcludingUser", mock.Anything, mock.Anything)
}

func TestIssueUsecase_GetIssue_ChecksFallbackOnMiss(t *testing.T) {
	primary := new(MockIssueRepository)
	fallback := new(MockIssueRepository)
	uc := usecases.NewIssueUsecase(primary, fallback, new(MockMediaStore))

	id := uuid.New()
	memoryIssue := &entities.Issue{ID: id, Title: "Pothole"}
	primary.On("GetByID", context.Background(), id).Return(nil, domainerrors.ErrNotFound).Once()
	fallback.On("GetByID", context.Background(), id).Return(memoryIssue, nil).Once()

	issue, source, err := uc.GetIssue(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, usecases.SourceMemory, source)
	assert.Equal(t, "Pothole", issue.Title)
}

func TestIssueUsecase_GetIssue_NotFoundAnywhere(t *testing.T) {
	primary := new(MockIssueRepository)
	fallback := new(MockIssueRepository)
	uc := usecases.NewIssueUsecase(primary, fallback, new(MockMediaStore))

	id := uuid.New()
	primary.On("GetByID", context.Background(), id).Return(nil, domainerrors.ErrNotFound).Once()
	fallback.On("GetByID", context.Background(), id).Return(nil, domainerrors.ErrNotFound).Once()

	_, _, err := uc.GetIssue(context.Background(), id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
