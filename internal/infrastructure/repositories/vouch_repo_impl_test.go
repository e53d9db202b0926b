package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "civic-connect.backend/internal/domain/errors"
)

func seedIssue(t *testing.T, repo *IssueRepository, title string) uuid.UUID {
	t.Helper()
	issue := newTestIssue(nil, title)
	require.NoError(t, repo.Create(context.Background(), issue))
	return issue.ID
}

func TestVouchIdentified(t *testing.T) {
	db := newTestDB(t)
	createIssueTable(t, db)
	createVouchTable(t, db)
	issues := NewIssueRepository(db)
	repo := NewVouchRepository(db)
	ctx := context.Background()

	issueID := seedIssue(t, issues, "Pothole")
	userID := uuid.New()

	count, err := repo.VouchIdentified(ctx, issueID, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := issues.GetByID(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VouchCount)

	has, err := repo.HasVouched(ctx, issueID, userID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestVouchIdentifiedDuplicate(t *testing.T) {
	db := newTestDB(t)
	createIssueTable(t, db)
	createVouchTable(t, db)
	issues := NewIssueRepository(db)
	repo := NewVouchRepository(db)
	ctx := context.Background()

	issueID := seedIssue(t, issues, "Pothole")
	userID := uuid.New()

	_, err := repo.VouchIdentified(ctx, issueID, userID)
	require.NoError(t, err)

	_, err = repo.VouchIdentified(ctx, issueID, userID)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	// Counter must not move on the failed attempt
	got, err := issues.GetByID(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VouchCount)
}

func TestVouchIdentifiedReportsStoredCount(t *testing.T) {
	db := newTestDB(t)
	createIssueTable(t, db)
	createVouchTable(t, db)
	issues := NewIssueRepository(db)
	repo := NewVouchRepository(db)
	ctx := context.Background()

	issueID := seedIssue(t, issues, "Pothole")

	// Other vouches land on the row; the reported count must come from
	// a post-increment read, never from arithmetic on an earlier read.
	mustExec(t, db, "UPDATE issues SET vouch_count = vouch_count + 7 WHERE id = ?", issueID)

	count, err := repo.VouchIdentified(ctx, issueID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 9, count)

	got, err := issues.GetByID(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, got.VouchCount, count)
}

func TestVouchIdentifiedIssueNotFound(t *testing.T) {
	db := newTestDB(t)
	createIssueTable(t, db)
	createVouchTable(t, db)
	repo := NewVouchRepository(db)

	_, err := repo.VouchIdentified(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVouchAnonymous(t *testing.T) {
	db := newTestDB(t)
	createIssueTable(t, db)
	createVouchTable(t, db)
	issues := NewIssueRepository(db)
	repo := NewVouchRepository(db)
	ctx := context.Background()

	issueID := seedIssue(t, issues, "Pothole")

	count, err := repo.VouchAnonymous(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.VouchAnonymous(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = repo.VouchAnonymous(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestHasVouchedFalse(t *testing.T) {
	db := newTestDB(t)
	createIssueTable(t, db)
	createVouchTable(t, db)
	repo := NewVouchRepository(db)

	has, err := repo.HasVouched(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestListVouchedIssues(t *testing.T) {
	db := newTestDB(t)
	createIssueTable(t, db)
	createVouchTable(t, db)
	issues := NewIssueRepository(db)
	repo := NewVouchRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	firstID := seedIssue(t, issues, "Pothole")
	secondID := seedIssue(t, issues, "Garbage pileup")

	_, err := repo.VouchIdentified(ctx, firstID, userID)
	require.NoError(t, err)
	_, err = repo.VouchIdentified(ctx, secondID, userID)
	require.NoError(t, err)

	vouched, err := repo.ListVouchedIssues(ctx, userID)
	require.NoError(t, err)
	require.Len(t, vouched, 2)
	for _, v := range vouched {
		assert.Equal(t, 2, v.Issue.VouchCount)
		assert.False(t, v.VouchedAt.IsZero())
	}

	none, err := repo.ListVouchedIssues(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
