// Package memstore is an in-memory fallback for issue and vouch data,
// used when the primary database is unreachable so reporting stays
// available. Contents are lost on restart and are not merged back.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
)

type vouchKey struct {
	issueID uuid.UUID
	userID  uuid.UUID
}

// Store holds issues and vouches behind a single mutex
type Store struct {
	mu      sync.RWMutex
	issues  map[uuid.UUID]*entities.Issue
	vouches map[vouchKey]time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		issues:  make(map[uuid.UUID]*entities.Issue),
		vouches: make(map[vouchKey]time.Time),
	}
}

// Create stores a copy of the issue
func (s *Store) Create(_ context.Context, issue *entities.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *issue
	s.issues[issue.ID] = &cp
	return nil
}

// GetByID returns a copy of the issue
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*entities.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *issue
	return &cp, nil
}

// List returns all issues, newest first
func (s *Store) List(_ context.Context) ([]*entities.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(nil), nil
}

// ListExcludingUser returns issues not reported by the given user, newest first
func (s *Store) ListExcludingUser(_ context.Context, userID uuid.UUID) ([]*entities.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(&userID), nil
}

func (s *Store) listLocked(exclude *uuid.UUID) []*entities.Issue {
	issues := make([]*entities.Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		if exclude != nil && issue.UserID != nil && *issue.UserID == *exclude {
			continue
		}
		cp := *issue
		issues = append(issues, &cp)
	}
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
	return issues
}

// VouchIdentified records the vouch and bumps the counter under one lock
func (s *Store) VouchIdentified(_ context.Context, issueID, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[issueID]
	if !ok {
		return 0, domainerrors.ErrNotFound
	}

	key := vouchKey{issueID: issueID, userID: userID}
	if _, dup := s.vouches[key]; dup {
		return 0, domainerrors.ErrAlreadyExists
	}

	s.vouches[key] = time.Now()
	issue.VouchCount++
	return issue.VouchCount, nil
}

// VouchAnonymous bumps the counter without a ledger entry
func (s *Store) VouchAnonymous(_ context.Context, issueID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[issueID]
	if !ok {
		return 0, domainerrors.ErrNotFound
	}
	issue.VouchCount++
	return issue.VouchCount, nil
}

// HasVouched reports whether the user already vouched the issue
func (s *Store) HasVouched(_ context.Context, issueID, userID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.vouches[vouchKey{issueID: issueID, userID: userID}]
	return ok, nil
}

// ListVouchedIssues returns issues the user vouched, most recent vouch first
func (s *Store) ListVouchedIssues(_ context.Context, userID uuid.UUID) ([]*entities.VouchedIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var vouched []*entities.VouchedIssue
	for key, at := range s.vouches {
		if key.userID != userID {
			continue
		}
		issue, ok := s.issues[key.issueID]
		if !ok {
			continue
		}
		cp := *issue
		vouched = append(vouched, &entities.VouchedIssue{Issue: &cp, VouchedAt: at})
	}
	sort.Slice(vouched, func(i, j int) bool {
		return vouched[i].VouchedAt.After(vouched[j].VouchedAt)
	})
	return vouched, nil
}
