package assignment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daap14/roleassign/internal/role"
	"github.com/daap14/roleassign/internal/user"
)

type pairKey struct {
	userID uuid.UUID
	roleID uuid.UUID
}

// MemoryRepository implements Repository in process memory. The pair index
// plays the part of the (user_id, role_id) unique constraint.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]Assignment
	byPair map[pairKey]uuid.UUID

	roles role.Repository
	users user.Repository
}

// NewMemoryRepository creates an empty MemoryRepository. The role and user
// repositories are used to build RoleViews.
func NewMemoryRepository(roles role.Repository, users user.Repository) *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[uuid.UUID]Assignment),
		byPair: make(map[pairKey]uuid.UUID),
		roles:  roles,
		users:  users,
	}
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, in NewAssignment) (*Assignment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{userID: in.UserID, roleID: in.RoleID}
	if id, exists := r.byPair[key]; exists {
		a := r.byID[id]
		return &a, false, nil
	}

	a := Assignment{
		ID:         uuid.New(),
		UserID:     in.UserID,
		RoleID:     in.RoleID,
		IsActive:   true,
		AssignedAt: in.AssignedAt,
		AssignedBy: in.AssignedBy,
		Notes:      in.Notes,
	}
	r.byID[a.ID] = a
	r.byPair[key] = a.ID
	return &a, true, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) Revoke(_ context.Context, id uuid.UUID, by *uuid.UUID, at time.Time) (*Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	if a.IsActive {
		a.IsActive = false
		a.RevokedAt = &at
		a.RevokedBy = by
		r.byID[id] = a
	}
	return &a, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID uuid.UUID, filter ListFilter) ([]Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listLocked(userID, filter), nil
}

func (r *MemoryRepository) ListRoleViews(ctx context.Context, userID uuid.UUID) ([]RoleView, error) {
	r.mu.RLock()
	assignments := r.listLocked(userID, ListFilter{ActiveOnly: true})
	r.mu.RUnlock()

	views := make([]RoleView, 0, len(assignments))
	for _, a := range assignments {
		ro, err := r.roles.GetByID(ctx, a.RoleID)
		if err != nil {
			return nil, err
		}

		v := RoleView{
			AssignmentID: a.ID,
			RoleID:       ro.ID,
			Name:         ro.Name,
			DisplayName:  ro.DisplayName,
			Description:  ro.Description,
			AssignedAt:   a.AssignedAt,
		}
		if a.AssignedBy != nil {
			if assigner, err := r.users.GetByID(ctx, *a.AssignedBy); err == nil {
				v.AssignedByEmail = &assigner.Email
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (r *MemoryRepository) listLocked(userID uuid.UUID, filter ListFilter) []Assignment {
	assignments := []Assignment{}
	for _, a := range r.byID {
		if a.UserID != userID {
			continue
		}
		if filter.ActiveOnly && !a.IsActive {
			continue
		}
		assignments = append(assignments, a)
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].AssignedAt.Equal(assignments[j].AssignedAt) {
			return assignments[i].ID.String() < assignments[j].ID.String()
		}
		return assignments[i].AssignedAt.Before(assignments[j].AssignedAt)
	})
	return assignments
}
