package role

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository implements Repository in process memory. Name uniqueness is
// enforced under the write lock, mirroring the uq_roles_name constraint.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]Role
	byName map[string]uuid.UUID
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[uuid.UUID]Role),
		byName: make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(_ context.Context, ro *Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[ro.Name]; exists {
		return ErrDuplicateRoleName
	}

	now := time.Now().UTC()
	ro.ID = uuid.New()
	ro.CreatedAt = now
	ro.UpdatedAt = now

	r.byID[ro.ID] = *ro
	r.byName[ro.Name] = ro.ID
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ro, ok := r.byID[id]
	if !ok {
		return nil, ErrRoleNotFound
	}
	return &ro, nil
}

func (r *MemoryRepository) GetByName(_ context.Context, name string) (*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return nil, ErrRoleNotFound
	}
	ro := r.byID[id]
	return &ro, nil
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.byID))
	for _, ro := range r.byID {
		if filter.ActiveOnly && !ro.IsActive {
			continue
		}
		roles = append(roles, ro)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *MemoryRepository) SetActive(_ context.Context, id uuid.UUID, active bool) (*Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ro, ok := r.byID[id]
	if !ok {
		return nil, ErrRoleNotFound
	}
	ro.IsActive = active
	ro.UpdatedAt = time.Now().UTC()
	r.byID[id] = ro
	return &ro, nil
}
