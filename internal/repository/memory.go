package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/workforce-console/internal/domain"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

// MemoryStore keeps accounts and users in process memory. It backs the stub when no
// Postgres DSN is configured and implements both repositories.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	admins   map[int64]domain.Admin
	users    map[int64]domain.WorkforceUser
	now      func() time.Time
	sequence int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		admins: make(map[int64]domain.Admin),
		users:  make(map[int64]domain.WorkforceUser),
		now:    time.Now,
	}
}

// Admins exposes the store as an AdminRepository.
func (m *MemoryStore) Admins() AdminRepository { return memoryAdmins{m} }

// Users exposes the store as a WorkforceUserRepository.
func (m *MemoryStore) Users() WorkforceUserRepository { return memoryUsers{m} }

// stamp assigns an id and a strictly increasing creation time so newest-first ordering
// is stable.
func (m *MemoryStore) stamp() (int64, time.Time) {
	m.nextID++
	m.sequence++
	return m.nextID, m.now().UTC().Add(time.Duration(m.sequence) * time.Microsecond)
}

type memoryAdmins struct{ m *MemoryStore }

func (r memoryAdmins) Create(_ context.Context, admin *domain.Admin) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return ErrDuplicateEmail
		}
	}
	admin.ID, admin.CreatedAt = r.m.stamp()
	admin.Email = strings.ToLower(admin.Email)
	r.m.admins[admin.ID] = *admin
	return nil
}

func (r memoryAdmins) Update(_ context.Context, admin *domain.Admin) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.admins[admin.ID]; !ok {
		return apperrors.ErrNotFound
	}
	for id, a := range r.m.admins {
		if id != admin.ID && strings.EqualFold(a.Email, admin.Email) {
			return ErrDuplicateEmail
		}
	}
	r.m.admins[admin.ID] = *admin
	return nil
}

func (r memoryAdmins) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	a, ok := r.m.admins[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r memoryAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, a := range r.m.admins {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r memoryAdmins) List(_ context.Context, filter AdminFilter) ([]domain.Admin, error) {
	r.m.mu.RLock()
	out := make([]domain.Admin, 0, len(r.m.admins))
	for _, a := range r.m.admins {
		if filter.Role != nil && a.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}
		out = append(out, a)
	}
	r.m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r memoryAdmins) TouchLogin(_ context.Context, id int64, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.admins[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.LastLogin = &at
	r.m.admins[id] = a
	return nil
}

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *domain.WorkforceUser) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	user.ID, user.CreatedAt = r.m.stamp()
	user.Email = strings.ToLower(user.Email)
	r.m.users[user.ID] = *user
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id int64) (*domain.WorkforceUser, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.WorkforceUser, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r memoryUsers) List(_ context.Context, filter UserFilter) ([]domain.WorkforceUser, error) {
	search := strings.ToLower(filter.Search)
	r.m.mu.RLock()
	out := make([]domain.WorkforceUser, 0, len(r.m.users))
	for _, u := range r.m.users {
		if filter.AdminID != 0 && u.AdminID != filter.AdminID {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(u.Email, search) {
			continue
		}
		out = append(out, u)
	}
	r.m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r memoryUsers) CountByAdmin(_ context.Context, adminID int64) (int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	n := 0
	for _, u := range r.m.users {
		if u.AdminID == adminID {
			n++
		}
	}
	return n, nil
}

func (r memoryUsers) SetActive(_ context.Context, id int64, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.IsActive = active
	r.m.users[id] = u
	return nil
}

func (r memoryUsers) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.m.users, id)
	return nil
}

// MarkSynced records a mobile sync for a user; the stub has no sync endpoint of its own.
func (m *MemoryStore) MarkSynced(id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.LastSyncAt = &at
	m.users[id] = u
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
