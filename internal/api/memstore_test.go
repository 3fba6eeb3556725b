package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// memStore backs all three repositories with maps behind one mutex, so the
// uniqueness checks are atomic like the unique indexes they stand in for.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.User
	contents map[string]domain.MediaContent
	ratings  map[string]domain.Rating
	revoked  map[string]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]domain.User),
		contents: make(map[string]domain.MediaContent),
		ratings:  make(map[string]domain.Rating),
		revoked:  make(map[string]struct{}),
	}
}

type memUsers struct{ *memStore }
type memContents struct{ *memStore }
type memRatings struct{ *memStore }
type memDenylist struct{ *memStore }

func (s memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, &domain.ConstraintError{Constraint: ports.ConstraintUserEmail}
		}
		if existing.Username != nil && u.Username != nil && *existing.Username == *u.Username {
			return nil, &domain.ConstraintError{Constraint: ports.ConstraintUserUsername}
		}
	}
	s.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s memUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}

func (s memUsers) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	for rid, r := range s.ratings {
		if r.UserID == id {
			delete(s.ratings, rid)
		}
	}
	return nil
}

func (s memContents) Create(_ context.Context, c *domain.MediaContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[c.ID] = *c
	return nil
}

func (s memContents) FindByID(_ context.Context, id string) (*domain.MediaContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contents[id]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return &c, nil
}

func (s memContents) Update(_ context.Context, c *domain.MediaContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contents[c.ID]; !ok {
		return domain.ErrContentNotFound
	}
	s.contents[c.ID] = *c
	return nil
}

func (s memContents) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contents[id]; !ok {
		return domain.ErrContentNotFound
	}
	delete(s.contents, id)
	for rid, r := range s.ratings {
		if r.ContentID == id {
			delete(s.ratings, rid)
		}
	}
	return nil
}

func (s memContents) List(_ context.Context, f ports.ListContentFilter) ([]*domain.MediaContent, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.MediaContent
	for _, c := range s.contents {
		if f.Category != "" && string(c.Category) != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Title+" "+c.Description), strings.ToLower(f.Search)) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		switch f.Ordering {
		case ports.OrderTitleAsc:
			return out[i].Title < out[j].Title
		case ports.OrderTitleDesc:
			return out[i].Title > out[j].Title
		case ports.OrderCreatedAsc:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return window(out, f.Page, f.Limit), int64(len(out)), nil
}

func (s memRatings) Create(_ context.Context, r *domain.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ratings {
		if existing.UserID == r.UserID && existing.ContentID == r.ContentID {
			return &domain.ConstraintError{Constraint: ports.ConstraintRatingUserContent}
		}
	}
	s.ratings[r.ID] = *r
	return nil
}

func (s memRatings) FindByID(_ context.Context, id string) (*domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[id]
	if !ok {
		return nil, domain.ErrRatingNotFound
	}
	return &r, nil
}

func (s memRatings) UpdateValue(_ context.Context, id, ownerID string, value int) (*domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[id]
	if !ok || r.UserID != ownerID {
		return nil, domain.ErrRatingNotFound
	}
	r.Value = value
	s.ratings[id] = r
	return &r, nil
}

func (s memRatings) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[id]
	if !ok || r.UserID != ownerID {
		return domain.ErrRatingNotFound
	}
	delete(s.ratings, id)
	return nil
}

func (s memRatings) List(_ context.Context, f ports.ListRatingsFilter) ([]*domain.Rating, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Rating
	for _, r := range s.ratings {
		if f.ContentID != "" && r.ContentID != f.ContentID {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, f.Page, f.Limit), int64(len(out)), nil
}

func (s memRatings) CountByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.ratings {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s memDenylist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = struct{}{}
	return nil
}

func (s memDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func window[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
