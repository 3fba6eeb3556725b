package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

var errStoreDown = errors.New("store unavailable")

// stubUserRepo enforces the same unique constraints as the real store.
type stubUserRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	ratings  *stubRatingRepo
	touched  map[string]time.Time
	touchErr error
}

func newStubUserRepo(ratings *stubRatingRepo) *stubUserRepo {
	return &stubUserRepo{
		users:   make(map[string]*domain.User),
		ratings: ratings,
		touched: make(map[string]time.Time),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, &domain.ConstraintError{Constraint: ports.ConstraintUserEmail}
		}
		if u.Username != nil && user.Username != nil && *u.Username == *user.Username {
			return nil, &domain.ConstraintError{Constraint: ports.ConstraintUserUsername}
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.touchErr != nil {
		return r.touchErr
	}
	r.touched[id] = at
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	r.mu.Unlock()

	if r.ratings != nil {
		r.ratings.deleteWhere(func(rt *domain.Rating) bool { return rt.UserID == id })
	}
	return nil
}

type stubContentRepo struct {
	mu       sync.Mutex
	items    map[string]*domain.MediaContent
	ratings  *stubRatingRepo
	lastList ports.ListContentFilter
	findErr  error
}

func newStubContentRepo(ratings *stubRatingRepo) *stubContentRepo {
	return &stubContentRepo{items: make(map[string]*domain.MediaContent), ratings: ratings}
}

func cloneContent(c *domain.MediaContent) *domain.MediaContent {
	clone := *c
	return &clone
}

func (r *stubContentRepo) Create(_ context.Context, c *domain.MediaContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = cloneContent(c)
	return nil
}

func (r *stubContentRepo) FindByID(_ context.Context, id string) (*domain.MediaContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return cloneContent(c), nil
}

func (r *stubContentRepo) Update(_ context.Context, c *domain.MediaContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; !ok {
		return domain.ErrContentNotFound
	}
	r.items[c.ID] = cloneContent(c)
	return nil
}

func (r *stubContentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return domain.ErrContentNotFound
	}
	delete(r.items, id)
	r.mu.Unlock()

	if r.ratings != nil {
		r.ratings.deleteWhere(func(rt *domain.Rating) bool { return rt.ContentID == id })
	}
	return nil
}

func (r *stubContentRepo) List(_ context.Context, f ports.ListContentFilter) ([]*domain.MediaContent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f

	var matched []*domain.MediaContent
	for _, c := range r.items {
		if f.Category != "" && string(c.Category) != f.Category {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(c.Title), q) && !strings.Contains(strings.ToLower(c.Description), q) {
				continue
			}
		}
		matched = append(matched, cloneContent(c))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// stubRatingRepo rejects a second (user, content) pair atomically, like the
// unique index in the real store.
type stubRatingRepo struct {
	mu      sync.Mutex
	ratings map[string]*domain.Rating
	inserts int
	err     error
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{ratings: make(map[string]*domain.Rating)}
}

func cloneRating(r *domain.Rating) *domain.Rating {
	clone := *r
	return &clone
}

func (r *stubRatingRepo) Create(_ context.Context, rt *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	for _, existing := range r.ratings {
		if existing.UserID == rt.UserID && existing.ContentID == rt.ContentID {
			return &domain.ConstraintError{Constraint: ports.ConstraintRatingUserContent, Err: errors.New("E11000 duplicate key")}
		}
	}
	r.ratings[rt.ID] = cloneRating(rt)
	r.inserts++
	return nil
}

func (r *stubRatingRepo) FindByID(_ context.Context, id string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.ratings[id]
	if !ok {
		return nil, domain.ErrRatingNotFound
	}
	return cloneRating(rt), nil
}

func (r *stubRatingRepo) UpdateValue(_ context.Context, id, ownerID string, value int) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.ratings[id]
	if !ok || rt.UserID != ownerID {
		return nil, domain.ErrRatingNotFound
	}
	rt.Value = value
	return cloneRating(rt), nil
}

func (r *stubRatingRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.ratings[id]
	if !ok || rt.UserID != ownerID {
		return domain.ErrRatingNotFound
	}
	delete(r.ratings, id)
	return nil
}

func (r *stubRatingRepo) List(_ context.Context, f ports.ListRatingsFilter) ([]*domain.Rating, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Rating
	for _, rt := range r.ratings {
		if f.ContentID != "" && rt.ContentID != f.ContentID {
			continue
		}
		matched = append(matched, cloneRating(rt))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *stubRatingRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, rt := range r.ratings {
		if rt.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubRatingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ratings)
}

func (r *stubRatingRepo) deleteWhere(match func(*domain.Rating) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rt := range r.ratings {
		if match(rt) {
			delete(r.ratings, id)
		}
	}
}

type stubDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.revoked[tokenID] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
