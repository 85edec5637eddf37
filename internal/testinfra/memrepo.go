// Package testinfra provides in-memory repositories for service and router
// tests. They honor the same contracts as the pgx repositories: lookups of
// missing rows return (nil, nil) and deletes of missing rows wrap
// repository.ErrNotFound.
package testinfra

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"watchmate/internal/data/entity"
	"watchmate/internal/data/repository"

	"github.com/google/uuid"
)

// Store is the shared state behind every in-memory repository.
type Store struct {
	mu        sync.Mutex
	users     map[uuid.UUID]entity.User
	tokens    map[string]entity.Token
	platforms map[uuid.UUID]entity.Platform
	items     map[uuid.UUID]entity.WatchList
	reviews   map[uuid.UUID]entity.Review

	// BeforeUpdateRating runs before each rating compare-and-swap, outside
	// the lock, so tests can interleave a competing write.
	BeforeUpdateRating func(item *entity.WatchList)
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]entity.User),
		tokens:    make(map[string]entity.Token),
		platforms: make(map[uuid.UUID]entity.Platform),
		items:     make(map[uuid.UUID]entity.WatchList),
		reviews:   make(map[uuid.UUID]entity.Review),
	}
}

// NewRepository groups in-memory repositories over a fresh Store.
func NewRepository() (*repository.Repository, *Store) {
	s := NewStore()
	return s.Repository(), s
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:      &userRepo{s},
		Token:     &tokenRepo{s},
		Platform:  &platformRepo{s},
		WatchList: &watchListRepo{s},
		Review:    &reviewRepo{s},
	}
}

// Item returns a copy of the stored watch-list item.
func (s *Store) Item(id uuid.UUID) (entity.WatchList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok
}

// SetRating overwrites an item's aggregate without the compare-and-swap,
// standing in for a competing writer.
func (s *Store) SetRating(id uuid.UUID, avg float64, number int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[id]; ok {
		item.AvgRating = avg
		item.RatingNumber = number
		s.items[id] = item
	}
}

// ==================== USERS ====================

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return fmt.Errorf("insert user: %w", &repository.ConflictError{Constraint: repository.ConstraintUsername})
		}
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("insert user: %w", &repository.ConflictError{Constraint: repository.ConstraintUserEmail})
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// ==================== TOKENS ====================

type tokenRepo struct{ s *Store }

func (r *tokenRepo) Create(_ context.Context, token *entity.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.UserID == token.UserID {
			return fmt.Errorf("insert token: user %s already has a token", token.UserID)
		}
	}
	r.s.tokens[token.Key] = *token
	return nil
}

func (r *tokenRepo) FindByKey(_ context.Context, key string) (*entity.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens[key]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *tokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.UserID == userID {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *tokenRepo) DeleteByKey(_ context.Context, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tokens[key]; !ok {
		return fmt.Errorf("token: %w", repository.ErrNotFound)
	}
	delete(r.s.tokens, key)
	return nil
}

// ==================== PLATFORMS ====================

type platformRepo struct{ s *Store }

func (r *platformRepo) Create(_ context.Context, platform *entity.Platform) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.platforms[platform.ID] = *platform
	return nil
}

func (r *platformRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Platform, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.platforms[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *platformRepo) FindByName(_ context.Context, name string) (*entity.Platform, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.platforms {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *platformRepo) FindAll(_ context.Context) ([]*entity.Platform, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Platform, 0, len(r.s.platforms))
	for _, p := range r.s.platforms {
		p := p
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool {
		return byCreated(result[i].Base, result[j].Base)
	})
	return result, nil
}

func (r *platformRepo) Update(_ context.Context, platform *entity.Platform) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.platforms[platform.ID]; !ok {
		return fmt.Errorf("platform %s: %w", platform.ID, repository.ErrNotFound)
	}
	r.s.platforms[platform.ID] = *platform
	return nil
}

// Delete cascades to the platform's items and their reviews.
func (r *platformRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.platforms[id]; !ok {
		return fmt.Errorf("platform %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.platforms, id)
	for itemID, item := range r.s.items {
		if item.PlatformID == id {
			r.s.deleteItemLocked(itemID)
		}
	}
	return nil
}

// ==================== WATCH LIST ====================

type watchListRepo struct{ s *Store }

func (r *watchListRepo) Create(_ context.Context, item *entity.WatchList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.platforms[item.PlatformID]; !ok {
		return fmt.Errorf("insert watchlist: unknown platform %s", item.PlatformID)
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *watchListRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.WatchList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item, ok := r.s.items[id]; ok {
		return &item, nil
	}
	return nil, nil
}

func (r *watchListRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.WatchList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.s.sortedItemsLocked(func(entity.WatchList) bool { return true })
	if offset >= len(all) {
		return []*entity.WatchList{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *watchListRepo) FindByPlatformID(_ context.Context, platformID uuid.UUID) ([]*entity.WatchList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedItemsLocked(func(item entity.WatchList) bool {
		return item.PlatformID == platformID
	}), nil
}

func (r *watchListRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.items)), nil
}

// Update leaves the rating aggregate as stored.
func (r *watchListRepo) Update(_ context.Context, item *entity.WatchList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[item.ID]
	if !ok {
		return fmt.Errorf("watchlist %s: %w", item.ID, repository.ErrNotFound)
	}
	stored.PlatformID = item.PlatformID
	stored.Title = item.Title
	stored.Storyline = item.Storyline
	stored.Active = item.Active
	stored.UpdatedAt = item.UpdatedAt
	r.s.items[item.ID] = stored
	return nil
}

func (r *watchListRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return fmt.Errorf("watchlist %s: %w", id, repository.ErrNotFound)
	}
	r.s.deleteItemLocked(id)
	return nil
}

func (r *watchListRepo) UpdateRating(_ context.Context, item *entity.WatchList, prevNumber int) (bool, error) {
	if hook := r.s.BeforeUpdateRating; hook != nil {
		hook(item)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[item.ID]
	if !ok || stored.RatingNumber != prevNumber {
		return false, nil
	}
	stored.AvgRating = item.AvgRating
	stored.RatingNumber = item.RatingNumber
	stored.UpdatedAt = item.UpdatedAt
	r.s.items[item.ID] = stored
	return true, nil
}

// ==================== REVIEWS ====================

type reviewRepo struct{ s *Store }

func (r *reviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[review.WatchListID]; !ok {
		return fmt.Errorf("insert review: unknown watchlist %s", review.WatchListID)
	}
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *reviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if review, ok := r.s.reviews[id]; ok {
		return &review, nil
	}
	return nil, nil
}

func (r *reviewRepo) FindByWatchListID(_ context.Context, watchListID uuid.UUID, order repository.ReviewOrder) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Review, 0)
	for _, review := range r.s.reviews {
		review := review
		if review.WatchListID == watchListID {
			result = append(result, &review)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Rating != b.Rating {
			switch order {
			case repository.OrderByRatingAsc:
				return a.Rating < b.Rating
			case repository.OrderByRatingDesc:
				return a.Rating > b.Rating
			}
		}
		return byCreated(a.Base, b.Base)
	})
	return result, nil
}

func (r *reviewRepo) FindByAuthorAndWatchList(_ context.Context, authorID, watchListID uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, review := range r.s.reviews {
		if review.AuthorID == authorID && review.WatchListID == watchListID {
			return &review, nil
		}
	}
	return nil, nil
}

func (r *reviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[review.ID]; !ok {
		return fmt.Errorf("review %s: %w", review.ID, repository.ErrNotFound)
	}
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return fmt.Errorf("review %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.reviews, id)
	return nil
}

// ==================== HELPERS ====================

func (s *Store) deleteItemLocked(id uuid.UUID) {
	delete(s.items, id)
	for reviewID, review := range s.reviews {
		if review.WatchListID == id {
			delete(s.reviews, reviewID)
		}
	}
}

func (s *Store) sortedItemsLocked(keep func(entity.WatchList) bool) []*entity.WatchList {
	result := make([]*entity.WatchList, 0)
	for _, item := range s.items {
		item := item
		if keep(item) {
			result = append(result, &item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return byCreated(result[i].Base, result[j].Base)
	})
	return result
}

func byCreated(a, b entity.Base) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
