package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"watchmate/internal/data/entity"
	"watchmate/internal/data/repository"
	"watchmate/internal/dto/request"
	"watchmate/internal/dto/response"
	"watchmate/internal/metrics"
	"watchmate/internal/permission"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ratingAttempts bounds the compare-and-swap loop on the item aggregate.
const ratingAttempts = 3

var errRatingContention = errors.New("rating aggregate changed concurrently")

type ReviewService interface {
	CreateReview(ctx context.Context, watchListID string, caller permission.Caller, req *request.ReviewRequest) (*response.ReviewResponse, error)
	ListReviews(ctx context.Context, watchListID, ordering string) ([]response.ReviewResponse, error)
	GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID string, caller permission.Caller, req *request.ReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID string, caller permission.Caller) error

	// AuthorizeReviewWrite checks the author-only rule without changing
	// anything, so a handler can refuse before reading the body.
	AuthorizeReviewWrite(ctx context.Context, reviewID string, caller permission.Caller, method string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, watchListID string, caller permission.Caller, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	// 1. Target item must exist
	itemID, err := parseID("watchlist", watchListID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.WatchList.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("find watch list item: %w", err)
	}
	if item == nil {
		return nil, notFound("watchlist", itemID)
	}

	// 2. Validate body
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	// 3. One review per author and item
	existingReview, err := s.repo.Review.FindByAuthorAndWatchList(ctx, caller.UserID, itemID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existingReview != nil {
		s.log.Warn("Duplicate review rejected",
			zap.String("user_id", caller.UserID.String()),
			zap.String("watchlist_id", watchListID))
		return nil, fieldError(NonFieldErrors, "You have already reviewed this item")
	}

	// 4. Fold the rating into the item aggregate
	if err := s.applyRating(ctx, item, req.Rating); err != nil {
		s.log.Error("Failed to update rating aggregate",
			zap.Error(err),
			zap.String("watchlist_id", watchListID))
		return nil, err
	}

	// 5. Persist the review
	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		AuthorID:    caller.UserID,
		WatchListID: itemID,
		Rating:      req.Rating,
		Description: req.Description,
		Active:      req.IsActive(),
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", caller.UserID.String()),
			zap.String("watchlist_id", watchListID))
		return nil, fmt.Errorf("create review: %w", err)
	}

	metrics.RecordReviewCreated()
	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", caller.UserID.String()),
		zap.String("watchlist_id", watchListID),
		zap.Int("rating", req.Rating),
		zap.Float64("avg_rating", item.AvgRating),
		zap.Int("rating_number", item.RatingNumber))

	return s.toResponse(ctx, review)
}

func (s *reviewService) ListReviews(ctx context.Context, watchListID, ordering string) ([]response.ReviewResponse, error) {
	// an unknown item simply has no reviews
	itemID, err := parseID("watchlist", watchListID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByWatchListID(ctx, itemID, parseOrdering(ordering))
	if err != nil {
		s.log.Error("Failed to list reviews", zap.Error(err), zap.String("watchlist_id", watchListID))
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	authors := make(map[uuid.UUID]string)
	result := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		name, ok := authors[review.AuthorID]
		if !ok {
			name, err = s.authorName(ctx, review.AuthorID)
			if err != nil {
				return nil, err
			}
			authors[review.AuthorID] = name
		}
		result[i] = response.ReviewToResponse(review, name)
	}

	return result, nil
}

func (s *reviewService) GetReview(ctx context.Context, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, review)
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, caller permission.Caller, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authorize(caller, http.MethodPut, review.AuthorID); err != nil {
		s.log.Warn("Review update denied",
			zap.String("review_id", reviewID),
			zap.String("user_id", caller.UserID.String()))
		return nil, err
	}

	if err := validate(req); err != nil {
		s.log.Warn("Update review validation failed", zap.Error(err))
		return nil, err
	}

	// the item aggregate keeps the rating it was created with
	review.Rating = req.Rating
	review.Description = req.Description
	review.Active = req.IsActive()
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID))
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("user_id", caller.UserID.String()),
		zap.Int("rating", review.Rating))

	return s.toResponse(ctx, review)
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string, caller permission.Caller) error {
	review, err := s.find(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := authorize(caller, http.MethodDelete, review.AuthorID); err != nil {
		s.log.Warn("Review delete denied",
			zap.String("review_id", reviewID),
			zap.String("user_id", caller.UserID.String()))
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID))
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("user_id", caller.UserID.String()))
	return nil
}

func (s *reviewService) AuthorizeReviewWrite(ctx context.Context, reviewID string, caller permission.Caller, method string) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}

	review, err := s.find(ctx, reviewID)
	if err != nil {
		return err
	}
	return authorize(caller, method, review.AuthorID)
}

// ==================== HELPER METHODS ====================

// applyRating writes the new aggregate only if no other review landed in
// between, reloading the item and retrying otherwise.
func (s *reviewService) applyRating(ctx context.Context, item *entity.WatchList, rating int) error {
	for attempt := 1; attempt <= ratingAttempts; attempt++ {
		prevNumber := item.RatingNumber
		item.ApplyRating(rating)
		item.UpdatedAt = time.Now()

		ok, err := s.repo.WatchList.UpdateRating(ctx, item, prevNumber)
		if err != nil {
			return fmt.Errorf("update rating: %w", err)
		}
		if ok {
			return nil
		}

		metrics.RecordRatingUpdateRetry()
		s.log.Warn("Rating aggregate changed, retrying",
			zap.String("watchlist_id", item.ID.String()),
			zap.Int("attempt", attempt))

		fresh, err := s.repo.WatchList.FindByID(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("reload watch list item: %w", err)
		}
		if fresh == nil {
			return notFound("watchlist", item.ID)
		}
		*item = *fresh
	}

	return fmt.Errorf("update rating after %d attempts: %w", ratingAttempts, errRatingContention)
}

func (s *reviewService) find(ctx context.Context, rawID string) (*entity.Review, error) {
	id, err := parseID("review", rawID)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, notFound("review", id)
	}
	return review, nil
}

func (s *reviewService) authorName(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("find review author: %w", err)
	}
	if user == nil {
		return "", nil
	}
	return user.Username, nil
}

func (s *reviewService) toResponse(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	name, err := s.authorName(ctx, review.AuthorID)
	if err != nil {
		return nil, err
	}
	resp := response.ReviewToResponse(review, name)
	return &resp, nil
}

// authorize applies the author-or-read-only rule to a call on a review.
func authorize(caller permission.Caller, method string, authorID uuid.UUID) error {
	switch permission.AuthorOrReadOnly(caller, method, authorID) {
	case permission.Unauthenticated:
		return ErrUnauthenticated
	case permission.Forbidden:
		return ErrForbidden
	}
	return nil
}

func parseOrdering(ordering string) repository.ReviewOrder {
	switch ordering {
	case "rating":
		return repository.OrderByRatingAsc
	case "-rating":
		return repository.OrderByRatingDesc
	}
	return repository.OrderByCreated
}
