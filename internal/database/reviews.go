package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
)

// CreateReviewWithRating inserts the review and folds its rating into
// the provider's running mean inside one transaction, so a crash
// cannot leave a review without its rating update.
func (db *DB) CreateReviewWithRating(ctx context.Context, review *models.Review) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	queryInsert := `INSERT INTO reviews (
				review_id, booking_id, customer_id, provider_id,
				rating, comment, images, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, queryInsert,
		review.ID,
		review.BookingID,
		review.CustomerID,
		review.ProviderID,
		review.Rating,
		review.Comment,
		marshalStrings(review.Images),
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert review in tx: %w", err)
	}

	queryRating := `UPDATE providers
	          SET rating = (rating * rating_count + ?) / (rating_count + 1),
	              rating_count = rating_count + 1,
	              updated_at = ?
	          WHERE provider_id = ?`
	result, err := tx.ExecContext(ctx, queryRating, review.Rating, now, review.ProviderID)
	if err != nil {
		return fmt.Errorf("failed to apply rating in tx: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}
	review.CreatedAt = now
	return nil
}

const reviewColumns = `review_id, booking_id, customer_id, provider_id,
            rating, comment, images, created_at`

func scanReview(row interface{ Scan(...any) error }) (*models.Review, error) {
	var r models.Review
	var images string
	err := row.Scan(
		&r.ID, &r.BookingID, &r.CustomerID, &r.ProviderID,
		&r.Rating, &r.Comment, &images, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Images = unmarshalStrings(images)
	return &r, nil
}

func (db *DB) GetReview(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE review_id = ?`
	review, err := scanReview(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (db *DB) GetReviewByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = ?`
	review, err := scanReview(db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review by booking: %w", err)
	}
	return review, nil
}

func (db *DB) ListProviderReviews(ctx context.Context, providerID string) ([]*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE provider_id = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
