package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
)

func (db *DB) CreateProvider(ctx context.Context, provider *models.Provider) error {
	query := `INSERT INTO providers (
				provider_id, user_id, services, pricing, availability,
				rating, rating_count, documents, approved,
				experience_years, service_radius, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		provider.ID,
		provider.UserID,
		marshalStrings(provider.Services),
		provider.Pricing,
		provider.Availability,
		provider.Rating,
		provider.RatingCount,
		marshalStrings(provider.Documents),
		provider.Approved,
		provider.ExperienceYears,
		provider.ServiceRadiusKm,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}
	provider.CreatedAt = now
	provider.UpdatedAt = now
	return nil
}

const providerColumns = `p.provider_id, p.user_id, p.services, p.pricing,
            p.availability, p.rating, p.rating_count, p.documents, p.approved,
            p.experience_years, p.service_radius, p.created_at, p.updated_at,
            u.name, u.location`

func scanProvider(row interface{ Scan(...any) error }) (*models.Provider, error) {
	var p models.Provider
	var services, documents string
	err := row.Scan(
		&p.ID, &p.UserID, &services, &p.Pricing,
		&p.Availability, &p.Rating, &p.RatingCount, &documents, &p.Approved,
		&p.ExperienceYears, &p.ServiceRadiusKm, &p.CreatedAt, &p.UpdatedAt,
		&p.Name, &p.Location,
	)
	if err != nil {
		return nil, err
	}
	p.Services = unmarshalStrings(services)
	p.Documents = unmarshalStrings(documents)
	return &p, nil
}

func (db *DB) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	query := `SELECT ` + providerColumns + `
	          FROM providers p JOIN users u ON u.id = p.user_id
	          WHERE p.provider_id = ?`
	provider, err := scanProvider(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return provider, nil
}

func (db *DB) GetProviderByUser(ctx context.Context, userID string) (*models.Provider, error) {
	query := `SELECT ` + providerColumns + `
	          FROM providers p JOIN users u ON u.id = p.user_id
	          WHERE p.user_id = ?`
	provider, err := scanProvider(db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider by user: %w", err)
	}
	return provider, nil
}

// UpdateProvider persists profile fields. Rating and rating_count are
// excluded on purpose; ApplyRating is their only writer.
func (db *DB) UpdateProvider(ctx context.Context, provider *models.Provider) error {
	query := `UPDATE providers SET services = ?, pricing = ?, availability = ?,
	          documents = ?, experience_years = ?, service_radius = ?, updated_at = ?
	          WHERE provider_id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		marshalStrings(provider.Services),
		provider.Pricing,
		provider.Availability,
		marshalStrings(provider.Documents),
		provider.ExperienceYears,
		provider.ServiceRadiusKm,
		now,
		provider.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	provider.UpdatedAt = now
	return nil
}

func (db *DB) ApproveProvider(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE providers SET approved = 1, updated_at = ? WHERE provider_id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to approve provider: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchProviders applies the attribute filter. Unapproved providers
// are never returned; there is no flag to include them.
func (db *DB) SearchProviders(ctx context.Context, criteria models.SearchCriteria) ([]*models.Provider, error) {
	query := `SELECT ` + providerColumns + `
	          FROM providers p JOIN users u ON u.id = p.user_id
	          WHERE p.approved = 1`
	args := []any{}

	if criteria.Service != "" {
		// services is a JSON array of tags; exact tag membership.
		query += ` AND EXISTS (SELECT 1 FROM json_each(p.services) WHERE json_each.value = ?)`
		args = append(args, criteria.Service)
	}
	if criteria.MinRating > 0 {
		query += ` AND p.rating >= ?`
		args = append(args, criteria.MinRating)
	}
	if criteria.AvailableOnly {
		query += ` AND p.availability = 1`
	}

	query += ` ORDER BY p.created_at LIMIT ? OFFSET ?`
	limit := criteria.Limit
	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}
	args = append(args, limit, criteria.Skip)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}
	defer rows.Close()

	var providers []*models.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, provider)
	}
	return providers, rows.Err()
}

func (db *DB) ListProviders(ctx context.Context, skip, limit int) ([]*models.Provider, error) {
	query := `SELECT ` + providerColumns + `
	          FROM providers p JOIN users u ON u.id = p.user_id
	          ORDER BY p.created_at LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	var providers []*models.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, provider)
	}
	return providers, rows.Err()
}

// ApplyRating folds one rating into the running mean in a single
// statement, so concurrent reviews on one provider cannot lose an
// increment.
func (db *DB) ApplyRating(ctx context.Context, providerID string, rating float64) error {
	query := `UPDATE providers
	          SET rating = (rating * rating_count + ?) / (rating_count + 1),
	              rating_count = rating_count + 1,
	              updated_at = ?
	          WHERE provider_id = ?`
	result, err := db.ExecContext(ctx, query, rating, time.Now(), providerID)
	if err != nil {
		return fmt.Errorf("failed to apply rating: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
