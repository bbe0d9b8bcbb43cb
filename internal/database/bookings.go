package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				booking_id, customer_id, provider_id, service_type, status,
				date_time, special_instructions, estimated_price, final_price,
				cancellation_reason, canceled_by, canceled_at, version,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.ProviderID,
		booking.ServiceType,
		booking.Status,
		booking.DateTime,
		booking.SpecialInstructions,
		booking.EstimatedPrice,
		booking.FinalPrice,
		"",
		"",
		nil,
		1,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

const bookingColumns = `booking_id, customer_id, provider_id, service_type,
            status, date_time, special_instructions, estimated_price,
            final_price, cancellation_reason, canceled_by, canceled_at,
            version, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	var canceledAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.ProviderID, &b.ServiceType,
		&b.Status, &b.DateTime, &b.SpecialInstructions, &b.EstimatedPrice,
		&b.FinalPrice, &b.CancellationReason, &b.CanceledBy, &canceledAt,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if canceledAt.Valid {
		b.CanceledAt = &canceledAt.Time
	}
	return &b, nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusWithVersion is the optimistic-concurrency guard
// shared by all transitions: two racing writers resolve to exactly one
// winner, the loser sees ErrConcurrentModification.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ?
	          WHERE booking_id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) CancelBookingWithVersion(ctx context.Context, id string, fromVersion int64, status, reason, canceledBy string, canceledAt time.Time) error {
	query := `UPDATE bookings SET status = ?, cancellation_reason = ?, canceled_by = ?,
	          canceled_at = ?, version = version + 1, updated_at = ?
	          WHERE booking_id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, reason, canceledBy, canceledAt, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// RescheduleBookingWithVersion sets the new slot, replaces the
// instructions (the service layer appends the reschedule note) and
// drops the booking back to pending for fresh provider acceptance.
func (db *DB) RescheduleBookingWithVersion(ctx context.Context, id string, fromVersion int64, newDateTime time.Time, instructions string) error {
	query := `UPDATE bookings SET date_time = ?, special_instructions = ?,
	          status = ?, version = version + 1, updated_at = ?
	          WHERE booking_id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, newDateTime, instructions, models.StatusPending, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to reschedule booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) CompleteBookingWithVersion(ctx context.Context, id string, fromVersion int64, finalPrice float64) error {
	query := `UPDATE bookings SET status = ?, final_price = ?, version = version + 1, updated_at = ?
	          WHERE booking_id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, models.StatusCompleted, finalPrice, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) ListCustomerBookings(ctx context.Context, customerID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = ? ORDER BY date_time DESC`
	return db.queryBookings(ctx, query, customerID)
}

func (db *DB) ListProviderBookings(ctx context.Context, providerID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE provider_id = ? ORDER BY date_time DESC`
	return db.queryBookings(ctx, query, providerID)
}

func (db *DB) ListProviderBookingsByStatus(ctx context.Context, providerID, status string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE provider_id = ? AND status = ? ORDER BY date_time`
	return db.queryBookings(ctx, query, providerID, status)
}

func (db *DB) ListBookings(ctx context.Context, skip, limit int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, limit, skip)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
