package registration

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"io.winapps.pushrelay/internal/apperrors"
	usermodels "io.winapps.pushrelay/internal/models/user"
)

// Store is the persistence surface the manager needs: append and read only,
// no updates or deletes.
type Store interface {
	// CreateIfAbsent inserts the record unless one with the same delivery
	// token already exists, and returns the surviving record plus whether
	// this call created it. Uniqueness on the token is the store's job.
	CreateIfAbsent(ctx context.Context, rec usermodels.Record) (usermodels.Record, bool, error)
	GetByID(ctx context.Context, userID string) (usermodels.Record, error)
	List(ctx context.Context) ([]usermodels.Record, error)
	Count(ctx context.Context) (int64, error)
}

// PostgresStore is the production Store over the users table. The UNIQUE
// constraint on delivery_token is the backstop for concurrent registration
// of the same token: both inserts funnel into one row.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, rec usermodels.Record) (usermodels.Record, bool, error) {
	query := `
		INSERT INTO users (user_id, name, delivery_token)
		VALUES ($1, $2, $3)
		ON CONFLICT (delivery_token) DO NOTHING
		RETURNING user_id, name, delivery_token, created_at`

	var created usermodels.Record
	err := s.db.QueryRow(ctx, query, rec.UserID, rec.Name, rec.DeliveryToken).Scan(
		&created.UserID, &created.Name, &created.DeliveryToken, &created.CreatedAt,
	)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return usermodels.Record{}, false, apperrors.Unavailable(err, "failed to create user record")
	}

	// Conflict path: another record owns this token, return it unchanged.
	existing, err := s.getByToken(ctx, rec.DeliveryToken)
	if err != nil {
		return usermodels.Record{}, false, err
	}
	return existing, false, nil
}

func (s *PostgresStore) getByToken(ctx context.Context, token string) (usermodels.Record, error) {
	query := `SELECT user_id, name, delivery_token, created_at FROM users WHERE delivery_token = $1`

	var rec usermodels.Record
	err := s.db.QueryRow(ctx, query, token).Scan(
		&rec.UserID, &rec.Name, &rec.DeliveryToken, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return usermodels.Record{}, apperrors.NotFound("User not found")
	}
	if err != nil {
		return usermodels.Record{}, apperrors.Unavailable(err, "failed to query user by token")
	}
	return rec, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, userID string) (usermodels.Record, error) {
	query := `SELECT user_id, name, delivery_token, created_at FROM users WHERE user_id = $1`

	var rec usermodels.Record
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&rec.UserID, &rec.Name, &rec.DeliveryToken, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return usermodels.Record{}, apperrors.NotFound("User not found")
	}
	if err != nil {
		return usermodels.Record{}, apperrors.Unavailable(err, "failed to query user")
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]usermodels.Record, error) {
	query := `SELECT user_id, name, delivery_token, created_at FROM users ORDER BY created_at`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to list users")
	}
	defer rows.Close()

	users := []usermodels.Record{}
	for rows.Next() {
		var rec usermodels.Record
		if err := rows.Scan(&rec.UserID, &rec.Name, &rec.DeliveryToken, &rec.CreatedAt); err != nil {
			return nil, apperrors.Unavailable(err, "failed to scan user row")
		}
		users = append(users, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable(err, "failed to read user rows")
	}
	return users, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, apperrors.Unavailable(err, "failed to count users")
	}
	return count, nil
}
