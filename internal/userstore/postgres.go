package userstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/models"
)

// pgUniqueViolation is the Postgres error code for unique constraint failures.
const pgUniqueViolation = "23505"

// Postgres implements Store over a Postgres database via the pgx stdlib driver.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed user store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, user models.User) (models.User, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users(id, username, password_hash) VALUES($1, $2, $3)",
		user.ID, user.Username, user.PasswordHash)
	if err != nil {
		if isPgUniqueViolation(err) {
			return models.User{}, apperrors.Newf(apperrors.KindConflict, "username %q already exists", user.Username)
		}
		return models.User{}, err
	}
	return s.GetByID(ctx, user.ID)
}

func (s *Postgres) GetByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = $1", id)
	return scanUser(row, id)
}

func (s *Postgres) GetByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = $1", username)
	return scanUser(row, username)
}

func (s *Postgres) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users ORDER BY username LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *Postgres) Search(ctx context.Context, term string, offset, limit int) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username ILIKE $1 ORDER BY username LIMIT $2 OFFSET $3",
		"%"+term+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (s *Postgres) Update(ctx context.Context, user models.User) (models.User, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET username = $1, password_hash = $2 WHERE id = $3",
		user.Username, user.PasswordHash, user.ID)
	if err != nil {
		if isPgUniqueViolation(err) {
			return models.User{}, apperrors.Newf(apperrors.KindConflict, "username %q already exists", user.Username)
		}
		return models.User{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.User{}, apperrors.Newf(apperrors.KindNotFound, "user %s not found", user.ID)
	}
	return s.GetByID(ctx, user.ID)
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "user %s not found", id)
	}
	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
