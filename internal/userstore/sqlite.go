package userstore

import (
	"context"
	"database/sql"
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/models"
)

// SQLite implements Store over a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed user store.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Create(ctx context.Context, user models.User) (models.User, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users(id, username, password_hash) VALUES(?, ?, ?)",
		user.ID, user.Username, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.Newf(apperrors.KindConflict, "username %q already exists", user.Username)
		}
		return models.User{}, err
	}
	return s.GetByID(ctx, user.ID)
}

func (s *SQLite) GetByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id)
	return scanUser(row, id)
}

func (s *SQLite) GetByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
	return scanUser(row, username)
}

func (s *SQLite) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users ORDER BY username LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *SQLite) Search(ctx context.Context, term string, offset, limit int) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username LIKE ? ORDER BY username LIMIT ? OFFSET ?",
		"%"+term+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (s *SQLite) Update(ctx context.Context, user models.User) (models.User, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET username = ?, password_hash = ? WHERE id = ?",
		user.Username, user.PasswordHash, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.Newf(apperrors.KindConflict, "username %q already exists", user.Username)
		}
		return models.User{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.User{}, apperrors.Newf(apperrors.KindNotFound, "user %s not found", user.ID)
	}
	return s.GetByID(ctx, user.ID)
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "user %s not found", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, ref string) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.Newf(apperrors.KindNotFound, "user %s not found", ref)
		}
		return models.User{}, err
	}
	return user, nil
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
