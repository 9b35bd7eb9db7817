package db

import (
	"context"

	"github.com/gogo-study/backend/internal/model"
)

const userColumns = `id, email, password_hash, name, role, status, provider, provider_id, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Status,
		&user.Provider,
		&user.ProviderID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Provider     model.Provider
	ProviderID   *string
}

func (db *Postgres) CreateUser(ctx context.Context, params NewUser) (*model.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, provider, provider_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + userColumns
	row := db.Pool.QueryRow(ctx, query,
		params.Email,
		params.PasswordHash,
		params.Name,
		params.Provider,
		params.ProviderID,
	)
	return scanUser(row)
}

func (db *Postgres) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) FindUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, userID))
}

func (db *Postgres) FindUserByProviderIdentity(ctx context.Context, provider model.Provider, providerID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`
	return scanUser(db.Pool.QueryRow(ctx, query, provider, providerID))
}

// LinkProviderIdentity backfills a provider binding onto an existing account
// matched by email. The WHERE clause keeps the first writer's binding intact.
func (db *Postgres) LinkProviderIdentity(ctx context.Context, userID int64, provider model.Provider, providerID string) (*model.User, error) {
	query := `
		UPDATE users
		SET provider = $2, provider_id = $3, updated_at = NOW()
		WHERE id = $1 AND provider_id IS NULL
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID, provider, providerID))
}

func (db *Postgres) UpdateUserRole(ctx context.Context, userID int64, role model.Role) (*model.User, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID, role))
}

func (db *Postgres) UpdateUserStatus(ctx context.Context, userID int64, status model.UserStatus) (*model.User, error) {
	query := `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID, status))
}

func (db *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (db *Postgres) CountUsers(ctx context.Context) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (db *Postgres) CountUsersByStatus(ctx context.Context, status model.UserStatus) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM users WHERE status = $1`, status)
}

func (db *Postgres) CountUsersByRole(ctx context.Context, role model.Role) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role)
}

func (db *Postgres) count(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
