package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const userColumns = `id, COALESCE(email, ''), first_name, last_name, avatar_url, COALESCE(role, ''), mobile, country, created_at`

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.AvatarURL,
		&user.Role,
		&user.Mobile,
		&user.Country,
		&user.CreatedAt,
	)
	return user, err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetRoleByID retrieves only the stored role of a user
func (r *UserRepository) GetRoleByID(ctx context.Context, id string) (string, error) {
	query := `SELECT COALESCE(role, '') FROM users WHERE id = $1`

	var role string
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repositories.ErrNotFound
		}
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return role, nil
}

// GetByIDs retrieves users keyed by ID
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Create inserts a user and returns the stored row
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, first_name, last_name, avatar_url, role, mobile, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	created, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.AvatarURL,
		user.Role,
		user.Mobile,
		user.Country,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug("user created", zap.String("id", created.ID), zap.String("role", created.Role))
	return created, nil
}

// Update applies a partial update and returns the stored row
func (r *UserRepository) Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	set := &setClause{}
	if update.FirstName != nil {
		set.add("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		set.add("last_name", *update.LastName)
	}
	if update.Mobile != nil {
		set.add("mobile", *update.Mobile)
	}
	if update.Country != nil {
		set.add("country", *update.Country)
	}
	if update.AvatarURL != nil {
		set.add("avatar_url", *update.AvatarURL)
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := set.build("users", id, userColumns)
	user, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.logger.Debug("user updated", zap.String("id", id))
	return user, nil
}
