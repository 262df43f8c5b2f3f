package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bloghub/internal/common"
	"bloghub/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// isRowID reports whether id can match a row. Ids are UUID columns, and
// Postgres rejects anything else with an invalid_text_representation error.
func isRowID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

const (
	userColumns = `user_id, first_name, surname, email, password_hash, is_admin`

	insertUserQuery = `
		INSERT INTO users (user_id, first_name, surname, email, password_hash, is_admin)
		VALUES (:user_id, :first_name, :surname, :email, :password_hash, :is_admin)
	`
	selectUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	selectUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	selectUsersQuery       = `SELECT ` + userColumns + ` FROM users ORDER BY surname, first_name`
	updateUserQuery        = `
		UPDATE users
		SET first_name = :first_name, surname = :surname, email = :email,
			password_hash = :password_hash, is_admin = :is_admin
		WHERE user_id = :user_id
	`
	deleteUserQuery = `DELETE FROM users WHERE user_id = $1`
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}

	_, err := r.db.NamedExecContext(ctx, insertUserQuery, user)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if !isRowID(userID) {
		return nil, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}

	var user models.User

	err := r.db.GetContext(ctx, &user, selectUserByIDQuery, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, selectUserByEmailQuery, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, common.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}

	if err := r.db.SelectContext(ctx, &users, selectUsersQuery); err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	result, err := r.db.NamedExecContext(ctx, updateUserQuery, user)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.UserID, common.ErrNotFound)
	}

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, deleteUserQuery, userID)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}

	return nil
}
