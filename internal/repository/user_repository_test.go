package repository

import (
	"context"
	"errors"
	"testing"

	"bloghub/internal/common"
	"bloghub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"user_id", "first_name", "surname", "email", "password_hash", "is_admin"}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return sqlxDB, mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	insertSQL := `
		INSERT INTO users (user_id, first_name, surname, email, password_hash, is_admin)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	t.Run("User created with generated ID", func(t *testing.T) {
		user := &models.User{FirstName: "Ada", Surname: "Lovelace", Email: "a@x.com", PasswordHash: "hash"}

		mock.ExpectExec(insertSQL).
			WithArgs(sqlmock.AnyArg(), "Ada", "Lovelace", "a@x.com", "hash", false).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.CreateUser(ctx, user))
		assert.NotEmpty(t, user.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate email maps to validation error", func(t *testing.T) {
		user := &models.User{UserID: "u2", FirstName: "Ada", Surname: "Byron", Email: "a@x.com", PasswordHash: "hash"}

		mock.ExpectExec(insertSQL).
			WithArgs("u2", "Ada", "Byron", "a@x.com", "hash", false).
			WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "users_email_key"})

		err := repo.CreateUser(ctx, user)
		assert.ErrorIs(t, err, common.ErrDuplicateEmail)

		msg, ok := common.AsValidation(err)
		assert.True(t, ok)
		assert.Equal(t, common.MsgDuplicateEmail, msg)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Other database error is wrapped", func(t *testing.T) {
		user := &models.User{UserID: "u3", Email: "b@x.com"}

		mock.ExpectExec(insertSQL).
			WithArgs("u3", "", "", "b@x.com", "", false).
			WillReturnError(errors.New("connection reset"))

		err := repo.CreateUser(ctx, user)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error creating user")
		assert.NotErrorIs(t, err, common.ErrDuplicateEmail)
	})
}

func TestUserRepository_GetUser(t *testing.T) {
	const userID = "9b2f6a4e-4c1d-4f8e-9d2a-1c3b5e7f9a01"
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Get by ID", func(t *testing.T) {
		mock.ExpectQuery(selectUserByIDQuery).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(userID, "Ada", "Lovelace", "a@x.com", "hash", true))

		user, err := repo.GetUserByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", user.FullName())
		assert.True(t, user.IsAdmin)
		assert.Equal(t, models.RoleAdmin, user.Role())
	})

	t.Run("Unknown ID is not found", func(t *testing.T) {
		missing := "3b241101-e2bb-4255-8caf-4136c566a962"
		mock.ExpectQuery(selectUserByIDQuery).
			WithArgs(missing).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		user, err := repo.GetUserByID(ctx, missing)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("Malformed ID is not found without a query", func(t *testing.T) {
		user, err := repo.GetUserByID(ctx, "abc")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("Get by email", func(t *testing.T) {
		mock.ExpectQuery(selectUserByEmailQuery).
			WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow("u1", "Ada", "Lovelace", "a@x.com", "hash", false))

		user, err := repo.GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("Unknown email is not found", func(t *testing.T) {
		mock.ExpectQuery(selectUserByEmailQuery).
			WithArgs("nobody@x.com").
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := repo.GetUserByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("Store failure is not reported as not found", func(t *testing.T) {
		mock.ExpectQuery(selectUserByEmailQuery).
			WithArgs("a@x.com").
			WillReturnError(errors.New("timeout"))

		_, err := repo.GetUserByEmail(ctx, "a@x.com")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListUsers(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(selectUsersQuery).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "Ada", "Lovelace", "a@x.com", "h1", true).
			AddRow("u2", "Alan", "Turing", "t@x.com", "h2", false))

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "t@x.com", users[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	updateSQL := `
		UPDATE users
		SET first_name = ?, surname = ?, email = ?,
			password_hash = ?, is_admin = ?
		WHERE user_id = ?
	`
	user := &models.User{UserID: "u1", FirstName: "Ada", Surname: "King", Email: "a@x.com", PasswordHash: "hash"}

	t.Run("Updated", func(t *testing.T) {
		mock.ExpectExec(updateSQL).
			WithArgs("Ada", "King", "a@x.com", "hash", false, "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateUser(ctx, user))
	})

	t.Run("Missing user", func(t *testing.T) {
		mock.ExpectExec(updateSQL).
			WithArgs("Ada", "King", "a@x.com", "hash", false, "u1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateUser(ctx, user), common.ErrNotFound)
	})

	t.Run("Email taken by another user", func(t *testing.T) {
		mock.ExpectExec(updateSQL).
			WithArgs("Ada", "King", "a@x.com", "hash", false, "u1").
			WillReturnError(&pq.Error{Code: uniqueViolation})

		assert.ErrorIs(t, repo.UpdateUser(ctx, user), common.ErrDuplicateEmail)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectExec(deleteUserQuery).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteUser(ctx, "u1"))

	mock.ExpectExec(deleteUserQuery).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteUser(ctx, "u1"), common.ErrNotFound)

	mock.ExpectExec(deleteUserQuery).WithArgs("u2").WillReturnError(errors.New("boom"))
	err := repo.DeleteUser(ctx, "u2")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error deleting user")

	assert.NoError(t, mock.ExpectationsWereMet())
}
