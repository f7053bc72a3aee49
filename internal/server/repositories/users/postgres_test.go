package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash,\s*full_name,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`

const selectQ = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*full_name,\s*created_at\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`

func testUser() *models.User {
	return &models.User{
		ID:           "9b2f2d4e-54a8-4c2b-9d3c-0c9c3a4b7e11",
		Email:        "alice@example.org",
		PasswordHash: "$2a$10$hash",
		FullName:     "Alice",
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := testUser()
	mock.ExpectExec(insertQ).
		WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != u.ID || got.Email != "alice@example.org" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := testUser()
	mock.ExpectExec(insertQ).
		WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName, u.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})

	_, err := repo.Create(context.Background(), u)
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := testUser()
	mock.ExpectExec(insertQ).
		WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName, u.CreatedAt).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), u)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := testUser()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "created_at"}).
		AddRow(u.ID, u.Email, u.PasswordHash, u.FullName, u.CreatedAt)
	mock.ExpectQuery(selectQ).
		WithArgs("Alice@Example.org").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "Alice@Example.org")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != u.ID || got.FullName != "Alice" || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs("ghost@example.org").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.org")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	q := `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	t.Run("updated", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs("u-1", "$2a$new").WillReturnResult(sqlmock.NewResult(0, 1))
		if err := repo.UpdatePasswordHash(context.Background(), "u-1", "$2a$new"); err != nil {
			t.Fatalf("UpdatePasswordHash error: %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs("u-2", "h").WillReturnResult(sqlmock.NewResult(0, 0))
		if err := repo.UpdatePasswordHash(context.Background(), "u-2", "h"); !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("want common.ErrorNotFound, got %v", err)
		}
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs("u-3", "h").WillReturnError(errors.New("conn reset"))
		err := repo.UpdatePasswordHash(context.Background(), "u-3", "h")
		if err == nil || !regexp.MustCompile(`db error: .*conn reset`).MatchString(err.Error()) {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})
}
