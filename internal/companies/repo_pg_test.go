package companies

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO companies").
		WithArgs("Hansol Foods", "Food & Beverage", "ceo@hansol.example", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	repo := &PGRepo{DB: db}
	created, err := repo.Create(context.Background(), Company{
		Name:         "Hansol Foods",
		Industry:     "Food & Beverage",
		ContactEmail: "ceo@hansol.example",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 11 {
		t.Fatalf("expected id 11, got %d", created.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM companies").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "industry", "contact_email", "created_at", "updated_at"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMemoryRepoRoundTrip(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, Company{Name: "Daon Trade", Industry: "Logistics"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.After(time.Now().UTC().Add(time.Second)) {
		t.Fatalf("unexpected created company: %+v", created)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Daon Trade" {
		t.Fatalf("unexpected name %q", got.Name)
	}

	if _, err := repo.GetByID(ctx, created.ID+1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
