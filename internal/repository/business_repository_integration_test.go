//go:build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"bizdirectory/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := dbContainer.Terminate(context.Background()); err != nil {
			t.Logf("could not teardown postgres container: %v", err)
		}
	})

	connStr, err := dbContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../../migrations"))

	return db
}

func TestBusinessRepository_Integration_InsertThenListPublic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBusinessRepository(db)
	ctx := context.Background()

	description := "Coffee shop"
	row := &domain.BusinessInsert{
		OwnerID:         uuid.New(),
		Name:            "Joe's Cafe",
		Category:        "Restaurant",
		Description:     &description,
		BusinessOptions: []string{"Cash on Delivery"},
		ProductImages:   []string{"https://cdn/p0.png"},
	}
	require.NoError(t, repo.Insert(ctx, row))
	require.NoError(t, repo.Insert(ctx, &domain.BusinessInsert{OwnerID: uuid.New(), Name: "Bare", Category: "Other"}))

	businesses, err := repo.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, businesses, 2)

	var cafe *domain.Business
	for _, b := range businesses {
		if b.Name == "Joe's Cafe" {
			cafe = b
		}
	}
	require.NotNil(t, cafe)
	assert.Equal(t, row.OwnerID, cafe.OwnerID)
	assert.Equal(t, "Coffee shop", *cafe.Description)
	assert.Equal(t, []string{"Cash on Delivery"}, cafe.BusinessOptions)
	assert.Equal(t, []string{"https://cdn/p0.png"}, cafe.ProductImages)
	assert.Nil(t, cafe.Phone)
}

func TestBusinessRepository_Integration_RejectsFourProductImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBusinessRepository(db)

	err := repo.Insert(context.Background(), &domain.BusinessInsert{
		OwnerID:       uuid.New(),
		Name:          "Too many",
		Category:      "Other",
		ProductImages: []string{"a", "b", "c", "d"},
	})
	assert.Error(t, err)
}

func TestBusinessRepository_Integration_ConvertsPriceAndDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBusinessRepository(db)
	ctx := context.Background()

	price, expiry := "10.50", "2027-03-01"
	require.NoError(t, repo.Insert(ctx, &domain.BusinessInsert{
		OwnerID:            uuid.New(),
		Name:               "Bloom",
		Category:           "Florist",
		StartingPrice:      &price,
		LicenseExpiredDate: &expiry,
	}))

	businesses, err := repo.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	require.NotNil(t, businesses[0].StartingPrice)
	assert.Equal(t, 10.5, *businesses[0].StartingPrice)
	require.NotNil(t, businesses[0].LicenseExpiredDate)
	assert.Equal(t, "2027-03-01", businesses[0].LicenseExpiredDate.Format("2006-01-02"))

	bad := "$10"
	err = repo.Insert(ctx, &domain.BusinessInsert{
		OwnerID:       uuid.New(),
		Name:          "Cheap",
		Category:      "Other",
		StartingPrice: &bad,
	})
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "22P02", pgErr.Code)
}
