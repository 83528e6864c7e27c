package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bizdirectory/internal/domain"

	"github.com/lib/pq"
)

// BusinessRepository defines the interface for business data access.
// Listings are created once and read back through get_public_businesses();
// nothing here updates or deletes a row.
type BusinessRepository interface {
	Insert(ctx context.Context, row *domain.BusinessInsert) error
	ListPublic(ctx context.Context) ([]*domain.Business, error)
}

type businessRepository struct {
	db *sql.DB
}

// NewBusinessRepository creates a new instance of BusinessRepository
func NewBusinessRepository(db *sql.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Insert stores a single listing row using parameterized queries
func (r *businessRepository) Insert(ctx context.Context, row *domain.BusinessInsert) error {
	query := `
		INSERT INTO businesses (
			owner_id, name, description, category, phone, address, city, state, zip_code,
			website, image_url, facebook_page, tiktok_url, starting_price, business_options,
			products_catalog, license_expired_date, product_images
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::text::numeric, $15, $16, $17::text::date, $18)
	`

	options, err := encodeOptions(row.BusinessOptions)
	if err != nil {
		return fmt.Errorf("failed to encode business options: %w", err)
	}

	var productImages interface{}
	if row.ProductImages != nil {
		productImages = pq.Array(row.ProductImages)
	}

	_, err = r.db.ExecContext(
		ctx,
		query,
		row.OwnerID,
		row.Name,
		row.Description,
		row.Category,
		row.Phone,
		row.Address,
		row.City,
		row.State,
		row.ZipCode,
		row.Website,
		row.ImageURL,
		row.FacebookPage,
		row.TikTokURL,
		row.StartingPrice,
		options,
		row.ProductsCatalog,
		row.LicenseExpiredDate,
		productImages,
	)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	return nil
}

// ListPublic calls get_public_businesses() and returns rows in the order the
// function yields them
func (r *businessRepository) ListPublic(ctx context.Context) ([]*domain.Business, error) {
	query := `
		SELECT id, owner_id, name, description, category, phone, address, city, state, zip_code,
		       website, facebook_page, tiktok_url, rating::float8, image_url, product_images::text,
		       products_catalog, business_options::text, starting_price::float8,
		       license_expired_date, created_at, updated_at
		FROM get_public_businesses()
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list public businesses: %w", err)
	}
	defer rows.Close()

	businesses := []*domain.Business{}
	for rows.Next() {
		business := &domain.Business{}
		var productImages pq.StringArray
		var options sql.NullString

		err := rows.Scan(
			&business.ID,
			&business.OwnerID,
			&business.Name,
			&business.Description,
			&business.Category,
			&business.Phone,
			&business.Address,
			&business.City,
			&business.State,
			&business.ZipCode,
			&business.Website,
			&business.FacebookPage,
			&business.TikTokURL,
			&business.Rating,
			&business.ImageURL,
			&productImages,
			&business.ProductsCatalog,
			&options,
			&business.StartingPrice,
			&business.LicenseExpiredDate,
			&business.CreatedAt,
			&business.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}

		if productImages != nil {
			business.ProductImages = []string(productImages)
		}
		if business.BusinessOptions, err = decodeOptions(options); err != nil {
			return nil, fmt.Errorf("failed to decode business options for %s: %w", business.ID, err)
		}

		businesses = append(businesses, business)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}

	return businesses, nil
}

// encodeOptions renders the option list as JSONB text, or NULL when absent
func encodeOptions(options []string) (interface{}, error) {
	if options == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func decodeOptions(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "null" {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal([]byte(raw.String), &options); err != nil {
		return nil, err
	}
	return options, nil
}
