package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bizdirectory/internal/config"
)

const migrationsDir = "../../migrations"

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_businesses_table.sql",
		"00002_create_get_public_businesses_function.sql",
		"00003_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := os.Stat(filepath.Join(migrationsDir, migration)); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		sqlFileCount++

		contentStr := readMigration(t, file.Name())
		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestBusinessesTableHasRequiredColumns(t *testing.T) {
	contentStr := readMigration(t, "00001_create_businesses_table.sql")

	if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS businesses") {
		t.Error("businesses migration does not create the table")
	}
	if !strings.Contains(contentStr, "DROP TABLE IF EXISTS businesses") {
		t.Error("businesses migration does not drop the table in down section")
	}

	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"owner_id UUID NOT NULL",
		"name VARCHAR",
		"description TEXT",
		"category VARCHAR",
		"phone VARCHAR",
		"zip_code VARCHAR",
		"facebook_page VARCHAR",
		"tiktok_url VARCHAR",
		"rating NUMERIC",
		"image_url VARCHAR",
		"product_images TEXT[]",
		"products_catalog TEXT",
		"business_options JSONB",
		"starting_price NUMERIC",
		"license_expired_date DATE",
		"created_at TIMESTAMP",
		"updated_at TIMESTAMP",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("businesses table missing required column definition: %s", column)
		}
	}
}

func TestProductImagesAreCappedInSchema(t *testing.T) {
	contentStr := readMigration(t, "00001_create_businesses_table.sql")

	if !strings.Contains(contentStr, "cardinality(product_images) <= 3") {
		t.Error("businesses table missing product_images length constraint")
	}
}

func TestPublicBusinessesFunctionIsDefined(t *testing.T) {
	contentStr := readMigration(t, "00002_create_get_public_businesses_function.sql")

	if !strings.Contains(contentStr, "FUNCTION get_public_businesses()") {
		t.Error("migration does not define get_public_businesses()")
	}
	if !strings.Contains(contentStr, "ORDER BY created_at DESC") {
		t.Error("get_public_businesses() should return newest listings first")
	}
}

func TestConnString(t *testing.T) {
	got := ConnString(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "app",
		Password: "secret",
		Database: "directory",
		Schema:   "public",
	})

	want := "postgres://app:secret@db:5432/directory?sslmode=disable&search_path=public"
	if got != want {
		t.Errorf("ConnString() = %q, want %q", got, want)
	}
}
