package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func TestSeedTemplates(t *testing.T) {
	db := newTestDB(t)
	file := filepath.Join("..", "seeds", "templates.yml")

	if err := SeedTemplates(db, file); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Seeding twice keeps the catalog as is.
	if err := SeedTemplates(db, file); err != nil {
		t.Fatalf("seed again: %v", err)
	}

	var count int64
	if err := db.Model(&models.Template{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 3 {
		t.Fatalf("templates = %d, want 3", count)
	}

	tpl := &models.Template{}
	if err := db.Where(&models.Template{Slug: "restaurant"}).First(tpl).Error; err != nil {
		t.Fatalf("find restaurant: %v", err)
	}

	pages := []structure.PageInput{}
	if err := json.Unmarshal(tpl.Structure, &pages); err != nil {
		t.Fatalf("decode structure: %v", err)
	}

	if len(pages) != 2 || pages[0].Path != "/" || len(pages[0].Components) == 0 {
		t.Errorf("unexpected pages: %+v", pages)
	}
}

func TestSeedTemplatesRejectsInvalidPages(t *testing.T) {
	db := newTestDB(t)
	file := filepath.Join(t.TempDir(), "templates.yml")

	data := []byte(`templates:
  - name: "Broken"
    slug: "broken"
    pages:
      - name: ""
        path: "/"
        components: []
`)

	if err := os.WriteFile(file, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := SeedTemplates(db, file); err == nil {
		t.Fatal("expected an error")
	}

	if err := SeedTemplates(db, filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
