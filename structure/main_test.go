package structure

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"alfredoramos.mx/site-builder/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Template{},
		&models.Website{},
		&models.Page{},
		&models.Component{},
		&models.WebsiteVersion{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

type fixture struct {
	db      *gorm.DB
	manager *Manager
	userID  uuid.UUID
	website *models.Website
}

// newFixture creates an owner, a business and a website holding pages.
func newFixture(t *testing.T, pages []PageInput) *fixture {
	t.Helper()

	db := newTestDB(t)

	user := &models.User{Email: "owner@example.com", Password: "-"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	business := &models.Business{OwnerID: user.ID, Name: "Bakery"}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("create business: %v", err)
	}

	website := &models.Website{BusinessID: business.ID, Name: "Bakery site", Slug: "bakery-" + uuid.NewString()[:8]}
	if err := db.Create(website).Error; err != nil {
		t.Fatalf("create website: %v", err)
	}

	if len(pages) > 0 {
		if err := NewWriter().Replace(context.Background(), db, website.ID, pages); err != nil {
			t.Fatalf("seed pages: %v", err)
		}
	}

	return &fixture{db: db, manager: NewManager(db), userID: user.ID, website: website}
}

func intPtr(i int) *int {
	return &i
}

func homeWith(types ...string) []PageInput {
	components := []ComponentInput{}

	for i, ct := range types {
		components = append(components, ComponentInput{
			Type:       ct,
			OrderIndex: intPtr(i),
			Props:      Document{"title": strings.ToLower(ct)},
		})
	}

	return []PageInput{{Name: "Home", Path: "/", Components: components}}
}

func componentTypes(p Page) []string {
	types := []string{}

	for _, c := range p.Components {
		types = append(types, c.Type)
	}

	return types
}

func sameShape(t *testing.T, got []Page, want []Page) {
	t.Helper()

	g, err := comparableText(got)
	if err != nil {
		t.Fatalf("encode got: %v", err)
	}

	w, err := comparableText(want)
	if err != nil {
		t.Fatalf("encode want: %v", err)
	}

	if g != w {
		t.Fatalf("structures differ\n got: %s\nwant: %s", g, w)
	}
}

func countVersions(t *testing.T, db *gorm.DB, websiteID uuid.UUID) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.WebsiteVersion{}).Where("website_id = ?", websiteID).Count(&n).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}

	return n
}
