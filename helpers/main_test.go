package helpers

import (
	"fmt"
	"strings"
	"testing"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
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

	if err := app.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func newUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Password: "-"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	return user
}

func newBusiness(t *testing.T, db *gorm.DB, owner *models.User, category string) *models.Business {
	t.Helper()

	business := &models.Business{OwnerID: owner.ID, Name: "Corner " + category, Category: utils.ToStringPtr(category)}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("create business: %v", err)
	}

	return business
}

func newTemplate(t *testing.T, db *gorm.DB, pages []structure.PageInput) *models.Template {
	t.Helper()

	raw, err := utils.ToJSON(pages)
	if err != nil {
		t.Fatalf("encode pages: %v", err)
	}

	tpl := &models.Template{Name: "Starter", Slug: "starter", Structure: datatypes.JSON(raw)}
	if err := db.Create(tpl).Error; err != nil {
		t.Fatalf("create template: %v", err)
	}

	return tpl
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func starterPages() []structure.PageInput {
	return []structure.PageInput{
		{
			Name: "Home",
			Path: "/",
			Components: []structure.ComponentInput{
				{Type: "HERO", OrderIndex: intPtr(0), Props: structure.Document{"title": "Welcome"}},
				{Type: "TEXT", OrderIndex: intPtr(1), Props: structure.Document{"html": "<p>About us</p>"}},
				{Type: "FOOTER", OrderIndex: intPtr(2)},
			},
		},
		{
			Name:       "Contact",
			Path:       "/contact",
			SortOrder:  intPtr(1),
			Components: []structure.ComponentInput{{Type: "CONTACT_FORM"}},
		},
	}
}

func inputTypes(p structure.PageInput) []string {
	types := []string{}

	for _, c := range p.Components {
		types = append(types, c.Type)
	}

	return types
}

func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
