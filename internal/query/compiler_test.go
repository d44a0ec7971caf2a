package query_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trendora/internal/apperrors"
	"trendora/internal/models"
	"trendora/internal/query"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Brand{}, &models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedProducts inserts n products named p01..pNN with prices 1..n.
func seedProducts(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		p := models.Product{
			ID:        fmt.Sprintf("prod-%02d", i),
			Name:      fmt.Sprintf("p%02d", i),
			Price:     float64(i),
			Inventory: 10,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("failed to seed product %d: %v", i, err)
		}
	}
}

func TestApplyPagination(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db, 12)

	list := func(opts query.Options) []models.Product {
		tx, err := query.Apply(db.Model(&models.Product{}), models.ProductSchema(), opts)
		assert.NoError(t, err)
		var products []models.Product
		assert.NoError(t, tx.Find(&products).Error)
		return products
	}

	// Page 2 of 5 over 12 rows sorted by name: rows 6-10.
	page2 := list(query.Options{Page: 2, Limit: 5, SortField: "name", SortOrder: "ASC"})
	assert.Len(t, page2, 5)
	assert.Equal(t, "p06", page2[0].Name)
	assert.Equal(t, "p10", page2[4].Name)

	// Page 3 holds the remaining 2 rows.
	page3 := list(query.Options{Page: 3, Limit: 5, SortField: "name"})
	assert.Len(t, page3, 2)
	assert.Equal(t, "p11", page3[0].Name)

	// Defaults: page 1, limit 10.
	defaults := list(query.Options{SortField: "name"})
	assert.Len(t, defaults, 10)
	assert.Equal(t, "p01", defaults[0].Name)

	// Non-positive values clamp to the defaults.
	clamped := list(query.Options{Page: -3, Limit: -1, SortField: "name"})
	assert.Len(t, clamped, 10)
	assert.Equal(t, "p01", clamped[0].Name)
}

func TestApplySortDescending(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db, 3)

	tx, err := query.Apply(db.Model(&models.Product{}), models.ProductSchema(),
		query.Options{SortField: "price", SortOrder: "DESC"})
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, tx.Find(&products).Error)
	assert.Equal(t, "p03", products[0].Name)
	assert.Equal(t, "p01", products[2].Name)
}

func TestApplyRangeFilterInclusive(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db, 25)

	tx, err := query.Apply(db.Model(&models.Product{}), models.ProductSchema(), query.Options{
		Limit:   25,
		Filters: map[string]query.Filter{"price": query.Between(10, 20)},
	})
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, tx.Find(&products).Error)
	assert.Len(t, products, 11) // 10..20 inclusive on both ends
	for _, p := range products {
		assert.GreaterOrEqual(t, p.Price, 10.0)
		assert.LessOrEqual(t, p.Price, 20.0)
	}
}

func TestApplyMembershipFilter(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db, 5)

	tx, err := query.Apply(db.Model(&models.Product{}), models.ProductSchema(), query.Options{
		Filters: map[string]query.Filter{"name": query.In("p01", "p04", "p09")},
	})
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, tx.Find(&products).Error)
	assert.Len(t, products, 2)
}

func TestApplySearchCaseInsensitive(t *testing.T) {
	db := setupDB(t)
	assert.NoError(t, db.Create(&models.Product{ID: "a", Name: "Gaming Laptop", Price: 1, Inventory: 1}).Error)
	assert.NoError(t, db.Create(&models.Product{ID: "b", Name: "Desk Lamp", Price: 1, Inventory: 1}).Error)

	tx, err := query.Apply(db.Model(&models.Product{}), models.ProductSchema(), query.Options{
		SearchField: "name",
		SearchTerm:  "LAPTOP",
	})
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, tx.Find(&products).Error)
	assert.Len(t, products, 1)
	assert.Equal(t, "Gaming Laptop", products[0].Name)
}

func TestApplyRejectsUnknownIdentifiers(t *testing.T) {
	db := setupDB(t)
	schema := models.ProductSchema()

	_, err := query.Apply(db.Model(&models.Product{}), schema, query.Options{SortField: "name; DROP TABLE products"})
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = query.Apply(db.Model(&models.Product{}), schema, query.Options{
		Filters: map[string]query.Filter{"nope": query.Eq(1)},
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = query.Apply(db.Model(&models.Product{}), schema, query.Options{SearchField: "nope", SearchTerm: "x"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = query.Apply(db.Model(&models.Product{}), schema, query.Options{Relations: []string{"owner"}})
	assert.True(t, apperrors.IsValidation(err))

	_, err = query.Apply(db.Model(&models.Product{}), schema, query.Options{SortField: "name", SortOrder: "SIDEWAYS"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestApplyTreatsFilterValuesAsOpaque(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db, 3)

	// A hostile value must be bound as a parameter, never alter the query.
	tx, err := query.Apply(db.Model(&models.Product{}), models.ProductSchema(), query.Options{
		Filters: map[string]query.Filter{"name": query.Eq("'; DROP TABLE products;--")},
	})
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, tx.Find(&products).Error)
	assert.Empty(t, products)

	// Table survived.
	var count int64
	assert.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	// Same for the search term.
	tx, err = query.Apply(db.Model(&models.Product{}), models.ProductSchema(), query.Options{
		SearchField: "name",
		SearchTerm:  "%' OR '1'='1",
	})
	assert.NoError(t, err)
	assert.NoError(t, tx.Find(&products).Error)
	assert.Empty(t, products)
}

func TestApplyCountIgnoresPagination(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db, 12)

	tx, err := query.ApplyCount(db.Model(&models.Product{}), models.ProductSchema(), query.Options{
		Page:    2,
		Limit:   5,
		Filters: map[string]query.Filter{"price": query.Between(1, 6)},
	})
	assert.NoError(t, err)
	var count int64
	assert.NoError(t, tx.Count(&count).Error)
	assert.EqualValues(t, 6, count)
}

func TestApplyPreloadKeepsParentsWithoutChildren(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db, 2) // no brand, no category, no vendor

	tx, err := query.Apply(db.Model(&models.Product{}), models.ProductSchema(), query.Options{
		Relations: []string{"brand", "category", "vendor"},
	})
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, tx.Find(&products).Error)
	assert.Len(t, products, 2)
	assert.Nil(t, products[0].Brand)
}

func TestFilterUnmarshalJSON(t *testing.T) {
	var filters map[string]query.Filter
	payload := `{"status": "PENDING", "price": [10, 20], "name": ["a", "b", "c"]}`
	assert.NoError(t, json.Unmarshal([]byte(payload), &filters))

	assert.Equal(t, query.KindScalar, filters["status"].Kind)
	assert.Equal(t, "PENDING", filters["status"].Value)

	assert.Equal(t, query.KindRange, filters["price"].Kind)
	assert.Equal(t, 10.0, filters["price"].Low)
	assert.Equal(t, 20.0, filters["price"].High)

	assert.Equal(t, query.KindMembership, filters["name"].Kind)
	assert.Len(t, filters["name"].Values, 3)

	// Two-element arrays that are not numeric are memberships, not ranges.
	assert.NoError(t, json.Unmarshal([]byte(`{"name": ["a", "b"]}`), &filters))
	assert.Equal(t, query.KindMembership, filters["name"].Kind)

	// Empty lists are malformed.
	assert.Error(t, json.Unmarshal([]byte(`{"name": []}`), &filters))
	// Objects are malformed.
	assert.Error(t, json.Unmarshal([]byte(`{"name": {"eq": 1}}`), &filters))
}
