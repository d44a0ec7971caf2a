// Package query compiles a generic set of pagination, sort, filter, search
// and relation options into a parameterized GORM query. Field and relation
// names are validated against a per-entity Schema before they reach an
// identifier position; every value is bound as a parameter, never
// concatenated into predicate text.
package query

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"trendora/internal/apperrors"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Options is the generic query specification accepted by every list/count
// operation. Zero values mean "not requested"; Page and Limit are clamped to
// their defaults when non-positive.
type Options struct {
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
	SortField   string            `json:"sortField"`
	SortOrder   string            `json:"sortOrder"`
	SearchField string            `json:"searchField"`
	SearchTerm  string            `json:"searchTerm"`
	Filters     map[string]Filter `json:"filters"`
	Relations   []string          `json:"relations"`
}

// Schema declares, for one entity, the fields callers may reference and the
// relations they may eager-load. Columns maps exposed field names to column
// names; Relations maps exposed relation names to GORM association paths.
type Schema struct {
	Table     string
	Columns   map[string]string
	Relations map[string]string
}

func (s Schema) column(field string) (string, error) {
	col, ok := s.Columns[field]
	if !ok {
		return "", apperrors.NewValidation("unknown field %q for %s", field, s.Table)
	}
	return col, nil
}

// Apply compiles opts against schema into a retrieval query: filters, search,
// sort, pagination and relation preloads. The returned *gorm.DB is ready for
// Find. Unknown fields, relations or sort directions fail before any query
// executes.
func Apply(db *gorm.DB, schema Schema, opts Options) (*gorm.DB, error) {
	tx, err := applyPredicates(db, schema, opts)
	if err != nil {
		return nil, err
	}

	if opts.SortField != "" {
		col, err := schema.column(opts.SortField)
		if err != nil {
			return nil, err
		}
		dir := strings.ToUpper(opts.SortOrder)
		if dir == "" {
			dir = "ASC"
		}
		if dir != "ASC" && dir != "DESC" {
			return nil, apperrors.NewValidation("invalid sort order %q, must be ASC or DESC", opts.SortOrder)
		}
		tx = tx.Order(fmt.Sprintf("%s %s", col, dir))
	}

	for _, relation := range opts.Relations {
		assoc, ok := schema.Relations[relation]
		if !ok {
			return nil, apperrors.NewValidation("unknown relation %q for %s", relation, schema.Table)
		}
		// Preload keeps parents whose relation is empty, matching
		// left-outer-join semantics.
		tx = tx.Preload(assoc)
	}

	page := opts.Page
	if page < 1 {
		page = defaultPage
	}
	limit := opts.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	tx = tx.Offset((page - 1) * limit).Limit(limit)

	return tx, nil
}

// ApplyCount compiles opts into a cardinality query: the same predicate
// pipeline as Apply minus pagination, sorting and eager-loading. The returned
// *gorm.DB is ready for Count.
func ApplyCount(db *gorm.DB, schema Schema, opts Options) (*gorm.DB, error) {
	return applyPredicates(db, schema, opts)
}

// applyPredicates adds the filter and search clauses shared by Apply and
// ApplyCount. Filters are applied in field-name order so the generated SQL is
// deterministic.
func applyPredicates(db *gorm.DB, schema Schema, opts Options) (*gorm.DB, error) {
	tx := db

	fields := make([]string, 0, len(opts.Filters))
	for field := range opts.Filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		col, err := schema.column(field)
		if err != nil {
			return nil, err
		}
		filter := opts.Filters[field]
		switch filter.Kind {
		case KindScalar:
			tx = tx.Where(fmt.Sprintf("%s = ?", col), filter.Value)
		case KindRange:
			tx = tx.Where(fmt.Sprintf("%s BETWEEN ? AND ?", col), filter.Low, filter.High)
		case KindMembership:
			if len(filter.Values) == 0 {
				return nil, apperrors.NewValidation("membership filter on %q must not be empty", field)
			}
			tx = tx.Where(fmt.Sprintf("%s IN ?", col), filter.Values)
		default:
			return nil, apperrors.NewValidation("unsupported filter kind %d on %q", filter.Kind, field)
		}
	}

	if opts.SearchField != "" && opts.SearchTerm != "" {
		col, err := schema.column(opts.SearchField)
		if err != nil {
			return nil, err
		}
		term := "%" + strings.ToLower(opts.SearchTerm) + "%"
		tx = tx.Where(fmt.Sprintf("LOWER(%s) LIKE ?", col), term)
	}

	return tx, nil
}
