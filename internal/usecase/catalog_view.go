package usecase

import (
	"sort"
	"strings"

	"admin_console/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const DefaultPageSize = 6

type SortField string

const (
	SortNone  SortField = ""
	SortTitle SortField = "title"
	SortPrice SortField = "price"
	SortStock SortField = "stock"
)

func (f SortField) Valid() bool {
	switch f {
	case SortNone, SortTitle, SortPrice, SortStock:
		return true
	}
	return false
}

type SortSpec struct {
	Field      SortField `json:"field"`
	Descending bool      `json:"descending"`
}

// CatalogFilter narrows the product list. Zero values pass everything through.
type CatalogFilter struct {
	Category domain.Category `json:"category"`
	Search   string          `json:"search"`
}

type CatalogQuery struct {
	Filter   CatalogFilter `json:"filter"`
	Sort     SortSpec      `json:"sort"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

type CatalogView struct {
	Items      []domain.Product `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// BuildCatalogView filters, sorts and pages products. It never modifies products.
// A page past the end yields an empty page rather than being clamped.
func BuildCatalogView(products []domain.Product, q CatalogQuery) CatalogView {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesFilter(p, q.Filter) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, q.Sort)

	view := CatalogView{
		Items:      []domain.Product{},
		Total:      len(matched),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (len(matched) + pageSize - 1) / pageSize,
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return view
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	for _, p := range matched[start:end] {
		view.Items = append(view.Items, p.Clone())
	}
	return view
}

func matchesFilter(p domain.Product, f CatalogFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.ProductID), needle)
}

func sortProducts(products []domain.Product, spec SortSpec) {
	var less func(a, b domain.Product) bool
	switch spec.Field {
	case SortTitle:
		c := collate.New(language.English, collate.IgnoreCase)
		less = func(a, b domain.Product) bool { return c.CompareString(a.Title, b.Title) < 0 }
	case SortPrice:
		less = func(a, b domain.Product) bool { return priceOf(a) < priceOf(b) }
	case SortStock:
		less = func(a, b domain.Product) bool { return a.Stock < b.Stock }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		if spec.Descending {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// priceOf treats a missing price as zero.
func priceOf(p domain.Product) float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
