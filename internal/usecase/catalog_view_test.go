package usecase

import (
	"testing"

	"admin_console/internal/domain"

	"github.com/stretchr/testify/assert"
)

func viewFixture() []domain.Product {
	return []domain.Product{
		{ProductID: "TBP10001", Title: "zari dupatta", Category: domain.CategoryWomen, Price: ptr(300.0), Stock: 9},
		{ProductID: "TBP10002", Title: "Anarkali", Category: domain.CategoryWomen, Price: ptr(2000.0), Stock: 1},
		{ProductID: "XYZ1", Title: "Banarasi Saree", Category: domain.CategoryWomen, Stock: 4},
		{ProductID: "TBP10003", Title: "Éclat Kurti", Category: "Men", Price: ptr(900.0), Stock: 0},
		{ProductID: "TBP10004", Title: "Bandhani Set", Category: domain.CategoryWomen, Price: ptr(1200.0), Stock: 3},
	}
}

func TestBuildCatalogView_Filter(t *testing.T) {
	tests := []struct {
		name   string
		filter CatalogFilter
		want   []string
	}{
		{"no filter", CatalogFilter{}, []string{"TBP10001", "TBP10002", "XYZ1", "TBP10003", "TBP10004"}},
		{"category and id prefix", CatalogFilter{Category: domain.CategoryWomen, Search: "tbp100"}, []string{"TBP10001", "TBP10002", "TBP10004"}},
		{"title substring ignores case", CatalogFilter{Search: "BAN"}, []string{"XYZ1", "TBP10004"}},
		{"search is trimmed", CatalogFilter{Search: "  anarkali "}, []string{"TBP10002"}},
		{"category only", CatalogFilter{Category: "Men"}, []string{"TBP10003"}},
		{"no match", CatalogFilter{Search: "velvet"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := BuildCatalogView(viewFixture(), CatalogQuery{Filter: tt.filter, PageSize: 10})
			assert.Equal(t, tt.want, productIDs(view.Items))
			assert.Equal(t, len(tt.want), view.Total)
		})
	}
}

func TestBuildCatalogView_Sort(t *testing.T) {
	tests := []struct {
		name string
		sort SortSpec
		want []string
	}{
		{"title uses collation", SortSpec{Field: SortTitle}, []string{"TBP10002", "XYZ1", "TBP10004", "TBP10003", "TBP10001"}},
		{"price with missing as zero", SortSpec{Field: SortPrice}, []string{"XYZ1", "TBP10001", "TBP10003", "TBP10004", "TBP10002"}},
		{"stock descending", SortSpec{Field: SortStock, Descending: true}, []string{"TBP10001", "XYZ1", "TBP10004", "TBP10002", "TBP10003"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := BuildCatalogView(viewFixture(), CatalogQuery{Sort: tt.sort, PageSize: 10})
			assert.Equal(t, tt.want, productIDs(view.Items))
		})
	}
}

func TestBuildCatalogView_Paging(t *testing.T) {
	products := viewFixture()

	first := BuildCatalogView(products, CatalogQuery{Page: 1, PageSize: 2})
	assert.Equal(t, []string{"TBP10001", "TBP10002"}, productIDs(first.Items))
	assert.Equal(t, 3, first.TotalPages)

	last := BuildCatalogView(products, CatalogQuery{Page: 3, PageSize: 2})
	assert.Equal(t, []string{"TBP10004"}, productIDs(last.Items))

	past := BuildCatalogView(products, CatalogQuery{Page: 7, PageSize: 2})
	assert.Empty(t, past.Items)
	assert.Equal(t, 7, past.Page)
	assert.Equal(t, 5, past.Total)

	defaults := BuildCatalogView(products, CatalogQuery{})
	assert.Equal(t, DefaultPageSize, defaults.PageSize)
	assert.Equal(t, 1, defaults.Page)
}

func TestBuildCatalogView_DoesNotAliasInput(t *testing.T) {
	products := viewFixture()
	view := BuildCatalogView(products, CatalogQuery{Sort: SortSpec{Field: SortTitle}, PageSize: 10})

	view.Items[0].Title = "changed"
	*view.Items[0].Price = 1

	assert.Equal(t, "zari dupatta", products[0].Title)
	assert.Equal(t, "Anarkali", products[1].Title)
	assert.Equal(t, 2000.0, *products[1].Price)
}
