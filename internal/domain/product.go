package domain

import (
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryWomen Category = "Women"
)

type SubCategory string

const (
	SubCategorySalwarMaterials SubCategory = "Salwar Materials"
	SubCategoryReadyToWear     SubCategory = "Ready to Wear"
)

// Sizes in display order. Product.Sizes is always a subset kept in this order.
var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

// Fabrics offered by the product form. Free text is still accepted.
var Fabrics = []string{"Cotton", "Silk Cotton", "Silk", "Organza", "Linen", "Georgette", "Kota"}

type Product struct {
	StorageID          string      `json:"_id,omitempty"`
	ProductID          string      `json:"productId"`
	Title              string      `json:"title"`
	Category           Category    `json:"category"`
	SubCategory        SubCategory `json:"subCategory"`
	Exclusive          bool        `json:"exclusive"`
	BestSeller         bool        `json:"bestSeller"`
	NewArrival         bool        `json:"newArrival"`
	Price              *float64    `json:"price"`
	OriginalPrice      *float64    `json:"originalPrice"`
	DiscountPercentage *int        `json:"discountPercentage"`
	Stock              int         `json:"stock"`
	Sizes              []string    `json:"sizes"`
	Colors             []string    `json:"colors"`
	Fabric             string      `json:"fabric"`
	Description        string      `json:"description"`
	Details            string      `json:"details"`
	Tags               []string    `json:"tags"`
	Images             []string    `json:"images"`
}

// Clone returns a deep copy so callers can never alias session-owned slices.
func (p Product) Clone() Product {
	out := p
	out.Price = cloneFloat(p.Price)
	out.OriginalPrice = cloneFloat(p.OriginalPrice)
	if p.DiscountPercentage != nil {
		v := *p.DiscountPercentage
		out.DiscountPercentage = &v
	}
	out.Sizes = cloneStrings(p.Sizes)
	out.Colors = cloneStrings(p.Colors)
	out.Tags = cloneStrings(p.Tags)
	out.Images = cloneStrings(p.Images)
	return out
}

// SetPricing replaces the price pair and re-derives the discount.
func (p *Product) SetPricing(price, originalPrice *float64) {
	p.Price = cloneFloat(price)
	p.OriginalPrice = cloneFloat(originalPrice)
	p.DiscountPercentage = DiscountPercentage(p.Price, p.OriginalPrice)
}

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// DiscountPercentage returns round(100*(originalPrice-price)/originalPrice),
// rounding halves up, or nil when either price is missing or originalPrice is zero.
func DiscountPercentage(price, originalPrice *float64) *int {
	if price == nil || originalPrice == nil || *originalPrice == 0 {
		return nil
	}
	orig := decimal.NewFromFloat(*originalPrice)
	pct := orig.Sub(decimal.NewFromFloat(*price)).Div(orig).Mul(hundred)
	v := int(pct.Add(half).Floor().IntPart())
	return &v
}

// NormalizeSizes drops duplicates and returns the tokens in canonical size order.
// Unknown tokens are reported through ok=false.
func NormalizeSizes(in []string) (out []string, ok bool) {
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		seen[s] = true
	}
	out = make([]string, 0, len(seen))
	for _, s := range Sizes {
		if seen[s] {
			out = append(out, s)
			delete(seen, s)
		}
	}
	return out, len(seen) == 0
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
