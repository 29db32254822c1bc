package domain

// Draft is the product being created or edited. Images is the accumulator of
// uploaded asset URLs; Generation changes every time a new draft is opened.
type Draft struct {
	Product    Product  `json:"product"`
	ColorsText string   `json:"colors"`
	TagsText   string   `json:"tags"`
	Editing    bool     `json:"editing"`
	Images     []string `json:"images"`
	Generation string   `json:"generation"`
}

func (d Draft) Clone() Draft {
	out := d
	out.Product = d.Product.Clone()
	out.Images = cloneStrings(d.Images)
	return out
}

// ProductForm carries the submitted form values. Colors and Tags are free text,
// comma separated. Sizes must be drawn from Sizes.
type ProductForm struct {
	Title         string      `json:"title" validate:"required,max=200"`
	Category      Category    `json:"category" validate:"required,oneof=Women"`
	SubCategory   SubCategory `json:"subCategory" validate:"required,oneof='Salwar Materials' 'Ready to Wear'"`
	Exclusive     bool        `json:"exclusive"`
	BestSeller    bool        `json:"bestSeller"`
	NewArrival    bool        `json:"newArrival"`
	Price         *float64    `json:"price" validate:"required,gte=0"`
	OriginalPrice *float64    `json:"originalPrice" validate:"required,gte=0"`
	Stock         *int        `json:"stock" validate:"required,gte=0"`
	Sizes         []string    `json:"sizes" validate:"omitempty,dive,oneof=XS S M L XL XXL XXXL"`
	Colors        string      `json:"colors"`
	Tags          string      `json:"tags"`
	Fabric        string      `json:"fabric" validate:"max=64"`
	Description   string      `json:"description"`
	Details       string      `json:"details"`
}
