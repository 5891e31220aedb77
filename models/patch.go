package models

// Apply copies every non-nil field of the patch onto p.
func (p *Product) Apply(patch ProductPatch) {
	setString(&p.Title, patch.Title)
	setString(&p.Slug, patch.Slug)
	setString(&p.Description, patch.Description)
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CompareAtPrice != nil {
		v := *patch.CompareAtPrice
		p.CompareAtPrice = &v
	}
	setString(&p.SKU, patch.SKU)
	if patch.Variants != nil {
		p.Variants = append([]Variant{}, (*patch.Variants)...)
	}
	setStrings(&p.Images, patch.Images)
	setStrings(&p.Categories, patch.Categories)
	setStrings(&p.Tags, patch.Tags)
	setString(&p.Brand, patch.Brand)
	setString(&p.Material, patch.Material)
	setString(&p.Care, patch.Care)
	setString(&p.Fabric, patch.Fabric)
	setString(&p.Fit, patch.Fit)
	setString(&p.Pattern, patch.Pattern)
	setStrings(&p.Sizes, patch.Sizes)
	setStrings(&p.Colors, patch.Colors)
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	setString(&p.ProductType, patch.ProductType)
	setString(&p.SupportLevel, patch.SupportLevel)
	setString(&p.Padding, patch.Padding)
	setString(&p.WireType, patch.WireType)
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	setString(&p.Barcode, patch.Barcode)
	if patch.Weight != nil {
		v := *patch.Weight
		p.Weight = &v
	}
	if patch.Dimensions != nil {
		d := *patch.Dimensions
		p.Dimensions = &d
	}
	if patch.SEO != nil {
		s := *patch.SEO
		p.SEO = &s
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
}

// NewProduct builds a catalog entry from a create body, filling defaults.
func NewProduct(in ProductInput) Product {
	p := Product{
		Title:          in.Title,
		Slug:           in.Slug,
		Description:    in.Description,
		CompareAtPrice: in.CompareAtPrice,
		SKU:            in.SKU,
		Variants:       orEmptyVariants(in.Variants),
		Images:         orEmpty(in.Images),
		Categories:     orEmpty(in.Categories),
		Tags:           orEmpty(in.Tags),
		Brand:          in.Brand,
		Material:       in.Material,
		Care:           in.Care,
		Fabric:         in.Fabric,
		Fit:            in.Fit,
		Pattern:        in.Pattern,
		Sizes:          orEmpty(in.Sizes),
		Colors:         orEmpty(in.Colors),
		Gender:         in.Gender,
		ProductType:    in.ProductType,
		SupportLevel:   in.SupportLevel,
		Padding:        in.Padding,
		WireType:       in.WireType,
		Stock:          in.Stock,
		Barcode:        in.Barcode,
		Weight:         in.Weight,
		Dimensions:     in.Dimensions,
		SEO:            in.SEO,
		Published:      true,
		Featured:       in.Featured,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if p.Gender == "" {
		p.Gender = GenderUnisex
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	return p
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v *[]string) {
	if v != nil {
		*dst = orEmpty(*v)
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}

func orEmptyVariants(v []Variant) []Variant {
	if v == nil {
		return []Variant{}
	}
	return append([]Variant{}, v...)
}
