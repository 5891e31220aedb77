package models

import "time"

type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
	GenderKids   Gender = "kids"
)

// Genders lists the catalog classifications in display order.
var Genders = []Gender{GenderMen, GenderWomen, GenderUnisex, GenderKids}

func (g Gender) Valid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderUnisex, GenderKids:
		return true
	}
	return false
}

type Dimensions struct {
	Width  *float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height *float64 `json:"height,omitempty" bson:"height,omitempty"`
	Depth  *float64 `json:"depth,omitempty" bson:"depth,omitempty"`
}

type SEO struct {
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Variant struct {
	SKU            string   `json:"sku,omitempty" bson:"sku,omitempty"`
	Price          *float64 `json:"price,omitempty" bson:"price,omitempty" validate:"omitempty,gte=0"`
	CompareAtPrice *float64 `json:"compareAtPrice,omitempty" bson:"compareAtPrice,omitempty" validate:"omitempty,gte=0"`
	Stock          int      `json:"stock" bson:"stock" validate:"gte=0"`
	Size           string   `json:"size,omitempty" bson:"size,omitempty"`
	Color          string   `json:"color,omitempty" bson:"color,omitempty"`
	Images         []string `json:"images,omitempty" bson:"images,omitempty"`
	Barcode        string   `json:"barcode,omitempty" bson:"barcode,omitempty"`
}

// Product is a catalog entry. ID is assigned by the store.
type Product struct {
	ID             string      `json:"_id" bson:"-"`
	Title          string      `json:"title" bson:"title"`
	Slug           string      `json:"slug,omitempty" bson:"slug,omitempty"`
	Description    string      `json:"description,omitempty" bson:"description,omitempty"`
	Price          float64     `json:"price" bson:"price"`
	CompareAtPrice *float64    `json:"compareAtPrice,omitempty" bson:"compareAtPrice,omitempty"`
	SKU            string      `json:"sku,omitempty" bson:"sku,omitempty"`
	Variants       []Variant   `json:"variants" bson:"variants"`
	Images         []string    `json:"images" bson:"images"`
	Categories     []string    `json:"categories" bson:"categories"`
	Tags           []string    `json:"tags" bson:"tags"`
	Brand          string      `json:"brand,omitempty" bson:"brand,omitempty"`
	Material       string      `json:"material,omitempty" bson:"material,omitempty"`
	Care           string      `json:"care,omitempty" bson:"care,omitempty"`
	Fabric         string      `json:"fabric,omitempty" bson:"fabric,omitempty"`
	Fit            string      `json:"fit,omitempty" bson:"fit,omitempty"`
	Pattern        string      `json:"pattern,omitempty" bson:"pattern,omitempty"`
	Sizes          []string    `json:"sizes" bson:"sizes"`
	Colors         []string    `json:"colors" bson:"colors"`
	Gender         Gender      `json:"gender" bson:"gender"`
	ProductType    string      `json:"productType,omitempty" bson:"productType,omitempty"`
	SupportLevel   string      `json:"supportLevel,omitempty" bson:"supportLevel,omitempty"`
	Padding        string      `json:"padding,omitempty" bson:"padding,omitempty"`
	WireType       string      `json:"wireType,omitempty" bson:"wireType,omitempty"`
	Stock          int         `json:"stock" bson:"stock"`
	Barcode        string      `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Weight         *float64    `json:"weight,omitempty" bson:"weight,omitempty"`
	Dimensions     *Dimensions `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	SEO            *SEO        `json:"seo,omitempty" bson:"seo,omitempty"`
	Published      bool        `json:"published" bson:"published"`
	Featured       bool        `json:"featured" bson:"featured"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// ProductInput is the admin create body.
type ProductInput struct {
	Title          string      `json:"title" validate:"required"`
	Slug           string      `json:"slug"`
	Description    string      `json:"description"`
	Price          *float64    `json:"price" validate:"required,gte=0"`
	CompareAtPrice *float64    `json:"compareAtPrice" validate:"omitempty,gte=0"`
	SKU            string      `json:"sku"`
	Variants       []Variant   `json:"variants" validate:"omitempty,dive"`
	Images         []string    `json:"images"`
	Categories     []string    `json:"categories"`
	Tags           []string    `json:"tags"`
	Brand          string      `json:"brand"`
	Material       string      `json:"material"`
	Care           string      `json:"care"`
	Fabric         string      `json:"fabric"`
	Fit            string      `json:"fit"`
	Pattern        string      `json:"pattern"`
	Sizes          []string    `json:"sizes"`
	Colors         []string    `json:"colors"`
	Gender         Gender      `json:"gender" validate:"omitempty,oneof=men women unisex kids"`
	ProductType    string      `json:"productType"`
	SupportLevel   string      `json:"supportLevel"`
	Padding        string      `json:"padding"`
	WireType       string      `json:"wireType"`
	Stock          int         `json:"stock" validate:"gte=0"`
	Barcode        string      `json:"barcode"`
	Weight         *float64    `json:"weight" validate:"omitempty,gte=0"`
	Dimensions     *Dimensions `json:"dimensions"`
	SEO            *SEO        `json:"seo"`
	Published      *bool       `json:"published"`
	Featured       bool        `json:"featured"`
}

// ProductPatch is the admin update body. Nil fields are left untouched.
type ProductPatch struct {
	Title          *string     `json:"title" bson:"title,omitempty" validate:"omitempty,min=1"`
	Slug           *string     `json:"slug" bson:"slug,omitempty"`
	Description    *string     `json:"description" bson:"description,omitempty"`
	Price          *float64    `json:"price" bson:"price,omitempty" validate:"omitempty,gte=0"`
	CompareAtPrice *float64    `json:"compareAtPrice" bson:"compareAtPrice,omitempty" validate:"omitempty,gte=0"`
	SKU            *string     `json:"sku" bson:"sku,omitempty"`
	Variants       *[]Variant  `json:"variants" bson:"variants,omitempty" validate:"omitempty,dive"`
	Images         *[]string   `json:"images" bson:"images,omitempty"`
	Categories     *[]string   `json:"categories" bson:"categories,omitempty"`
	Tags           *[]string   `json:"tags" bson:"tags,omitempty"`
	Brand          *string     `json:"brand" bson:"brand,omitempty"`
	Material       *string     `json:"material" bson:"material,omitempty"`
	Care           *string     `json:"care" bson:"care,omitempty"`
	Fabric         *string     `json:"fabric" bson:"fabric,omitempty"`
	Fit            *string     `json:"fit" bson:"fit,omitempty"`
	Pattern        *string     `json:"pattern" bson:"pattern,omitempty"`
	Sizes          *[]string   `json:"sizes" bson:"sizes,omitempty"`
	Colors         *[]string   `json:"colors" bson:"colors,omitempty"`
	Gender         *Gender     `json:"gender" bson:"gender,omitempty" validate:"omitempty,oneof=men women unisex kids"`
	ProductType    *string     `json:"productType" bson:"productType,omitempty"`
	SupportLevel   *string     `json:"supportLevel" bson:"supportLevel,omitempty"`
	Padding        *string     `json:"padding" bson:"padding,omitempty"`
	WireType       *string     `json:"wireType" bson:"wireType,omitempty"`
	Stock          *int        `json:"stock" bson:"stock,omitempty" validate:"omitempty,gte=0"`
	Barcode        *string     `json:"barcode" bson:"barcode,omitempty"`
	Weight         *float64    `json:"weight" bson:"weight,omitempty" validate:"omitempty,gte=0"`
	Dimensions     *Dimensions `json:"dimensions" bson:"dimensions,omitempty"`
	SEO            *SEO        `json:"seo" bson:"seo,omitempty"`
	Published      *bool       `json:"published" bson:"published,omitempty"`
	Featured       *bool       `json:"featured" bson:"featured,omitempty"`
}

type ProductsListResp struct {
	Products   []Product `json:"products"`
	TotalCount int64     `json:"totalCount"`
}
