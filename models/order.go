package models

import "time"

type CustomerDetails struct {
	Name       string `json:"name" bson:"name" validate:"required"`
	Email      string `json:"email" bson:"email" validate:"required,email"`
	Phone      string `json:"phone" bson:"phone" validate:"required"`
	Address    string `json:"address" bson:"address" validate:"required"`
	Landmark   string `json:"landmark,omitempty" bson:"landmark,omitempty"`
	City       string `json:"city" bson:"city" validate:"required"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
}

type Order struct {
	ID              string          `json:"_id" bson:"-"`
	OrderNumber     string          `json:"orderNumber" bson:"orderNumber"`
	ProductID       string          `json:"productId" bson:"productId"`
	ProductTitle    string          `json:"productTitle" bson:"productTitle"`
	ProductPrice    float64         `json:"productPrice" bson:"productPrice"`
	ProductImage    string          `json:"productImage,omitempty" bson:"productImage,omitempty"`
	Color           string          `json:"color,omitempty" bson:"color,omitempty"`
	Size            string          `json:"size,omitempty" bson:"size,omitempty"`
	Quantity        int             `json:"quantity" bson:"quantity"`
	CustomerDetails CustomerDetails `json:"customerDetails" bson:"customerDetails"`
	OrderDate       time.Time       `json:"orderDate" bson:"orderDate"`
	PaymentMethod   string          `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentDate     *time.Time      `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
	Status          string          `json:"status" bson:"status"`
}

// OrderInput is the checkout body posted by the storefront.
type OrderInput struct {
	ProductID       string          `json:"productId" validate:"required"`
	ProductTitle    string          `json:"productTitle"`
	ProductPrice    *float64        `json:"productPrice" validate:"omitempty,gte=0"`
	ProductImage    string          `json:"productImage"`
	Color           string          `json:"color"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity" validate:"gte=1"`
	CustomerDetails CustomerDetails `json:"customerDetails"`
	OrderNumber     string          `json:"orderNumber"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentDate     *time.Time      `json:"paymentDate"`
}

type CreateOrderResp struct {
	Success bool  `json:"success"`
	Order   Order `json:"order"`
}
