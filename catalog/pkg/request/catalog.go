package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	Name           string          `json:"name"            validate:"required"`
	Description    string          `json:"description"`
	Category       string          `json:"category"        validate:"required"`
	ImageUrl       string          `json:"image_url"       validate:"omitempty,url"`
	SellingPrice   decimal.Decimal `json:"selling_price"   validate:"required"`
	Mrp            decimal.Decimal `json:"mrp"             validate:"required"`
	ShippingCharge decimal.Decimal `json:"shipping_charge"`
	DeliveryDays   int32           `json:"delivery_days"   validate:"min=0"`
	Sizes          []string        `json:"sizes"`
	Colors         []string        `json:"colors"`
}

// FindProducts filters are all optional; zero values mean unfiltered.
type FindProducts struct {
	SellerId *uuid.UUID       `json:"seller_id"`
	Category string           `json:"category"`
	MinPrice *decimal.Decimal `json:"min_price"`
	MaxPrice *decimal.Decimal `json:"max_price"`
}

type Collection struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	ImageUrl    string `json:"image_url"   validate:"omitempty,url"`
	Featured    bool   `json:"featured"`
}

type CollectionProduct struct {
	ProductId uuid.UUID `json:"product_id" validate:"required"`
}
