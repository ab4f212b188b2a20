package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stylora/marketplace/internal/repository"
)

type Product struct {
	ID             uuid.UUID       `json:"id"`
	SellerId       uuid.UUID       `json:"seller_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category"`
	ImageUrl       string          `json:"image_url,omitempty"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	Mrp            decimal.Decimal `json:"mrp"`
	ShippingCharge decimal.Decimal `json:"shipping_charge"`
	DeliveryDays   int32           `json:"delivery_days"`
	Sizes          []string        `json:"sizes,omitempty"`
	Colors         []string        `json:"colors,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func NewProduct(p repository.Product) Product {
	return Product{
		ID:             p.ID,
		SellerId:       p.SellerID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		ImageUrl:       p.ImageURL,
		SellingPrice:   repository.DecimalFromNumeric(p.SellingPrice),
		Mrp:            repository.DecimalFromNumeric(p.Mrp),
		ShippingCharge: repository.DecimalFromNumeric(p.ShippingCharge),
		DeliveryDays:   p.DeliveryDays,
		Sizes:          p.Sizes,
		Colors:         p.Colors,
		CreatedAt:      p.CreatedAt.Time,
	}
}

func NewProducts(products []repository.Product) []Product {
	resp := make([]Product, len(products))
	for i, p := range products {
		resp[i] = NewProduct(p)
	}
	return resp
}

type Collection struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageUrl    string    `json:"image_url,omitempty"`
	Featured    bool      `json:"featured"`
}

func NewCollection(c repository.Collection) Collection {
	return Collection{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageUrl:    c.ImageURL,
		Featured:    c.Featured,
	}
}

func NewCollections(collections []repository.Collection) []Collection {
	resp := make([]Collection, len(collections))
	for i, c := range collections {
		resp[i] = NewCollection(c)
	}
	return resp
}
