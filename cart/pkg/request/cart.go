package request

import "github.com/google/uuid"

type InsertCartItem struct {
	ProductId uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int32     `json:"quantity"   validate:"required,min=1"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

type UpdateCartItemQuantity struct {
	Quantity int32 `json:"quantity" validate:"min=0"`
}

type ApplyCoupon struct {
	Code string `json:"code" validate:"required"`
}

type InsertWishlistItem struct {
	ProductId uuid.UUID `json:"product_id" validate:"required"`
}
