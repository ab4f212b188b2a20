package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID             uuid.UUID
	SellerID       uuid.UUID
	Name           string
	Description    string
	Category       string
	ImageURL       string
	SellingPrice   pgtype.Numeric
	Mrp            pgtype.Numeric
	ShippingCharge pgtype.Numeric
	DeliveryDays   int32
	Sizes          []string
	Colors         []string
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type CartItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	Size      string
	Color     string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// FindCartLinesByUserIdRow joins cart items against the catalog so pricing
// always sees the seller's current price, shipping charge and delivery
// estimate.
type FindCartLinesByUserIdRow struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	SellerID       uuid.UUID
	ProductName    string
	ImageURL       string
	Quantity       int32
	Size           string
	Color          string
	SellingPrice   pgtype.Numeric
	Mrp            pgtype.Numeric
	ShippingCharge pgtype.Numeric
	DeliveryDays   int32
}

type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	CreatedAt pgtype.Timestamptz
}

type FindWishlistByUserIdRow struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	ImageURL     string
	SellingPrice pgtype.Numeric
	Mrp          pgtype.Numeric
}

type Coupon struct {
	Code          string
	DiscountType  string
	DiscountValue pgtype.Numeric
	MaxDiscount   pgtype.Numeric
	MinOrderValue pgtype.Numeric
	BrandID       uuid.NullUUID
	ExpiryDate    pgtype.Timestamptz
	UsageCount    int32
	CreatedAt     pgtype.Timestamptz
}

type Order struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	Status                string
	Subtotal              pgtype.Numeric
	ShippingFee           pgtype.Numeric
	DiscountAmount        pgtype.Numeric
	TotalAmount           pgtype.Numeric
	CouponCode            pgtype.Text
	CouponDiscount        pgtype.Numeric
	ShippingAddress       string
	PhoneNumber           string
	PaymentMethod         string
	PaymentStatus         string
	TransactionID         pgtype.Text
	EstimatedDeliveryDate pgtype.Timestamptz
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Quantity  int32
	Price     pgtype.Numeric
	Size      string
	Color     string
}

type Collection struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Featured    bool
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}
