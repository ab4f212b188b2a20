package request

type Checkout struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	PhoneNumber     string `json:"phone_number"     validate:"required"`
	PaymentMethod   string `json:"payment_method"   validate:"required,oneof=cod card upi"`
	TransactionId   string `json:"transaction_id"`
}
