package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `
INSERT INTO orders (
	id, user_id, status, subtotal, shipping_fee, discount_amount, total_amount,
	coupon_code, coupon_discount, shipping_address, phone_number,
	payment_method, payment_status, transaction_id, estimated_delivery_date
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id, user_id, status, subtotal, shipping_fee, discount_amount, total_amount,
	coupon_code, coupon_discount, shipping_address, phone_number,
	payment_method, payment_status, transaction_id, estimated_delivery_date,
	created_at, updated_at
`

type InsertOrderParams struct {
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
}

func (q *Queries) InsertOrder(c context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(
		c,
		insertOrder,
		arg.ID,
		arg.UserID,
		arg.Status,
		arg.Subtotal,
		arg.ShippingFee,
		arg.DiscountAmount,
		arg.TotalAmount,
		arg.CouponCode,
		arg.CouponDiscount,
		arg.ShippingAddress,
		arg.PhoneNumber,
		arg.PaymentMethod,
		arg.PaymentStatus,
		arg.TransactionID,
		arg.EstimatedDeliveryDate,
	)
	return scanOrder(row)
}

const insertOrderItems = `
INSERT INTO order_items (id, order_id, product_id, seller_id, quantity, price, size, color)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type InsertOrderItemsParams struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Quantity  int32
	Price     pgtype.Numeric
	Size      string
	Color     string
}

func (q *Queries) InsertOrderItems(c context.Context, args []InsertOrderItemsParams) (int64, error) {
	var inserted int64
	for _, arg := range args {
		tag, err := q.db.Exec(
			c,
			insertOrderItems,
			arg.ID,
			arg.OrderID,
			arg.ProductID,
			arg.SellerID,
			arg.Quantity,
			arg.Price,
			arg.Size,
			arg.Color,
		)
		if err != nil {
			return inserted, err
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

const findOrdersByUserId = `
SELECT id, user_id, status, subtotal, shipping_fee, discount_amount, total_amount,
	coupon_code, coupon_discount, shipping_address, phone_number,
	payment_method, payment_status, transaction_id, estimated_delivery_date,
	created_at, updated_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) FindOrdersByUserId(c context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(c, findOrdersByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

const findOrderById = `
SELECT id, user_id, status, subtotal, shipping_fee, discount_amount, total_amount,
	coupon_code, coupon_discount, shipping_address, phone_number,
	payment_method, payment_status, transaction_id, estimated_delivery_date,
	created_at, updated_at
FROM orders
WHERE id = $1 AND user_id = $2
`

type FindOrderByIdParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) FindOrderById(c context.Context, arg FindOrderByIdParams) (Order, error) {
	return scanOrder(q.db.QueryRow(c, findOrderById, arg.ID, arg.UserID))
}

const findOrderItemsByOrderId = `
SELECT id, order_id, product_id, seller_id, quantity, price, size, color
FROM order_items
WHERE order_id = $1
`

func (q *Queries) FindOrderItemsByOrderId(
	c context.Context,
	orderID uuid.UUID,
) ([]OrderItem, error) {
	rows, err := q.db.Query(c, findOrderItemsByOrderId, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		var i OrderItem
		err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ProductID,
			&i.SellerID,
			&i.Quantity,
			&i.Price,
			&i.Size,
			&i.Color,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.Subtotal,
		&o.ShippingFee,
		&o.DiscountAmount,
		&o.TotalAmount,
		&o.CouponCode,
		&o.CouponDiscount,
		&o.ShippingAddress,
		&o.PhoneNumber,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.TransactionID,
		&o.EstimatedDeliveryDate,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
