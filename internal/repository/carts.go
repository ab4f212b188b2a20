package repository

import (
	"context"

	"github.com/google/uuid"
)

const findCartLinesByUserId = `
SELECT ci.id, ci.product_id, p.seller_id, p.name, p.image_url,
       ci.quantity, ci.size, ci.color,
       p.selling_price, p.mrp, p.shipping_charge, p.delivery_days
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at
`

func (q *Queries) FindCartLinesByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]FindCartLinesByUserIdRow, error) {
	rows, err := q.db.Query(c, findCartLinesByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCartLinesByUserIdRow{}
	for rows.Next() {
		var i FindCartLinesByUserIdRow
		err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.SellerID,
			&i.ProductName,
			&i.ImageURL,
			&i.Quantity,
			&i.Size,
			&i.Color,
			&i.SellingPrice,
			&i.Mrp,
			&i.ShippingCharge,
			&i.DeliveryDays,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertCartItem = `
INSERT INTO cart_items (id, user_id, product_id, quantity, size, color)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, product_id, size, color)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
RETURNING id, user_id, product_id, quantity, size, color, created_at, updated_at
`

type UpsertCartItemParams struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	Size      string
	Color     string
}

// UpsertCartItem merges quantity into an existing line with the same
// (product, size, color) selection instead of inserting a duplicate.
func (q *Queries) UpsertCartItem(c context.Context, arg UpsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(
		c,
		upsertCartItem,
		arg.ID,
		arg.UserID,
		arg.ProductID,
		arg.Quantity,
		arg.Size,
		arg.Color,
	)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProductID,
		&i.Quantity,
		&i.Size,
		&i.Color,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCartItemQuantity = `
UPDATE cart_items SET quantity = $3, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, product_id, quantity, size, color, created_at, updated_at
`

type UpdateCartItemQuantityParams struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Quantity int32
}

func (q *Queries) UpdateCartItemQuantity(
	c context.Context,
	arg UpdateCartItemQuantityParams,
) (CartItem, error) {
	row := q.db.QueryRow(c, updateCartItemQuantity, arg.ID, arg.UserID, arg.Quantity)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ProductID,
		&i.Quantity,
		&i.Size,
		&i.Color,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteCartItem = `
DELETE FROM cart_items WHERE id = $1 AND user_id = $2
`

type DeleteCartItemParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteCartItem(c context.Context, arg DeleteCartItemParams) (int64, error) {
	tag, err := q.db.Exec(c, deleteCartItem, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteCartItemsByUserId = `
DELETE FROM cart_items WHERE user_id = $1
`

func (q *Queries) DeleteCartItemsByUserId(c context.Context, userID uuid.UUID) error {
	_, err := q.db.Exec(c, deleteCartItemsByUserId, userID)
	return err
}
