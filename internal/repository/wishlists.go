package repository

import (
	"context"

	"github.com/google/uuid"
)

const findWishlistByUserId = `
SELECT w.id, w.product_id, p.name, p.image_url, p.selling_price, p.mrp
FROM wishlist_items w
JOIN products p ON p.id = w.product_id
WHERE w.user_id = $1
ORDER BY w.created_at DESC
`

func (q *Queries) FindWishlistByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]FindWishlistByUserIdRow, error) {
	rows, err := q.db.Query(c, findWishlistByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindWishlistByUserIdRow{}
	for rows.Next() {
		var i FindWishlistByUserIdRow
		err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.ProductName,
			&i.ImageURL,
			&i.SellingPrice,
			&i.Mrp,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertWishlistItem = `
INSERT INTO wishlist_items (id, user_id, product_id)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO NOTHING
RETURNING id, user_id, product_id, created_at
`

type InsertWishlistItemParams struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) InsertWishlistItem(
	c context.Context,
	arg InsertWishlistItemParams,
) (WishlistItem, error) {
	row := q.db.QueryRow(c, insertWishlistItem, arg.ID, arg.UserID, arg.ProductID)
	var i WishlistItem
	err := row.Scan(&i.ID, &i.UserID, &i.ProductID, &i.CreatedAt)
	return i, err
}

const deleteWishlistItem = `
DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2
`

type DeleteWishlistItemParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteWishlistItem(c context.Context, arg DeleteWishlistItemParams) (int64, error) {
	tag, err := q.db.Exec(c, deleteWishlistItem, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
