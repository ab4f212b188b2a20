package repository

import (
	"context"

	"github.com/google/uuid"
)

const insertCollection = `
INSERT INTO collections (id, name, description, image_url, featured)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, description, image_url, featured, created_at, updated_at
`

type InsertCollectionParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Featured    bool
}

func (q *Queries) InsertCollection(
	c context.Context,
	arg InsertCollectionParams,
) (Collection, error) {
	row := q.db.QueryRow(
		c,
		insertCollection,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.ImageURL,
		arg.Featured,
	)
	var i Collection
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.ImageURL,
		&i.Featured,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findCollections = `
SELECT id, name, description, image_url, featured, created_at, updated_at
FROM collections
WHERE ($1::bool IS NULL OR featured = $1)
ORDER BY created_at DESC
`

func (q *Queries) FindCollections(c context.Context, featured *bool) ([]Collection, error) {
	rows, err := q.db.Query(c, findCollections, featured)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	collections := []Collection{}
	for rows.Next() {
		var i Collection
		err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.ImageURL,
			&i.Featured,
			&i.CreatedAt,
			&i.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		collections = append(collections, i)
	}
	return collections, rows.Err()
}

const insertCollectionProduct = `
INSERT INTO collection_products (collection_id, product_id)
VALUES ($1, $2)
ON CONFLICT (collection_id, product_id) DO NOTHING
`

type CollectionProductParams struct {
	CollectionID uuid.UUID
	ProductID    uuid.UUID
}

func (q *Queries) InsertCollectionProduct(
	c context.Context,
	arg CollectionProductParams,
) error {
	_, err := q.db.Exec(c, insertCollectionProduct, arg.CollectionID, arg.ProductID)
	return err
}

const deleteCollectionProduct = `
DELETE FROM collection_products WHERE collection_id = $1 AND product_id = $2
`

func (q *Queries) DeleteCollectionProduct(
	c context.Context,
	arg CollectionProductParams,
) (int64, error) {
	tag, err := q.db.Exec(c, deleteCollectionProduct, arg.CollectionID, arg.ProductID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteCollection = `
DELETE FROM collections WHERE id = $1
`

func (q *Queries) DeleteCollection(c context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(c, deleteCollection, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
