package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, seller_id, name, description, category, image_url,
	selling_price, mrp, shipping_charge, delivery_days, sizes, colors, created_at, updated_at`

const insertProduct = `
INSERT INTO products (
	id, seller_id, name, description, category, image_url,
	selling_price, mrp, shipping_charge, delivery_days, sizes, colors
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + productColumns

type InsertProductParams struct {
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
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(
		c,
		insertProduct,
		arg.ID,
		arg.SellerID,
		arg.Name,
		arg.Description,
		arg.Category,
		arg.ImageURL,
		arg.SellingPrice,
		arg.Mrp,
		arg.ShippingCharge,
		arg.DeliveryDays,
		arg.Sizes,
		arg.Colors,
	)
	return scanProduct(row)
}

const updateProduct = `
UPDATE products SET
	name = $3, description = $4, category = $5, image_url = $6,
	selling_price = $7, mrp = $8, shipping_charge = $9, delivery_days = $10,
	sizes = $11, colors = $12, updated_at = now()
WHERE id = $1 AND seller_id = $2
RETURNING ` + productColumns

type UpdateProductParams struct {
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
}

// UpdateProduct is scoped by seller so a seller can only manage its own
// catalog rows.
func (q *Queries) UpdateProduct(c context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(
		c,
		updateProduct,
		arg.ID,
		arg.SellerID,
		arg.Name,
		arg.Description,
		arg.Category,
		arg.ImageURL,
		arg.SellingPrice,
		arg.Mrp,
		arg.ShippingCharge,
		arg.DeliveryDays,
		arg.Sizes,
		arg.Colors,
	)
	return scanProduct(row)
}

const findProductById = `
SELECT ` + productColumns + ` FROM products WHERE id = $1
`

func (q *Queries) FindProductById(c context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(c, findProductById, id))
}

const findProducts = `
SELECT ` + productColumns + `
FROM products
WHERE ($1::uuid IS NULL OR seller_id = $1)
  AND ($2::text IS NULL OR category = $2)
  AND ($3::numeric IS NULL OR selling_price >= $3)
  AND ($4::numeric IS NULL OR selling_price <= $4)
ORDER BY created_at DESC
`

type FindProductsParams struct {
	SellerID uuid.NullUUID
	Category pgtype.Text
	MinPrice pgtype.Numeric
	MaxPrice pgtype.Numeric
}

func (q *Queries) FindProducts(c context.Context, arg FindProductsParams) ([]Product, error) {
	rows, err := q.db.Query(
		c,
		findProducts,
		arg.SellerID,
		arg.Category,
		arg.MinPrice,
		arg.MaxPrice,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const findProductsByCollection = `
SELECT p.id, p.seller_id, p.name, p.description, p.category, p.image_url,
	p.selling_price, p.mrp, p.shipping_charge, p.delivery_days, p.sizes, p.colors, p.created_at, p.updated_at
FROM products p
JOIN collection_products cp ON cp.product_id = p.id
WHERE cp.collection_id = $1
ORDER BY p.created_at DESC
`

func (q *Queries) FindProductsByCollection(
	c context.Context,
	collectionID uuid.UUID,
) ([]Product, error) {
	rows, err := q.db.Query(c, findProductsByCollection, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const deleteProduct = `
DELETE FROM products WHERE id = $1 AND seller_id = $2
`

type DeleteProductParams struct {
	ID       uuid.UUID
	SellerID uuid.UUID
}

func (q *Queries) DeleteProduct(c context.Context, arg DeleteProductParams) (int64, error) {
	tag, err := q.db.Exec(c, deleteProduct, arg.ID, arg.SellerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.ImageURL,
		&p.SellingPrice,
		&p.Mrp,
		&p.ShippingCharge,
		&p.DeliveryDays,
		&p.Sizes,
		&p.Colors,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
