package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertCoupon = `
INSERT INTO coupons (code, discount_type, discount_value, max_discount, min_order_value, brand_id, expiry_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING code, discount_type, discount_value, max_discount, min_order_value, brand_id, expiry_date, usage_count, created_at
`

type InsertCouponParams struct {
	Code          string
	DiscountType  string
	DiscountValue pgtype.Numeric
	MaxDiscount   pgtype.Numeric
	MinOrderValue pgtype.Numeric
	BrandID       uuid.NullUUID
	ExpiryDate    pgtype.Timestamptz
}

func (q *Queries) InsertCoupon(c context.Context, arg InsertCouponParams) (Coupon, error) {
	row := q.db.QueryRow(
		c,
		insertCoupon,
		arg.Code,
		arg.DiscountType,
		arg.DiscountValue,
		arg.MaxDiscount,
		arg.MinOrderValue,
		arg.BrandID,
		arg.ExpiryDate,
	)
	var i Coupon
	err := row.Scan(
		&i.Code,
		&i.DiscountType,
		&i.DiscountValue,
		&i.MaxDiscount,
		&i.MinOrderValue,
		&i.BrandID,
		&i.ExpiryDate,
		&i.UsageCount,
		&i.CreatedAt,
	)
	return i, err
}

const findCouponByCode = `
SELECT code, discount_type, discount_value, max_discount, min_order_value, brand_id, expiry_date, usage_count, created_at
FROM coupons
WHERE code = $1
`

func (q *Queries) FindCouponByCode(c context.Context, code string) (Coupon, error) {
	row := q.db.QueryRow(c, findCouponByCode, code)
	var i Coupon
	err := row.Scan(
		&i.Code,
		&i.DiscountType,
		&i.DiscountValue,
		&i.MaxDiscount,
		&i.MinOrderValue,
		&i.BrandID,
		&i.ExpiryDate,
		&i.UsageCount,
		&i.CreatedAt,
	)
	return i, err
}

const incrementCouponUsage = `
UPDATE coupons SET usage_count = usage_count + 1 WHERE code = $1
`

func (q *Queries) IncrementCouponUsage(c context.Context, code string) (int64, error) {
	tag, err := q.db.Exec(c, incrementCouponUsage, code)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
