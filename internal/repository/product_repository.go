package repository

import (
	"context"
	"errors"

	"eshop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の取得だけを約束（外部APIでもDBでもよい）。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
