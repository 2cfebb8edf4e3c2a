package usecase

import (
	"context"
	"errors"
	"fmt"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

// 表示する1件の商品を取ってくる。
type ProductUsecase struct {
	productRepo repo.ProductRepository
	productID   int64
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, productID int64) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		productID:   productID,
	}
}

func (u *ProductUsecase) ProductID() int64 {
	return u.productID
}

// 失敗時は ErrNetworkFailure（呼び出し側でエラーメッセージを出す）
func (u *ProductUsecase) FetchProduct(ctx context.Context) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, u.productID)
	if err != nil {
		return model.Product{}, fmt.Errorf("fetch product %d: %w", u.productID, asNetworkFailure(err))
	}
	return p, nil
}

// 取得経路のエラーはすべて NetworkFailure 扱い
func asNetworkFailure(err error) error {
	if errors.Is(err, model.ErrNetworkFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrNetworkFailure, err)
}
