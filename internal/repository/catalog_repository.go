package repository

import (
	"context"
	"errors"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログ（商品・カテゴリ・レビュー）の読み取り専用クエリだけを約束。
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	FindProductByID(ctx context.Context, id int64) (model.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	// name / description / category の部分一致（大文字小文字は無視）
	SearchProducts(ctx context.Context, query string) ([]model.Product, error)
	ListFeaturedProducts(ctx context.Context) ([]model.Product, error)
	ListDealProducts(ctx context.Context) ([]model.Product, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	FindCategoryByID(ctx context.Context, id int64) (model.Category, error)
	ListMainCategories(ctx context.Context) ([]model.Category, error)
	ListSubCategories(ctx context.Context, parentID int64) ([]model.Category, error)

	ListReviewsByProductID(ctx context.Context, productID int64) ([]model.Review, error)
}
