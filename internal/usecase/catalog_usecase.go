package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	repo "github.com/apper-apps/shophub-online-alarm/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 閲覧履歴に残す最大件数
const recentlyViewedLimit = 10

// CatalogUsecase は商品・カテゴリ・レビューの閲覧と閲覧履歴。
type CatalogUsecase struct {
	catalog repo.CatalogRepository
	store   repo.PersistentStore

	// 閲覧履歴のread-modify-writeを直列化
	mu sync.Mutex
}

func NewCatalogUsecase(catalog repo.CatalogRepository, store repo.PersistentStore) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog, store: store}
}

type ListProductsInput struct {
	CategoryID *int64
	Query      string
	Featured   bool
	Deals      bool
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	var (
		items []model.Product
		err   error
	)

	switch {
	case in.CategoryID != nil:
		if *in.CategoryID <= 0 {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		items, err = u.catalog.ListProductsByCategory(ctx, *in.CategoryID)
	case strings.TrimSpace(in.Query) != "":
		items, err = u.catalog.SearchProducts(ctx, strings.TrimSpace(in.Query))
	case in.Featured:
		items, err = u.catalog.ListFeaturedProducts(ctx)
	case in.Deals:
		items, err = u.catalog.ListDealProducts(ctx)
	default:
		items, err = u.catalog.ListProducts(ctx)
	}

	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}
	return items, nil
}

// GetProductDetail は商品を返し、閲覧履歴にも記録する
func (u *CatalogUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.FindProduct(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}

	u.recordRecentlyViewed(ctx, productID)
	return p, nil
}

// FindProduct は履歴に残さない取得。カート追加時の価格解決などに使う
func (u *CatalogUsecase) FindProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.FindProductByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}
	return p, nil
}

func (u *CatalogUsecase) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	// 商品の存在確認を先に（未知IDは404）
	if _, err := u.catalog.FindProductByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}

	reviews, err := u.catalog.ListReviewsByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}
	return reviews, nil
}

type ListCategoriesInput struct {
	ParentID *int64
	MainOnly bool
}

func (u *CatalogUsecase) ListCategories(ctx context.Context, in ListCategoriesInput) ([]model.Category, error) {
	var (
		items []model.Category
		err   error
	)

	switch {
	case in.ParentID != nil:
		if *in.ParentID <= 0 {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid parent_id")
		}
		items, err = u.catalog.ListSubCategories(ctx, *in.ParentID)
	case in.MainOnly:
		items, err = u.catalog.ListMainCategories(ctx)
	default:
		items, err = u.catalog.ListCategories(ctx)
	}

	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}
	return items, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, categoryID int64) (model.Category, error) {
	if categoryID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	c, err := u.catalog.FindCategoryByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}
	return c, nil
}

// ListRecentlyViewed は閲覧履歴のIDをカタログで解決して返す。
// 既に消えた商品は黙って飛ばす
func (u *CatalogUsecase) ListRecentlyViewed(ctx context.Context) ([]model.Product, error) {
	ids, _ := u.store.GetRecentlyViewed(ctx)

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		p, err := u.catalog.FindProductByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// 先頭が最新。重複は除いて最大recentlyViewedLimit件
func (u *CatalogUsecase) recordRecentlyViewed(ctx context.Context, productID int64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	ids, _ := u.store.GetRecentlyViewed(ctx)

	next := make([]int64, 0, len(ids)+1)
	next = append(next, productID)
	for _, id := range ids {
		if id == productID {
			continue
		}
		next = append(next, id)
		if len(next) == recentlyViewedLimit {
			break
		}
	}

	_ = u.store.SaveRecentlyViewed(ctx, next)
}
