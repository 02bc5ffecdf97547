package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	repo "github.com/apper-apps/shophub-online-alarm/internal/repository"
)

//go:embed data/*.json
var dataFS embed.FS

// Repository はバイナリ埋め込みのモックデータを配列フィルタで返す。
// データは読み取り専用なのでロック不要。返り値は常にコピー。
type Repository struct {
	products   []model.Product
	categories []model.Category
	reviews    []model.Review
}

func NewRepository() (*Repository, error) {
	r := &Repository{}

	if err := loadJSON("data/products.json", &r.products); err != nil {
		return nil, err
	}
	if err := loadJSON("data/categories.json", &r.categories); err != nil {
		return nil, err
	}
	if err := loadJSON("data/reviews.json", &r.reviews); err != nil {
		return nil, err
	}

	return r, nil
}

func loadJSON(name string, out any) error {
	b, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *Repository) FindProductByID(ctx context.Context, id int64) (model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (r *Repository) ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

// 名前・説明・カテゴリ名の部分一致（大文字小文字は無視）
func (r *Repository) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	term := strings.ToLower(query)
	out := make([]model.Product, 0)
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

// 評価4.5以上の先頭8件
func (r *Repository) ListFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, 8)
	for _, p := range r.products {
		if p.Rating >= 4.5 {
			out = append(out, p)
			if len(out) == 8 {
				break
			}
		}
	}
	return out, nil
}

// セール価格のある商品
func (r *Repository) ListDealProducts(ctx context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0)
	for _, p := range r.products {
		if p.SalePrice != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *Repository) FindCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (r *Repository) ListMainCategories(ctx context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0)
	for _, c := range r.categories {
		if c.ParentID == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Repository) ListSubCategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	out := make([]model.Category, 0)
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Repository) ListReviewsByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	out := make([]model.Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}
