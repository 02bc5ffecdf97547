package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	"github.com/apper-apps/shophub-online-alarm/internal/usecase"
)

// =====================
// インメモリのストア（PersistentStore実装）
// =====================

type fakeStore struct {
	mu       sync.Mutex
	cart     []model.CartItem
	address  *model.Address
	viewed   []int64
	saveCart int // SaveCartの呼び出し回数
}

func newFakeStore() *fakeStore {
	return &fakeStore{cart: []model.CartItem{}, viewed: []int64{}}
}

func (s *fakeStore) GetCart(ctx context.Context) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CartItem, len(s.cart))
	copy(out, s.cart)
	return out, nil
}

func (s *fakeStore) SaveCart(ctx context.Context, items []model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = make([]model.CartItem, len(items))
	copy(s.cart, items)
	s.saveCart++
	return nil
}

func (s *fakeStore) GetShippingAddress(ctx context.Context) (*model.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address, nil
}

func (s *fakeStore) SaveShippingAddress(ctx context.Context, addr model.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = &addr
	return nil
}

func (s *fakeStore) GetRecentlyViewed(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.viewed))
	copy(out, s.viewed)
	return out, nil
}

func (s *fakeStore) SaveRecentlyViewed(ctx context.Context, productIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewed = make([]int64, len(productIDs))
	copy(s.viewed, productIDs)
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = []model.CartItem{}
	s.address = nil
	s.viewed = []int64{}
	return nil
}

func addInput(productID int64, variantID string, qty int64, price float64) usecase.AddItemInput {
	return usecase.AddItemInput{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  qty,
		Price:     price,
		Name:      "item",
		Image:     "/images/item.jpg",
	}
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_MergesSameKey(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)

	out, err := uc.AddItem(ctx, addInput(1, "default", 3, 10))
	assert.NoError(t, err)

	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)
	assert.Equal(t, int64(5), out.TotalItems)
	assert.Equal(t, 50.0, out.Subtotal)
}

func TestCartUsecase_AddItem_DifferentVariantIsNewLine(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	_, err := uc.AddItem(ctx, addInput(1, "hp-black", 1, 149.99))
	assert.NoError(t, err)

	out, err := uc.AddItem(ctx, addInput(1, "hp-silver", 1, 159.99))
	assert.NoError(t, err)

	assert.Len(t, out.Items, 2)
	// 挿入順を維持する
	assert.Equal(t, "hp-black", out.Items[0].VariantID)
	assert.Equal(t, "hp-silver", out.Items[1].VariantID)
}

func TestCartUsecase_AddItem_KeepsExistingLineMetadata(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	first := addInput(1, "default", 1, 10)
	first.Name = "original name"
	_, err := uc.AddItem(ctx, first)
	assert.NoError(t, err)

	// 2回目は価格も名前も違うが、既存明細の表示情報は先勝ち
	second := addInput(1, "default", 1, 99)
	second.Name = "changed name"
	out, err := uc.AddItem(ctx, second)
	assert.NoError(t, err)

	assert.Len(t, out.Items, 1)
	assert.Equal(t, "original name", out.Items[0].Name)
	assert.Equal(t, 10.0, out.Items[0].Price)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
}

func TestCartUsecase_AddItem_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	_, err := uc.AddItem(ctx, addInput(1, "default", 0, 10))
	assert.Error(t, err)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCartUsecase_AddItem_PersistsBeforeReturn(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uc := usecase.NewCartUsecase(store)

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)

	assert.Equal(t, 1, store.saveCart)
	saved, _ := store.GetCart(ctx)
	assert.Len(t, saved, 1)
	assert.Equal(t, int64(2), saved[0].Quantity)
}

// =====================
// UpdateItem / RemoveItem
// =====================

func TestCartUsecase_UpdateItem_ReplacesQuantity(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)

	out, err := uc.UpdateItem(ctx, 1, "default", 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.Items[0].Quantity)
}

func TestCartUsecase_UpdateItem_MissingKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uc := usecase.NewCartUsecase(store)

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)
	saves := store.saveCart

	out, err := uc.UpdateItem(ctx, 99, "default", 5)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	// 変更が無いので保存もしない
	assert.Equal(t, saves, store.saveCart)
}

func TestCartUsecase_UpdateItem_RejectsQuantityBelowOne(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)

	// 0は自動削除ではなく拒否
	_, err = uc.UpdateItem(ctx, 1, "default", 0)
	assert.Error(t, err)

	out, err := uc.GetItems(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
}

func TestCartUsecase_RemoveItem(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)
	_, err = uc.AddItem(ctx, addInput(2, "default", 1, 5))
	assert.NoError(t, err)

	out, err := uc.RemoveItem(ctx, 1, "default")
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].ProductID)
}

func TestCartUsecase_RemoveItem_AbsentKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)

	out, err := uc.RemoveItem(ctx, 99, "default")
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
}

// =====================
// ClearCart / GetItemCount
// =====================

func TestCartUsecase_ClearCart(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uc := usecase.NewCartUsecase(store)

	_, err := uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)

	out, err := uc.ClearCart(ctx)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	saved, _ := store.GetCart(ctx)
	assert.Empty(t, saved)
}

func TestCartUsecase_GetItemCount(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	n, err := uc.GetItemCount(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = uc.AddItem(ctx, addInput(1, "default", 2, 10))
	assert.NoError(t, err)
	_, err = uc.AddItem(ctx, addInput(2, "default", 3, 5))
	assert.NoError(t, err)

	n, err = uc.GetItemCount(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), n)

	out, err := uc.GetItems(ctx)
	assert.NoError(t, err)
	assert.Equal(t, n, out.TotalItems)
}

// 同時のAddItemで更新が消えないこと
func TestCartUsecase_ConcurrentAddItem(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCartUsecase(newFakeStore())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AddItem(ctx, addInput(1, "default", 1, 10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := uc.GetItemCount(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(20), n)
}
