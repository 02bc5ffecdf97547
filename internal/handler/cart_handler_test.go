package handler_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apper-apps/shophub-online-alarm/internal/handler"
	"github.com/apper-apps/shophub-online-alarm/internal/infra/catalog"
	infraRepo "github.com/apper-apps/shophub-online-alarm/internal/infra/repository"
	"github.com/apper-apps/shophub-online-alarm/internal/infra/store"
	"github.com/apper-apps/shophub-online-alarm/internal/server"
	"github.com/apper-apps/shophub-online-alarm/internal/usecase"
)

// 実ストア（SQLiteインメモリ）込みでルートを全部束ねる
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	kv, err := store.New(db, slog.Default())
	assert.NoError(t, err)

	catalogRepo, err := catalog.NewRepository()
	assert.NoError(t, err)

	catalogUC := usecase.NewCatalogUsecase(catalogRepo, kv)
	cartUC := usecase.NewCartUsecase(kv)
	orderUC := usecase.NewOrderUsecase(infraRepo.NewOrderMemoryRepository())
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, orderUC, kv)

	return server.New(
		handler.NewProductHandler(catalogUC),
		handler.NewCartHandler(cartUC, catalogUC),
		handler.NewCheckoutHandler(checkoutUC),
		handler.NewOrderHandler(orderUC),
	)
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCartHandler_AddItem_ResolvesPriceFromCatalog(t *testing.T) {
	e := newTestServer(t)

	// 商品1はセール中149.99。クライアントが価格を送る余地は無い
	rec := doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product_id":1,"variant_id":"hp-silver","quantity":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var out usecase.CartResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 159.99, out.Items[0].Price) // バリエーション価格
	assert.Equal(t, "Silver", out.Items[0].Variant)
	assert.Equal(t, int64(2), out.TotalItems)
}

func TestCartHandler_AddItem_UnknownProduct(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product_id":9999,"variant_id":"","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_AddItem_OutOfStock(t *testing.T) {
	e := newTestServer(t)

	// 商品7は在庫切れ
	rec := doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product_id":7,"variant_id":"ws-m","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_AddItem_UnknownVariant(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product_id":1,"variant_id":"no-such","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_RemoveAndCount(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product_id":2,"variant_id":"","quantity":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/cart/count", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodDelete, "/cart/items/2/default", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/cart/count", "")
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())
}

func TestCheckoutFlow_EndToEnd(t *testing.T) {
	e := newTestServer(t)

	// カートが空のうちは配送先を受け付けない
	shippingBody := `{
		"first_name":"Taro","last_name":"Yamada","email":"taro@example.com",
		"phone":"555-0100","address":"1 Main St","city":"Springfield",
		"state":"IL","zip_code":"62701","shipping_method":"express"
	}`
	rec := doJSON(t, e, http.MethodPost, "/checkout/shipping", shippingBody)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 商品2（79.99）を1つ入れてから進める
	rec = doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product_id":2,"variant_id":"","quantity":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/checkout/shipping", shippingBody)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 検証エラーは422でフィールド別
	rec = doJSON(t, e, http.MethodPost, "/checkout/payment",
		`{"card_number":"1234","expiry_date":"","cvv":"123","name_on_card":"T"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "card_number")
	assert.Contains(t, rec.Body.String(), "expiry_date")

	rec = doJSON(t, e, http.MethodPost, "/checkout/payment",
		`{"card_number":"4242 4242 4242 4242","expiry_date":"12/28","cvv":"123","name_on_card":"TARO YAMADA"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var order struct {
		ID     int64   `json:"id"`
		Total  float64 `json:"total"`
		Status string  `json:"status"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, int64(1), order.ID)
	// 79.99 + express 9.99 + 税6.40
	assert.Equal(t, 96.38, order.Total)
	assert.Equal(t, "Processing", order.Status)

	// 注文は確認ページから再取得できる
	rec = doJSON(t, e, http.MethodGet, "/orders/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// カートは空になっている
	rec = doJSON(t, e, http.MethodGet, "/cart/count", "")
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())
}
