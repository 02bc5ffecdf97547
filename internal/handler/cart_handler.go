package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/apper-apps/shophub-online-alarm/internal/usecase"
)

// /cartのHTTP
type CartHandler struct {
	cart    *usecase.CartUsecase
	catalog *usecase.CatalogUsecase
}

// DI
func NewCartHandler(cart *usecase.CartUsecase, catalog *usecase.CatalogUsecase) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

type AddCartRequest struct {
	ProductID int64  `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	ProductID int64  `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.getCart)
	e.GET("/cart/count", h.count)
	e.POST("/cart/items", h.addItem)
	e.PATCH("/cart/items", h.updateItem)
	e.DELETE("/cart/items/:productId/:variantId", h.removeItem)
	e.DELETE("/cart", h.clear)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.cart.GetItems(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) count(c echo.Context) error {
	n, err := h.cart.GetItemCount(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"count": n})
}

// 価格・表示名はクライアントを信用せず、カタログから解決する
func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ctx := c.Request().Context()

	p, err := h.catalog.FindProduct(ctx, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	if !p.InStock {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "out of stock"})
	}

	variantID := req.VariantID
	variantName := ""
	if variantID == "" {
		variantID = "default"
	} else {
		found := false
		for _, v := range p.Variants {
			if v.ID == variantID {
				variantName = v.Name
				found = true
				break
			}
		}
		if !found {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid variant_id"})
		}
	}

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	out, err := h.cart.AddItem(ctx, usecase.AddItemInput{
		ProductID: p.ID,
		VariantID: variantID,
		Quantity:  req.Quantity,
		Price:     p.EffectivePrice(variantID),
		Name:      p.Name,
		Image:     image,
		Variant:   variantName,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.cart.UpdateItem(c.Request().Context(), req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	variantID := c.Param("variantId")

	out, err := h.cart.RemoveItem(c.Request().Context(), productID, variantID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	out, err := h.cart.ClearCart(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
