package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apper-apps/shophub-online-alarm/internal/domain/model"
	"github.com/apper-apps/shophub-online-alarm/internal/usecase"
)

// /checkoutのHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type SubmitShippingRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
	ShippingMethod string `json:"shipping_method"`
}

type SubmitPaymentRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"name_on_card"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/checkout", h.status)
	e.POST("/checkout/shipping", h.submitShipping)
	e.POST("/checkout/back", h.back)
	e.POST("/checkout/payment", h.submitPayment)
}

func (h *CheckoutHandler) status(c echo.Context) error {
	out, err := h.uc.Status(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) submitShipping(c echo.Context) error {
	var req SubmitShippingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SubmitShipping(c.Request().Context(), usecase.SubmitShippingInput{
		Address: model.Address{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
			City:      req.City,
			State:     req.State,
			ZipCode:   req.ZipCode,
			Country:   req.Country,
		},
		ShippingMethod: model.ShippingMethod(req.ShippingMethod),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) back(c echo.Context) error {
	out, err := h.uc.Back(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) submitPayment(c echo.Context) error {
	var req SubmitPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	order, err := h.uc.SubmitPayment(c.Request().Context(), model.PaymentDetails{
		CardNumber: req.CardNumber,
		ExpiryDate: req.ExpiryDate,
		CVV:        req.CVV,
		NameOnCard: req.NameOnCard,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, order)
}
