package handler

import (
	"net/http"
	"strconv"

	"agora/internal/config"
	"agora/internal/domain/model"
	"agora/internal/middleware"
	"agora/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Seller向けの受注管理のHTTP
type SellerOrderHandler struct {
	uc *usecase.SellerOrderUsecase
}

// DI
func NewSellerOrderHandler(uc *usecase.SellerOrderUsecase) *SellerOrderHandler {
	return &SellerOrderHandler{uc: uc}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *SellerOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireAccountType(string(model.AccountTypeSeller)))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.PATCH("/:id", h.updateStatus)
}

func (h *SellerOrderHandler) list(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListOrders(c.Request().Context(), username)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SellerOrderHandler) detail(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), username, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ステータスは前進のみ。キャンセル時は在庫が戻る。
func (h *SellerOrderHandler) updateStatus(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), username, id, req.Status); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
