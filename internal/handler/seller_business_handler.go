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

// Seller向けのビジネス管理のHTTP
type SellerBusinessHandler struct {
	uc *usecase.BusinessUsecase
}

// DI
func NewSellerBusinessHandler(uc *usecase.BusinessUsecase) *SellerBusinessHandler {
	return &SellerBusinessHandler{uc: uc}
}

type createBusinessResponse struct {
	ID int64 `json:"id"`
}

func (h *SellerBusinessHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller/business")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireAccountType(string(model.AccountTypeSeller)))

	g.GET("", h.mine)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/images", h.uploadImages)
	g.PUT("/:id/members", h.upsertMember)
}

func (h *SellerBusinessHandler) mine(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetMyBusiness(c.Request().Context(), username)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 新規はpendingで作られ、Admin承認までカタログに出ない
func (h *SellerBusinessHandler) create(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.BusinessInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.Create(c.Request().Context(), username, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, createBusinessResponse{ID: id})
}

func (h *SellerBusinessHandler) update(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.BusinessInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Update(c.Request().Context(), username, id, req); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// logo/bannerはどちらか片方だけでもよい
func (h *SellerBusinessHandler) uploadImages(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var logo, banner []byte
	if data, err := readFormFile(c, "logo"); err == nil {
		logo = data
	}
	if data, err := readFormFile(c, "banner"); err == nil {
		banner = data
	}

	out, err := h.uc.UploadImages(c.Request().Context(), username, id, logo, banner)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SellerBusinessHandler) upsertMember(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.MemberInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpsertMember(c.Request().Context(), username, id, req); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
