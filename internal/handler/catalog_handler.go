package handler

import (
	"io"
	"net/http"
	"strconv"

	"agora/internal/config"
	"agora/internal/infra/images"
	"agora/internal/middleware"
	"agora/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUsernameFromContext(c echo.Context) (string, bool) {
	v := c.Get(middleware.CtxUsernameKey)
	if v == nil {
		return "", false
	}

	username, ok := v.(string)
	if !ok || username == "" {
		return "", false
	}

	return username, true
}

// 未ログインなら空文字（公開ページの閲覧者判定用）
func viewerFromContext(c echo.Context) string {
	username, _ := getUsernameFromContext(c)
	return username
}

// multipartの1ファイルを読む。サイズ上限はデコード前に弾く。
func readFormFile(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, field+" file is required")
	}
	if fh.Size > images.MaxUploadSize {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, images.MaxUploadSize+1))
}

// 公開カタログのHTTP
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// 公開ルートを登録。ログイン済みなら下書きの可視判定に使う。
func (h *CatalogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	opt := middleware.OptionalAuth(cfg)

	e.GET("/products", h.listProducts, opt)
	e.GET("/products/:id", h.productDetail, opt)
	e.GET("/businesses", h.listBusinesses)
	e.GET("/businesses/:id", h.businessDetail, opt)
	e.GET("/categories", h.listCategories)
}

func (h *CatalogHandler) listProducts(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) productDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetProduct(c.Request().Context(), id, viewerFromContext(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) listBusinesses(c echo.Context) error {
	out, err := h.uc.ListBusinesses(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) businessDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetBusiness(c.Request().Context(), id, viewerFromContext(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
