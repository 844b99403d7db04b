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

// プラットフォーム管理者のHTTP
type AdminHandler struct {
	uc *usecase.AdminUsecase
}

// DI
func NewAdminHandler(uc *usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireAccountType(string(model.AccountTypeAdmin)))

	g.GET("/businesses", h.listBusinesses)
	g.POST("/businesses/:id/approve", h.approve)
	g.POST("/businesses/:id/deactivate", h.deactivate)
	g.GET("/audit", h.auditLogs)
}

func (h *AdminHandler) listBusinesses(c echo.Context) error {
	out, err := h.uc.ListBusinesses(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) approve(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.ApproveBusiness(c.Request().Context(), username, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) deactivate(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeactivateBusiness(c.Request().Context(), username, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) auditLogs(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = n
	}

	out, err := h.uc.RecentAuditLogs(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
