package handlers

import (
	"context"
	"net/http"

	"invoicedash/internal/common"
	"invoicedash/internal/config"
	"invoicedash/internal/models"

	"github.com/labstack/echo/v4"
)

// CardDataProvider supplies the dashboard summary cards
type CardDataProvider interface {
	CardData(ctx context.Context) (*models.CardData, error)
}

type DashboardHandlers struct {
	summary CardDataProvider
}

func NewDashboardHandlers(summary CardDataProvider) *DashboardHandlers {
	return &DashboardHandlers{summary: summary}
}

// Overview handles GET /dashboard
func (h *DashboardHandlers) Overview(c echo.Context) error {
	data, err := h.summary.CardData(c.Request().Context())
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "Overview", "", nil, err)
		return common.SendServerError(c, "Failed to fetch card data")
	}
	return c.JSON(http.StatusOK, data)
}
