package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type tenantResp struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Subdomain    string `json:"subdomain"`
	CustomDomain string `json:"custom_domain,omitempty"`
	Status       string `json:"status"`
}

// CurrentTenant reports the tenant resolved for this request. Frontends use
// it at bootstrap; it also makes domain-setup problems easy to diagnose.
func CurrentTenant(c echo.Context) error {
	t := activeTenant(c)
	if t == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no tenant resolved"})
	}
	return c.JSON(http.StatusOK, tenantResp{
		ID:           t.ID,
		Name:         t.Name,
		Subdomain:    t.Subdomain,
		CustomDomain: t.CustomDomain,
		Status:       t.Status,
	})
}
