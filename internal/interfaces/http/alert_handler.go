package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// AlertHandler maneja las peticiones HTTP de alertas de stock bajo (protegido).
type AlertHandler struct {
	alerts *inventory.LowStockAlertUseCase
	report *inventory.AlertReportUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts *inventory.LowStockAlertUseCase, report *inventory.AlertReportUseCase) *AlertHandler {
	return &AlertHandler{alerts: alerts, report: report}
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Productos por debajo de su nivel mínimo con proyección de
//               agotamiento y proveedor sugerido, ordenados por urgencia
//               (proyección indeterminada al final).
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.LowStockAlertsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/alerts/low-stock [get]
func (h *AlertHandler) LowStock(c *fiber.Ctx) error {
	companyID := c.Params("id")
	if companyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if companyID != GetCompanyID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado a otra empresa"})
	}
	alerts, err := h.alerts.LowStockAlerts(c.Context(), companyID, time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LowStockAlertsResponse{Alerts: alerts, TotalAlerts: len(alerts)})
}

// LowStockPDF godoc
// @Summary      Reporte PDF de alertas de stock bajo
// @Tags         alerts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la empresa"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/alerts/low-stock/pdf [get]
func (h *AlertHandler) LowStockPDF(c *fiber.Ctx) error {
	companyID := c.Params("id")
	if companyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if companyID != GetCompanyID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado a otra empresa"})
	}
	asOf := time.Now()
	pdfBytes, err := h.report.GeneratePDF(c.Context(), companyID, asOf)
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("stock-bajo-%s.pdf", asOf.Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
