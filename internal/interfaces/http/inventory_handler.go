package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	apply   *inventory.ApplyChangeUseCase
	history *inventory.HistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(apply *inventory.ApplyChangeUseCase, history *inventory.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{apply: apply, history: history}
}

// RecordChange godoc
// @Summary      Registrar cambio de inventario
// @Description  Aplica un cambio de cantidad (RESTOCK, SALE, ADJUSTMENT,
//               RESERVATION, RELEASE) de forma atómica: registro de stock y
//               evento de auditoría se persisten juntos. Si el producto es
//               combo, el cambio cae en cascada sobre sus componentes en la
//               misma transacción. Responde 201 si el registro se creó con
//               este primer movimiento, 200 si ya existía.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordChangeRequest  true  "product_id, warehouse_id, type, delta (con signo), reference, supplier_id (RESTOCK)"
// @Success      200   {object}  dto.RecordChangeResponse
// @Success      201   {object}  dto.RecordChangeResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/changes [post]
func (h *InventoryHandler) RecordChange(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.apply.Apply(c.Context(), inventory.ChangeInput{
		CompanyID:   companyID,
		UserID:      userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
		Delta:       in.Delta,
		Reference:   in.Reference,
		SupplierID:  in.SupplierID,
	})
	if err != nil {
		return writeError(c, err)
	}

	out := dto.RecordChangeResponse{
		TransactionID: result.TransactionID,
		RecordID:      result.RecordID,
		NewQuantity:   result.NewQuantity,
	}
	for _, comp := range result.Components {
		out.Components = append(out.Components, dto.ComponentChangeDTO{
			ProductID:   comp.ProductID,
			RecordID:    comp.RecordID,
			NewQuantity: comp.NewQuantity,
		})
	}
	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// ListEventsByProduct godoc
// @Summary      Historial de eventos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Fecha inicial (RFC3339)"
// @Param        to      query  string  false  "Fecha final (RFC3339)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}   dto.InventoryEventDTO
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/events [get]
func (h *InventoryHandler) ListEventsByProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas en formato RFC3339"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.history.EventsByProduct(c.Context(), companyID, id, from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListEventsByWarehouse godoc
// @Summary      Historial de eventos de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        from    query  string  false  "Fecha inicial (RFC3339)"
// @Param        to      query  string  false  "Fecha final (RFC3339)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}   dto.InventoryEventDTO
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/warehouses/{id}/events [get]
func (h *InventoryHandler) ListEventsByWarehouse(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas en formato RFC3339"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.history.EventsByWarehouse(c.Context(), companyID, id, from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRecordsByWarehouse godoc
// @Summary      Niveles de stock de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}   dto.InventoryRecordDTO
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/warehouses/{id}/records [get]
func (h *InventoryHandler) ListRecordsByWarehouse(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.history.RecordsByWarehouse(c.Context(), companyID, id, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseDateRange lee from/to opcionales en RFC3339 de la query string.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}
