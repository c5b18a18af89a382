package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product y composición de combos (protegido).
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	resolver *inventory.BundleResolver
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, resolver *inventory.BundleResolver) *ProductHandler {
	return &ProductHandler{uc: uc, resolver: resolver}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar (SKU e is_bundle son inmutables)"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), companyID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.Context(), companyID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar producto (borrado suave)
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Deactivate(c.Context(), companyID, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetComponents godoc
// @Summary      Definir composición de un combo
// @Description  Reemplaza la composición completa del combo. Rechaza
//               auto-referencias y ciclos transitivos con 409.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del combo"
// @Param        body  body  dto.SetBundleComponentsRequest  true  "Líneas de composición"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/components [put]
func (h *ProductHandler) SetComponents(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.SetBundleComponentsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetBundleComponents(c.Context(), companyID, id, in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "composición actualizada"})
}

// ListComponents godoc
// @Summary      Listar composición de un combo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del combo"
// @Success      200  {array}   dto.BundleComponentDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/components [get]
func (h *ProductHandler) ListComponents(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.ListBundleComponents(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetAvailability godoc
// @Summary      Disponibilidad de un producto en una bodega
// @Description  Para productos simples: quantity - reserved. Para combos:
//               derivada de los componentes (mínimo sobre el árbol expandido).
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/availability [get]
func (h *ProductHandler) GetAvailability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	warehouseID := c.Query("warehouse_id")
	if id == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id y warehouse_id son requeridos"})
	}
	available, isBundle, err := h.resolver.AvailableQuantity(c.Context(), companyID, id, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		ProductID:   id,
		WarehouseID: warehouseID,
		IsBundle:    isBundle,
		Available:   available,
	})
}
