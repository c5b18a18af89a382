package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: registro y evento se persisten juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		eventRepo repository.InventoryEventRepository,
	) error) error
}

// AlertReportGenerator genera la representación imprimible del reporte de
// alertas de stock bajo. La implementación vive en infrastructure/pdf.
type AlertReportGenerator interface {
	GenerateLowStockReport(ctx context.Context, company *entity.Company, alerts []dto.AlertDTO, asOf time.Time) ([]byte, error)
}
