package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// AlertReportUseCase genera el reporte PDF de alertas de stock bajo:
// calcula las alertas del corte y delega el render al generador.
type AlertReportUseCase struct {
	alerts      *LowStockAlertUseCase
	companyRepo repository.CompanyRepository
	generator   AlertReportGenerator
}

// NewAlertReportUseCase construye el caso de uso.
func NewAlertReportUseCase(
	alerts *LowStockAlertUseCase,
	companyRepo repository.CompanyRepository,
	generator AlertReportGenerator,
) *AlertReportUseCase {
	return &AlertReportUseCase{alerts: alerts, companyRepo: companyRepo, generator: generator}
}

// GeneratePDF devuelve los bytes del reporte para la empresa al corte asOf.
func (uc *AlertReportUseCase) GeneratePDF(ctx context.Context, companyID string, asOf time.Time) ([]byte, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.IsActive() {
		return nil, domain.ErrNotFound
	}
	alerts, err := uc.alerts.LowStockAlerts(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateLowStockReport(ctx, company, alerts, asOf)
}
