package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/jhoicas/gmsf-mobile-api/internal/application/dto"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain/envelope"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/transport"
	"github.com/jhoicas/gmsf-mobile-api/pkg/logger"
)

// DashboardUseCase consultas read-only de agregados y estadísticas.
//
// Los endpoints tipados (stats, optimized) se decodifican a DTOs; los del
// dashboard móvil (quick-summary, main-metrics, widget) son de forma libre y
// se entregan como JSON crudo ya desenrollado, porque su estructura cambia
// con cada versión del backend.
type DashboardUseCase struct {
	api *transport.Client
	log *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(api *transport.Client, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{api: api, log: log}
}

// Stats KPIs principales del dashboard.
func (uc *DashboardUseCase) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	raw, err := uc.api.Get(ctx, "/dashboard/stats", nil)
	if err != nil {
		return nil, err
	}
	var out dto.DashboardStats
	decodeRecord(raw, &out)
	return &out, nil
}

// Optimized series para las gráficas de asistencia e ingresos.
func (uc *DashboardUseCase) Optimized(ctx context.Context) (*dto.OptimizedStats, error) {
	raw, err := uc.api.Get(ctx, "/dashboard/optimized", nil)
	if err != nil {
		return nil, err
	}
	var out dto.OptimizedStats
	decodeRecord(raw, &out)
	return &out, nil
}

// QuickSummary resumen rápido del dashboard móvil para el período dado.
func (uc *DashboardUseCase) QuickSummary(ctx context.Context, period string) (json.RawMessage, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("period", period)
	q.Set("compact", "true")
	raw, err := uc.api.Get(ctx, "/dashboard-mobile/quick-summary", q)
	if err != nil {
		return nil, err
	}
	return envelope.Record(raw), nil
}

// MainMetrics métricas principales del dashboard móvil.
func (uc *DashboardUseCase) MainMetrics(ctx context.Context, period string) (json.RawMessage, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("period", period)
	raw, err := uc.api.Get(ctx, "/dashboard-mobile/main-metrics", q)
	if err != nil {
		return nil, err
	}
	return envelope.Record(raw), nil
}

// Widget datos del widget del dashboard móvil.
func (uc *DashboardUseCase) Widget(ctx context.Context) (json.RawMessage, error) {
	raw, err := uc.api.Get(ctx, "/dashboard-mobile/widget", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Record(raw), nil
}

// ContractStats estadísticas de contratos.
func (uc *DashboardUseCase) ContractStats(ctx context.Context) (json.RawMessage, error) {
	raw, err := uc.api.Get(ctx, "/contracts/stats", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Record(raw), nil
}

// MembershipStats estadísticas de membresías.
func (uc *DashboardUseCase) MembershipStats(ctx context.Context) (json.RawMessage, error) {
	raw, err := uc.api.Get(ctx, "/memberships/stats", nil)
	if err != nil {
		return nil, err
	}
	return envelope.Record(raw), nil
}

// AttendanceStats estadísticas de asistencia del período dado.
func (uc *DashboardUseCase) AttendanceStats(ctx context.Context, period string) (json.RawMessage, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("period", period)
	raw, err := uc.api.Get(ctx, "/attendance/stats", q)
	if err != nil {
		return nil, err
	}
	return envelope.Record(raw), nil
}

// AttendanceTrends serie de tendencia de asistencia.
func (uc *DashboardUseCase) AttendanceTrends(ctx context.Context) (*dto.OptimizedStats, error) {
	raw, err := uc.api.Get(ctx, "/attendance/trends", nil)
	if err != nil {
		return nil, err
	}
	var out dto.OptimizedStats
	decodeRecord(raw, &out)
	return &out, nil
}

// validatePeriod rechaza períodos inválidos antes de gastar red.
func validatePeriod(period string) error {
	if !dto.ValidPeriod(period) {
		return fmt.Errorf("%w: period debe ser today, week o month (recibido %q)", domain.ErrValidation, period)
	}
	return nil
}

// decodeRecord desenrolla la envoltura y decodifica el registro al DTO dado.
// Un registro irreconocible deja el DTO en ceros: los agregados degradan a
// vacío, nunca a excepción.
func decodeRecord(body []byte, out any) {
	rec := envelope.Record(body)
	if rec == nil {
		return
	}
	_ = json.Unmarshal(rec, out)
}
