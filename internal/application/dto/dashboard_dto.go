package dto

import "github.com/shopspring/decimal"

// Períodos aceptados por los endpoints de dashboard móvil.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// ValidPeriod valida el período antes de gastar una llamada de red.
func ValidPeriod(p string) bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// DashboardStats KPIs principales de GET /dashboard/stats.
type DashboardStats struct {
	Ausentismos int             `json:"ausentismos"`
	Contratos   int             `json:"contratos"`
	Ingresos    decimal.Decimal `json:"ingresos"`
	Membresias  int             `json:"membresias"`
	Clientes    int             `json:"clientes"`
}

// OptimizedStats series de GET /dashboard/optimized para las gráficas.
type OptimizedStats struct {
	AsistenciasPorDia []AssistanceByDay `json:"asistenciasPorDia"`
	TendenciaIngresos []IncomeData      `json:"tendenciaIngresos"`
}

// AssistanceByDay asistencia agregada de un día.
type AssistanceByDay struct {
	Fecha    string          `json:"fecha"`
	Total    int             `json:"total"`
	Manana   int             `json:"mañana"`
	Promedio decimal.Decimal `json:"promedio"`
}

// IncomeData punto de la serie de ingresos.
type IncomeData struct {
	Fecha    string          `json:"fecha"`
	Total    decimal.Decimal `json:"total"`
	Promedio decimal.Decimal `json:"promedio"`
	Maximo   decimal.Decimal `json:"maximo"`
	Meta     decimal.Decimal `json:"meta"`
}
