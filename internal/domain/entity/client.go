package entity

import "github.com/shopspring/decimal"

// TipoDocumentoCC documento por defecto (cédula de ciudadanía).
const TipoDocumentoCC = "CC"

// Estados válidos de una membresía.
const (
	MembresiaActiva     = "activa"
	MembresiaVencida    = "vencida"
	MembresiaSuspendida = "suspendida"
)

// Client cliente del gimnasio. Beneficiarios es auto-referencial: cada
// beneficiario se mapea recursivamente con el mismo mapper que el titular.
type Client struct {
	ID              string      `json:"id"`
	Nombre          string      `json:"nombre"`
	Apellido        string      `json:"apellido"`
	Email           string      `json:"email"`
	Telefono        string      `json:"telefono"`
	TipoDocumento   string      `json:"tipoDocumento"`   // default "CC"
	NumeroDocumento string      `json:"numeroDocumento"`
	FechaNacimiento string      `json:"fechaNacimiento"` // ISO 8601
	FechaRegistro   string      `json:"fechaRegistro"`   // ISO 8601
	Activo          bool        `json:"activo"`
	Membresia       *Membership `json:"membresia,omitempty"`
	Beneficiarios   []Client    `json:"beneficiarios,omitempty"`
}

// Membership membresía vigente o histórica de un cliente.
type Membership struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	FechaInicio string          `json:"fechaInicio"`
	FechaFin    string          `json:"fechaFin"`
	Estado      string          `json:"estado"` // activa | vencida | suspendida
	Precio      decimal.Decimal `json:"precio"`
}
