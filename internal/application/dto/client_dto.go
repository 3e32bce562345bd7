package dto

import "github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Email           string `json:"email"`
	Telefono        string `json:"telefono"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	FechaNacimiento string `json:"fechaNacimiento"` // ISO 8601
}

// UpdateClientRequest edición parcial de cliente.
type UpdateClientRequest struct {
	Nombre          *string `json:"nombre,omitempty"`
	Apellido        *string `json:"apellido,omitempty"`
	Email           *string `json:"email,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
	TipoDocumento   *string `json:"tipoDocumento,omitempty"`
	NumeroDocumento *string `json:"numeroDocumento,omitempty"`
	FechaNacimiento *string `json:"fechaNacimiento,omitempty"`
}

// CheckUserResult respuesta de GET /clients/check-user/:tipo/:numero.
type CheckUserResult struct {
	Exists bool           `json:"exists"`
	Client *entity.Client `json:"client,omitempty"`
}
