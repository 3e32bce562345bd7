package entity

// RolAdministrador es el único rol autorizado a mantener sesión en esta
// aplicación; cualquier otro valor de id_rol destruye la sesión.
const RolAdministrador = 1

// IsPermittedRole predicado único del role gate. Se invoca en login,
// verificación de perfil y restauración de sesión; un cambio de política
// toca solo este punto.
func IsPermittedRole(rolID int) bool {
	return rolID == RolAdministrador
}

// RolNombreAdministrador nombre legible del rol permitido.
const RolNombreAdministrador = "Administrador"

// User usuario canónico de la aplicación, reconstruido en cada fetch.
// ID siempre es string aunque el backend envíe un número.
type User struct {
	ID              string `json:"id"`
	Codigo          string `json:"codigo,omitempty"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido,omitempty"`
	Correo          string `json:"correo"`
	Telefono        string `json:"telefono,omitempty"`
	Direccion       string `json:"direccion,omitempty"`
	Genero          string `json:"genero,omitempty"`
	TipoDocumento   string `json:"tipo_documento,omitempty"`
	NumeroDocumento string `json:"numero_documento,omitempty"`
	FechaNacimiento string `json:"fecha_nacimiento,omitempty"` // ISO 8601
	RolID           int    `json:"id_rol"`
	RolNombre       string `json:"rol_nombre"`
	Activo          bool   `json:"estado"`
}
