package entity

// EspecialidadGeneral valor por defecto cuando el backend no informa especialidad.
const EspecialidadGeneral = "General"

// Trainer entrenador del gimnasio.
// Los opcionales ausentes en el backend llegan ya con sus defaults, de modo
// que las pantallas nunca necesitan null-guards al formatear.
type Trainer struct {
	ID              string   `json:"id"`
	Nombre          string   `json:"nombre"`
	Apellido        string   `json:"apellido"`
	Email           string   `json:"email"`
	Telefono        string   `json:"telefono"`
	Especialidad    string   `json:"especialidad"` // default "General"
	FechaIngreso    string   `json:"fechaIngreso"` // ISO 8601
	Activo          bool     `json:"activo"`
	Experiencia     int      `json:"experiencia"`     // años, default 0
	Certificaciones []string `json:"certificaciones"` // default []
	Foto            string   `json:"foto,omitempty"`
}
