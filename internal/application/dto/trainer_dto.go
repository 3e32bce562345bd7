package dto

// CreateTrainerRequest alta de entrenador.
type CreateTrainerRequest struct {
	Nombre          string   `json:"nombre"`
	Apellido        string   `json:"apellido"`
	Email           string   `json:"email"`
	Telefono        string   `json:"telefono"`
	Especialidad    string   `json:"especialidad"`
	Experiencia     int      `json:"experiencia"`
	Certificaciones []string `json:"certificaciones"`
}

// UpdateTrainerRequest edición parcial de entrenador; los punteros distinguen
// "no tocar" de "poner en cero".
type UpdateTrainerRequest struct {
	Nombre          *string   `json:"nombre,omitempty"`
	Apellido        *string   `json:"apellido,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Telefono        *string   `json:"telefono,omitempty"`
	Especialidad    *string   `json:"especialidad,omitempty"`
	Experiencia     *int      `json:"experiencia,omitempty"`
	Certificaciones *[]string `json:"certificaciones,omitempty"`
}
