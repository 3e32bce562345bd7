package dto

// PageRequest paginación y búsqueda para listados.
type PageRequest struct {
	Page   int
	Limit  int
	Search string
}

// Normalize aplica los defaults del backend si Page/Limit son cero.
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
}

// PaginatedResult página canónica de resultados. Toda lista del API surface
// llega en esta forma, nunca en la envoltura cruda del backend.
type PaginatedResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}
