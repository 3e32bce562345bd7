package dto

import "github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"

// LoginRequest cuerpo de POST /auth/login, con los nombres de campo que
// espera el backend.
type LoginRequest struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

// LoginResult resultado total del login: nunca se propaga un error más allá
// de esta frontera, solo success/failure con mensaje legible.
type LoginResult struct {
	Success      bool         `json:"success"`
	Error        string       `json:"error,omitempty"`
	User         *entity.User `json:"user,omitempty"`
	AccessToken  string       `json:"accessToken,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}
