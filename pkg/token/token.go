// Package token inspecciona access tokens JWT sin validar la firma.
//
// El cliente móvil no conoce el secret del backend, así que nunca puede
// verificar la firma; solo le interesa el claim exp para evitar una llamada
// de red cuando el token ya caducó localmente.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt devuelve la fecha de expiración declarada en el token.
// No valida firma ni issuer; un token sin claim exp devuelve error.
func ExpiresAt(tokenString string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, fmt.Errorf("token: parsear sin verificar: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token: sin claim exp")
	}
	return claims.ExpiresAt.Time, nil
}

// Expired indica si el token ya caducó según su claim exp.
// Un token ilegible o sin exp se reporta como NO expirado: la decisión final
// la toma el backend en la verificación de perfil.
func Expired(tokenString string, now time.Time) bool {
	exp, err := ExpiresAt(tokenString)
	if err != nil {
		return false
	}
	return exp.Before(now)
}
