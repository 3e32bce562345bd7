// Package auth es la máquina de estados de sesión de la aplicación:
// Unauthenticated → Authenticating → Authenticated y de vuelta en logout,
// 401 o fallo del role gate. Solo administradores pueden mantener sesión.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/gmsf-mobile-api/internal/application/dto"
	"github.com/jhoicas/gmsf-mobile-api/internal/application/mapper"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain/envelope"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/keystore"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/transport"
	"github.com/jhoicas/gmsf-mobile-api/pkg/logger"
	"github.com/jhoicas/gmsf-mobile-api/pkg/token"
)

// State estado de la sesión.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Mensajes legibles para el usuario final.
const (
	msgAccessDenied  = "Acceso denegado. Esta aplicación es exclusiva para administradores del gimnasio."
	msgBadCredential = "Credenciales incorrectas. Verifica tu email y contraseña."
	msgForbidden     = "Acceso denegado. Esta aplicación es exclusiva para administradores."
	msgServerError   = "Error del servidor. Intenta nuevamente en unos momentos."
	msgNetworkError  = "Error de conexión. Verifica tu conexión a internet."
	msgLoginFailed   = "Error al iniciar sesión"
	msgInvalidEmail  = "Ingresa un correo electrónico válido."
	msgEmptyPassword = "La contraseña es obligatoria."
)

// emailRe validación mínima que gatea el envío del formulario.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// loginPayload forma canónica de la respuesta de POST /auth/login una vez
// desenrollada la envoltura.
type loginPayload struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         json.RawMessage `json:"user"`
}

// SessionManager dueño exclusivo del estado de sesión. El keystore es su
// espejo persistente; el transporte le notifica los 401 vía hook.
type SessionManager struct {
	mu    sync.Mutex
	state State
	user  *entity.User

	store *keystore.Store
	api   *transport.Client
	log   *logger.Logger
}

// NewSessionManager construye el manager y registra el hook de 401 en el
// transporte: cualquier respuesta no autorizada destruye la sesión antes de
// que el llamador vea el error.
func NewSessionManager(store *keystore.Store, api *transport.Client, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	m := &SessionManager{state: Unauthenticated, store: store, api: api, log: log}
	api.SetUnauthorizedHook(m.DestroySession)
	return m
}

// State estado actual de la máquina.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser usuario en memoria, nil si no hay sesión.
func (m *SessionManager) CurrentUser() *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *SessionManager) setState(s State, u *entity.User) {
	m.mu.Lock()
	m.state = s
	m.user = u
	m.mu.Unlock()
}

// Login autentica al administrador. Es una función total: toda falla
// (validación local, red, credenciales, role gate) regresa como
// LoginResult{Success:false} con mensaje legible, jamás como panic o error.
func (m *SessionManager) Login(ctx context.Context, correo, contrasena string) dto.LoginResult {
	correo = strings.TrimSpace(correo)

	// Validación local antes de gastar red.
	if !emailRe.MatchString(correo) {
		return dto.LoginResult{Success: false, Error: msgInvalidEmail}
	}
	if contrasena == "" {
		return dto.LoginResult{Success: false, Error: msgEmptyPassword}
	}

	m.setState(Authenticating, nil)
	m.log.Info().Str("correo", correo).Msg("intentando login de administrador")

	raw, err := m.api.PostPublic(ctx, "/auth/login", dto.LoginRequest{Correo: correo, Contrasena: contrasena})
	if err != nil {
		m.setState(Unauthenticated, nil)
		return dto.LoginResult{Success: false, Error: loginErrorMessage(err)}
	}

	payload := envelope.Record(raw)
	if payload == nil {
		m.setState(Unauthenticated, nil)
		if msg := envelope.Message(raw); msg != "" {
			return dto.LoginResult{Success: false, Error: msg}
		}
		return dto.LoginResult{Success: false, Error: msgLoginFailed}
	}

	var lp loginPayload
	if err := json.Unmarshal(payload, &lp); err != nil || lp.AccessToken == "" {
		m.setState(Unauthenticated, nil)
		return dto.LoginResult{Success: false, Error: msgLoginFailed}
	}

	user := mapper.ToUser(lp.User)

	// Role gate: aunque el HTTP fue exitoso, un rol no permitido es fallo y
	// no se persiste nada.
	if !entity.IsPermittedRole(user.RolID) {
		m.log.Warn().Int("id_rol", user.RolID).Str("usuario", user.Nombre).Msg("acceso denegado: no es administrador")
		m.setState(Unauthenticated, nil)
		return dto.LoginResult{Success: false, Error: msgAccessDenied}
	}

	if err := m.persistSession(ctx, lp, user); err != nil {
		m.log.Error().Err(err).Msg("persistir sesión")
		m.setState(Unauthenticated, nil)
		return dto.LoginResult{Success: false, Error: msgLoginFailed}
	}

	m.setState(Authenticated, &user)
	m.log.Info().Str("usuario", user.Nombre).Msg("administrador autenticado")

	return dto.LoginResult{
		Success:      true,
		User:         &user,
		AccessToken:  lp.AccessToken,
		RefreshToken: lp.RefreshToken,
	}
}

func (m *SessionManager) persistSession(ctx context.Context, lp loginPayload, user entity.User) error {
	if err := m.store.Set(ctx, keystore.KeyAuthToken, lp.AccessToken); err != nil {
		return err
	}
	if err := m.store.Set(ctx, keystore.KeyRefreshToken, lp.RefreshToken); err != nil {
		return err
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, keystore.KeyUserInfo, string(userJSON))
}

// Logout cierra sesión en el backend con el mejor esfuerzo y limpia el estado
// local incondicionalmente: el logout local debe funcionar aun sin red.
func (m *SessionManager) Logout(ctx context.Context) {
	if _, err := m.api.Post(ctx, "/auth/logout", nil); err != nil {
		m.log.Warn().Err(err).Msg("logout en el backend falló; se limpia la sesión local igualmente")
	}
	m.DestroySession(ctx)
}

// DestroySession limpia keystore y estado en memoria. Es el blanco del hook
// de 401 del transporte e idempotente. No cancela peticiones en vuelo: una
// respuesta autenticada rezagada puede llegar después y el llamador debe
// tolerarla.
func (m *SessionManager) DestroySession(ctx context.Context) {
	// La limpieza debe completarse aunque el contexto original ya esté vencido.
	ctx = context.WithoutCancel(ctx)
	if err := m.store.RemoveMany(ctx, keystore.KeyAuthToken, keystore.KeyRefreshToken, keystore.KeyUserInfo); err != nil {
		m.log.Warn().Err(err).Msg("limpiar credenciales persistidas")
	}
	m.setState(Unauthenticated, nil)
	m.log.Debug().Msg("sesión destruida")
}

// RestoreSession intenta restaurar la sesión al arrancar la app: con token y
// usuario guardados pasa optimistamente a Authenticated y verifica el perfil
// contra el backend. Token vencido, rol no permitido o rechazo del backend
// destruyen la sesión. Un fallo de red NO la destruye: las credenciales
// siguen intactas y la próxima llamada real decidirá.
func (m *SessionManager) RestoreSession(ctx context.Context) bool {
	tok, err := m.store.Get(ctx, keystore.KeyAuthToken)
	if err != nil || tok == "" {
		// Fallo de storage se trata como ausencia: se exige re-login.
		m.setState(Unauthenticated, nil)
		return false
	}
	userJSON, err := m.store.Get(ctx, keystore.KeyUserInfo)
	if err != nil || userJSON == "" {
		m.setState(Unauthenticated, nil)
		return false
	}

	var stored entity.User
	if err := json.Unmarshal([]byte(userJSON), &stored); err != nil || !entity.IsPermittedRole(stored.RolID) {
		m.DestroySession(ctx)
		return false
	}

	// Atajo local: si el claim exp ya pasó no hay nada que verificar en red.
	if token.Expired(tok, time.Now()) {
		m.log.Debug().Msg("token vencido localmente; se destruye la sesión sin llamada de red")
		m.DestroySession(ctx)
		return false
	}

	m.setState(Authenticated, &stored)

	user, err := m.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			m.log.Warn().Err(err).Msg("sin red al verificar perfil; la sesión restaurada queda optimista")
			return true
		}
		m.DestroySession(ctx)
		return false
	}

	m.setState(Authenticated, user)
	return true
}

// CheckTokenStatus guardia ligera previa a los flujos de datos: falla si no
// hay token local y, si lo hay, verifica el perfil en vivo. Un rechazo del
// backend (no de red) destruye la sesión.
func (m *SessionManager) CheckTokenStatus(ctx context.Context) error {
	tok, err := m.store.Get(ctx, keystore.KeyAuthToken)
	if err != nil || tok == "" {
		return &domain.APIError{Kind: domain.ErrUnauthorized, Message: "No hay una sesión activa."}
	}
	if _, err := m.GetProfile(ctx); err != nil {
		if !errors.Is(err, domain.ErrNetwork) {
			m.DestroySession(ctx)
		}
		return err
	}
	return nil
}

// GetProfile obtiene el perfil completo desde el backend y aplica el role
// gate: un usuario que dejó de ser administrador es ErrForbidden.
func (m *SessionManager) GetProfile(ctx context.Context) (*entity.User, error) {
	raw, err := m.api.Get(ctx, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	u := mapper.ToUser(envelope.Record(raw))
	if !entity.IsPermittedRole(u.RolID) {
		return nil, &domain.APIError{Kind: domain.ErrForbidden, Message: msgAccessDenied}
	}
	return &u, nil
}

// GetStoredToken token persistido; un fallo de storage equivale a ausencia.
func (m *SessionManager) GetStoredToken(ctx context.Context) string {
	tok, err := m.store.Get(ctx, keystore.KeyAuthToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("leer token persistido")
		return ""
	}
	return tok
}

// GetStoredUser último usuario persistido, nil si no hay o no parsea.
func (m *SessionManager) GetStoredUser(ctx context.Context) *entity.User {
	userJSON, err := m.store.Get(ctx, keystore.KeyUserInfo)
	if err != nil || userJSON == "" {
		return nil
	}
	var u entity.User
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil
	}
	return &u
}

// loginErrorMessage traduce el error de transporte del login al mensaje que
// ve el usuario en el formulario.
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNetwork):
		return msgNetworkError
	case errors.Is(err, domain.ErrUnauthorized):
		return msgBadCredential
	case errors.Is(err, domain.ErrForbidden):
		return msgForbidden
	case errors.Is(err, domain.ErrServer):
		return msgServerError
	}
	return msgLoginFailed
}
