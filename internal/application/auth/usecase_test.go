package auth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gmsf-mobile-api/internal/application/auth"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/keystore"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/transport"
	"github.com/jhoicas/gmsf-mobile-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newManager arma keystore + transporte + session manager contra el server dado.
func newManager(t *testing.T, ts *httptest.Server) (*auth.SessionManager, *keystore.Store) {
	t.Helper()
	store, err := keystore.New(t.TempDir())
	require.NoError(t, err)

	api := transport.New(transport.Config{BaseURL: ts.URL, Timeout: 2 * time.Second}, store, logger.Nop())
	return auth.NewSessionManager(store, api, logger.Nop()), store
}

// loginBody respuesta canónica de POST /auth/login para el rol dado.
func loginBody(rol int) string {
	return fmt.Sprintf(`{
		"status": "success",
		"data": {
			"accessToken": "tok-admin-123",
			"refreshToken": "ref-456",
			"user": {"id": 1, "nombre": "Admin", "correo": "admin@gmsf.co", "id_rol": %d}
		}
	}`, rol)
}

// signedToken JWT HS256 con la expiración dada; el cliente solo lee exp sin
// validar firma.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwtlib.RegisteredClaims{ExpiresAt: jwtlib.NewNumericDate(exp)}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("secret-del-backend"))
	require.NoError(t, err)
	return tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: credenciales válidas de administrador persisten token+usuario y el
// token guardado es exactamente el emitido.
func TestLogin_AdministradorValido(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "el login no lleva bearer")
		_, _ = w.Write([]byte(loginBody(1)))
	}))
	defer ts.Close()

	m, _ := newManager(t, ts)
	ctx := context.Background()

	res := m.Login(ctx, "admin@gmsf.co", "secreta")

	require.True(t, res.Success, "login debe ser exitoso: %s", res.Error)
	require.NotNil(t, res.User)
	assert.Equal(t, "1", res.User.ID)
	assert.Equal(t, entity.RolNombreAdministrador, res.User.RolNombre)
	assert.Equal(t, auth.Authenticated, m.State())
	assert.Equal(t, "tok-admin-123", m.GetStoredToken(ctx), "el token persistido es el emitido")

	stored := m.GetStoredUser(ctx)
	require.NotNil(t, stored)
	assert.Equal(t, "admin@gmsf.co", stored.Correo)
}

// Caso 2: login sintácticamente exitoso pero con rol no administrador es un
// fallo y no persiste nada (role gate).
func TestLogin_RolNoPermitido_NoPersiste(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loginBody(2))) // entrenador
	}))
	defer ts.Close()

	m, _ := newManager(t, ts)
	ctx := context.Background()

	res := m.Login(ctx, "trainer@x.com", "pw")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Acceso denegado")
	assert.Equal(t, auth.Unauthenticated, m.State())
	assert.Empty(t, m.GetStoredToken(ctx), "el role gate no debe dejar token persistido")
	assert.Nil(t, m.GetStoredUser(ctx))
}

// Caso 3: 401 del backend → mensaje de credenciales, sin sesión.
func TestLogin_CredencialesIncorrectas(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"bad credentials"}`))
	}))
	defer ts.Close()

	m, _ := newManager(t, ts)

	res := m.Login(context.Background(), "admin@gmsf.co", "mala")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Credenciales incorrectas")
	assert.Equal(t, auth.Unauthenticated, m.State())
}

// Caso 4: validación local rechaza antes de cualquier llamada de red.
func TestLogin_ValidacionLocal_SinRed(t *testing.T) {
	var llamadas int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas++
	}))
	defer ts.Close()

	m, _ := newManager(t, ts)
	ctx := context.Background()

	res := m.Login(ctx, "no-es-un-correo", "pw")
	assert.False(t, res.Success)

	res = m.Login(ctx, "admin@gmsf.co", "")
	assert.False(t, res.Success)

	assert.Zero(t, llamadas, "la validación local no debe gastar red")
}

// Caso 5: caída de red → mensaje de conexión, login total (no panic).
func TestLogin_SinRed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // el server ya no existe

	m, _ := newManager(t, ts)

	res := m.Login(context.Background(), "admin@gmsf.co", "pw")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "conexión")
}

// ──────────────────────────────────────────────────────────────────────────────
// Invalidación por 401
// ──────────────────────────────────────────────────────────────────────────────

// Caso 6: un 401 en cualquier llamada autenticada limpia el keystore antes de
// entregar el error; el siguiente GetStoredToken devuelve vacío.
func TestInterceptor401_LimpiaSesion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loginBody(1)))
	})
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"token expirado"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	m, _ := newManager(t, ts)
	ctx := context.Background()

	require.True(t, m.Login(ctx, "admin@gmsf.co", "pw").Success)
	require.NotEmpty(t, m.GetStoredToken(ctx))

	_, err := m.GetProfile(ctx)

	require.Error(t, err, "el llamador sigue viendo el 401")
	assert.Empty(t, m.GetStoredToken(ctx), "el 401 debe dejar el keystore vacío")
	assert.Equal(t, auth.Unauthenticated, m.State())
}

// ──────────────────────────────────────────────────────────────────────────────
// Logout
// ──────────────────────────────────────────────────────────────────────────────

// Caso 7: logout limpia localmente aunque el POST /auth/logout falle por red.
func TestLogout_LimpiaAunqueElBackendFalle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loginBody(1)))
	})
	ts := httptest.NewServer(mux)

	m, store := newManager(t, ts)
	ctx := context.Background()
	require.True(t, m.Login(ctx, "admin@gmsf.co", "pw").Success)

	ts.Close() // simular pérdida de red antes del logout

	m.Logout(ctx)

	assert.Equal(t, auth.Unauthenticated, m.State())
	tok, err := store.Get(ctx, keystore.KeyAuthToken)
	require.NoError(t, err)
	assert.Empty(t, tok, "el logout local no depende de la red")
}

// ──────────────────────────────────────────────────────────────────────────────
// RestoreSession / CheckTokenStatus
// ──────────────────────────────────────────────────────────────────────────────

// Caso 8: sin credenciales guardadas no hay nada que restaurar.
func TestRestoreSession_SinCredenciales(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	m, _ := newManager(t, ts)

	assert.False(t, m.RestoreSession(context.Background()))
	assert.Equal(t, auth.Unauthenticated, m.State())
}

// Caso 9: token con exp ya vencido se destruye localmente sin llamada de red.
func TestRestoreSession_TokenVencido_SinRed(t *testing.T) {
	var llamadas int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas++
	}))
	defer ts.Close()

	m, store := newManager(t, ts)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, keystore.KeyAuthToken, signedToken(t, time.Now().Add(-time.Hour))))
	require.NoError(t, store.Set(ctx, keystore.KeyUserInfo, `{"id":"1","id_rol":1}`))

	assert.False(t, m.RestoreSession(ctx))
	assert.Zero(t, llamadas, "token vencido localmente no gasta red")
	assert.Empty(t, m.GetStoredToken(ctx))
}

// Caso 10: restauración feliz — perfil verificado y rol vigente.
func TestRestoreSession_Exitosa(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":"success","data":{"usuario":{"id":1,"nombre":"Admin","correo":"a@gmsf.co","id_rol":1}}}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	m, store := newManager(t, ts)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, keystore.KeyAuthToken, signedToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, store.Set(ctx, keystore.KeyUserInfo, `{"id":"1","id_rol":1}`))

	assert.True(t, m.RestoreSession(ctx))
	assert.Equal(t, auth.Authenticated, m.State())
	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, "Admin", m.CurrentUser().Nombre)
}

// Caso 11: el usuario dejó de ser administrador → la restauración destruye.
func TestRestoreSession_RolRevocado(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"usuario":{"id":1,"id_rol":3}}}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	m, store := newManager(t, ts)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, keystore.KeyAuthToken, signedToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, store.Set(ctx, keystore.KeyUserInfo, `{"id":"1","id_rol":1}`))

	assert.False(t, m.RestoreSession(ctx))
	assert.Empty(t, m.GetStoredToken(ctx))
	assert.Equal(t, auth.Unauthenticated, m.State())
}

// Caso 12: CheckTokenStatus sin token local falla sin tocar la red.
func TestCheckTokenStatus_SinToken(t *testing.T) {
	var llamadas int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas++
	}))
	defer ts.Close()

	m, _ := newManager(t, ts)

	err := m.CheckTokenStatus(context.Background())

	require.Error(t, err)
	assert.Zero(t, llamadas)
}

// Caso 13: un fallo de red durante la restauración no destruye la sesión: el
// estado queda optimista en Authenticated y las credenciales siguen intactas
// para que la próxima llamada real decida.
func TestRestoreSession_SinRed_ConservaSesionOptimista(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // el backend no está alcanzable

	m, store := newManager(t, ts)
	ctx := context.Background()
	tok := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Set(ctx, keystore.KeyAuthToken, tok))
	require.NoError(t, store.Set(ctx, keystore.KeyUserInfo, `{"id":"1","nombre":"Admin","id_rol":1}`))

	assert.True(t, m.RestoreSession(ctx), "sin red la sesión restaurada se conserva")
	assert.Equal(t, auth.Authenticated, m.State())
	assert.Equal(t, tok, m.GetStoredToken(ctx), "las credenciales no se tocan")
	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, "Admin", m.CurrentUser().Nombre)
}

// Caso 14: CheckTokenStatus con fallo de red reporta ErrNetwork pero no
// limpia las credenciales; solo un rechazo del backend destruye.
func TestCheckTokenStatus_SinRed_NoDestruye(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	m, store := newManager(t, ts)
	ctx := context.Background()
	tok := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Set(ctx, keystore.KeyAuthToken, tok))
	require.NoError(t, store.Set(ctx, keystore.KeyUserInfo, `{"id":"1","id_rol":1}`))

	err := m.CheckTokenStatus(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
	assert.Equal(t, tok, m.GetStoredToken(ctx), "un fallo de red no borra el token")
}
