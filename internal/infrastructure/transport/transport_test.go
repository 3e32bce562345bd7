package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gmsf-mobile-api/internal/domain"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/transport"
	"github.com/jhoicas/gmsf-mobile-api/pkg/logger"
)

// fakeTokens fuente de tokens en memoria para los tests.
type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) Token(context.Context) (string, error) { return f.token, f.err }

func newClient(t *testing.T, ts *httptest.Server, tokens transport.TokenSource) *transport.Client {
	t.Helper()
	return transport.New(transport.Config{BaseURL: ts.URL, Timeout: 2 * time.Second}, tokens, logger.Nop())
}

// Caso 1: toda petición autenticada lleva Authorization: Bearer <token>.
func TestGet_AdjuntaBearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"success","data":[]}`))
	}))
	defer ts.Close()

	c := newClient(t, ts, &fakeTokens{token: "tok-abc"})
	_, err := c.Get(context.Background(), "/trainers", nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

// Caso 2: el login va sin token aunque haya uno guardado.
func TestPostPublic_NoAdjuntaToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := newClient(t, ts, &fakeTokens{token: "tok-abc"})
	_, err := c.PostPublic(context.Background(), "/auth/login", map[string]string{"correo": "a@x.co"})

	require.NoError(t, err)
	assert.Empty(t, gotAuth, "el login nunca debe llevar bearer")
}

// Caso 3: sin token guardado la petición sale sin header y el backend decide.
func TestGet_SinToken_SaleSinHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := newClient(t, ts, &fakeTokens{token: ""})
	_, err := c.Get(context.Background(), "/clients", nil)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

// Caso 4: un error de storage al leer el token se trata como token ausente,
// no como fallo de la petición.
func TestGet_ErrorDeStorage_ProcedeSinAuth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := newClient(t, ts, &fakeTokens{err: errors.New("disco roto")})
	_, err := c.Get(context.Background(), "/clients", nil)

	assert.NoError(t, err)
}

// Caso 5: un 401 dispara el hook de sesión exactamente una vez y el llamador
// sigue viendo el error.
func TestDo_401_DisparaHookYDevuelveError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"token vencido"}`))
	}))
	defer ts.Close()

	var hookCalls int32
	c := newClient(t, ts, &fakeTokens{token: "viejo"})
	c.SetUnauthorizedHook(func(context.Context) { atomic.AddInt32(&hookCalls, 1) })

	_, err := c.Get(context.Background(), "/trainers", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hookCalls), "el hook corre una sola vez por 401")

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token vencido", apiErr.Message, "el mensaje del backend se conserva")
}

// Caso 6: 403/404/500 se mapean a su kind sin tocar la sesión.
func TestDo_ErroresHTTP_MapeanKindSinHook(t *testing.T) {
	cases := []struct {
		status int
		kind   error
	}{
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusInternalServerError, domain.ErrServer},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{}`))
		}))

		var hookCalled bool
		c := newClient(t, ts, &fakeTokens{token: "tok"})
		c.SetUnauthorizedHook(func(context.Context) { hookCalled = true })

		_, err := c.Get(context.Background(), "/x", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, tc.kind), "status %d", tc.status)
		assert.False(t, hookCalled, "solo el 401 invalida la sesión")
		ts.Close()
	}
}

// Caso 7: timeout o caída de red → ErrNetwork, sin mutación de sesión.
func TestDo_Timeout_ErrNetwork(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	var hookCalled bool
	c := transport.New(transport.Config{BaseURL: ts.URL, Timeout: 50 * time.Millisecond}, nil, logger.Nop())
	c.SetUnauthorizedHook(func(context.Context) { hookCalled = true })

	_, err := c.Get(context.Background(), "/lento", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
	assert.False(t, hookCalled)
}

// Caso 8: los query params llegan intactos al backend.
func TestGet_QueryParams(t *testing.T) {
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	q := url.Values{}
	q.Set("pagina", "2")
	q.Set("limite", "5")
	q.Set("q", "maría")

	c := newClient(t, ts, nil)
	_, err := c.Get(context.Background(), "/trainers", q)

	require.NoError(t, err)
	assert.Equal(t, "2", gotQuery.Get("pagina"))
	assert.Equal(t, "5", gotQuery.Get("limite"))
	assert.Equal(t, "maría", gotQuery.Get("q"))
}
