// Package transport es el cliente HTTP único hacia el backend GMSF.
//
// Centraliza lo que el resto del módulo no debe repetir: base URL y timeout
// fijos, adjuntar el bearer token leído del keystore en cada petición salvo
// el login, y la invalidación de sesión al recibir un 401 antes de devolver
// el error al llamador.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gmsf-mobile-api/internal/domain"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain/envelope"
	"github.com/jhoicas/gmsf-mobile-api/pkg/logger"
)

// maxBodySize límite de lectura de cuerpos de respuesta.
const maxBodySize = 1 << 20 // 1 MiB

// TokenSource lee el access token persistido. Se consulta antes de cada
// petición autenticada; un error de storage se trata como token ausente.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config parámetros fijos del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente HTTP configurado una sola vez. No es un singleton global:
// se inyecta explícitamente a quien lo necesita.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	log            *logger.Logger
	onUnauthorized func(context.Context)
}

// New construye el cliente. tokens puede ser nil en tests que no autentican.
func New(cfg Config, tokens TokenSource, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
		log:     log,
	}
}

// SetUnauthorizedHook registra el destructor de sesión que se dispara ante
// cualquier 401, exactamente una vez por respuesta, antes de devolver el
// error al llamador.
func (c *Client) SetUnauthorizedHook(fn func(context.Context)) {
	c.onUnauthorized = fn
}

// Get petición GET autenticada.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, true)
}

// Post petición POST autenticada con cuerpo JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, true)
}

// PostPublic petición POST sin bearer token. Solo el login la usa.
func (c *Client) PostPublic(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, false)
}

// Put petición PUT autenticada con cuerpo JSON.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, true)
}

// Patch petición PATCH autenticada.
func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, true)
}

// Delete petición DELETE autenticada.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, withAuth bool) (json.RawMessage, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("transport: serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("transport: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	// Interceptor de salida: bearer token desde el keystore, salvo login.
	// Un error de storage se trata como token ausente: el backend responderá
	// 401 si la autorización era obligatoria.
	if withAuth && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.log.Warn().Err(err).Str("request_id", requestID).Msg("leer token del keystore")
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("request_id", requestID).
			Str("method", method).
			Str("path", path).
			Msg("sin respuesta del backend")
		if ctx.Err() != nil {
			return nil, domain.NewNetworkError(ctx.Err())
		}
		return nil, domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("respuesta del backend")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	apiErr := domain.FromStatus(resp.StatusCode, envelope.Message(raw))

	// Interceptor de entrada: un 401 destruye la sesión antes de entregar el
	// error; el llamador igualmente observa la llamada rechazada.
	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}

	return nil, apiErr
}
