package usecase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jhoicas/gmsf-mobile-api/internal/application/dto"
	"github.com/jhoicas/gmsf-mobile-api/internal/application/mapper"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"
	"github.com/jhoicas/gmsf-mobile-api/internal/domain/envelope"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/transport"
	"github.com/jhoicas/gmsf-mobile-api/pkg/logger"
)

// ClientUseCase operaciones sobre clientes del gimnasio.
type ClientUseCase struct {
	api *transport.Client
	log *logger.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(api *transport.Client, log *logger.Logger) *ClientUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ClientUseCase{api: api, log: log}
}

// List lista clientes paginados. A diferencia de trainers, este endpoint usa
// los parámetros en inglés page/limit/search.
func (uc *ClientUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.PaginatedResult[entity.Client], error) {
	p.Normalize()

	q := url.Values{}
	q.Set("page", fmt.Sprint(p.Page))
	q.Set("limit", fmt.Sprint(p.Limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	raw, err := uc.api.Get(ctx, "/clients", q)
	if err != nil {
		return nil, err
	}

	items, pag := envelope.List(raw, p.Page, p.Limit)
	clients := make([]entity.Client, 0, len(items))
	for _, item := range items {
		clients = append(clients, mapper.ToClient(item))
	}

	uc.log.Debug().Int("total", pag.Total).Int("page", pag.Page).Msg("clientes listados")

	return &dto.PaginatedResult[entity.Client]{
		Data:       clients,
		Total:      pag.Total,
		Page:       pag.Page,
		Limit:      pag.Limit,
		TotalPages: pag.TotalPages,
	}, nil
}

// Get obtiene un cliente por id.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*entity.Client, error) {
	raw, err := uc.api.Get(ctx, "/clients/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	c := mapper.ToClient(recordOrSub(raw, "client"))
	return &c, nil
}

// Me perfil de cliente del usuario autenticado (GET /clients/me).
func (uc *ClientUseCase) Me(ctx context.Context) (*entity.Client, error) {
	raw, err := uc.api.Get(ctx, "/clients/me", nil)
	if err != nil {
		return nil, err
	}
	c := mapper.ToClient(recordOrSub(raw, "client"))
	return &c, nil
}

// MyBeneficiaries beneficiarios del usuario autenticado.
func (uc *ClientUseCase) MyBeneficiaries(ctx context.Context) ([]entity.Client, error) {
	raw, err := uc.api.Get(ctx, "/clients/me/beneficiaries", nil)
	if err != nil {
		return nil, err
	}
	items, _ := envelope.List(raw, 1, 0)
	out := make([]entity.Client, 0, len(items))
	for _, item := range items {
		out = append(out, mapper.ToClient(item))
	}
	return out, nil
}

// Create da de alta un cliente.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*entity.Client, error) {
	raw, err := uc.api.Post(ctx, "/clients", in)
	if err != nil {
		return nil, err
	}
	c := mapper.ToClient(recordOrSub(raw, "client"))
	return &c, nil
}

// Update edita un cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*entity.Client, error) {
	raw, err := uc.api.Put(ctx, "/clients/"+url.PathEscape(id), in)
	if err != nil {
		return nil, err
	}
	c := mapper.ToClient(recordOrSub(raw, "client"))
	return &c, nil
}

// Delete elimina un cliente.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	_, err := uc.api.Delete(ctx, "/clients/"+url.PathEscape(id))
	return err
}

// SetActive activa o desactiva un cliente.
func (uc *ClientUseCase) SetActive(ctx context.Context, id string, active bool) error {
	action := "deactivate"
	if active {
		action = "activate"
	}
	_, err := uc.api.Patch(ctx, "/clients/"+url.PathEscape(id)+"/"+action, nil)
	return err
}

// CheckUser consulta si existe una persona por tipo y número de documento.
// La respuesta es el sub-objeto usuario pelado; se mapea marcándolo activo.
func (uc *ClientUseCase) CheckUser(ctx context.Context, tipoDocumento, numeroDocumento string) (*dto.CheckUserResult, error) {
	path := "/clients/check-user/" + url.PathEscape(tipoDocumento) + "/" + url.PathEscape(numeroDocumento)
	raw, err := uc.api.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	rec := envelope.Record(raw)
	if len(rec) == 0 || string(rec) == "null" {
		return &dto.CheckUserResult{Exists: false}, nil
	}
	c := mapper.ToClientUsuario(rec)
	return &dto.CheckUserResult{Exists: true, Client: &c}, nil
}
