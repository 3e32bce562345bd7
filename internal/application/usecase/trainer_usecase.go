// Package usecase expone el API surface de dominio: la única superficie que
// la capa de vistas tiene permitido llamar. Cada método pasa la respuesta
// cruda por el normalizador de envolturas y los mappers de entidades, de modo
// que ningún llamador ve jamás una forma cruda del backend.
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

// TrainerUseCase operaciones sobre entrenadores.
type TrainerUseCase struct {
	api *transport.Client
	log *logger.Logger
}

// NewTrainerUseCase construye el caso de uso.
func NewTrainerUseCase(api *transport.Client, log *logger.Logger) *TrainerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TrainerUseCase{api: api, log: log}
}

// List lista entrenadores paginados. El backend de trainers usa los alias en
// español pagina/limite/q. Una envoltura no reconocida degrada a página vacía
// con los valores pedidos; los errores de transporte sí se propagan.
func (uc *TrainerUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.PaginatedResult[entity.Trainer], error) {
	p.Normalize()

	q := url.Values{}
	q.Set("pagina", fmt.Sprint(p.Page))
	q.Set("limite", fmt.Sprint(p.Limit))
	if p.Search != "" {
		q.Set("q", p.Search)
	}

	raw, err := uc.api.Get(ctx, "/trainers", q)
	if err != nil {
		return nil, err
	}

	items, pag := envelope.List(raw, p.Page, p.Limit)
	trainers := make([]entity.Trainer, 0, len(items))
	for _, item := range items {
		trainers = append(trainers, mapper.ToTrainer(item))
	}

	uc.log.Debug().Int("total", pag.Total).Int("page", pag.Page).Msg("entrenadores listados")

	return &dto.PaginatedResult[entity.Trainer]{
		Data:       trainers,
		Total:      pag.Total,
		Page:       pag.Page,
		Limit:      pag.Limit,
		TotalPages: pag.TotalPages,
	}, nil
}

// Get obtiene un entrenador por id. Algunas versiones del backend anidan el
// registro bajo "trainer"; se prefiere ese sub-objeto cuando existe.
func (uc *TrainerUseCase) Get(ctx context.Context, id string) (*entity.Trainer, error) {
	raw, err := uc.api.Get(ctx, "/trainers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	tr := mapper.ToTrainer(recordOrSub(raw, "trainer"))
	return &tr, nil
}

// Create da de alta un entrenador y devuelve la entidad mapeada.
func (uc *TrainerUseCase) Create(ctx context.Context, in dto.CreateTrainerRequest) (*entity.Trainer, error) {
	raw, err := uc.api.Post(ctx, "/trainers", in)
	if err != nil {
		return nil, err
	}
	tr := mapper.ToTrainer(recordOrSub(raw, "trainer"))
	return &tr, nil
}

// Update edita un entrenador.
func (uc *TrainerUseCase) Update(ctx context.Context, id string, in dto.UpdateTrainerRequest) (*entity.Trainer, error) {
	raw, err := uc.api.Put(ctx, "/trainers/"+url.PathEscape(id), in)
	if err != nil {
		return nil, err
	}
	tr := mapper.ToTrainer(recordOrSub(raw, "trainer"))
	return &tr, nil
}

// Delete elimina un entrenador.
func (uc *TrainerUseCase) Delete(ctx context.Context, id string) error {
	_, err := uc.api.Delete(ctx, "/trainers/"+url.PathEscape(id))
	return err
}

// SetActive activa o desactiva un entrenador vía PATCH /trainers/:id/activate|deactivate.
func (uc *TrainerUseCase) SetActive(ctx context.Context, id string, active bool) error {
	action := "deactivate"
	if active {
		action = "activate"
	}
	_, err := uc.api.Patch(ctx, "/trainers/"+url.PathEscape(id)+"/"+action, nil)
	return err
}
