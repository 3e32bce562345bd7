package mapper

import (
	"encoding/json"

	"github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"
)

// ToTrainer mapea un registro crudo de entrenador a entity.Trainer.
//
// El identificador puede llegar como id, id_entrenador o como el id del
// usuario anidado, en ese orden de precedencia. Los datos personales viven
// en el sub-objeto usuario cuando el backend lo envía, o en el primer nivel
// cuando no.
func ToTrainer(raw json.RawMessage) entity.Trainer {
	return trainerFromRecord(DecodeRecord(raw))
}

func trainerFromRecord(r Record) entity.Trainer {
	base := personal(r)

	return entity.Trainer{
		ID: str(r, "",
			key("id"),
			key("id_entrenador"),
			nested("usuario", "id"),
			nested("persona", "id"),
		),
		Nombre:   str(base, "", key("nombre")),
		Apellido: str(base, "", key("apellido")),
		Email:    str(base, "", key("correo"), key("email")),
		Telefono: str(base, "", key("telefono")),
		Especialidad: str(r, entity.EspecialidadGeneral,
			key("especialidad"),
			nested("usuario", "especialidad"),
		),
		FechaIngreso: str(base, nowISO(),
			key("fecha_registro"),
			key("fechaIngreso"),
		),
		Activo: boolean(r, true,
			key("estado"),
			key("activo"),
			nested("usuario", "estado"),
			nested("persona", "estado"),
		),
		Experiencia:     integer(r, 0, key("experiencia")),
		Certificaciones: stringList(r, key("certificaciones")),
		Foto:            str(r, "", key("foto")),
	}
}
