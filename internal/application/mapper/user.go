package mapper

import (
	"encoding/json"

	"github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"
)

// ToUser mapea el usuario crudo (forma de login o de perfil; el perfil lo
// anida bajo "usuario") a entity.User. Total: ausente lo que esté ausente,
// el resultado siempre es usable.
func ToUser(raw json.RawMessage) entity.User {
	return userFromRecord(DecodeRecord(raw))
}

func userFromRecord(r Record) entity.User {
	base := personal(r)

	rolID := integer(r, 0,
		nested("usuario", "id_rol"),
		key("id_rol"),
	)
	if rolID == 0 {
		rolID = integer(base, 0, key("id_rol"))
	}

	u := entity.User{
		ID: str(r, "",
			nested("usuario", "id"),
			key("id"),
			key("id_persona"),
		),
		Codigo:          str(base, "", key("codigo")),
		Nombre:          str(base, "", key("nombre")),
		Apellido:        str(base, "", key("apellido")),
		Correo:          str(base, "", key("correo"), key("email")),
		Telefono:        str(base, "", key("telefono")),
		Direccion:       str(base, "", key("direccion")),
		Genero:          str(base, "", key("genero")),
		TipoDocumento:   str(base, "", key("tipo_documento"), key("tipoDocumento")),
		NumeroDocumento: str(base, "", key("numero_documento"), key("numeroDocumento")),
		FechaNacimiento: str(base, "", key("fecha_nacimiento"), key("fechaNacimiento")),
		RolID:           rolID,
		Activo:          boolean(base, true, key("estado"), key("activo")),
	}
	if u.ID == "" {
		u.ID = str(base, "", key("id"))
	}

	if entity.IsPermittedRole(u.RolID) {
		u.RolNombre = entity.RolNombreAdministrador
	} else if rol := subRecord(base, "rol"); rol != nil {
		u.RolNombre = str(rol, "", key("nombre"))
	}
	return u
}
