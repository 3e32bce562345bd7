package mapper

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gmsf-mobile-api/internal/domain/entity"
)

// ToClient mapea un registro crudo de cliente a entity.Client.
//
// beneficiarios se mapea recursivamente: cada elemento es otro cliente, con
// sus datos bajo persona_beneficiaria cuando el backend los anida así.
func ToClient(raw json.RawMessage) entity.Client {
	return clientFromRecord(DecodeRecord(raw))
}

// ToClientUsuario mapea un registro que es directamente el sub-objeto usuario
// (p. ej. la respuesta de check-user), marcándolo activo.
func ToClientUsuario(raw json.RawMessage) entity.Client {
	r := Record{"estado": true}
	if u := DecodeRecord(raw); u != nil {
		r["usuario"] = map[string]any(u)
	}
	return clientFromRecord(r)
}

func clientFromRecord(r Record) entity.Client {
	base := personal(r)

	c := entity.Client{
		ID: str(r, "",
			key("id_persona"),
			key("id"),
			nested("usuario", "id"),
			nested("persona", "id"),
		),
		Nombre:   str(base, "", key("nombre")),
		Apellido: str(base, "", key("apellido")),
		Email:    str(base, "", key("correo"), key("email")),
		Telefono: str(base, "", key("telefono")),
		TipoDocumento: str(base, entity.TipoDocumentoCC,
			key("tipo_documento"),
			key("tipoDocumento"),
		),
		NumeroDocumento: str(base, "",
			key("numero_documento"),
			key("numeroDocumento"),
		),
		FechaNacimiento: str(base, nowISO(),
			key("fecha_nacimiento"),
			key("fechaNacimiento"),
		),
		FechaRegistro: str(r, nowISO(),
			key("fecha_registro"),
			nested("usuario", "fecha_registro"),
			nested("persona", "fecha_registro"),
		),
		Activo: boolean(r, true,
			key("estado"),
			key("activo"),
			nested("usuario", "estado"),
			nested("persona", "estado"),
		),
	}

	if m := subRecord(r, "membresia"); m != nil {
		c.Membresia = membershipFromRecord(m)
	}

	if arr, ok := r["beneficiarios"].([]any); ok {
		c.Beneficiarios = make([]entity.Client, 0, len(arr))
		for _, item := range arr {
			b, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rec := Record(b)
			if pb := subRecord(rec, "persona_beneficiaria"); pb != nil {
				rec = pb
			}
			c.Beneficiarios = append(c.Beneficiarios, clientFromRecord(rec))
		}
	}

	return c
}

func membershipFromRecord(m Record) *entity.Membership {
	precio := decimal.Zero
	if v, ok := first(m, key("precio")); ok {
		if s, ok := asString(v); ok {
			if d, err := decimal.NewFromString(s); err == nil {
				precio = d
			}
		}
	}
	return &entity.Membership{
		ID:          str(m, "", key("id"), key("id_membresia")),
		Tipo:        str(m, "", key("tipo"), key("nombre")),
		FechaInicio: str(m, "", key("fecha_inicio"), key("fechaInicio")),
		FechaFin:    str(m, "", key("fecha_fin"), key("fechaFin")),
		Estado:      str(m, entity.MembresiaActiva, key("estado")),
		Precio:      precio,
	}
}
