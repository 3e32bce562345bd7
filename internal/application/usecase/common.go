package usecase

import (
	"encoding/json"

	"github.com/jhoicas/gmsf-mobile-api/internal/domain/envelope"
)

// recordOrSub extrae el registro único del cuerpo y, si este envuelve el
// registro una vez más bajo la clave dada (p. ej. {data:{trainer:{...}}}),
// desciende a ella.
func recordOrSub(body []byte, name string) json.RawMessage {
	rec := envelope.Record(body)
	if rec == nil {
		return nil
	}
	var probe map[string]json.RawMessage
	if json.Unmarshal(rec, &probe) == nil {
		if sub, ok := probe[name]; ok && len(sub) > 0 && sub[0] == '{' {
			return sub
		}
	}
	return rec
}
