// Package envelope normaliza las envolturas de respuesta del backend GMSF.
//
// El backend no es consistente: según el endpoint responde
// {status:"success", data}, {success:true, data}, arrays pelados o incluso
// {data:{data:[...], pagination}}. Este paquete detecta la variante y extrae
// un resultado canónico (lista + paginación, o registro único) para que
// ningún consumidor vea jamás la forma cruda.
//
// Total por contrato: sobre JSON bien formado nunca devuelve error; una
// forma no reconocida degrada a lista vacía con total 0.
package envelope

import "encoding/json"

// Kind variante de envoltura reconocida. El orden de detección es una
// decisión de diseño: status/success primero, luego .data anidado, luego
// array pelado, luego objeto pelado.
type Kind int

const (
	KindUnrecognized   Kind = iota // status/success presentes pero sin éxito
	KindStatusWrapped              // { status: "success", data: ... }
	KindSuccessWrapped             // { success: true, data: ... }
	KindBareArray                  // [ ... ] sin envoltura
	KindBareObject                 // { ... } sin envoltura
)

// Pagination metadatos de página ya reconciliados.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// wireEnvelope sonda de la envoltura exterior. Success es puntero para
// distinguir "ausente" de false.
type wireEnvelope struct {
	Status  string          `json:"status"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// wireList sonda del nivel interior {data:[...], pagination:{...}}.
type wireList struct {
	Data       json.RawMessage `json:"data"`
	Pagination *wirePagination `json:"pagination"`
}

// wirePagination paginación tal como la envía el backend; todos los campos
// son opcionales y los ausentes se reconcilian con los valores pedidos.
type wirePagination struct {
	Total      *int `json:"total"`
	Page       *int `json:"page"`
	Limit      *int `json:"limit"`
	TotalPages *int `json:"totalPages"`
}

// Detect clasifica la envoltura de un cuerpo crudo.
func Detect(body []byte) Kind {
	var env wireEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		// No es un objeto: ¿array pelado?
		var arr []json.RawMessage
		if json.Unmarshal(body, &arr) == nil {
			return KindBareArray
		}
		return KindUnrecognized
	}
	switch {
	case env.Status == "success":
		return KindStatusWrapped
	case env.Success != nil && *env.Success:
		return KindSuccessWrapped
	case env.Status != "" || env.Success != nil:
		// Envoltura presente pero sin éxito: no se desciende.
		return KindUnrecognized
	default:
		return KindBareObject
	}
}

// unwrap aplica el paso 1 del algoritmo: si hay envoltura exitosa desciende
// a .data; si no hay envoltura usa el cuerpo tal cual (paso 5). El segundo
// retorno es false cuando la envoltura existe pero no indica éxito.
func unwrap(body []byte) (json.RawMessage, bool) {
	switch Detect(body) {
	case KindStatusWrapped, KindSuccessWrapped:
		var env wireEnvelope
		_ = json.Unmarshal(body, &env)
		return env.Data, true
	case KindBareArray, KindBareObject:
		return json.RawMessage(body), true
	default:
		return nil, false
	}
}

// List extrae la lista de items y la paginación de un cuerpo crudo,
// independiente de la variante de envoltura. page y limit son los valores
// pedidos, usados como defaults al reconciliar.
func List(body []byte, page, limit int) ([]json.RawMessage, Pagination) {
	payload, ok := unwrap(body)
	if !ok || len(payload) == 0 {
		return []json.RawMessage{}, reconcile(nil, 0, page, limit)
	}

	// Paso 2: {data:[...], pagination:{...}} anidado.
	var wl wireList
	if err := json.Unmarshal(payload, &wl); err == nil && wl.Data != nil {
		var items []json.RawMessage
		if json.Unmarshal(wl.Data, &items) == nil {
			return items, reconcile(wl.Pagination, len(items), page, limit)
		}
	}

	// Paso 3: el payload ya es el array.
	var items []json.RawMessage
	if json.Unmarshal(payload, &items) == nil {
		return items, reconcile(nil, len(items), page, limit)
	}

	// Paso 4: registro único; como lista degrada a vacía.
	return []json.RawMessage{}, reconcile(nil, 0, page, limit)
}

// Record extrae el registro único de un cuerpo crudo. Devuelve nil cuando la
// envoltura indica fallo o no hay payload.
func Record(body []byte) json.RawMessage {
	payload, ok := unwrap(body)
	if !ok || len(payload) == 0 {
		return nil
	}
	return payload
}

// Message devuelve el mensaje legible de la envoltura exterior, si existe.
func Message(body []byte) string {
	var env wireEnvelope
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	return env.Message
}

// reconcile completa la paginación: los campos que el backend no envía se
// derivan de los valores pedidos y del número de items; totalPages del
// backend gana sobre el calculado.
func reconcile(p *wirePagination, nItems, reqPage, reqLimit int) Pagination {
	out := Pagination{Total: nItems, Page: reqPage, Limit: reqLimit}
	if p != nil {
		if p.Total != nil {
			out.Total = *p.Total
		}
		if p.Page != nil {
			out.Page = *p.Page
		}
		if p.Limit != nil {
			out.Limit = *p.Limit
		}
	}
	if p != nil && p.TotalPages != nil {
		out.TotalPages = *p.TotalPages
	} else if out.Total > 0 && out.Limit > 0 {
		out.TotalPages = (out.Total + out.Limit - 1) / out.Limit
	}
	return out
}
