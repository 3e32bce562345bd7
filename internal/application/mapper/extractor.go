// Package mapper traduce registros crudos del backend (campos en español,
// a veces anidados bajo usuario/persona, con nombres alternos y tipos
// inconsistentes) a las entidades canónicas del dominio.
//
// Cada campo se resuelve con una cadena ordenada de extractores: primero la
// clave anidada cuando existe, después las alternativas de primer nivel.
// Los mappers son totales: nunca fallan y rellenan los ausentes con defaults.
package mapper

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Record registro crudo sin tipar tal como llegó del backend.
// Los números se conservan como json.Number para no perder identificadores
// enteros al pasar por float64.
type Record map[string]any

// DecodeRecord parsea un cuerpo JSON crudo a Record. JSON inválido o que no
// sea objeto devuelve nil; los mappers toleran el nil.
func DecodeRecord(raw json.RawMessage) Record {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil
	}
	return r
}

// extractor función pura registro -> valor | ausente. El orden en que se
// prueban define la precedencia de claves.
type extractor func(r Record) (any, bool)

// key extractor de una clave de primer nivel.
func key(name string) extractor {
	return func(r Record) (any, bool) {
		v, ok := r[name]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

// nested extractor de una clave dentro del sub-objeto usuario/persona.
func nested(sub, name string) extractor {
	return func(r Record) (any, bool) {
		s := subRecord(r, sub)
		if s == nil {
			return nil, false
		}
		return key(name)(s)
	}
}

// first prueba los extractores en orden y devuelve el primer valor presente.
func first(r Record, exs ...extractor) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, ex := range exs {
		if v, ok := ex(r); ok {
			return v, true
		}
	}
	return nil, false
}

// subRecord devuelve r[name] cuando es un objeto.
func subRecord(r Record, name string) Record {
	if r == nil {
		return nil
	}
	if sub, ok := r[name].(map[string]any); ok {
		return Record(sub)
	}
	return nil
}

// personal devuelve el sub-objeto usuario (o persona) si existe, o el propio
// registro: los datos personales pueden venir en cualquiera de los dos niveles.
func personal(r Record) Record {
	if u := subRecord(r, "usuario"); u != nil {
		return u
	}
	if p := subRecord(r, "persona"); p != nil {
		return p
	}
	return r
}

// ── Coerciones ────────────────────────────────────────────────────────────────

// asString coerciona a string; los números se formatean sin decimales
// espurios (42 -> "42", nunca "42.000000").
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// asBool acepta bool directo y los equivalentes numéricos/texto del backend.
func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case json.Number:
		return t.String() != "0", true
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		switch s {
		case "true", "activo", "1":
			return true, true
		case "false", "inactivo", "0":
			return false, true
		}
	}
	return false, false
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			// Puede venir como 2.0
			f, ferr := t.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case string:
		if i64, err := json.Number(t).Int64(); err == nil {
			return int(i64), true
		}
	}
	return 0, false
}

// ── Helpers tipados sobre cadenas de extractores ──────────────────────────────

func str(r Record, def string, exs ...extractor) string {
	if v, ok := first(r, exs...); ok {
		if s, ok := asString(v); ok {
			return s
		}
	}
	return def
}

func boolean(r Record, def bool, exs ...extractor) bool {
	if v, ok := first(r, exs...); ok {
		if b, ok := asBool(v); ok {
			return b
		}
	}
	return def
}

func integer(r Record, def int, exs ...extractor) int {
	if v, ok := first(r, exs...); ok {
		if n, ok := asInt(v); ok {
			return n
		}
	}
	return def
}

func stringList(r Record, exs ...extractor) []string {
	out := []string{}
	v, ok := first(r, exs...)
	if !ok {
		return out
	}
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range arr {
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// nowISO default para fechas ausentes, en UTC y formato ISO 8601.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
