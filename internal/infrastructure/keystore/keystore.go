// Package keystore persiste las credenciales de sesión entre reinicios del
// proceso: access token, refresh token y el último usuario conocido.
//
// Es el equivalente del almacenamiento clave/valor del dispositivo móvil: un
// único archivo JSON con permisos 0600 escrito de forma atómica, para que un
// corte a mitad de escritura nunca deje una sesión corrupta.
package keystore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/gmsf-mobile-api/internal/domain"
)

// Claves lógicas persistidas. Son parte del contrato de compatibilidad entre
// versiones de la app: cambiarlas invalida las sesiones guardadas.
const (
	KeyAuthToken    = "authToken"
	KeyRefreshToken = "refreshToken"
	KeyUserInfo     = "userInfo"
)

const storeFile = "session.json"

// Store almacén clave/valor respaldado por archivo. Las operaciones son
// lecturas o escrituras atómicas individuales; el mutex solo protege el
// read-modify-write del archivo dentro del proceso.
type Store struct {
	mu   sync.Mutex
	path string
}

// New construye el Store. Si dir está vacío se usa <UserConfigDir>/gmsf.
func New(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: resolver directorio de configuración: %v", domain.ErrStorage, err)
		}
		dir = filepath.Join(base, "gmsf")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: crear %s: %v", domain.ErrStorage, dir, err)
	}
	return &Store{path: filepath.Join(dir, storeFile)}, nil
}

// Get devuelve el valor de una clave. Una clave (o el archivo) ausente no es
// error: devuelve cadena vacía y err nil.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// Set guarda una clave. Reescribe el archivo completo de forma atómica.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

// RemoveMany elimina varias claves en una sola escritura.
func (s *Store) RemoveMany(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(data, k)
	}
	return s.save(data)
}

// Token acceso directo al access token; satisface la fuente de tokens del
// transporte sin acoplar ese paquete a las claves lógicas.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyAuthToken)
}

// load lee el archivo; ausente equivale a vacío.
func (s *Store) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrStorage, s.path, err)
	}
	data := map[string]string{}
	if err := json.Unmarshal(b, &data); err != nil {
		// Archivo corrupto: se trata como ausente y la próxima escritura lo repara.
		return map[string]string{}, nil
	}
	return data, nil
}

// save escribe el archivo de forma atómica: temp → Sync → Close → Rename.
// En Windows Rename puede fallar con destino existente; se reintenta tras
// eliminar el destino, preservando el temp si algo sale mal.
func (s *Store) save(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serializar sesión: %v", domain.ErrStorage, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("%w: crear temporal: %v", domain.ErrStorage, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(b); err != nil {
		return fmt.Errorf("%w: escribir temporal: %v", domain.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync temporal: %v", domain.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: cerrar temporal: %v", domain.ErrStorage, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("%w: chmod temporal: %v", domain.ErrStorage, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(s.path)
		if err := os.Rename(tmpPath, s.path); err != nil {
			return fmt.Errorf("%w: renombrar a %s: %v", domain.ErrStorage, s.path, err)
		}
	}
	return nil
}
