// Пакет blobstore — чтение файлов документов из базового каталога.
// Относительные пути приходят из БД в смешанном формате (Windows/Unix),
// поэтому перед склейкой с базовым каталогом они нормализуются.
package blobstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound — файл отсутствует или путь выходит за пределы базового каталога.
var ErrNotFound = errors.New("файл не найден")

// Store — файловое хранилище документов с одним базовым каталогом.
type Store struct {
	// baseDir — абсолютный базовый каталог
	baseDir string
}

// New создаёт Store. Каталог не создаётся: хранилище только читает.
func New(baseDir string) (*Store, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("некорректный базовый каталог %s: %w", baseDir, err)
	}
	return &Store{baseDir: filepath.Clean(abs)}, nil
}

// Resolve превращает относительный путь в абсолютный.
// `\` заменяются на `/`, один ведущий разделитель отбрасывается.
// Путь, который после очистки выходит за базовый каталог, отклоняется.
func (s *Store) Resolve(relativePath string) (string, error) {
	p := strings.ReplaceAll(relativePath, `\`, "/")
	p = strings.TrimPrefix(p, "/")
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: пустой путь", ErrNotFound)
	}

	full := filepath.Join(s.baseDir, filepath.FromSlash(p))
	rel, err := filepath.Rel(s.baseDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: путь %q вне базового каталога", ErrNotFound, relativePath)
	}
	return full, nil
}

// Read читает файл целиком.
func (s *Store) Read(relativePath string) ([]byte, error) {
	full, err := s.Resolve(relativePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, relativePath)
		}
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", relativePath, err)
	}
	return data, nil
}

// Exists проверяет, что путь указывает на существующий обычный файл.
func (s *Store) Exists(relativePath string) bool {
	full, err := s.Resolve(relativePath)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}
