package blobstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore создаёт Store с файлом docs/2025/a.pdf.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	root := t.TempDir()
	base := filepath.Join(root, "base")
	if err := os.MkdirAll(filepath.Join(base, "docs", "2025"), 0o750); err != nil {
		t.Fatalf("ошибка создания каталогов: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, "docs", "2025", "a.pdf"), []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("ошибка записи файла: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "secret.txt"), []byte("secret"), 0o600); err != nil {
		t.Fatalf("ошибка записи файла: %v", err)
	}

	s, err := New(base)
	if err != nil {
		t.Fatalf("ошибка создания Store: %v", err)
	}
	return s, base
}

// TestRead_PathForms проверяет нормализацию разделителей и ведущего слеша.
func TestRead_PathForms(t *testing.T) {
	s, _ := newTestStore(t)

	for _, p := range []string{
		"docs/2025/a.pdf",
		"/docs/2025/a.pdf",
		`docs\2025\a.pdf`,
		`\docs\2025\a.pdf`,
		"docs/./2025/a.pdf",
	} {
		data, err := s.Read(p)
		if err != nil {
			t.Errorf("Read(%q) ошибка: %v", p, err)
			continue
		}
		if string(data) != "%PDF-1.4" {
			t.Errorf("Read(%q) = %q, ожидалось %%PDF-1.4", p, data)
		}
	}
}

// TestRead_NotFound проверяет отсутствующий файл.
func TestRead_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Read("docs/2025/missing.pdf")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read err = %v, ожидалась ErrNotFound", err)
	}
	if s.Exists("docs/2025/missing.pdf") {
		t.Error("Exists = true для отсутствующего файла")
	}
}

// TestResolve_Escape проверяет, что выход за базовый каталог отклоняется.
func TestResolve_Escape(t *testing.T) {
	s, _ := newTestStore(t)

	for _, p := range []string{
		"../secret.txt",
		`..\secret.txt`,
		"docs/../../secret.txt",
		"",
		"/",
	} {
		if _, err := s.Resolve(p); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) err = %v, ожидалась ErrNotFound", p, err)
		}
		if s.Exists(p) {
			t.Errorf("Exists(%q) = true, ожидалось false", p)
		}
	}
}

// TestResolve_DoubleLeadingSlash проверяет, что отбрасывается только один слеш,
// а оставшийся путь всё равно остаётся внутри базового каталога.
func TestResolve_DoubleLeadingSlash(t *testing.T) {
	s, base := newTestStore(t)

	full, err := s.Resolve("//docs/2025/a.pdf")
	if err != nil {
		t.Fatalf("Resolve ошибка: %v", err)
	}
	if full != filepath.Join(base, "docs", "2025", "a.pdf") {
		t.Errorf("Resolve = %q", full)
	}
}

// TestExists проверяет существующий файл и каталог.
func TestExists(t *testing.T) {
	s, _ := newTestStore(t)

	if !s.Exists("docs/2025/a.pdf") {
		t.Error("Exists = false для существующего файла")
	}
	if s.Exists("docs/2025") {
		t.Error("Exists = true для каталога")
	}
}
