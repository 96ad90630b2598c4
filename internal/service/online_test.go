package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestOnlineProvider_FindSynthesized проверяет синтезированный документ.
func TestOnlineProvider_FindSynthesized(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "estado.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewOnlineProvider(pdf, true, testLogger())
	if err != nil {
		t.Fatalf("NewOnlineProvider ошибка: %v", err)
	}
	p.now = func() time.Time { return fixedNow }

	result, err := p.FindSynthesized(context.Background(), "112025011456", 2025, 11, "1456")
	if err != nil {
		t.Fatalf("FindSynthesized ошибка: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("документов = %d, ожидался 1", len(result))
	}

	doc := result[0]
	if doc.ID != 0 || doc.DocTypeID != SynthesizedDocTypeID || doc.Sequence != 1 {
		t.Errorf("документ = %+v", doc.DocumentRecord)
	}
	if doc.FileName != "EdoCta_202511_1456.pdf" {
		t.Errorf("FileName = %q", doc.FileName)
	}
	if doc.Extension != "pdf" || string(doc.Content) != "%PDF-1.4" || doc.Size != 8 {
		t.Errorf("Extension=%q Content=%q Size=%d", doc.Extension, doc.Content, doc.Size)
	}
	if doc.SearchKey != "112025011456" || !doc.CreatedAt.Equal(fixedNow) {
		t.Errorf("SearchKey=%q CreatedAt=%v", doc.SearchKey, doc.CreatedAt)
	}
}

// TestOnlineProvider_Unavailable — поведение при сбое зависит от флага fallback.
func TestOnlineProvider_Unavailable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.pdf")

	tests := []struct {
		name     string
		path     string
		fallback bool
		wantErr  bool
	}{
		{name: "файл отсутствует, fallback включён", path: missing, fallback: true},
		{name: "файл отсутствует, fallback выключен", path: missing, wantErr: true},
		{name: "путь не настроен, fallback включён", path: "", fallback: true},
		{name: "путь не настроен, fallback выключен", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOnlineProvider(tt.path, tt.fallback, testLogger())
			if err != nil {
				t.Fatalf("NewOnlineProvider ошибка: %v", err)
			}

			result, err := p.FindSynthesized(context.Background(), "112025011456", 2025, 11, "1456")
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if result != nil {
				t.Errorf("result = %v, ожидался nil", result)
			}
		})
	}
}

func TestSynthesizedFileName(t *testing.T) {
	if got := SynthesizedFileName(2025, 3, ""); got != "EdoCta_202503_.pdf" {
		t.Errorf("SynthesizedFileName = %q", got)
	}
}
