package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

func newTestDocumentService(state model.TicketState, repo *mockDocumentRepo, blobs mockBlobs, audit *mockAuditRepo) *DocumentService {
	return NewDocumentService(
		mockClassifier{state: state},
		repo,
		NewCacheService(10, time.Minute),
		blobs,
		NewAuditService(audit, testLogger()),
		testLogger(),
	)
}

// TestDocumentService_Fetch проверяет успешную выдачу и кэширование метаданных.
func TestDocumentService_Fetch(t *testing.T) {
	repo := &mockDocumentRepo{
		findByIDFn: func(_ context.Context, id int64) (*model.DocumentRecord, error) {
			return &model.DocumentRecord{ID: id, DocTypeID: 2, Extension: "pdf", BlobPath: "2025/10.pdf"}, nil
		},
	}
	audit := &mockAuditRepo{}
	svc := newTestDocumentService(model.TicketValid, repo, mockBlobs{"2025/10.pdf": []byte("PDF")}, audit)

	for i := 0; i < 2; i++ {
		doc, err := svc.Fetch(context.Background(), &model.Ticket{Token: "t"}, 10, "10.0.0.1")
		if err != nil {
			t.Fatalf("Fetch ошибка: %v", err)
		}
		if doc.ID != 10 || doc.Sequence != 1 || string(doc.Content) != "PDF" {
			t.Errorf("документ = %+v", doc)
		}
	}

	if repo.findByIDCalls != 1 {
		t.Errorf("FindByID вызван %d раз, ожидался 1 (второй запрос из кэша)", repo.findByIDCalls)
	}
	e := audit.last()
	if !e.Succeeded || e.Operation != model.OperationFileHSM || *e.DocumentID != 10 {
		t.Errorf("запись журнала = %+v", e)
	}
}

// TestDocumentService_Fetch_Errors — ошибки билета, поиска и файла.
func TestDocumentService_Fetch_Errors(t *testing.T) {
	dbErr := errors.New("db down")
	found := func(_ context.Context, id int64) (*model.DocumentRecord, error) {
		return &model.DocumentRecord{ID: id, BlobPath: "x/1.pdf"}, nil
	}

	tests := []struct {
		name       string
		state      model.TicketState
		findFn     func(context.Context, int64) (*model.DocumentRecord, error)
		blobs      mockBlobs
		wantErr    error
		wantDetail string
	}{
		{name: "билет истёк — всегда 2053", state: model.TicketExpired, findFn: found, wantErr: ErrTicketInvalid, wantDetail: "Ticket inválido (2053)"},
		{name: "билет недействителен", state: model.TicketInvalid, findFn: found, wantErr: ErrTicketInvalid, wantDetail: "Ticket inválido (2053)"},
		{name: "неизвестный id", state: model.TicketValid, wantErr: ErrNotFound, wantDetail: "DocID no encontrado"},
		{name: "файл отсутствует", state: model.TicketValid, findFn: found, blobs: mockBlobs{}, wantErr: ErrBlobNotFound, wantDetail: "Archivo no encontrado en disco"},
		{name: "файл пустой", state: model.TicketValid, findFn: found, blobs: mockBlobs{"x/1.pdf": {}}, wantErr: ErrBlobNotFound, wantDetail: "Archivo no encontrado en disco"},
		{name: "ошибка БД", state: model.TicketValid, findFn: func(context.Context, int64) (*model.DocumentRecord, error) { return nil, dbErr }, wantErr: dbErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &mockAuditRepo{}
			svc := newTestDocumentService(tt.state, &mockDocumentRepo{findByIDFn: tt.findFn}, tt.blobs, audit)

			_, err := svc.Fetch(context.Background(), &model.Ticket{Token: "t"}, 1, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, ожидалась %v", err, tt.wantErr)
			}

			e := audit.last()
			if e == nil || e.Succeeded {
				t.Fatalf("запись журнала = %+v", e)
			}
			if tt.wantDetail != "" && *e.ErrorDetail != tt.wantDetail {
				t.Errorf("ErrorDetail = %q, ожидалось %q", *e.ErrorDetail, tt.wantDetail)
			}
		})
	}
}

// TestDocumentService_Fetch_BlobMissingPath — ошибка содержит путь из записи.
func TestDocumentService_Fetch_BlobMissingPath(t *testing.T) {
	repo := &mockDocumentRepo{
		findByIDFn: func(_ context.Context, id int64) (*model.DocumentRecord, error) {
			return &model.DocumentRecord{ID: id, BlobPath: "2024/03/missing.pdf"}, nil
		},
	}
	svc := newTestDocumentService(model.TicketValid, repo, mockBlobs{}, &mockAuditRepo{})

	_, err := svc.Fetch(context.Background(), &model.Ticket{Token: "t"}, 3, "")
	var missing *BlobMissingError
	if !errors.As(err, &missing) || missing.Path != "2024/03/missing.pdf" {
		t.Errorf("err = %v, ожидалась BlobMissingError с путём", err)
	}
}

// TestDocumentService_Fetch_BlobMissingEvictsCache — после ошибки файла
// метаданные перечитываются из БД.
func TestDocumentService_Fetch_BlobMissingEvictsCache(t *testing.T) {
	repo := &mockDocumentRepo{
		findByIDFn: func(_ context.Context, id int64) (*model.DocumentRecord, error) {
			return &model.DocumentRecord{ID: id, BlobPath: "x/1.pdf"}, nil
		},
	}
	svc := newTestDocumentService(model.TicketValid, repo, mockBlobs{}, &mockAuditRepo{})

	for i := 0; i < 2; i++ {
		if _, err := svc.Fetch(context.Background(), &model.Ticket{Token: "t"}, 1, ""); !errors.Is(err, ErrBlobNotFound) {
			t.Fatalf("Fetch err = %v, ожидалась ErrBlobNotFound", err)
		}
	}
	if repo.findByIDCalls != 2 {
		t.Errorf("FindByID вызван %d раз, ожидалось 2", repo.findByIDCalls)
	}
	if _, ok := svc.cache.Get(1); ok {
		t.Error("запись не должна оставаться в кэше")
	}
}
