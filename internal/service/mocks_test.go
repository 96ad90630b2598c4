package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/repository"
)

// --- Моки репозиториев и источников ---

// mockTicketStore — мок TicketRepository.
type mockTicketStore struct {
	createFn     func(ctx context.Context, t *model.Ticket) error
	isActiveFn   func(ctx context.Context, token string) (bool, error)
	deactivateFn func(ctx context.Context, token string) error

	isActiveCalls int
}

func (m *mockTicketStore) Create(ctx context.Context, t *model.Ticket) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}

func (m *mockTicketStore) IsActiveAndUnexpired(ctx context.Context, token string) (bool, error) {
	m.isActiveCalls++
	if m.isActiveFn != nil {
		return m.isActiveFn(ctx, token)
	}
	return false, nil
}

func (m *mockTicketStore) Deactivate(ctx context.Context, token string) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, token)
	}
	return nil
}

// mockDocumentRepo — мок DocumentRepository.
type mockDocumentRepo struct {
	findByKeyFn        func(ctx context.Context, key string) ([]model.DocumentRecord, error)
	findByKeyAndTypeFn func(ctx context.Context, key string, docType int) ([]model.DocumentRecord, error)
	findByIDFn         func(ctx context.Context, id int64) (*model.DocumentRecord, error)

	findByIDCalls int
}

func (m *mockDocumentRepo) FindByKey(ctx context.Context, key string) ([]model.DocumentRecord, error) {
	if m.findByKeyFn != nil {
		return m.findByKeyFn(ctx, key)
	}
	return nil, nil
}

func (m *mockDocumentRepo) FindByKeyAndType(ctx context.Context, key string, docType int) ([]model.DocumentRecord, error) {
	if m.findByKeyAndTypeFn != nil {
		return m.findByKeyAndTypeFn(ctx, key, docType)
	}
	return nil, nil
}

func (m *mockDocumentRepo) FindByID(ctx context.Context, id int64) (*model.DocumentRecord, error) {
	m.findByIDCalls++
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

// mockUserRepo — мок UserRepository.
type mockUserRepo struct {
	validateFn func(ctx context.Context, username, password string) (*model.User, error)
}

func (m *mockUserRepo) Validate(ctx context.Context, username, password string) (*model.User, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, username, password)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Create(_ context.Context, _ *model.User, _ string) error {
	return nil
}

// mockAuditRepo — мок AuditRepository, запоминает записи.
type mockAuditRepo struct {
	insertFn func(ctx context.Context, e *model.AuditEntry) error
	entries  []*model.AuditEntry
}

func (m *mockAuditRepo) Insert(ctx context.Context, e *model.AuditEntry) error {
	m.entries = append(m.entries, e)
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	return nil
}

func (m *mockAuditRepo) last() *model.AuditEntry {
	if len(m.entries) == 0 {
		return nil
	}
	return m.entries[len(m.entries)-1]
}

// mockBlobs — мок BlobReader над map путь → содержимое.
type mockBlobs map[string][]byte

func (m mockBlobs) Read(relativePath string) ([]byte, error) {
	content, ok := m[relativePath]
	if !ok {
		return nil, errors.New("файл не найден")
	}
	return content, nil
}

// mockOnline — мок OnlineSource.
type mockOnline struct {
	findFn func(ctx context.Context, rawKey string, year, month int, account string) (model.ResultSet, error)
	calls  int
}

func (m *mockOnline) FindSynthesized(ctx context.Context, rawKey string, year, month int, account string) (model.ResultSet, error) {
	m.calls++
	if m.findFn != nil {
		return m.findFn(ctx, rawKey, year, month, account)
	}
	return nil, nil
}

// mockHistorical — мок HistoricalSource.
type mockHistorical struct {
	findFn func(ctx context.Context, rawKey string, docType int) (model.ResultSet, error)
	calls  int
	keys   []string
}

func (m *mockHistorical) Find(ctx context.Context, rawKey string, docType int) (model.ResultSet, error) {
	m.calls++
	m.keys = append(m.keys, rawKey)
	if m.findFn != nil {
		return m.findFn(ctx, rawKey, docType)
	}
	return nil, nil
}

// mockClassifier — мок TicketClassifier с фиксированным ответом.
type mockClassifier struct {
	state model.TicketState
}

func (m mockClassifier) Classify(_ context.Context, _ *model.Ticket) model.TicketState {
	return m.state
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func docs(ids ...int64) model.ResultSet {
	rs := make(model.ResultSet, 0, len(ids))
	for i, id := range ids {
		rs = append(rs, model.Document{
			DocumentRecord: model.DocumentRecord{ID: id, Sequence: i + 1},
			Content:        []byte("pdf"),
		})
	}
	return rs
}
