package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/searchkey"
)

// mockResolver — мок Resolver.
type mockResolver struct {
	routeFn func(ctx context.Context, rawKey string, docType int) (model.ResultSet, RoutingDecision, error)
	calls   int
}

func (m *mockResolver) Route(ctx context.Context, rawKey string, docType int) (model.ResultSet, RoutingDecision, error) {
	m.calls++
	if m.routeFn != nil {
		return m.routeFn(ctx, rawKey, docType)
	}
	return nil, RoutingDecision{}, nil
}

func TestExpedientService_Lookup(t *testing.T) {
	ticket := &model.Ticket{Token: "dG9r"}

	tests := []struct {
		name        string
		state       model.TicketState
		key         string
		routeResult model.ResultSet
		routeErr    error
		wantErr     error
		wantRoute   bool
		wantDetail  string
	}{
		{name: "билет истёк", state: model.TicketExpired, key: "022025011456", wantErr: ErrTicketExpired, wantDetail: "Ticket expirado (2052)"},
		{name: "билет недействителен", state: model.TicketInvalid, key: "022025011456", wantErr: ErrTicketInvalid, wantDetail: "Ticket inválido (2053)"},
		{name: "пустой ключ", state: model.TicketValid, key: "  ", wantErr: ErrEmptyKey, wantDetail: "Llave vacía"},
		{name: "ничего не найдено", state: model.TicketValid, key: "022025011456", wantRoute: true, wantErr: ErrNotFound, wantDetail: "No se encontró el expediente"},
		{name: "некорректный ключ", state: model.TicketValid, key: "1234", routeErr: fmt.Errorf("ключ: %w", ErrInvalidKey), wantRoute: true, wantErr: ErrInvalidKey},
		{name: "источник недоступен", state: model.TicketValid, key: "022025011456", routeErr: fmt.Errorf("%w: db", ErrSourceUnavailable), wantRoute: true, wantErr: ErrSourceUnavailable},
		{name: "успех", state: model.TicketValid, key: "022025011456", routeResult: docs(5, 6), wantRoute: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &mockResolver{
				routeFn: func(_ context.Context, rawKey string, docType int) (model.ResultSet, RoutingDecision, error) {
					if rawKey != tt.key || docType != 2 {
						t.Errorf("Route(%q, %d)", rawKey, docType)
					}
					return tt.routeResult, RoutingDecision{Source: searchkey.SourceHistorical}, tt.routeErr
				},
			}
			audit := &mockAuditRepo{}
			svc := NewExpedientService(mockClassifier{state: tt.state}, resolver, NewAuditService(audit, testLogger()), testLogger())

			res, err := svc.Lookup(context.Background(), LookupRequest{
				Ticket:        ticket,
				SearchKey:     tt.key,
				ProjectID:     3,
				ExpedientID:   1,
				DocTypeID:     2,
				OriginAddress: "10.0.0.1",
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, ожидалась %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Lookup ошибка: %v", err)
			}
			if (resolver.calls > 0) != tt.wantRoute {
				t.Errorf("Route вызван %d раз", resolver.calls)
			}

			if len(audit.entries) != 1 {
				t.Fatalf("записей журнала = %d, ожидалась 1", len(audit.entries))
			}
			e := audit.entries[0]
			if e.Operation != model.OperationExpedient || *e.TicketToken != "dG9r" {
				t.Errorf("запись журнала = %+v", e)
			}
			if tt.wantDetail != "" && (e.ErrorDetail == nil || *e.ErrorDetail != tt.wantDetail) {
				t.Errorf("ErrorDetail = %v, ожидалось %q", e.ErrorDetail, tt.wantDetail)
			}

			if tt.wantErr == nil {
				if len(res.Documents) != 2 || !e.Succeeded || e.DocumentID == nil || *e.DocumentID != 5 {
					t.Errorf("результат = %+v, журнал = %+v", res, e)
				}
			}
		})
	}
}

// TestExpedientService_Lookup_NilTicket — отсутствующий билет без токена в журнале.
func TestExpedientService_Lookup_NilTicket(t *testing.T) {
	audit := &mockAuditRepo{}
	svc := NewExpedientService(mockClassifier{state: model.TicketInvalid}, &mockResolver{}, NewAuditService(audit, testLogger()), testLogger())

	if _, err := svc.Lookup(context.Background(), LookupRequest{SearchKey: "k"}); !errors.Is(err, ErrTicketInvalid) {
		t.Fatalf("err = %v", err)
	}
	if audit.last().TicketToken != nil {
		t.Error("токен в журнале должен быть NULL")
	}
}
