package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// noRowsDB — DBTX, у которого QueryRow всегда возвращает pgx.ErrNoRows.
type noRowsDB struct{}

func (noRowsDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (noRowsDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("не используется")
}

func (noRowsDB) QueryRow(context.Context, string, ...any) pgx.Row { return noRow{} }

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

func TestUserRepository_ValidateUnknownUserComparesHash(t *testing.T) {
	orig := compareHash
	t.Cleanup(func() { compareHash = orig })

	var calls int
	var gotHash []byte
	compareHash = func(hash, password []byte) error {
		calls++
		gotHash = hash
		return orig(hash, password)
	}

	repo := NewUserRepository(noRowsDB{})
	_, err := repo.Validate(context.Background(), "nobody", "s3cret-pass")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Validate(неизвестный) err = %v, ожидалась ErrNotFound", err)
	}
	if calls != 1 {
		t.Fatalf("сравнение хэша вызвано %d раз, ожидался 1", calls)
	}
	if len(gotHash) == 0 {
		t.Error("сравнение выполнено с пустым хэшем")
	}
}
