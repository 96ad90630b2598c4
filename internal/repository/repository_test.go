package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
	"github.com/bigkaa/goartstore/wsimagenes/internal/database"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// setupTestPool поднимает PostgreSQL, применяет миграции и возвращает пул.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("wsimagenes_test"),
		postgres.WithUsername("wsimagenes"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}
	portNum, _ := strconv.Atoi(port.Port())

	cfg := &config.Config{
		DBHost:     host,
		DBPort:     portNum,
		DBName:     "wsimagenes_test",
		DBUser:     "wsimagenes",
		DBPassword: "test-password",
		DBSSLMode:  "disable",
	}

	logger := slog.Default()
	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// insertDocument добавляет файл и документ, возвращает id_documento.
func insertDocument(t *testing.T, pool *pgxpool.Pool, key string, docType int, path string) int64 {
	t.Helper()
	ctx := context.Background()

	var fileID int64
	err := pool.QueryRow(ctx,
		`INSERT INTO archivos_fisicos (ruta_relativa, nombre_archivo, extension, tamano_bytes)
		 VALUES ($1, $2, 'pdf', 10) RETURNING id_archivo`, path, path,
	).Scan(&fileID)
	if err != nil {
		t.Fatalf("ошибка вставки файла: %v", err)
	}

	var docID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO documentos (tipo_doc_id, llave_busqueda, descripcion, id_archivo)
		 VALUES ($1, $2, 'Documento', $3) RETURNING id_documento`, docType, key, fileID,
	).Scan(&docID)
	if err != nil {
		t.Fatalf("ошибка вставки документа: %v", err)
	}
	return docID
}

func TestTicketRepository_Lifecycle(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewTicketRepository(pool)

	now := time.Now()
	ticket := &model.Ticket{
		Token:         "dG9rZW4tMQ==",
		OwnerID:       1,
		IssuedAt:      now,
		ExpiresAt:     now.Add(time.Hour),
		OriginAddress: "10.0.0.1",
	}
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	ok, err := repo.IsActiveAndUnexpired(ctx, ticket.Token)
	if err != nil || !ok {
		t.Fatalf("IsActiveAndUnexpired = %v, %v; ожидалось true", ok, err)
	}

	ok, err = repo.IsActiveAndUnexpired(ctx, "unknown")
	if err != nil || ok {
		t.Errorf("IsActiveAndUnexpired(unknown) = %v, %v; ожидалось false", ok, err)
	}

	if err := repo.Deactivate(ctx, ticket.Token); err != nil {
		t.Fatalf("Deactivate ошибка: %v", err)
	}
	ok, err = repo.IsActiveAndUnexpired(ctx, ticket.Token)
	if err != nil || ok {
		t.Errorf("после Deactivate = %v, %v; ожидалось false", ok, err)
	}

	// Истёкший билет
	expired := &model.Ticket{
		Token:     "ZXhwaXJlZA==",
		OwnerID:   1,
		IssuedAt:  now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := repo.Create(ctx, expired); err != nil {
		t.Fatalf("Create(expired) ошибка: %v", err)
	}
	ok, err = repo.IsActiveAndUnexpired(ctx, expired.Token)
	if err != nil || ok {
		t.Errorf("истёкший билет = %v, %v; ожидалось false", ok, err)
	}
}

func TestDocumentRepository_Ordering(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewDocumentRepository(pool)

	const key = "022025011456"
	idType2 := insertDocument(t, pool, key, 2, "a/2.pdf")
	idType1a := insertDocument(t, pool, key, 1, "a/1a.pdf")
	idType1b := insertDocument(t, pool, key, 1, "a/1b.pdf")
	insertDocument(t, pool, "other", 1, "b/x.pdf")

	all, err := repo.FindByKey(ctx, key)
	if err != nil {
		t.Fatalf("FindByKey ошибка: %v", err)
	}
	want := []int64{idType1a, idType1b, idType2}
	if len(all) != len(want) {
		t.Fatalf("FindByKey вернул %d записей, ожидалось %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("FindByKey[%d].ID = %d, ожидался %d", i, all[i].ID, id)
		}
	}

	typed, err := repo.FindByKeyAndType(ctx, key, 1)
	if err != nil {
		t.Fatalf("FindByKeyAndType ошибка: %v", err)
	}
	if len(typed) != 2 || typed[0].ID != idType1a || typed[1].ID != idType1b {
		t.Errorf("FindByKeyAndType = %+v", typed)
	}

	rec, err := repo.FindByID(ctx, idType2)
	if err != nil {
		t.Fatalf("FindByID ошибка: %v", err)
	}
	if rec.BlobPath != "a/2.pdf" || rec.Extension != "pdf" || rec.DocTypeID != 2 {
		t.Errorf("FindByID = %+v", rec)
	}

	if _, err := repo.FindByID(ctx, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID(999999) err = %v, ожидалась ErrNotFound", err)
	}
}

func TestUserRepository_Validate(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	u := &model.User{Username: "actinverWS", FullName: "Actinver WS", Active: true,
		AdminGroupID: 3, ClientID: 1, ProfileID: 9, IdentityNumber: 10}
	if err := repo.Create(ctx, u, "s3cret-pass"); err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	got, err := repo.Validate(ctx, "actinverWS", "s3cret-pass")
	if err != nil {
		t.Fatalf("Validate ошибка: %v", err)
	}
	if got.ID != u.ID || got.FullName != "Actinver WS" {
		t.Errorf("Validate = %+v", got)
	}

	if _, err := repo.Validate(ctx, "actinverWS", "wrong"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Validate(неверный пароль) err = %v, ожидалась ErrNotFound", err)
	}
	if _, err := repo.Validate(ctx, "nobody", "s3cret-pass"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Validate(неизвестный) err = %v, ожидалась ErrNotFound", err)
	}
}

func TestAuditRepository_Insert(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewAuditRepository(pool)

	token := "dG9rZW4="
	detail := "Llave vacía"
	err := repo.Insert(ctx, &model.AuditEntry{
		TicketToken: &token,
		Operation:   model.OperationExpedient,
		Succeeded:   false,
		ErrorDetail: &detail,
		RequestID:   "req-1",
		OccurredAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("Insert ошибка: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM log_accesos WHERE id_ticket = $1 AND id_documento IS NULL AND NOT exitoso`, token,
	).Scan(&count); err != nil {
		t.Fatalf("ошибка чтения журнала: %v", err)
	}
	if count != 1 {
		t.Errorf("записей в журнале = %d, ожидалась 1", count)
	}
}
