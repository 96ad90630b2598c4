// ticket_redis.go — альтернативное хранилище билетов в Redis
// (WI_TICKET_STORE=redis). Ключ живёт до истечения билета,
// поэтому истёкшие билеты удаляются самим Redis.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// redisTicket — сериализуемое представление билета.
type redisTicket struct {
	OwnerID       int64     `json:"owner_id"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	OriginAddress string    `json:"origin_address"`
	Active        bool      `json:"active"`
}

// redisTicketRepo — реализация TicketRepository через go-redis.
type redisTicketRepo struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisClient создаёт клиент Redis и проверяет соединение.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisTicketRepository создаёт репозиторий билетов в Redis.
func NewRedisTicketRepository(client *redis.Client) TicketRepository {
	return &redisTicketRepo{
		client: client,
		prefix: "ticket:",
		now:    time.Now,
	}
}

func (r *redisTicketRepo) key(token string) string {
	return r.prefix + token
}

// Create сохраняет билет с TTL до момента истечения.
func (r *redisTicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	ttl := t.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("ошибка создания билета: срок истечения в прошлом")
	}

	data, err := json.Marshal(redisTicket{
		OwnerID:       t.OwnerID,
		IssuedAt:      t.IssuedAt,
		ExpiresAt:     t.ExpiresAt,
		OriginAddress: t.OriginAddress,
		Active:        true,
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации билета: %w", err)
	}

	if err := r.client.Set(ctx, r.key(t.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("ошибка создания билета: %w", err)
	}
	return nil
}

// IsActiveAndUnexpired читает билет и проверяет флаг и срок.
func (r *redisTicketRepo) IsActiveAndUnexpired(ctx context.Context, token string) (bool, error) {
	rec, err := r.get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return rec.Active && rec.ExpiresAt.After(r.now()), nil
}

// Deactivate перезаписывает билет с active=false, сохраняя оставшийся TTL.
func (r *redisTicketRepo) Deactivate(ctx context.Context, token string) error {
	rec, err := r.get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	rec.Active = false
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации билета: %w", err)
	}

	err = r.client.SetArgs(ctx, r.key(token), data, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("ошибка деактивации билета: %w", err)
	}
	return nil
}

func (r *redisTicketRepo) get(ctx context.Context, token string) (*redisTicket, error) {
	val, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения билета: %w", err)
	}

	var rec redisTicket
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("ошибка разбора билета: %w", err)
	}
	return &rec, nil
}

// RedisReadinessChecker — проверка готовности Redis для health endpoint.
type RedisReadinessChecker struct {
	client *redis.Client
}

// NewRedisReadinessChecker создаёт проверку готовности Redis.
func NewRedisReadinessChecker(client *redis.Client) *RedisReadinessChecker {
	return &RedisReadinessChecker{client: client}
}

// CheckReady выполняет PING.
func (c *RedisReadinessChecker) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return "fail", fmt.Sprintf("Redis недоступен: %v", err)
	}
	return "ok", "подключение активно"
}
