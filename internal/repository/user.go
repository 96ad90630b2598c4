package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// UserRepository — проверка учётных данных пользователей.
type UserRepository interface {
	// Validate возвращает активного пользователя при верном пароле.
	// Неизвестный пользователь и неверный пароль одинаково дают ErrNotFound.
	Validate(ctx context.Context, username, password string) (*model.User, error)
	// Create добавляет пользователя, храня bcrypt-хэш пароля.
	Create(ctx context.Context, u *model.User, password string) error
}

// compareHash сравнивает пароль с bcrypt-хэшем.
var compareHash = bcrypt.CompareHashAndPassword

// dummyHash — хэш для сравнения при неизвестном пользователе,
// чтобы время ответа не зависело от наличия учётной записи.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("wsimagenes-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt: %v", err))
	}
	return h
})

// userRepo — реализация UserRepository через pgx.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

// Validate сверяет пароль с password_hash.
func (r *userRepo) Validate(ctx context.Context, username, password string) (*model.User, error) {
	var (
		u    model.User
		hash string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id_usuario, username, COALESCE(nombre_completo, ''), COALESCE(email, ''),
			COALESCE(rol, ''), activo, grupo_admin_id, cliente_id, perfil_usuario_id,
			no_identidad, password_hash
		 FROM usuarios
		 WHERE username = $1 AND activo = true`, username,
	).Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email,
		&u.Role, &u.Active, &u.AdminGroupID, &u.ClientID, &u.ProfileID,
		&u.IdentityNumber, &hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = compareHash(dummyHash(), []byte(password))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if err := compareHash([]byte(hash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

// Create вставляет пользователя и заполняет u.ID.
func (r *userRepo) Create(ctx context.Context, u *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO usuarios (username, password_hash, nombre_completo, email, rol, activo,
			grupo_admin_id, cliente_id, perfil_usuario_id, no_identidad)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id_usuario`,
		u.Username, string(hash), u.FullName, u.Email, u.Role, u.Active,
		u.AdminGroupID, u.ClientID, u.ProfileID, u.IdentityNumber,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}
