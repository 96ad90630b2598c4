package service

import (
	"errors"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/searchkey"
)

// Ошибки бизнес-логики. Проверяются через errors.Is.
var (
	// ErrInvalidKey — ключ не разбирается ни одной из кодировок.
	ErrInvalidKey = searchkey.ErrInvalidKey
	// ErrEmptyKey — ключ поиска не передан или пуст.
	ErrEmptyKey = errors.New("ключ поиска не содержит значения")
	// ErrTicketExpired — билет не подтверждён хранилищем и сам сообщает об истечении.
	ErrTicketExpired = errors.New("срок действия билета истёк")
	// ErrTicketInvalid — билет отсутствует, неизвестен или повреждён.
	ErrTicketInvalid = errors.New("билет недействителен или повреждён")
	// ErrSourceUnavailable — исторический источник не ответил.
	ErrSourceUnavailable = errors.New("источник документов недоступен")
	// ErrNotFound — документы не найдены.
	ErrNotFound = errors.New("документ не найден")
	// ErrInvalidCredentials — неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	// ErrBlobNotFound — запись есть, но файл отсутствует или пуст.
	ErrBlobNotFound = errors.New("файл документа не найден")
)

// BlobMissingError — файл документа не найден в хранилище.
// Path — относительный путь из записи, отдаётся клиенту как описание.
type BlobMissingError struct {
	Path string
}

func (e *BlobMissingError) Error() string {
	return ErrBlobNotFound.Error() + ": " + e.Path
}

func (e *BlobMissingError) Unwrap() error {
	return ErrBlobNotFound
}
