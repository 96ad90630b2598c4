package model

// User — учётная запись из таблицы usuarios.
type User struct {
	ID             int64
	Username       string
	FullName       string
	Email          string
	Role           string
	Active         bool
	AdminGroupID   int
	ClientID       int
	ProfileID      int
	IdentityNumber int
}
