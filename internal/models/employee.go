package models

import "time"

// Employee — сотрудник компании, пользующийся back-office API.
type Employee struct {
	UID          string // Уникальный идентификатор сотрудника
	Email        string
	Username     string // Имя пользователя (уникальное)
	PasswordHash string
	Role         string // admin или user
	CreatedAt    time.Time
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
