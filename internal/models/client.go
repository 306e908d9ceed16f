// Package models содержит доменные структуры компании-лицензиара:
// клиенты, программные продукты, скидки, договоры и платежи,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// ClientType различает физических лиц и компании.
type ClientType string

const (
	// ClientTypeIndividual — физическое лицо.
	ClientTypeIndividual ClientType = "individual"
	// ClientTypeCompany — компания.
	ClientTypeCompany ClientType = "company"
)

// DeletedSentinel — значение, которым необратимо затираются персональные
// поля клиента при удалении. Исходные данные восстановить невозможно.
const DeletedSentinel = "DELETED"

// IndividualData — данные физического лица. PESEL неизменяем после создания.
type IndividualData struct {
	FirstName string
	LastName  string
	PESEL     string // 11 цифр, уникален
}

// CompanyData — данные компании. Номер KRS неизменяем после создания.
type CompanyData struct {
	CompanyName string
	KRS         string // 10 цифр, уникален
}

// Client — клиент компании. Ровно одно из полей Individual/Company заполнено
// в зависимости от Type; обе разновидности хранятся в одной таблице.
type Client struct {
	ID         int
	Type       ClientType
	Address    string
	Email      string
	Phone      string
	CreatedAt  time.Time
	IsDeleted  bool
	Individual *IndividualData
	Company    *CompanyData
}

// DisplayName возвращает отображаемое имя клиента в зависимости от типа.
func (c *Client) DisplayName() string {
	switch c.Type {
	case ClientTypeIndividual:
		if c.Individual == nil {
			return ""
		}
		return c.Individual.FirstName + " " + c.Individual.LastName
	case ClientTypeCompany:
		if c.Company == nil {
			return ""
		}
		return c.Company.CompanyName
	}
	return ""
}

// DummyIndividualClient используется для приёма данных физического лица
// из JSON-запроса до их валидации.
type DummyIndividualClient struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	PESEL     string `json:"pesel" validate:"required,len=11,numeric"`
	Address   string `json:"address" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,max=20"`
}

// DummyCompanyClient используется для приёма данных компании из JSON-запроса.
type DummyCompanyClient struct {
	CompanyName string `json:"company_name" validate:"required,max=200"`
	KRS         string `json:"krs" validate:"required,len=10,numeric"`
	Address     string `json:"address" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=20"`
}

// DummyUpdateClient — частичное обновление контактных данных клиента.
// Идентификационные номера (PESEL, KRS) не обновляются.
type DummyUpdateClient struct {
	FirstName   string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	CompanyName string `json:"company_name,omitempty" validate:"omitempty,max=200"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=200"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// ClientInfo — представление клиента для ответов API.
type ClientInfo struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
