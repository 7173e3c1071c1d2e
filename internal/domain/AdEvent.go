package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AdStatus string

const (
	AdStatusApproved    AdStatus = "APPROVED"
	AdStatusDisapproved AdStatus = "DISAPPROVED"
)

// StatusFromEffective colapsa o effective_status da plataforma em APPROVED/DISAPPROVED.
// Somente DISAPPROVED é reprovado, qualquer outro valor conta como aprovado.
func StatusFromEffective(effectiveStatus string) AdStatus {
	if strings.EqualFold(strings.TrimSpace(effectiveStatus), string(AdStatusDisapproved)) {
		return AdStatusDisapproved
	}
	return AdStatusApproved
}

func (s AdStatus) Valid() bool {
	return s == AdStatusApproved || s == AdStatusDisapproved
}

// RawRow é uma linha como sai do warehouse, antes da montagem do dataset.
type RawRow struct {
	BusinessUnitID   *string          `json:"buid"`
	AdAccountID      string           `json:"ad_account_id"`
	AdID             string           `json:"ad_id"`
	Status           AdStatus         `json:"ad_status"`
	SubStatus        *string          `json:"effective_status"`
	CreatedAt        *Moment          `json:"created_at"`
	StatusChangeAt   *Moment          `json:"status_change_date"`
	ErrorType        *string          `json:"error_type"`
	ErrorDescription *string          `json:"error_description"`
	Spend            *decimal.Decimal `json:"spend,omitempty"`
}

// AdEventBatch é o resultado tipado de uma leitura do warehouse.
type AdEventBatch struct {
	Rows      []RawRow  `json:"rows"`
	HasSpend  bool      `json:"has_spend"`
	FetchedAt time.Time `json:"fetched_at"`
}

// AdEvent é um registro do dataset já normalizado, com o link derivado.
type AdEvent struct {
	BusinessUnitID   *string          `json:"buid"`
	AdAccountID      string           `json:"ad_account_id"`
	AdID             string           `json:"ad_id"`
	Status           AdStatus         `json:"ad_status"`
	SubStatus        *string          `json:"effective_status"`
	CreatedAt        *time.Time       `json:"created_at"`
	StatusChangeAt   *time.Time       `json:"status_change_date"`
	ErrorType        *string          `json:"error_type"`
	ErrorDescription *string          `json:"error_description"`
	Spend            *decimal.Decimal `json:"spend,omitempty"`
	AdLink           string           `json:"ad_link"`
}

// DateField identifica qual coluna de data uma contagem por janela usa.
type DateField string

const (
	DateFieldCreatedAt      DateField = "created_at"
	DateFieldStatusChangeAt DateField = "status_change_date"
)

func (f DateField) Of(event *AdEvent) *time.Time {
	switch f {
	case DateFieldCreatedAt:
		return event.CreatedAt
	case DateFieldStatusChangeAt:
		return event.StatusChangeAt
	default:
		return nil
	}
}

// Table é a forma tabular usada pelos exportadores.
type Table struct {
	Header []string
	Rows   [][]string
}
