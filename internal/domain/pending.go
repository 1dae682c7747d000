package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingKind separa itens a comprar de vendas aguardando pagamento
type PendingKind string

const (
	PendingKindPurchase PendingKind = "purchase"
	PendingKindPayment  PendingKind = "payment"
)

func (k PendingKind) Valid() bool {
	return k == PendingKindPurchase || k == PendingKindPayment
}

type PendingItem struct {
	ID          string          `json:"id"`
	Kind        PendingKind     `json:"kind"`
	Client      string          `json:"client"`
	Phone       string          `json:"phone"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
	Done        bool            `json:"done"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type PendingItemRequest struct {
	Kind        PendingKind     `json:"kind"`
	Client      string          `json:"client"`
	Phone       string          `json:"phone"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
	Done        bool            `json:"done"`
}
