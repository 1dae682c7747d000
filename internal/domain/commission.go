package domain

import "github.com/shopspring/decimal"

// CommissionTable guarda o percentual de comissão por tipo de pneu
type CommissionTable struct {
	New       float64 `json:"new"`
	Recap     float64 `json:"recap"`
	Recapping float64 `json:"recapping"`
	Service   float64 `json:"service"`
}

func DefaultCommissionTable() CommissionTable {
	return CommissionTable{
		New:       5,
		Recap:     8,
		Recapping: 10,
		Service:   0,
	}
}

// Rate retorna o percentual do tipo informado, zero para tipos desconhecidos
func (c CommissionTable) Rate(tireType TireType) float64 {
	switch tireType {
	case TireTypeNew:
		return c.New
	case TireTypeRecap:
		return c.Recap
	case TireTypeRecapping:
		return c.Recapping
	case TireTypeService:
		return c.Service
	default:
		return 0
	}
}

// CommissionDocument é a tabela como chega do cliente ou do armazenamento, com chaves opcionais
type CommissionDocument struct {
	New       *float64 `json:"new,omitempty"`
	Recap     *float64 `json:"recap,omitempty"`
	Recapping *float64 `json:"recapping,omitempty"`
	Service   *float64 `json:"service,omitempty"`
}

type CommissionLine struct {
	TireType   TireType        `json:"tireType"`
	Sales      int             `json:"sales"`
	Units      int             `json:"units"`
	Revenue    decimal.Decimal `json:"revenue"`
	Rate       float64         `json:"rate"`
	Commission decimal.Decimal `json:"commission"`
}

type CommissionSummary struct {
	Month      string           `json:"month"`
	Lines      []CommissionLine `json:"lines"`
	Revenue    decimal.Decimal  `json:"revenue"`
	Commission decimal.Decimal  `json:"commission"`
}
