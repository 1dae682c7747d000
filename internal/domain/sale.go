package domain

import "github.com/shopspring/decimal"

func init() {
	// Preços e totais são gravados como número JSON, igual aos dados legados
	decimal.MarshalJSONWithoutQuotes = true
}

type TireType string

const (
	TireTypeNew       TireType = "new"
	TireTypeRecap     TireType = "recap"
	TireTypeRecapping TireType = "recapping"
	TireTypeService   TireType = "service"
)

// TireTypes lista os tipos conhecidos na ordem usada nos relatórios de comissão
var TireTypes = []TireType{TireTypeNew, TireTypeRecap, TireTypeRecapping, TireTypeService}

// Desfecho indica como a venda foi concluída: entrega ou retirada em uma das lojas
type Desfecho string

const (
	DesfechoEntrega     Desfecho = "entrega"
	DesfechoPiratininga Desfecho = "piratininga"
	DesfechoBelaVista   Desfecho = "belavista"
)

type Sale struct {
	ID        int             `json:"id"`
	Date      string          `json:"date"`
	Client    string          `json:"client"`
	Phone     string          `json:"phone"`
	Product   string          `json:"product"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	TireType  TireType        `json:"tireType"`
	BaseTrade bool            `json:"baseTrade"`
	Desfecho  Desfecho        `json:"desfecho"`
	Total     decimal.Decimal `json:"total"`
}

// SaleFields são os campos enviados na criação e na edição de uma venda.
// Ponteiros distinguem campo ausente de valor zero.
type SaleFields struct {
	Date      *string          `json:"date"`
	Client    *string          `json:"client"`
	Phone     string           `json:"phone"`
	Product   *string          `json:"product"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Quantity  *float64         `json:"quantity"`
	TireType  *string          `json:"tireType"`
	BaseTrade bool             `json:"baseTrade"`
	Desfecho  string           `json:"desfecho"`
}
