package ledger

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"go.uber.org/multierr"
)

// maxQuantity mantém a conversão para int e o total sem estouro
const maxQuantity = math.MaxInt32

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidMonthKey verifica se a chave segue o formato YYYY-MM
func ValidMonthKey(key string) bool {
	return monthKeyPattern.MatchString(key)
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}

// validateSaleFields checa apenas presença dos campos obrigatórios e a quantidade
func validateSaleFields(fields domain.SaleFields) error {
	var violations error

	if isBlank(fields.Date) {
		violations = multierr.Append(violations, errors.New("date é obrigatório"))
	}
	if isBlank(fields.Client) {
		violations = multierr.Append(violations, errors.New("client é obrigatório"))
	}
	if isBlank(fields.Product) {
		violations = multierr.Append(violations, errors.New("product é obrigatório"))
	}
	if fields.UnitPrice == nil {
		violations = multierr.Append(violations, errors.New("unitPrice é obrigatório"))
	}

	switch {
	case fields.Quantity == nil:
		violations = multierr.Append(violations, errors.New("quantity é obrigatório"))
	case *fields.Quantity < 1 || *fields.Quantity != math.Trunc(*fields.Quantity):
		violations = multierr.Append(violations, errors.New("quantity deve ser um inteiro maior ou igual a 1"))
	case *fields.Quantity > maxQuantity:
		violations = multierr.Append(violations, errors.New("quantity acima do limite permitido"))
	}

	if isBlank(fields.TireType) {
		violations = multierr.Append(violations, errors.New("tireType é obrigatório"))
	}

	return violations
}

// buildSale monta a venda a partir de campos já validados, sem ID
func buildSale(fields domain.SaleFields) domain.Sale {
	quantity := int(*fields.Quantity)

	desfecho := domain.Desfecho(strings.TrimSpace(fields.Desfecho))
	if desfecho == "" {
		desfecho = domain.DesfechoEntrega
	}

	return domain.Sale{
		Date:      strings.TrimSpace(*fields.Date),
		Client:    strings.TrimSpace(*fields.Client),
		Phone:     strings.TrimSpace(fields.Phone),
		Product:   strings.TrimSpace(*fields.Product),
		UnitPrice: *fields.UnitPrice,
		Quantity:  quantity,
		TireType:  domain.TireType(strings.TrimSpace(*fields.TireType)),
		BaseTrade: fields.BaseTrade,
		Desfecho:  desfecho,
		Total:     saleTotal(*fields.UnitPrice, quantity),
	}
}

func saleTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func validateCommissionDocument(document domain.CommissionDocument) error {
	var violations error

	if document.New == nil {
		violations = multierr.Append(violations, errors.New("new é obrigatório"))
	}
	if document.Recap == nil {
		violations = multierr.Append(violations, errors.New("recap é obrigatório"))
	}
	if document.Recapping == nil {
		violations = multierr.Append(violations, errors.New("recapping é obrigatório"))
	}

	return violations
}
