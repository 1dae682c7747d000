package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// CommissionSummary agrupa as vendas do mês por tipo de pneu e aplica a tabela de comissões.
// Os quatro tipos conhecidos sempre aparecem; tipos desconhecidos entram no fim com taxa zero.
func (s *Service) CommissionSummary(ctx context.Context, month string) domain.CommissionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sales []domain.Sale
	if bucket, ok := s.ledger.Months[month]; ok {
		sales = bucket.Sales
	}

	return summarize(month, sales, s.ledger.Commissions)
}

func summarize(month string, sales []domain.Sale, table domain.CommissionTable) domain.CommissionSummary {
	lines := make(map[domain.TireType]*domain.CommissionLine, len(domain.TireTypes))
	for _, tireType := range domain.TireTypes {
		lines[tireType] = &domain.CommissionLine{TireType: tireType, Rate: table.Rate(tireType)}
	}

	unknown := make([]domain.TireType, 0)
	for _, sale := range sales {
		line, ok := lines[sale.TireType]
		if !ok {
			line = &domain.CommissionLine{TireType: sale.TireType}
			lines[sale.TireType] = line
			unknown = append(unknown, sale.TireType)
		}

		line.Sales++
		line.Units += sale.Quantity
		line.Revenue = line.Revenue.Add(sale.Total)
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })

	summary := domain.CommissionSummary{
		Month: month,
		Lines: make([]domain.CommissionLine, 0, len(lines)),
	}

	for _, tireType := range append(append([]domain.TireType{}, domain.TireTypes...), unknown...) {
		line := lines[tireType]
		line.Commission = line.Revenue.
			Mul(decimal.NewFromFloat(line.Rate)).
			Div(hundred).
			Round(2)

		summary.Revenue = summary.Revenue.Add(line.Revenue)
		summary.Commission = summary.Commission.Add(line.Commission)
		summary.Lines = append(summary.Lines, *line)
	}

	return summary
}
