package ledger

import "github.com/vfg2006/tire-sales-api/internal/domain"

// Renumber reatribui os IDs das vendas para 1..N na ordem atual do slice.
//
// ATENÇÃO: o ID de uma venda é posicional, não é uma chave estável. Depois de
// qualquer criação, edição ou remoção no mês, um ID obtido antes pode apontar
// para outra venda. Quem chama deve reler o mês após cada alteração e nunca
// guardar um ID entre duas operações.
func Renumber(sales []domain.Sale) {
	for i := range sales {
		sales[i].ID = i + 1
	}
}
