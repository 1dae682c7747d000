package domain

// MonthBucket guarda as vendas de um mês (chave YYYY-MM) na ordem de inserção
type MonthBucket struct {
	Sales []Sale `json:"sales"`
}

// Ledger é a raiz com todas as vendas mensais, o contador legado e a tabela de comissões
type Ledger struct {
	NextID      int                     `json:"nextId"`
	Months      map[string]*MonthBucket `json:"months"`
	Commissions CommissionTable         `json:"commissions"`
}

// Clone devolve uma cópia profunda do ledger
func (l *Ledger) Clone() Ledger {
	clone := Ledger{
		NextID:      l.NextID,
		Months:      make(map[string]*MonthBucket, len(l.Months)),
		Commissions: l.Commissions,
	}

	for key, bucket := range l.Months {
		sales := make([]Sale, len(bucket.Sales))
		copy(sales, bucket.Sales)
		clone.Months[key] = &MonthBucket{Sales: sales}
	}

	return clone
}

// LedgerDocument é o formato lido do armazenamento. Aceita os formatos legados:
// lista plana de vendas sem "months", nextId por mês e tabela de comissões incompleta.
type LedgerDocument struct {
	NextID      *int                            `json:"nextId,omitempty"`
	Months      map[string]*MonthBucketDocument `json:"months,omitempty"`
	Commissions *CommissionDocument             `json:"commissions,omitempty"`
	Sales       []Sale                          `json:"sales,omitempty"`
}

type MonthBucketDocument struct {
	Sales  []Sale `json:"sales"`
	NextID *int   `json:"nextId,omitempty"`
}
