package ledger

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Erros específicos do ledger de vendas
var (
	// Erros de validação
	ErrValidation    = errors.New("dados inválidos")
	ErrInvalidFormat = errors.New("formato de mês inválido, use YYYY-MM")

	// Erros de consulta
	ErrNotFound      = errors.New("registro não encontrado")
	ErrAlreadyExists = errors.New("mês já existe")

	// Erros de armazenamento
	ErrPersistence = errors.New("erro ao gravar o ledger")
)

// LedgerError é um erro com contexto adicional para operações do ledger
type LedgerError struct {
	Err        error    // Erro base
	Code       string   // Código de erro para API
	Month      string   // Mês envolvido (quando aplicável)
	SaleID     int      // ID da venda envolvida (quando aplicável)
	Details    string   // Detalhes adicionais
	Violations []string // Campos rejeitados na validação
}

// Error implementa a interface error
func (e *LedgerError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s", e.Err.Error(), strings.Join(e.Violations, "; "))
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError cria um novo LedgerError
func NewLedgerError(err error, code string, details string) *LedgerError {
	return &LedgerError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewSaleError cria um LedgerError referente a uma venda de um mês
func NewSaleError(err error, code string, month string, saleID int, details string) *LedgerError {
	return &LedgerError{
		Err:     err,
		Code:    code,
		Month:   month,
		SaleID:  saleID,
		Details: details,
	}
}

// NewValidationError converte as violações acumuladas em um único LedgerError
func NewValidationError(code string, violations error) *LedgerError {
	messages := make([]string, 0)
	for _, violation := range multierr.Errors(violations) {
		messages = append(messages, violation.Error())
	}

	return &LedgerError{
		Err:        ErrValidation,
		Code:       code,
		Violations: messages,
	}
}
