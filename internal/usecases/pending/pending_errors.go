package pending

import (
	"errors"
	"fmt"
)

// Erros específicos das pendências
var (
	ErrValidation  = errors.New("dados da pendência inválidos")
	ErrNotFound    = errors.New("pendência não encontrada")
	ErrPersistence = errors.New("erro ao gravar pendências")
	ErrGenerateID  = errors.New("erro ao gerar identificador")
)

// PendingError é um erro com contexto adicional para pendências
type PendingError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	ItemID  string // ID da pendência (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *PendingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *PendingError) Unwrap() error {
	return e.Err
}

func NewPendingError(err error, code string, itemID string, details string) *PendingError {
	return &PendingError{
		Err:     err,
		Code:    code,
		ItemID:  itemID,
		Details: details,
	}
}
