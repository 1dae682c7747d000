// Package storage persiste documentos JSON opacos identificados por chave.
// O arquivo local e os bancos de documentos implementam o mesmo contrato e
// são intercambiáveis do ponto de vista dos repositórios.
package storage

import (
	"context"
	"errors"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentStore interface {
	// Get retorna o corpo gravado para a chave ou ErrDocumentNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Put substitui o documento inteiro
	Put(ctx context.Context, key string, body []byte) error
	Close() error
}
