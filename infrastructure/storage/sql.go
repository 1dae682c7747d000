package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

const documentsTable = "documents"

const postgresDocumentsDDL = `
CREATE TABLE IF NOT EXISTS documents (
	doc_key    TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const sqliteDocumentsDDL = `
CREATE TABLE IF NOT EXISTS documents (
	doc_key    TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLStore guarda cada documento como uma linha da tabela documents
type SQLStore struct {
	db          *sql.DB
	placeholder squirrel.PlaceholderFormat
	ddl         string
}

func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:          db,
		placeholder: squirrel.Dollar,
		ddl:         postgresDocumentsDDL,
	}
}

func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:          db,
		placeholder: squirrel.Question,
		ddl:         sqliteDocumentsDDL,
	}
}

// Migrate cria a tabela de documentos caso ainda não exista
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.ddl); err != nil {
		return errors.Wrap(err, "erro ao criar tabela de documentos")
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	queryBuilder := squirrel.
		Select("body").
		From(documentsTable).
		Where(squirrel.Eq{"doc_key": key}).
		PlaceholderFormat(s.placeholder)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	var body []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler documento %s", key)
	}

	return body, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, body []byte) error {
	queryBuilder := squirrel.
		Insert(documentsTable).
		Columns("doc_key", "body", "updated_at").
		Values(key, string(body), time.Now().UTC()).
		Suffix("ON CONFLICT (doc_key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(s.placeholder)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "erro ao gravar documento %s", key)
	}

	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
