package adapters

import (
	"database/sql"
)

// stdRows wraps sql.Rows, which both the sql.DB and the sqlx.DB adapter return.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (s stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}
