package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// DBExecutor - общий интерфейс *sql.DB и *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// jsonArg сериализует значение для JSONB колонки
func jsonArg(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal jsonb: %w", err)
	}
	return string(data), nil
}

// stringsArg сериализует срез строк, nil превращается в пустой массив
func stringsArg(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	return jsonArg(values)
}

func decodeStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode jsonb array: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
