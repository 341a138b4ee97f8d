package sqlite

import (
	"database/sql"
	"time"

	"github.com/creamcroissant/shopadmin/internal/repository"
)

func nowUnix() int64 {
	return time.Now().Unix()
}

func nullableText(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullableStatus(s repository.OrderStatus) sql.NullString {
	return nullableText(string(s))
}

func statusFromNull(v sql.NullString) repository.OrderStatus {
	if !v.Valid {
		return repository.StatusUnset
	}
	return repository.OrderStatus(v.String)
}

type rowScanner interface {
	Scan(dest ...any) error
}
