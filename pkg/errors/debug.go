package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Report flattens an error chain for structured logging. Database failures
// carry their server-side specifics (SQLSTATE, offending constraint and
// table) so an integrity error can be traced from the log line alone.
type Report struct {
	Message string   `json:"message"`
	Code    Code     `json:"code,omitempty"`
	Chain   []string `json:"chain,omitempty"`

	SQLState   string `json:"sql_state,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	DBMessage  string `json:"db_message,omitempty"`
}

// Describe walks err and collects everything worth logging. Both Postgres
// drivers in use (pgx through GORM, lib/pq through goose) are recognized.
func Describe(err error) Report {
	if err == nil {
		return Report{}
	}

	rep := Report{Message: err.Error()}
	if typed := As(err); typed != nil {
		rep.Code = typed.Code()
	}
	for link := err; link != nil; link = errors.Unwrap(link) {
		rep.Chain = append(rep.Chain, fmt.Sprintf("%T: %v", link, link))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		rep.SQLState = pgxErr.Code
		rep.Constraint = pgxErr.ConstraintName
		rep.Table = pgxErr.TableName
		rep.Column = pgxErr.ColumnName
		rep.Detail = pgxErr.Detail
		rep.DBMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		rep.SQLState = string(pqErr.Code)
		rep.Constraint = pqErr.Constraint
		rep.Table = pqErr.Table
		rep.Column = pqErr.Column
		rep.Detail = pqErr.Detail
		rep.DBMessage = pqErr.Message
	}
	return rep
}
