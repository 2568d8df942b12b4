package relationaldb

import (
	"errors"
	"fmt"
)

var ErrDatabaseClosed = errors.New("relational database is closed")

// QueryError wraps a failed query with the operation that ran it.
type QueryError struct {
	Operation string
	Message   string
	Err       error
}

func NewQueryError(operation, message string, err error) *QueryError {
	return &QueryError{Operation: operation, Message: message, Err: err}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
