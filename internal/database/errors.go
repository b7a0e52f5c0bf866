package database

import (
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassTransient:
		return "transient"
	case ErrorClassDeadlock:
		return "deadlock"
	case ErrorClassSerialization:
		return "serialization"
	default:
		return "permanent"
	}
}

// ClassifyError maps a driver error onto a retry class. Anything not
// recognised is permanent.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	if errors.Is(err, driver.ErrBadConn) {
		return ErrorClassTransient
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ErrorClassPermanent
	}

	switch pqErr.Code {
	case "40001":
		return ErrorClassSerialization
	case "40P01":
		return ErrorClassDeadlock
	case "55P03", "57P03":
		return ErrorClassTransient
	}

	// Class 08: connection exceptions.
	if strings.HasPrefix(string(pqErr.Code), "08") {
		return ErrorClassTransient
	}
	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	return ClassifyError(err) != ErrorClassPermanent
}
