package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: fmt.Errorf("%s %w", entity, ErrAlreadyExists)}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: fmt.Errorf("%s %w", entity, ErrNotFound)}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// NewDatabaseError classifies a storage failure. Unique and foreign key
// violations are recognised both through gorm's translated errors and by
// the raw postgres and sqlite messages, since TranslateError is dialect
// dependent.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	apiErr := &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    fmt.Sprintf("Failed to %s %s", operation, entity),
		Cause:      cause,
	}
	if cause == nil {
		return apiErr
	}

	msg := cause.Error()
	switch {
	case errors.Is(cause, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "UNIQUE constraint failed"):
		apiErr.StatusCode = http.StatusConflict
		apiErr.err = fmt.Errorf("%s %w", entity, ErrAlreadyExists)
	case errors.Is(cause, gorm.ErrForeignKeyViolated),
		strings.Contains(msg, "foreign key constraint"),
		strings.Contains(msg, "FOREIGN KEY constraint failed"):
		apiErr.StatusCode = http.StatusBadRequest
		apiErr.err = fmt.Errorf("%w in %s", ErrInvalidReference, entity)
		apiErr.Details = "The referenced user does not exist"
	case errors.Is(cause, gorm.ErrRecordNotFound):
		apiErr.StatusCode = http.StatusNotFound
		apiErr.err = fmt.Errorf("%s %w", entity, ErrNotFound)
	case strings.Contains(msg, "connection"):
		apiErr.StatusCode = http.StatusServiceUnavailable
		apiErr.err = ErrDatabaseConnection
		apiErr.Details = "Unable to connect to database"
	}
	return apiErr
}
