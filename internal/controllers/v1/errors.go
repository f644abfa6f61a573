package v1

import (
	"errors"
	"net/http"

	"github.com/envelopay/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"an ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate HTTP status for an error.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrTransactionAlreadyReconciled) ||
		errors.Is(err, models.ErrTransactionAlreadyLinked) ||
		errors.Is(err, models.ErrTransactionLinked) ||
		errors.Is(err, models.ErrAccountHasTransactions) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

// Income endpoint errors
var errSurplusNotPositive = errors.New("the surplus amount to allocate must be positive")

// Debt endpoint errors
var (
	errNoDebts = errors.New("there are no credit card accounts carrying debt")
)
