package http

import (
	"errors"
	"net/http"

	domainLedger "collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
)

// Map domain errors → HTTP codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotOwner),
		errors.Is(err, loan.ErrNotAdministrator),
		errors.Is(err, loan.ErrUnauthorizedBorrower),
		errors.Is(err, loan.ErrUnauthorizedTransfer):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrLoanNotFound),
		errors.Is(err, domainLedger.ErrNotBootstrapped):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrLoanDeactive),
		errors.Is(err, loan.ErrLoanNotExpired),
		errors.Is(err, loan.ErrLoanExpired),
		errors.Is(err, loan.ErrTooManyLoans),
		errors.Is(err, loan.ErrNotPaused),
		errors.Is(err, loan.ErrAssetAlreadyCollateralized),
		errors.Is(err, loan.ErrReentrantCall):
		return http.StatusConflict
	case errors.Is(err, loan.ErrInsufficientContractBalance),
		errors.Is(err, loan.ErrInsufficientAmount),
		errors.Is(err, loan.ErrLoanAmountTooHigh),
		errors.Is(err, loan.ErrAmountOverflow),
		errors.Is(err, loan.ErrInvalidOwner):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loan.ErrPaused):
		return http.StatusLocked
	case errors.Is(err, loan.ErrTransferFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.For(c.Request().Context()).WithError(err).
			WithField("path", c.Path()).Error("http: unhandled error")
		return c.JSON(status, ErrorResponse{Error: "internal error"})
	}
	code := loan.Code(err)
	if code == "" && errors.Is(err, domainLedger.ErrNotBootstrapped) {
		code = "NotBootstrapped"
	}
	return c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
