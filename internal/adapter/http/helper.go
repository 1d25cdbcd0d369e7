package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

// CallerHeader carries the identity asserted by the upstream gateway.
const CallerHeader = "Ax-Caller"

var errBadCaller = errors.New("missing or invalid " + CallerHeader)

func callerFrom(c echo.Context) (common.Address, error) {
	raw := strings.TrimSpace(c.Request().Header.Get(CallerHeader))
	if !common.IsHexAddress(raw) {
		return common.Address{}, errBadCaller
	}
	return common.HexToAddress(raw), nil
}

func uintParam(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// bindAndValidate writes the 400/422 response itself and reports whether the handler may go on.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
