package http

import (
	"net/http"

	"collateral-ledger/internal/usecase/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the administrator-only operations. Each one answers
// with the ledger summary after the change.
type AdminHandler struct{ uc *ledger.Usecase }

func NewAdminHandler(uc *ledger.Usecase) *AdminHandler { return &AdminHandler{uc: uc} }

type amountReq struct {
	Amount uint64 `json:"amount"`
}

type ownerReq struct {
	NewOwner string `json:"new_owner" validate:"required,nonzeroaddr"`
}

func (h *AdminHandler) Deposit(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req valueReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return h.respond(c, h.uc.DepositFunds(c.Request().Context(), caller, req.Value))
}

func (h *AdminHandler) Withdraw(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req amountReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return h.respond(c, h.uc.WithdrawFunds(c.Request().Context(), caller, req.Amount))
}

func (h *AdminHandler) Pause(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.respond(c, h.uc.Pause(c.Request().Context(), caller))
}

func (h *AdminHandler) Unpause(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.respond(c, h.uc.Unpause(c.Request().Context(), caller))
}

func (h *AdminHandler) TransferOwnership(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req ownerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return h.respond(c, h.uc.TransferOwnership(c.Request().Context(), caller, common.HexToAddress(req.NewOwner)))
}

func (h *AdminHandler) respond(c echo.Context, opErr error) error {
	if opErr != nil {
		return writeError(c, opErr)
	}
	dto, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
