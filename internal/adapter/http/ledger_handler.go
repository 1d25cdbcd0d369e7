package http

import (
	"net/http"
	"strconv"

	"collateral-ledger/internal/usecase/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type createLoanReq struct {
	Collection string `json:"collection" validate:"required,address"`
	AssetID    uint64 `json:"asset_id"`
	Principal  uint64 `json:"principal"`
}

type valueReq struct {
	Value uint64 `json:"value"`
}

func (h *LedgerHandler) CreateLoan(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateLoan(c.Request().Context(), ledger.CreateLoanInput{
		Caller:     caller,
		Collection: common.HexToAddress(req.Collection),
		AssetID:    req.AssetID,
		Principal:  req.Principal,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) RepayLoan(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	loanID, ok := uintParam(c, "loan_id")
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	var req valueReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RepayLoan(c.Request().Context(), ledger.RepayLoanInput{
		Caller: caller,
		LoanID: loanID,
		Value:  req.Value,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) ClaimNFT(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	loanID, ok := uintParam(c, "loan_id")
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	dto, err := h.uc.ClaimNFT(c.Request().Context(), caller, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Receive accepts value from any caller.
func (h *LedgerHandler) Receive(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req valueReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := h.uc.Receive(c.Request().Context(), caller, req.Value); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"received": req.Value})
}

func (h *LedgerHandler) GetLoan(c echo.Context) error {
	loanID, ok := uintParam(c, "loan_id")
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	dto, err := h.uc.GetLoan(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) LoanEvents(c echo.Context) error {
	loanID, ok := uintParam(c, "loan_id")
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	events, err := h.uc.Events(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *LedgerHandler) Summary(c echo.Context) error {
	dto, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) RepaymentAmount(c echo.Context) error {
	principal, err := strconv.ParseUint(c.QueryParam("principal"), 10, 64)
	if err != nil {
		return badRequest(c, "principal must be an unsigned integer")
	}
	amount, err := h.uc.RepaymentAmount(c.Request().Context(), principal)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"principal":        principal,
		"repayment_amount": amount,
	})
}

func (h *LedgerHandler) Custody(c echo.Context) error {
	raw := c.Param("collection")
	if !common.IsHexAddress(raw) {
		return badRequest(c, "invalid collection path param")
	}
	assetID, ok := uintParam(c, "asset_id")
	if !ok {
		return badRequest(c, "invalid asset_id path param")
	}
	collection := common.HexToAddress(raw)
	held, err := h.uc.IsCollateralized(c.Request().Context(), collection, assetID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"collection": collection,
		"asset_id":   assetID,
		"held":       held,
	})
}

func (h *LedgerHandler) WalletLoans(c echo.Context) error {
	raw := c.Param("address")
	if !common.IsHexAddress(raw) {
		return badRequest(c, "invalid address path param")
	}
	w := common.HexToAddress(raw)
	ctx := c.Request().Context()
	count, err := h.uc.LoanCount(ctx, w)
	if err != nil {
		return writeError(c, err)
	}
	loans, err := h.uc.LoansOf(ctx, w)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"wallet":     w,
		"loan_count": count,
		"loans":      loans,
	})
}
