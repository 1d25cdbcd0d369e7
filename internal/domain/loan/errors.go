package loan

import "errors"

// Error is a ledger precondition failure. Code is stable and safe to branch on.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(code, msg string) *Error { return &Error{Code: code, Message: msg} }

var (
	ErrNotOwner                    = newError("NotOwner", "caller does not own the asset")
	ErrNotAdministrator            = newError("NotAdministrator", "caller is not the administrator")
	ErrTooManyLoans                = newError("TooManyLoans", "wallet reached its loan limit")
	ErrInsufficientContractBalance = newError("InsufficientContractBalance", "ledger balance too low")
	ErrInsufficientAmount          = newError("InsufficientAmount", "payment below repayment amount")
	ErrUnauthorizedTransfer        = newError("UnauthorizedTransfer", "ledger is not approved to move the asset")
	ErrLoanAmountTooHigh           = newError("LoanAmountTooHigh", "principal exceeds loan-to-price cap")
	ErrLoanDeactive                = newError("LoanDeactive", "loan is not active")
	ErrLoanNotExpired              = newError("LoanNotExpired", "repayment window has not elapsed")
	ErrLoanExpired                 = newError("LoanExpired", "repayment window has elapsed")
	ErrUnauthorizedBorrower        = newError("UnauthorizedBorrower", "caller is not the borrower")
	ErrTransferFailed              = newError("TransferFailed", "value transfer failed")
	ErrPaused                      = newError("Paused", "ledger is paused")
	ErrNotPaused                   = newError("NotPaused", "ledger is not paused")
	ErrReentrantCall               = newError("ReentrantCall", "reentrant call rejected")
	ErrLoanNotFound                = newError("LoanNotFound", "loan not found")
	ErrAssetAlreadyCollateralized  = newError("AssetAlreadyCollateralized", "asset already backs an active loan")
	ErrInvalidOwner                = newError("InvalidOwner", "administrator cannot be the zero identity")
	ErrAmountOverflow              = newError("AmountOverflow", "amount overflows")
)

// Code extracts the machine-readable code of a ledger error, or "" for anything else.
func Code(err error) string {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
