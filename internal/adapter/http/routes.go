package http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts every endpoint. mutating wraps the POST routes only.
func RegisterRoutes(e *echo.Echo, h *Handler, lh *LedgerHandler, ah *AdminHandler, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	e.GET("/ledger", lh.Summary)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.GET("/loans/:loan_id/events", lh.LoanEvents)
	e.GET("/repayment-amount", lh.RepaymentAmount)
	e.GET("/custody/:collection/:asset_id", lh.Custody)
	e.GET("/wallets/:address/loans", lh.WalletLoans)

	e.POST("/loans", lh.CreateLoan, mutating...)
	e.POST("/loans/:loan_id/repay", lh.RepayLoan, mutating...)
	e.POST("/loans/:loan_id/claim", lh.ClaimNFT, mutating...)
	e.POST("/receive", lh.Receive, mutating...)

	e.POST("/admin/deposit", ah.Deposit, mutating...)
	e.POST("/admin/withdraw", ah.Withdraw, mutating...)
	e.POST("/admin/pause", ah.Pause, mutating...)
	e.POST("/admin/unpause", ah.Unpause, mutating...)
	e.POST("/admin/owner", ah.TransferOwnership, mutating...)
}
