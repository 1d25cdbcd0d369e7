package main

import "collateral-ledger/internal/cli"

// Same entrypoint as cmd/api, so `go run .` serves too.
func main() {
	cli.Execute()
}
