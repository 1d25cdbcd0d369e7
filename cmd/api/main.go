package main

import "collateral-ledger/internal/cli"

func main() {
	cli.Execute()
}
