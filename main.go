package main

import (
	"os"

	"gestorbot/gestor-receipts/cmd/batch"
	"gestorbot/gestor-receipts/cmd/expense"
	"gestorbot/gestor-receipts/cmd/revenue"
	"gestorbot/gestor-receipts/cmd/root"
	"gestorbot/gestor-receipts/cmd/serve"
	"gestorbot/gestor-receipts/cmd/taxonomy"
	"gestorbot/gestor-receipts/cmd/validate"
	"gestorbot/gestor-receipts/internal/config"
)

func init() {
	// 1. Load .env before viper reads the environment. Errors are ignored
	// here: logging is not configured yet and the variables are optional.
	_, _ = config.LoadEnv()

	// 2. Initialize root command
	root.Init()

	// 3. Add all subcommands
	root.Cmd.AddCommand(expense.Cmd)
	root.Cmd.AddCommand(revenue.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(taxonomy.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
