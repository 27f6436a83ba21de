// Package serve implements the serve command.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gestorbot/gestor-receipts/cmd/root"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload API",
	Long: `Start the HTTP API used by the upload form:

  POST /api/upload-nota          one expense receipt
  POST /api/upload-notas-massa   up to 10 expense receipts
  POST /api/upload-comprovante   one revenue comprovante
  GET  /api/taxonomia            categories and subcategories

The server stops gracefully on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := root.GetContainer()
		if c == nil {
			root.Fatal(fmt.Errorf("container not initialized"))
		}

		addr := address
		if addr == "" {
			addr = c.GetConfig().Server.Address
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := c.NewServer().Run(ctx, addr); err != nil {
			root.Fatal(err)
		}
	},
}

func init() {
	Cmd.Flags().StringVar(&address, "address", "", "Listen address (default from server.address)")
}
