// Package revenue implements the revenue command.
package revenue

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gestorbot/gestor-receipts/cmd/common"
	"gestorbot/gestor-receipts/cmd/root"
	"gestorbot/gestor-receipts/internal/container"
)

// Cmd represents the revenue command
var Cmd = &cobra.Command{
	Use:   "revenue",
	Short: "Extract and validate one revenue comprovante",
	Long: `Send a revenue comprovante (PIX receipt, card slip, transfer) to the
vision model and print the validated record as JSON.

Example:
  gestor revenue -i comprovantes/pix_maria.png`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := Execute(cmd.Context(), root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, os.Stdout); err != nil {
			root.Fatal(err)
		}
	},
}

// Execute processes input and writes the result to output, or to stdout when output is empty.
func Execute(ctx context.Context, c *container.Container, input, output string, stdout io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if input == "" {
		return fmt.Errorf("input file must be specified with -i")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := common.ReadDocument(input, c.GetConfig().MaxDocumentBytes())
	if err != nil {
		return err
	}

	w, closeOut, err := common.OpenOutput(output, stdout)
	if err != nil {
		return err
	}
	rec, procErr := c.GetProcessor().ProcessRevenue(ctx, doc)
	werr := common.WriteResult(w, rec.View(), procErr)
	if cerr := closeOut(); cerr != nil && werr == nil {
		werr = cerr
	}
	return werr
}
