// Package expense implements the expense command.
package expense

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

var filename string

// Cmd represents the expense command
var Cmd = &cobra.Command{
	Use:   "expense",
	Short: "Extract and validate one expense receipt",
	Long: `Send an expense receipt (image or PDF) to the vision model and print the
validated record as JSON.

The file name is a categorization hint: "Conta_Energia_Dezembro.pdf" is
classified as Infraestrutura/Energia whatever the model answers. Use
--filename to supply a different hint.

Example:
  gestor expense -i notas/Conta_Energia_Dezembro.pdf`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := Execute(cmd.Context(), root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, filename, os.Stdout); err != nil {
			root.Fatal(err)
		}
	},
}

func init() {
	Cmd.Flags().StringVar(&filename, "filename", "", "File name used as categorization hint (default: input base name)")
}

// Execute processes input and writes the result to output, or to stdout when output is empty.
func Execute(ctx context.Context, c *container.Container, input, output, hint string, stdout io.Writer) error {
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
	if hint == "" {
		hint = doc.Name
	}

	w, closeOut, err := common.OpenOutput(output, stdout)
	if err != nil {
		return err
	}
	rec, procErr := c.GetProcessor().ProcessExpense(ctx, doc, hint)
	werr := common.WriteResult(w, rec.View(), procErr)
	if cerr := closeOut(); cerr != nil && werr == nil {
		werr = cerr
	}
	return werr
}
