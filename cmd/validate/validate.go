// Package validate implements the validate command, which runs saved oracle
// output through the validation pipeline without calling the oracle.
package validate

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gestorbot/gestor-receipts/cmd/common"
	"gestorbot/gestor-receipts/cmd/root"
	"gestorbot/gestor-receipts/internal/container"
	"gestorbot/gestor-receipts/internal/validation"
)

var (
	filename string
	revenue  bool
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate saved model output without calling the model",
	Long: `Run a text file holding raw model output through the validation and
sanitization pipeline and print the resulting record or rejection.

Examples:
  gestor validate -i resposta.txt --filename Conta_Energia.pdf
  gestor validate -i resposta_pix.txt --revenue`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := Execute(root.GetContainer(), root.SharedFlags.Input, filename, revenue, os.Stdout); err != nil {
			root.Fatal(err)
		}
	},
}

func init() {
	Cmd.Flags().StringVar(&filename, "filename", "", "Original document name used as categorization hint")
	Cmd.Flags().BoolVar(&revenue, "revenue", false, "Validate as a revenue comprovante instead of an expense")
}

// Execute validates the oracle output stored in input.
func Execute(c *container.Container, input, hint string, asRevenue bool, stdout io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if input == "" {
		return fmt.Errorf("input file must be specified with -i")
	}
	if err := validation.IsValidPath(input); err != nil {
		return err
	}
	data, err := os.ReadFile(input) // #nosec G304 -- path is selected by the operator
	if err != nil {
		return fmt.Errorf("error reading %s: %w", input, err)
	}

	pipeline := c.GetPipeline()
	if asRevenue {
		rec, err := pipeline.ValidateRevenue(string(data))
		return common.WriteResult(stdout, rec.View(), err)
	}
	rec, err := pipeline.ValidateExpense(string(data), hint)
	return common.WriteResult(stdout, rec.View(), err)
}
