// Package batch handles batch processing of receipt directories
package batch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gestorbot/gestor-receipts/cmd/root"
	"gestorbot/gestor-receipts/internal/batch"
	"gestorbot/gestor-receipts/internal/container"
	"gestorbot/gestor-receipts/internal/export"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/validation"
)

var revenue bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every receipt in a directory",
	Long: `Process the images and PDFs of an input directory one at a time, with a
pause between model calls, and write one row per document.

Failed documents do not stop the batch; they are reported with their
rejection message. The output format follows the output file extension
(.csv, .xlsx or .json). Without -o the rows are printed as JSON.

Example:
  gestor batch -i notas/ -o lancamentos.xlsx`,
	Run: func(cmd *cobra.Command, args []string) {
		kind := models.KindExpense
		if revenue {
			kind = models.KindRevenue
		}
		if err := Execute(cmd.Context(), root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, kind, os.Stdout); err != nil {
			root.Fatal(err)
		}
	},
}

func init() {
	Cmd.Flags().BoolVar(&revenue, "revenue", false, "Treat documents as revenue comprovantes")
}

// Execute runs the batch over inputDir and writes the results.
func Execute(ctx context.Context, c *container.Container, inputDir, output, kind string, stdout io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if inputDir == "" {
		return fmt.Errorf("input directory must be specified with -i")
	}
	if err := validation.IsValidPath(inputDir); err != nil {
		return err
	}
	if output != "" {
		if _, err := validation.OutputFormatFromPath(output); err != nil {
			return err
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := c.GetLogger()
	items, err := batch.DirectoryItems(inputDir, kind, c.GetConfig().MaxDocumentBytes())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no images or PDFs found in %s", inputDir)
	}

	runner := c.GetBatchRunner()
	if len(items) > runner.MaxItems() {
		logger.Warn("Too many documents, processing only the first ones",
			logging.F(logging.FieldCount, len(items)),
			logging.F("limit", runner.MaxItems()))
		items = items[:runner.MaxItems()]
	}

	summary, runErr := runner.Run(ctx, items)
	if summary == nil {
		return runErr
	}

	exporter := c.GetExporter()
	if output == "" {
		err = exporter.WriteJSON(stdout, export.Rows(summary))
	} else {
		err = exporter.WriteFile(output, summary)
	}
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Batch processing completed. %d processed, %d failed.", summary.Processed, summary.Failed))
	return runErr
}
