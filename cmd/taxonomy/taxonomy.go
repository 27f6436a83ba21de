// Package taxonomy implements the taxonomy command.
package taxonomy

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gestorbot/gestor-receipts/cmd/root"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/store"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// Options selects what the command does. Without Check or Init it prints the
// loaded taxonomy.
type Options struct {
	Check     string
	Init      string
	Overwrite bool
}

var opts Options

// Cmd represents the taxonomy command
var Cmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Show, check or initialize the expense taxonomy",
	Long: `Print the categories and subcategories in use, check a taxonomy override
file, or write the built-in taxonomy to a file for customization.

Examples:
  gestor taxonomy
  gestor taxonomy --init taxonomy.yaml
  gestor taxonomy --check taxonomy.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		c := root.GetContainer()
		if c == nil {
			root.Fatal(fmt.Errorf("container not initialized"))
		}
		if err := Execute(c.GetTaxonomy(), c.GetTaxonomySource(), opts, c.GetLogger(), os.Stdout); err != nil {
			root.Fatal(err)
		}
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.Check, "check", "", "Validate a taxonomy file and exit")
	Cmd.Flags().StringVar(&opts.Init, "init", "", "Write the built-in taxonomy to this file")
	Cmd.Flags().BoolVar(&opts.Overwrite, "force", false, "Overwrite the --init file if it exists")
}

type categoryView struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories"`
}

type taxonomyView struct {
	Source       string         `yaml:"source"`
	Categories   []categoryView `yaml:"categories"`
	PaymentTypes []string       `yaml:"payment_types"`
}

// Execute runs the command against the loaded taxonomy.
func Execute(tax *taxonomy.Taxonomy, source string, o Options, logger logging.Logger, stdout io.Writer) error {
	switch {
	case o.Init != "":
		s := store.NewTaxonomyStore(o.Init, logger)
		if err := s.WriteDefault(o.Init, o.Overwrite); err != nil {
			return err
		}
		_, err := fmt.Fprintf(stdout, "Taxonomia padrão gravada em %s\n", o.Init)
		return err

	case o.Check != "":
		checked, path, err := store.NewTaxonomyStore(o.Check, logger).Load()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%s: %d categorias, %d regras de arquivo, %d sinônimos\n",
			path, len(checked.Categories()), len(checked.FilenameRules()), len(checked.LabelRules()))
		return err
	}

	view := taxonomyView{Source: source}
	for _, c := range tax.Ordered() {
		view.Categories = append(view.Categories, categoryView(c))
	}
	for _, pt := range models.PaymentTypes() {
		view.PaymentTypes = append(view.PaymentTypes, string(pt))
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("error encoding taxonomy: %w", err)
	}
	return enc.Close()
}
