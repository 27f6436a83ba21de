package common

import (
	"gestorbot/gestor-receipts/internal/config"
	"gestorbot/gestor-receipts/internal/container"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/oracle"
	"gestorbot/gestor-receipts/internal/store"
)

// JPEGHeader is the smallest byte sequence detected as image/jpeg.
var JPEGHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

// NewTestContainer wires a container with the embedded taxonomy, a mock
// logger and an oracle that always answers text. Command tests use it.
func NewTestContainer(text string) (*container.Container, *logging.MockLogger, error) {
	cfg := config.Default()
	cfg.AI.APIKey = ""
	cfg.Upload.BatchDelay = 0
	cfg.Server.Mode = "test"

	logger := logging.NewMockLogger()
	c, err := container.NewContainer(cfg,
		container.WithLogger(logger),
		container.WithTaxonomySource(&store.MockTaxonomyStore{}),
		container.WithOracle(oracle.StaticOracle{Text: text}))
	return c, logger, err
}
