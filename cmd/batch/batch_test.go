package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestorbot/gestor-receipts/cmd/common"
	"gestorbot/gestor-receipts/internal/export"
	"gestorbot/gestor-receipts/internal/models"
)

func receiptDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), common.JPEGHeader, 0o600))
	}
	return dir
}

func answer() string {
	return `{"data":"` + time.Now().Format("2006-01-02") + `","estabelecimento":"Loja","valor_total":20,"categoria":"Bebidas","subcategoria":"Refrigerante"}`
}

func TestExecute_StdoutJSON(t *testing.T) {
	c, logger, err := common.NewTestContainer(answer())
	require.NoError(t, err)
	dir := receiptDir(t, "b.jpg", "a.jpg", "Conta_Energia.jpg", "notas.txt")

	var stdout bytes.Buffer
	require.NoError(t, Execute(context.Background(), c, dir, "", models.KindExpense, &stdout))

	var rows []export.Row
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Conta_Energia.jpg", rows[0].File)
	assert.Equal(t, "Energia", rows[0].Subcategory)
	assert.Equal(t, "a.jpg", rows[1].File)
	assert.Equal(t, "Refrigerante", rows[1].Subcategory)
	for _, row := range rows {
		assert.Equal(t, export.StatusOK, row.Status)
	}
	assert.True(t, logger.HasEntry("INFO", "Batch processing completed. 3 processed, 0 failed."))
}

func TestExecute_FileOutput(t *testing.T) {
	c, _, err := common.NewTestContainer(answer())
	require.NoError(t, err)
	dir := receiptDir(t, "a.jpg", "b.jpg")
	output := filepath.Join(t.TempDir(), "lancamentos.csv")

	var stdout bytes.Buffer
	require.NoError(t, Execute(context.Background(), c, dir, output, models.KindExpense, &stdout))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "arquivo,"))
}

func TestExecute_FailuresReported(t *testing.T) {
	c, _, err := common.NewTestContainer(`{"erro":"Imagem ilegível"}`)
	require.NoError(t, err)
	dir := receiptDir(t, "a.jpg")

	var stdout bytes.Buffer
	require.NoError(t, Execute(context.Background(), c, dir, "", models.KindExpense, &stdout))

	var rows []export.Row
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, export.StatusError, rows[0].Status)
	assert.Equal(t, "Imagem ilegível", rows[0].Error)
}

func TestExecute_TruncatesToLimit(t *testing.T) {
	c, logger, err := common.NewTestContainer(answer())
	require.NoError(t, err)

	names := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		names = append(names, string(rune('a'+i))+".jpg")
	}
	dir := receiptDir(t, names...)

	var stdout bytes.Buffer
	require.NoError(t, Execute(context.Background(), c, dir, "", models.KindExpense, &stdout))

	var rows []export.Row
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	assert.Len(t, rows, c.GetBatchRunner().MaxItems())
	assert.True(t, logger.HasEntry("WARN", "Too many documents, processing only the first ones"))
}

func TestExecute_InvalidArguments(t *testing.T) {
	c, _, err := common.NewTestContainer(answer())
	require.NoError(t, err)
	var stdout bytes.Buffer

	assert.EqualError(t, Execute(context.Background(), nil, "dir", "", models.KindExpense, &stdout), "container not initialized")
	assert.EqualError(t, Execute(context.Background(), c, "", "", models.KindExpense, &stdout), "input directory must be specified with -i")
	assert.Error(t, Execute(context.Background(), c, receiptDir(t, "a.jpg"), "out.pdf", models.KindExpense, &stdout))

	empty := t.TempDir()
	assert.ErrorContains(t, Execute(context.Background(), c, empty, "", models.KindExpense, &stdout), "no images or PDFs found")
	assert.Empty(t, stdout.String())
}
