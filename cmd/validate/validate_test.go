package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestorbot/gestor-receipts/cmd/common"
	"gestorbot/gestor-receipts/internal/receipterror"
)

func writeText(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resposta.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestExecute(t *testing.T) {
	c, _, err := common.NewTestContainer("")
	require.NoError(t, err)
	today := time.Now().Format("2006-01-02")

	tests := []struct {
		name      string
		text      string
		hint      string
		revenue   bool
		wantErr   error
		wantInOut string
	}{
		{
			name:      "expense in prose",
			text:      "Segue o resultado:\n```json\n{\"data\":\"" + today + "\",\"valor_total\":\"R$ 45,50\",\"categoria\":\"Bebidas\",\"subcategoria\":\"Cervejas\"}\n```",
			wantInOut: `"subcategoria": "Cervejas"`,
		},
		{
			name:      "file name hint",
			text:      `{"data":"` + today + `","valor_total":389.90,"categoria":"Outros"}`,
			hint:      "Conta_Energia_Dezembro.pdf",
			wantInOut: `"subcategoria": "Energia"`,
		},
		{
			name:      "revenue",
			text:      `{"data":"` + today + `","origem":"Loja","valor":100,"tipo_pagamento":"cartao de credito"}`,
			revenue:   true,
			wantInOut: `"tipo_pagamento": "Cartão"`,
		},
		{
			name:      "unparseable",
			text:      "sem json aqui",
			wantErr:   receipterror.ErrUnparseable,
			wantInOut: receipterror.MsgUnparseable,
		},
		{
			name:      "revenue missing amount",
			text:      `{"data":"` + today + `","origem":"Loja"}`,
			revenue:   true,
			wantErr:   receipterror.ErrIncomplete,
			wantInOut: receipterror.MsgIncomplete,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := Execute(c, writeText(t, tt.text), tt.hint, tt.revenue, &stdout)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, stdout.String(), tt.wantInOut)
		})
	}
}

func TestExecute_InvalidArguments(t *testing.T) {
	c, _, err := common.NewTestContainer("")
	require.NoError(t, err)
	var stdout bytes.Buffer

	assert.EqualError(t, Execute(nil, "x.txt", "", false, &stdout), "container not initialized")
	assert.EqualError(t, Execute(c, "", "", false, &stdout), "input file must be specified with -i")
	assert.Error(t, Execute(c, filepath.Join(t.TempDir(), "missing.txt"), "", false, &stdout))
	assert.Empty(t, stdout.String())
}
