package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestorbot/gestor-receipts/internal/batch"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/oracle"
	"gestorbot/gestor-receipts/internal/receipt"
	"gestorbot/gestor-receipts/internal/receipterror"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func jpegDataURL() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)
}

// scriptedOracle answers by document name, falling back to Default.
type scriptedOracle struct {
	mu      sync.Mutex
	ByName  map[string]string
	Default string
	Err     error
	Calls   int
}

func (o *scriptedOracle) Extract(_ context.Context, doc oracle.Document, _ string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Calls++
	if o.Err != nil {
		return "", o.Err
	}
	if text, ok := o.ByName[doc.Name]; ok {
		return text, nil
	}
	return o.Default, nil
}

func newTestServer(t *testing.T, o oracle.Oracle) *Server {
	t.Helper()
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	logger := logging.NewMockLogger()

	pipeline, err := receipt.NewPipeline(tax, logger, receipt.WithClock(func() time.Time {
		return time.Date(2025, 12, 27, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	proc := receipt.NewProcessor(o, oracle.NewPrompts(tax), pipeline, logger)
	runner := batch.NewRunner(proc, logger, batch.WithDelay(0), batch.WithMaxItems(3))

	return New(Options{
		Processor:        proc,
		Runner:           runner,
		Taxonomy:         tax,
		MaxDocumentBytes: 1 << 20,
		Mode:             gin.TestMode,
	}, logger)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

func TestUploadNota(t *testing.T) {
	o := &scriptedOracle{Default: `{"data":"2025-12-20","estabelecimento":"CELESC","valor_total":"R$ 389,90","categoria":"Outros","subcategoria":"Outros"}`}
	s := newTestServer(t, o)

	w, body := doJSON(t, s, http.MethodPost, "/api/upload-nota", gin.H{
		"imagem":       jpegDataURL(),
		"tipo_arquivo": "imagem",
		"nome_arquivo": "Conta_Energia_Dezembro.jpg",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["sucesso"])

	dados := body["dados"].(map[string]any)
	assert.Equal(t, "Infraestrutura", dados["categoria"])
	assert.Equal(t, "Energia", dados["subcategoria"])
	assert.Equal(t, 389.9, dados["valor_total"])
	assert.Equal(t, "Conta Energia Dezembro", dados["observacao"])
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestUploadNota_Errors(t *testing.T) {
	tests := []struct {
		name    string
		oracle  *scriptedOracle
		body    any
		status  int
		message string
	}{
		{
			name:    "malformed json",
			oracle:  &scriptedOracle{},
			body:    "{not json",
			status:  http.StatusBadRequest,
			message: msgInvalidRequest,
		},
		{
			name:    "missing image",
			oracle:  &scriptedOracle{},
			body:    gin.H{"nome_arquivo": "x.jpg"},
			status:  http.StatusBadRequest,
			message: msgImageRequired,
		},
		{
			name:    "not an image",
			oracle:  &scriptedOracle{},
			body:    gin.H{"imagem": base64.StdEncoding.EncodeToString([]byte("hello, plain text"))},
			status:  http.StatusBadRequest,
			message: receipterror.MsgInvalidDocument,
		},
		{
			name:    "incomplete extraction",
			oracle:  &scriptedOracle{Default: `{"estabelecimento":"CEASA"}`},
			body:    gin.H{"imagem": jpegDataURL()},
			status:  http.StatusBadRequest,
			message: receipterror.MsgIncomplete,
		},
		{
			name:    "oracle reported",
			oracle:  &scriptedOracle{Default: `{"erro":"Imagem não é uma nota fiscal"}`},
			body:    gin.H{"imagem": jpegDataURL()},
			status:  http.StatusBadRequest,
			message: "Imagem não é uma nota fiscal",
		},
		{
			name:    "oracle down",
			oracle:  &scriptedOracle{Err: errors.New("dial tcp: connection refused")},
			body:    gin.H{"imagem": jpegDataURL()},
			status:  http.StatusBadRequest,
			message: receipterror.MsgOracleConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.oracle)
			w, body := doJSON(t, s, http.MethodPost, "/api/upload-nota", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, false, body["sucesso"])
			assert.Equal(t, tt.message, body["erro"])
		})
	}
}

func TestUploadNotasMassa(t *testing.T) {
	o := &scriptedOracle{
		ByName: map[string]string{
			"gelo.jpg":    `{"data":"2025-12-26","valor_total":50,"categoria":"Insumos"}`,
			"borrada.jpg": `{"erro":"Imagem ilegível"}`,
		},
	}
	s := newTestServer(t, o)

	w, body := doJSON(t, s, http.MethodPost, "/api/upload-notas-massa", gin.H{
		"arquivos": []gin.H{
			{"imagem": jpegDataURL(), "nome_arquivo": "gelo.jpg"},
			{"imagem": jpegDataURL(), "nome_arquivo": "borrada.jpg"},
			{"imagem": ""},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["sucesso"])
	assert.Equal(t, float64(1), body["total_processados"])
	assert.Equal(t, float64(2), body["total_erros"])

	results := body["resultados"].([]any)
	require.Len(t, results, 3)

	first := results[0].(map[string]any)
	assert.Equal(t, true, first["sucesso"])
	assert.Equal(t, "gelo.jpg", first["nome_arquivo"])
	assert.Equal(t, "Gelo", first["dados"].(map[string]any)["subcategoria"])

	second := results[1].(map[string]any)
	assert.Equal(t, false, second["sucesso"])
	assert.Equal(t, "Imagem ilegível", second["erro"])

	third := results[2].(map[string]any)
	assert.Equal(t, "arquivo_3", third["nome_arquivo"])
	assert.Equal(t, receipterror.MsgInvalidDocument, third["erro"])

	assert.Equal(t, 2, o.Calls)
}

func TestUploadNotasMassa_Limits(t *testing.T) {
	s := newTestServer(t, &scriptedOracle{})

	w, body := doJSON(t, s, http.MethodPost, "/api/upload-notas-massa", gin.H{"arquivos": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgNoFiles, body["erro"])

	many := make([]gin.H, 4)
	for i := range many {
		many[i] = gin.H{"imagem": jpegDataURL()}
	}
	w, body = doJSON(t, s, http.MethodPost, "/api/upload-notas-massa", gin.H{"arquivos": many})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Máximo de 3 arquivos por vez.", body["erro"])
}

func TestUploadComprovante(t *testing.T) {
	t.Run("extracted", func(t *testing.T) {
		s := newTestServer(t, &scriptedOracle{Default: `{"data":"2025-12-26","origem":"Maria","valor":80,"tipo_pagamento":"pix"}`})
		w, body := doJSON(t, s, http.MethodPost, "/api/upload-comprovante", gin.H{"arquivo": jpegDataURL()})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["sucesso"])
		dados := body["dados"].(map[string]any)
		assert.Equal(t, "PIX", dados["tipo_pagamento"])
		assert.Equal(t, float64(80), dados["valor"])
		assert.NotContains(t, body, "aviso")
	})

	t.Run("extraction failure is a warning", func(t *testing.T) {
		s := newTestServer(t, &scriptedOracle{Default: "sem json"})
		w, body := doJSON(t, s, http.MethodPost, "/api/upload-comprovante", gin.H{"arquivo": jpegDataURL()})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["sucesso"])
		assert.Nil(t, body["dados"])
		assert.Equal(t, receipterror.MsgUnparseable, body["aviso"])
	})

	t.Run("missing file", func(t *testing.T) {
		s := newTestServer(t, &scriptedOracle{})
		w, body := doJSON(t, s, http.MethodPost, "/api/upload-comprovante", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, msgFileNotSent, body["erro"])
	})
}

func TestTaxonomia(t *testing.T) {
	s := newTestServer(t, &scriptedOracle{})
	w, body := doJSON(t, s, http.MethodGet, "/api/taxonomia", nil)
	require.Equal(t, http.StatusOK, w.Code)

	categories := body["categorias"].(map[string]any)
	assert.Contains(t, categories, "Insumos")
	assert.Contains(t, categories["Infraestrutura"], "Energia")
	assert.Len(t, body["tipos_pagamento"], 5)
	assert.Len(t, body["ordem"], len(categories))
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServer(t, &scriptedOracle{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
	assert.True(t, strings.Contains(w.Body.String(), "ok"))
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, &scriptedOracle{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
