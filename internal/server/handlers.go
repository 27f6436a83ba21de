package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestorbot/gestor-receipts/internal/batch"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/oracle"
	"gestorbot/gestor-receipts/internal/receipterror"
)

// User-facing messages of the upload routes.
const (
	msgInvalidRequest      = "Requisição inválida. Envie um JSON com a imagem."
	msgImageRequired       = `Campo "imagem" é obrigatório.`
	msgInvalidBatchRequest = "Requisição inválida."
	msgNoFiles             = "Nenhum arquivo enviado."
	msgTooManyFiles        = "Máximo de %d arquivos por vez."
	msgFileNotSent         = "Arquivo não enviado."
	msgRevenueNoData       = "Não foi possível extrair dados."
	msgInternalNota        = "Erro interno ao processar a nota."
	msgInternalBatch       = "Erro interno ao processar os arquivos."
)

type uploadNotaRequest struct {
	Imagem      string `json:"imagem"`
	TipoArquivo string `json:"tipo_arquivo"`
	NomeArquivo string `json:"nome_arquivo"`
}

type uploadNotasMassaRequest struct {
	Arquivos []uploadNotaRequest `json:"arquivos"`
}

type uploadComprovanteRequest struct {
	Arquivo string `json:"arquivo"`
}

type uploadResponse struct {
	Sucesso bool                `json:"sucesso"`
	Dados   *models.ExpenseView `json:"dados,omitempty"`
	Erro    string              `json:"erro,omitempty"`
}

type batchItemResponse struct {
	Sucesso     bool                `json:"sucesso"`
	Dados       *models.ExpenseView `json:"dados,omitempty"`
	Erro        string              `json:"erro,omitempty"`
	NomeArquivo string              `json:"nome_arquivo"`
}

type batchResponse struct {
	Sucesso          bool                `json:"sucesso"`
	TotalProcessados int                 `json:"total_processados"`
	TotalErros       int                 `json:"total_erros"`
	Resultados       []batchItemResponse `json:"resultados"`
}

type comprovanteResponse struct {
	Sucesso bool                `json:"sucesso"`
	Dados   *models.RevenueView `json:"dados"`
	Aviso   string              `json:"aviso,omitempty"`
}

type errorResponse struct {
	Sucesso bool   `json:"sucesso"`
	Erro    string `json:"erro"`
}

func documentName(req uploadNotaRequest, fallback string) string {
	if req.NomeArquivo != "" {
		return req.NomeArquivo
	}
	return fallback
}

// uploadNota handles POST /api/upload-nota.
func (s *Server) uploadNota(c *gin.Context) {
	log := requestLogger(c, s.logger)

	var req uploadNotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: msgInvalidRequest})
		return
	}
	if req.Imagem == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: msgImageRequired})
		return
	}

	doc, err := oracle.DecodeDocument(documentName(req, "nota"), req.Imagem, s.maxDocBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: receipterror.UserMessage(err)})
		return
	}

	rec, err := s.processor.ProcessExpense(c.Request.Context(), doc, req.NomeArquivo)
	if err != nil {
		var rej *receipterror.RejectionError
		if !errors.As(err, &rej) {
			log.WithError(err).Error("Unexpected failure processing nota")
			c.JSON(http.StatusInternalServerError, errorResponse{Erro: msgInternalNota})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Erro: rej.Message})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{Sucesso: true, Dados: rec.View()})
}

// uploadNotasMassa handles POST /api/upload-notas-massa.
func (s *Server) uploadNotasMassa(c *gin.Context) {
	log := requestLogger(c, s.logger)

	var req uploadNotasMassaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: msgInvalidBatchRequest})
		return
	}
	if len(req.Arquivos) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: msgNoFiles})
		return
	}
	if len(req.Arquivos) > s.runner.MaxItems() {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: fmt.Sprintf(msgTooManyFiles, s.runner.MaxItems())})
		return
	}

	items := make([]batch.Item, 0, len(req.Arquivos))
	for i, a := range req.Arquivos {
		items = append(items, batch.Base64Item(documentName(a, fmt.Sprintf("arquivo_%d", i+1)), a.Imagem, s.maxDocBytes))
	}

	summary, err := s.runner.Run(c.Request.Context(), items)
	if err != nil && summary == nil {
		log.WithError(err).Error("Batch upload failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Erro: msgInternalBatch})
		return
	}

	resp := batchResponse{
		Sucesso:          true,
		TotalProcessados: summary.Processed,
		TotalErros:       summary.Failed,
		Resultados:       make([]batchItemResponse, 0, len(summary.Results)),
	}
	for _, r := range summary.Results {
		resp.Resultados = append(resp.Resultados, batchItemResponse{
			Sucesso:     r.OK(),
			Dados:       r.Expense.View(),
			Erro:        r.Message(),
			NomeArquivo: r.FileName,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// uploadComprovante handles POST /api/upload-comprovante. Extraction
// failures still answer sucesso=true with a warning, since the upload itself
// succeeded.
func (s *Server) uploadComprovante(c *gin.Context) {
	log := requestLogger(c, s.logger)

	var req uploadComprovanteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Arquivo == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: msgFileNotSent})
		return
	}

	doc, err := oracle.DecodeDocument("comprovante", req.Arquivo, s.maxDocBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Erro: receipterror.UserMessage(err)})
		return
	}

	rec, err := s.processor.ProcessRevenue(c.Request.Context(), doc)
	if err != nil {
		aviso := receipterror.UserMessage(err)
		var rej *receipterror.RejectionError
		if !errors.As(err, &rej) {
			log.WithError(err).Error("Unexpected failure processing comprovante")
			aviso = msgRevenueNoData
		}
		c.JSON(http.StatusOK, comprovanteResponse{Sucesso: true, Aviso: aviso})
		return
	}

	c.JSON(http.StatusOK, comprovanteResponse{Sucesso: true, Dados: rec.View()})
}

// taxonomia handles GET /api/taxonomia.
func (s *Server) taxonomia(c *gin.Context) {
	categories := s.tax.Ordered()
	out := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		out = append(out, gin.H{"categoria": cat.Name, "subcategorias": cat.Subcategories})
	}
	types := models.PaymentTypes()
	payment := make([]string, 0, len(types))
	for _, pt := range types {
		payment = append(payment, string(pt))
	}
	c.JSON(http.StatusOK, gin.H{
		"categorias":      s.tax.Map(),
		"ordem":           out,
		"tipos_pagamento": payment,
	})
}
