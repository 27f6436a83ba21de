package oracle

import (
	"fmt"
	"strings"

	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/taxonomy"
	"gestorbot/gestor-receipts/internal/textutils"
)

const expensePromptHeader = `Você é um assistente contábil especializado em restaurantes/beach clubs.
Analise este documento e extraia os dados de despesa.

TIPOS DE DOCUMENTOS ACEITOS:
- Nota fiscal ou cupom fiscal
- Recibo de pagamento
- Comprovante de PIX enviado
- Comprovante de transferência (TED/DOC)
- Boleto pago
- Fatura de serviços (luz, água, internet, telefone)
`

const expensePromptInstructions = `
INSTRUÇÕES:
1. Identifique a data do pagamento/compra (formato: YYYY-MM-DD)
2. Identifique o nome do estabelecimento/fornecedor/beneficiário
3. Extraia o valor TOTAL pago (apenas números, sem R$)
4. Classifique a despesa em CATEGORIA e SUBCATEGORIA conforme abaixo:

CATEGORIAS E SUBCATEGORIAS DISPONÍVEIS:
`

const expensePromptFooter = `
DICAS PARA CLASSIFICAR:
- Se for pagamento a pessoa física (freelancer, DJ, músico, banda): Pessoal → subcategoria apropriada
- Se for conta de luz/água/energia: Infraestrutura → Energia
- Se for compra de alimentos: Insumos → subcategoria específica
- Se não conseguir identificar claramente: Outros → Outros

RESPONDA APENAS COM JSON VÁLIDO:
{
    "data": "YYYY-MM-DD",
    "estabelecimento": "Nome do Fornecedor ou Beneficiário",
    "valor_total": 123.45,
    "categoria": "Categoria",
    "subcategoria": "Subcategoria"
}

Se o documento não for legível ou não for um documento de despesa, retorne:
{"erro": "Descrição do problema"}
`

const revenuePromptTemplate = `Você é um assistente contábil especializado em restaurantes/beach clubs.
Analise este comprovante de pagamento e extraia os dados.

INSTRUÇÕES IMPORTANTES:
1. Identifique a data da transação (formato: YYYY-MM-DD)
2. Identifique o nome do pagador ou origem do dinheiro
3. Extraia o valor recebido (apenas números, sem R$)
4. IDENTIFIQUE O TIPO DE PAGAMENTO baseado no conteúdo:
   - "PIX", "QR Code" ou "chave pix" → "PIX"
   - "Cartão", "crédito", "débito", "visa", "mastercard", "elo" ou "maquininha" → "Cartão"
   - "TED", "DOC", "transferência bancária" ou "depósito" → "Transferência"
   - "Cupom fiscal", "nota fiscal", "venda" ou "recibo" → "Vendas"
   - Sem palavra-chave clara → "Outros"

RESPONDA APENAS COM JSON VÁLIDO:
{
    "data": "YYYY-MM-DD",
    "origem": "Nome do pagador ou banco",
    "valor": 123.45,
    "tipo_pagamento": "PIX"
}

IMPORTANTE: O campo tipo_pagamento DEVE ser exatamente um destes valores:
%s

Se o documento não for legível ou não for um comprovante, retorne:
{"erro": "Descrição do problema"}
`

// Prompts builds the oracle instructions from the loaded taxonomy.
type Prompts struct {
	categoryList string
	revenue      string
}

// NewPrompts renders the parts of the prompts that depend only on the taxonomy.
func NewPrompts(tax *taxonomy.Taxonomy) *Prompts {
	var b strings.Builder
	for _, c := range tax.Ordered() {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, strings.Join(c.Subcategories, ", "))
	}

	var types strings.Builder
	for _, pt := range models.PaymentTypes() {
		fmt.Fprintf(&types, "- %q\n", string(pt))
	}

	return &Prompts{
		categoryList: b.String(),
		revenue:      fmt.Sprintf(revenuePromptTemplate, strings.TrimRight(types.String(), "\n")),
	}
}

// Expense returns the expense prompt. A non-empty filename adds a hint naming
// the cleaned file name, since operators name files after the expense.
func (p *Prompts) Expense(filename string) string {
	var b strings.Builder
	b.WriteString(expensePromptHeader)
	if note := textutils.NoteFromFilename(filename); note != "" {
		fmt.Fprintf(&b, `
IMPORTANTE - NOME DO ARQUIVO: "%s"
O nome do arquivo indica a CATEGORIA da despesa. Use essa informação para classificar corretamente!
Por exemplo: se o nome contém "energia", classifique como "Energia"; se contém "aluguel", classifique como "Aluguel".
`, note)
	}
	b.WriteString(expensePromptInstructions)
	b.WriteString(p.categoryList)
	b.WriteString(expensePromptFooter)
	return b.String()
}

// Revenue returns the revenue comprovante prompt.
func (p *Prompts) Revenue() string {
	return p.revenue
}
