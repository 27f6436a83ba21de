// Package receipterror defines the rejection errors of receipt processing.
// Every rejection carries a user-facing message and matches one sentinel
// through errors.Is.
package receipterror

import (
	"errors"
	"fmt"
)

// Sentinel kinds, one per rejection reason.
var (
	ErrOracleReported    = errors.New("oracle reported an unreadable document")
	ErrUnparseable       = errors.New("unparseable oracle output")
	ErrIncomplete        = errors.New("incomplete data")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrInvalidDocument   = errors.New("invalid document")
)

// User-facing messages.
const (
	MsgUnparseable         = "Não foi possível interpretar a resposta da IA."
	MsgIncomplete          = "Dados incompletos extraídos da nota. Tente com uma foto mais nítida."
	MsgInvalidAmount       = "Valor inválido extraído da nota. Verifique se o valor total está legível e tente novamente."
	MsgInvalidDocument     = "Imagem inválida. Envie uma imagem em formato válido."
	MsgOracleNotConfigured = "Serviço de OCR não configurado. Verifique a GEMINI_API_KEY."
	MsgOracleInvalidKey    = "Chave da API Gemini inválida. Verifique a GEMINI_API_KEY no arquivo .env"
	MsgOracleQuota         = "Limite de uso da API atingido. Aguarde alguns minutos."
	MsgOracleConnection    = "Erro de conexão com a API. Verifique sua internet."
)

// RejectionError is returned when a receipt cannot be accepted.
type RejectionError struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Message is shown to the end user as-is.
	Message string
	// Field names the offending field, when there is one.
	Field string
	// Err is the underlying cause, if any.
	Err error
}

func (e *RejectionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%v (%s): %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// Is matches the rejection's kind.
func (e *RejectionError) Is(target error) bool {
	return target == e.Kind
}

// New builds a RejectionError of the given kind.
func New(kind error, message string) *RejectionError {
	return &RejectionError{Kind: kind, Message: message}
}

// OracleReported surfaces the oracle's own error text verbatim.
func OracleReported(message string) *RejectionError {
	return New(ErrOracleReported, message)
}

// Unparseable reports oracle output with no JSON object in it.
func Unparseable() *RejectionError {
	return New(ErrUnparseable, MsgUnparseable)
}

// Incomplete reports a missing required field.
func Incomplete(field string) *RejectionError {
	return &RejectionError{Kind: ErrIncomplete, Message: MsgIncomplete, Field: field}
}

// InvalidAmount reports a non-positive or sub-cent amount.
func InvalidAmount(amount string) *RejectionError {
	return &RejectionError{Kind: ErrInvalidAmount, Message: MsgInvalidAmount, Field: amount}
}

// InvalidDocument reports an upload that cannot be sent to the oracle.
func InvalidDocument(err error) *RejectionError {
	return &RejectionError{Kind: ErrInvalidDocument, Message: MsgInvalidDocument, Err: err}
}

// OracleUnavailable reports a failed oracle call.
func OracleUnavailable(message string, err error) *RejectionError {
	return &RejectionError{Kind: ErrOracleUnavailable, Message: message, Err: err}
}

// UserMessage returns the message to show for err. Non-rejection errors get
// a generic text so internal details do not leak.
func UserMessage(err error) string {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Message
	}
	if err == nil {
		return ""
	}
	return "Erro ao processar o documento."
}
