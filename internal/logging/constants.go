package logging

// Standardized field names for structured logging.
// Receipt processing logs use these keys so a single upload can be followed
// from oracle call to accepted record.
const (
	FieldReceiptID   = "receipt_id"
	FieldFileName    = "file_name"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldPaymentType = "payment_type"
	FieldAmount      = "amount"
	FieldDate        = "date"
	FieldKeyword     = "keyword"
	FieldStrategy    = "strategy"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldMIME        = "mime"
	FieldModel       = "model"
	FieldRequestID   = "request_id"
	FieldOutputFile  = "output_file"
)
