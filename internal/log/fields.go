package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldUserID        = "user_id"
	FieldCategoryID    = "category_id"
	FieldAccountID     = "account_id"
	FieldTransactionID = "transaction_id"
	FieldBalanceCents  = "balance_cents"
	FieldEventType     = "event_type"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
)
