package log

// Common field names for structured logging.
const (
	FieldComponent      = "component"
	FieldRequestID      = "request_id"
	FieldClientIP       = "client_ip"
	FieldMethod         = "method"
	FieldPath           = "path"
	FieldStatusCode     = "status_code"
	FieldDuration       = "duration_ms"
	FieldUserAgent      = "user_agent"
	FieldError          = "error"
	FieldMemberID       = "member_id"
	FieldPhone          = "phone"
	FieldContributionID = "contribution_id"
	FieldStatus         = "status"
	FieldAmount         = "amount"
	FieldPort           = "port"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentNotifier = "notifier"
	ComponentMedia    = "media"
)
