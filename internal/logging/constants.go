package logging

// Standardized field names for structured logging.
// Using the same keys everywhere keeps log output easy to filter.
const (
	FieldStatement = "statement_id"
	FieldAccount   = "account_id"
	FieldStrategy  = "strategy"
	FieldCategory  = "category"
	FieldStatus    = "status"
	FieldCount     = "count"
	FieldLine      = "line"
	FieldReason    = "reason"
	FieldFile      = "file_path"
	FieldAmount    = "amount"
)
