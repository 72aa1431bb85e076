package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldTxnID      = "txn_id"
	FieldRegisterID = "register_id"
	FieldAccountID  = "account_id"
	FieldAmount     = "amount"
	FieldStatus     = "status"
	FieldActorID    = "actor_id"
)

// Components defines standard component names
const (
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentReports = "reports"
	ComponentAudit   = "audit"
	ComponentWorker  = "worker"
)
