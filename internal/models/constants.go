package models

// Statement processing statuses
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
	StatusPending    = "pending"
)

// Transaction categories, in classification priority order.
const (
	CategoryBills        = "bills"
	CategoryWithdrawals  = "withdrawals"
	CategoryOrders       = "orders"
	CategoryFees         = "fees"
	CategoryPersonalUse  = "personal_use"
	CategoryUnclassified = "unclassified"
)

// AllCategories lists the fixed taxonomy in classification priority order,
// with the fallback category last.
var AllCategories = []string{
	CategoryBills,
	CategoryWithdrawals,
	CategoryOrders,
	CategoryFees,
	CategoryPersonalUse,
	CategoryUnclassified,
}

// Currencies recognized by the extraction pipeline.
const (
	CurrencyUSD = "USD"
	CurrencyINR = "INR"
)
