package models

// Customer is one customer profile row keyed by the 11-digit document.
//
// Profile fields (Nome, Telefone, Email, SaldoCarteira) are authoritative in
// the source export and always overwritten on import. Visit dates and the
// purchase counters are monotonic: the backend merge keeps the larger value,
// so re-importing an older export never regresses them.
type Customer struct {
	Doc              string  `json:"doc"`
	Nome             *string `json:"nome"`
	Telefone         *string `json:"telefone"`
	Email            *string `json:"email"`
	DataCadastro     *string `json:"data_cadastro"`
	SaldoCarteira    float64 `json:"saldo_carteira"`
	FirstVisit       *string `json:"first_visit"`
	LastVisit        *string `json:"last_visit"`
	TransactionCount int     `json:"transaction_count"`
	TotalSpent       float64 `json:"total_spent"`
	Source           string  `json:"source"`
}

// AppSettings holds the cashback configuration read from the backend.
type AppSettings struct {
	CashbackPercent   float64 `json:"cashback_percent"`
	CashbackStartDate string  `json:"cashback_start_date"`
}

const (
	DefaultCashbackPercent   = 7.5
	DefaultCashbackStartDate = "2024-06-01"
)

// DefaultAppSettings is what the pipeline falls back to when the backend
// settings row cannot be read.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		CashbackPercent:   DefaultCashbackPercent,
		CashbackStartDate: DefaultCashbackStartDate,
	}
}
