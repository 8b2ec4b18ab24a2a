package models

// TransactionType classifies how a sale was paid for.
type TransactionType string

const (
	// TypeNormal is a regular machine purchase paid with money.
	TypeNormal TransactionType = "TYPE_1"
	// TypeWallet is a machine purchase paid from the customer's wallet balance.
	TypeWallet TransactionType = "TYPE_2"
	// TypeRecharge is a wallet top-up, not a machine usage.
	TypeRecharge TransactionType = "TYPE_3"
	// TypeUnknown means the row could not be classified.
	TypeUnknown TransactionType = "UNKNOWN"
)

// Transaction is one sale row with all derived fields, ready for upsert.
// JSON tags match the backend column names.
type Transaction struct {
	DataHora          string          `json:"data_hora"`
	ValorVenda        float64         `json:"valor_venda"`
	ValorPago         float64         `json:"valor_pago"`
	MeioDePagamento   *string         `json:"meio_de_pagamento"`
	ComprovanteCartao *string         `json:"comprovante_cartao"`
	BandeiraCartao    *string         `json:"bandeira_cartao"`
	Loja              *string         `json:"loja"`
	NomeCliente       *string         `json:"nome_cliente"`
	DocCliente        string          `json:"doc_cliente"`
	Telefone          *string         `json:"telefone"`
	Maquinas          *string         `json:"maquinas"`
	UsouCupom         bool            `json:"usou_cupom"`
	CodigoCupom       *string         `json:"codigo_cupom"`
	TransactionType   TransactionType `json:"transaction_type"`
	IsRecarga         bool            `json:"is_recarga"`
	WashCount         int             `json:"wash_count"`
	DryCount          int             `json:"dry_count"`
	TotalServices     int             `json:"total_services"`
	NetValue          float64         `json:"net_value"`
	CashbackAmount    float64         `json:"cashback_amount"`
	ImportHash        string          `json:"import_hash"`
	SourceFile        string          `json:"source_file"`
}

// Nullable returns a pointer to s, or nil when s is empty. Backend columns
// for optional profile fields expect NULL rather than "".
func Nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
