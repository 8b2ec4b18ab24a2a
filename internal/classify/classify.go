// Package classify derives transaction type, machine usage counts and the
// deduplication hash from raw sales rows.
package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lavpop/pos-uploader/internal/models"
)

const (
	rechargeKeyword = "recarga"
	walletPayment   = "saldo da carteira"
)

// MachineCount is how many washers and dryers one sale used.
type MachineCount struct {
	Wash  int
	Dry   int
	Total int
}

// Classify derives the transaction type from the machines field, the payment
// method and the gross amount. First matching rule wins.
func Classify(machines, paymentMethod string, gross float64) models.TransactionType {
	machines = strings.ToLower(machines)
	paymentMethod = strings.ToLower(paymentMethod)

	if strings.Contains(machines, rechargeKeyword) {
		return models.TypeRecharge
	}
	if strings.Contains(paymentMethod, walletPayment) {
		return models.TypeWallet
	}
	if gross == 0 && machines != "" {
		return models.TypeWallet
	}
	if machines != "" && gross > 0 {
		return models.TypeNormal
	}
	return models.TypeUnknown
}

// IsRecharge reports whether the machines field indicates a wallet top-up.
func IsRecharge(machines string) bool {
	return strings.Contains(strings.ToLower(machines), rechargeKeyword)
}

// CountMachines counts washers and dryers from the comma-separated machines
// field ("Lavadora 01, Secadora 02" and the like).
func CountMachines(machines string) MachineCount {
	if machines == "" {
		return MachineCount{}
	}

	var c MachineCount
	for _, m := range strings.Split(strings.ToLower(machines), ",") {
		if strings.Contains(m, "lavadora") || strings.Contains(m, "washer") {
			c.Wash++
		}
		if strings.Contains(m, "secadora") || strings.Contains(m, "dryer") {
			c.Dry++
		}
	}
	c.Total = c.Wash + c.Dry
	return c
}

// ImportHash fingerprints one sales row for idempotent upserts: SHA-256 of
// the four raw source fields joined with "|", truncated to 32 hex chars.
// The raw, pre-normalization strings are hashed on purpose so that a change
// in normalization logic can never silently alter dedup behavior.
func ImportHash(dataHora, docCliente, valorVenda, maquinas string) string {
	content := fmt.Sprintf("%s|%s|%s|%s", dataHora, docCliente, valorVenda, maquinas)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:32]
}
