package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lavpop/pos-uploader/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		machines      string
		paymentMethod string
		gross         float64
		expected      models.TransactionType
	}{
		{
			name:     "recharge keyword wins",
			machines: "Recarga",
			gross:    50,
			expected: models.TypeRecharge,
		},
		{
			name:          "recharge beats wallet payment",
			machines:      "Recarga de Saldo",
			paymentMethod: "Saldo da carteira",
			gross:         0,
			expected:      models.TypeRecharge,
		},
		{
			name:          "wallet payment method",
			machines:      "Lavadora 01",
			paymentMethod: "Saldo da carteira",
			gross:         15,
			expected:      models.TypeWallet,
		},
		{
			name:     "zero gross with machines is wallet purchase",
			machines: "Secadora 02",
			gross:    0,
			expected: models.TypeWallet,
		},
		{
			name:          "normal purchase",
			machines:      "Lavadora 01, Secadora 02",
			paymentMethod: "Cartão de Crédito",
			gross:         35.5,
			expected:      models.TypeNormal,
		},
		{
			name:     "empty machines and zero gross",
			machines: "",
			gross:    0,
			expected: models.TypeUnknown,
		},
		{
			name:     "gross without machines",
			machines: "",
			gross:    20,
			expected: models.TypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.machines, tt.paymentMethod, tt.gross))
		})
	}
}

func TestIsRecharge(t *testing.T) {
	assert.True(t, IsRecharge("Recarga"))
	assert.True(t, IsRecharge("RECARGA DE SALDO"))
	assert.False(t, IsRecharge("Lavadora 01"))
	assert.False(t, IsRecharge(""))
}

func TestCountMachines(t *testing.T) {
	tests := []struct {
		name     string
		machines string
		expected MachineCount
	}{
		{
			name:     "one washer one dryer",
			machines: "Lavadora 01, Secadora 02",
			expected: MachineCount{Wash: 1, Dry: 1, Total: 2},
		},
		{
			name:     "two washers",
			machines: "Lavadora 01,Lavadora 03",
			expected: MachineCount{Wash: 2, Dry: 0, Total: 2},
		},
		{
			name:     "english labels",
			machines: "Washer 1, Dryer 2",
			expected: MachineCount{Wash: 1, Dry: 1, Total: 2},
		},
		{
			name:     "recharge counts nothing",
			machines: "Recarga",
			expected: MachineCount{},
		},
		{
			name:     "empty",
			machines: "",
			expected: MachineCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountMachines(tt.machines))
		})
	}
}

func TestImportHash(t *testing.T) {
	a := ImportHash("15/03/2024 14:30:00", "123.456.789-01", "25,00", "Lavadora 01")
	b := ImportHash("15/03/2024 14:30:00", "123.456.789-01", "25,00", "Lavadora 01")
	assert.Equal(t, a, b, "identical raw inputs must hash identically")
	assert.Len(t, a, 32)

	// Any single field change must change the hash.
	assert.NotEqual(t, a, ImportHash("15/03/2024 14:30:01", "123.456.789-01", "25,00", "Lavadora 01"))
	assert.NotEqual(t, a, ImportHash("15/03/2024 14:30:00", "123.456.789-02", "25,00", "Lavadora 01"))
	assert.NotEqual(t, a, ImportHash("15/03/2024 14:30:00", "123.456.789-01", "25,01", "Lavadora 01"))
	assert.NotEqual(t, a, ImportHash("15/03/2024 14:30:00", "123.456.789-01", "25,00", "Secadora 01"))
}
