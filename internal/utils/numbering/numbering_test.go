package numbering_test

import (
	"regexp"
	"testing"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/bankcore/ledger/internal/utils/numbering"
	"github.com/stretchr/testify/assert"
)

func TestGenerate_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^TRF-\d{13}-[A-Z0-9]{8}$`)

	ref := numbering.Generate("TRF")
	assert.Regexp(t, pattern, ref)
}

func TestGenerateAccountNumber_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ACC-\d{6}-[A-Z0-9]{8}$`)

	number := numbering.GenerateAccountNumber()
	assert.Regexp(t, pattern, number)
	assert.Len(t, number, 19)
	assert.GreaterOrEqual(t, len(number), 10)
	assert.LessOrEqual(t, len(number), 20)
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := numbering.GenerateAccountNumber()
		assert.False(t, seen[ref], "duplicate number %s", ref)
		seen[ref] = true
	}
}

func TestTransactionPrefix(t *testing.T) {
	tests := []struct {
		txnType domain.TransactionType
		want    string
	}{
		{domain.Deposit, "DEP"},
		{domain.Withdrawal, "WDR"},
		{domain.Transfer, "TRF"},
		{domain.Payment, "PAY"},
		{domain.Refund, "REF"},
		{domain.Fee, "FEE"},
		{domain.Interest, "INT"},
		{domain.TransactionType("UNKNOWN"), "TXN"},
	}

	for _, tt := range tests {
		t.Run(string(tt.txnType), func(t *testing.T) {
			assert.Equal(t, tt.want, numbering.TransactionPrefix(tt.txnType))
		})
	}
}
