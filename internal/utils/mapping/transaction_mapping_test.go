package mapping_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/bankcore/ledger/internal/utils/mapping"
)

func TestToModelTransaction_EmptyTextFieldsStayEmpty(t *testing.T) {
	d := domain.FinancialTransaction{
		TransactionID:   "txn-1",
		ReferenceNumber: "DEP-1756400000000-AB12CD34",
		TransactionType: domain.Deposit,
		Status:          domain.StatusPending,
		Amount:          decimal.RequireFromString("25.50"),
		CurrencyCode:    "USD",
		ToAccountID:     "acc-1",
	}

	m := mapping.ToModelTransaction(d)

	assert.Equal(t, "", m.Description)
	assert.Equal(t, "", m.FailureReason)
	assert.False(t, m.FromAccountID.Valid)
	assert.True(t, m.ToAccountID.Valid)
	assert.Equal(t, "acc-1", m.ToAccountID.String)
}

func TestTransactionMapping_RoundTrip(t *testing.T) {
	processed := time.Now().UTC()
	d := domain.FinancialTransaction{
		TransactionID:   "txn-2",
		ReferenceNumber: "TRF-1756400000000-AB12CD34",
		TransactionType: domain.Transfer,
		Status:          domain.StatusCompleted,
		Amount:          decimal.RequireFromString("100"),
		CurrencyCode:    "EUR",
		FromAccountID:   "acc-1",
		ToAccountID:     "acc-2",
		Description:     "rent",
		ProcessedAt:     &processed,
	}

	got := mapping.ToDomainTransaction(mapping.ToModelTransaction(d))

	assert.Equal(t, d.Description, got.Description)
	assert.Equal(t, d.FailureReason, got.FailureReason)
	assert.Equal(t, d.FromAccountID, got.FromAccountID)
	assert.Equal(t, d.ToAccountID, got.ToAccountID)
	assert.True(t, d.Amount.Equal(got.Amount))
}
