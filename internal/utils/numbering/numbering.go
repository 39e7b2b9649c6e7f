package numbering

import (
	"fmt"
	"strings"
	"time"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/google/uuid"
)

// AccountPrefix is the prefix used for generated account numbers.
const AccountPrefix = "ACC"

// Generate produces a business identifier of the form
// <PREFIX>-<epoch-millis>-<8-char-uppercase-suffix>. The millisecond stamp
// makes numbers roughly sortable; the random suffix carries the uniqueness.
// Callers must still check the store and retry, the generator alone does not
// guarantee uniqueness.
func Generate(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// GenerateAccountNumber produces an account number of the form
// ACC-<6-digit-stamp>-<8-char-uppercase-suffix>. Account numbers keep only
// the last six digits of the millisecond stamp so they stay 19 characters,
// inside the 10 to 20 character range account numbers must fit.
func GenerateAccountNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%06d-%s", AccountPrefix, time.Now().UnixMilli()%1_000_000, suffix)
}

// TransactionPrefix returns the reference prefix for a transaction type.
// Unknown types fall back to TXN.
func TransactionPrefix(t domain.TransactionType) string {
	switch t {
	case domain.Deposit:
		return "DEP"
	case domain.Withdrawal:
		return "WDR"
	case domain.Transfer:
		return "TRF"
	case domain.Payment:
		return "PAY"
	case domain.Refund:
		return "REF"
	case domain.Fee:
		return "FEE"
	case domain.Interest:
		return "INT"
	default:
		return "TXN"
	}
}
