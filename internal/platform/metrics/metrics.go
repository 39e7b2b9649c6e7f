package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransactionsProcessed counts processed transactions by type and final status.
var TransactionsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "transactions_processed_total",
		Help:      "Number of processed financial transactions by type and final status.",
	},
	[]string{"type", "status"},
)

// AuditWriteFailures counts audit trail appends that failed. Audit writes are
// best-effort, so failures surface here and in the logs rather than as
// rolled-back transactions.
var AuditWriteFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "audit_write_failures_total",
		Help:      "Number of failed audit trail writes.",
	},
)

// AccountsCreated counts opened accounts by type.
var AccountsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "accounts_created_total",
		Help:      "Number of accounts opened by account type.",
	},
	[]string{"type"},
)
