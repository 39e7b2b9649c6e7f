package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bankcore/ledger/internal/apperrors"
	"github.com/bankcore/ledger/internal/core/domain"
	portsrepo "github.com/bankcore/ledger/internal/core/ports/repositories"
	portssvc "github.com/bankcore/ledger/internal/core/ports/services"
	"github.com/bankcore/ledger/internal/core/services"
	"github.com/bankcore/ledger/internal/dto"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.FinancialTransaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.FinancialTransaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByReference(ctx context.Context, referenceNumber string) (*domain.FinancialTransaction, error) {
	args := m.Called(ctx, referenceNumber)
	var txn *domain.FinancialTransaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.FinancialTransaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error) {
	args := m.Called(ctx, referenceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialTransaction, error) {
	args := m.Called(ctx, accountID, limit, offset)
	var txns []domain.FinancialTransaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.FinancialTransaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) SearchTransactions(ctx context.Context, criteria portsrepo.TransactionSearchCriteria) ([]domain.FinancialTransaction, error) {
	args := m.Called(ctx, criteria)
	var txns []domain.FinancialTransaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.FinancialTransaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) SumCompletedAmountByType(ctx context.Context, userID string) (map[domain.TransactionType]decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	var totals map[domain.TransactionType]decimal.Decimal
	if args.Get(0) != nil {
		totals = args.Get(0).(map[domain.TransactionType]decimal.Decimal)
	}
	return totals, args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.FinancialTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.FinancialTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.FinancialTransaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockAudit       *MockAuditSvc
	service         portssvc.TransactionSvcFacade

	userID string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAudit = new(MockAuditSvc)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockAudit, decimal.NewFromInt(1_000_000))
	suite.userID = uuid.NewString()
}

func (suite *TransactionServiceTestSuite) newAccount(number, balance string) *domain.Account {
	b, err := decimal.NewFromString(balance)
	suite.Require().NoError(err)
	return &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: number,
		UserID:        suite.userID,
		AccountType:   domain.Checking,
		CurrencyCode:  "USD",
		Balance:       b,
		IsActive:      true,
	}
}

// expectEngine wires the Begin/Rollback pair every balance-moving call uses.
func (suite *TransactionServiceTestSuite) expectEngine() {
	suite.mockAccountRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockAccountRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// --- Deposit Tests ---

func (suite *TransactionServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "50")
	amount := decimal.NewFromInt(25)

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("ExistsByReferenceNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.FinancialTransaction) bool {
		return txn.Status == domain.StatusPending &&
			txn.TransactionType == domain.Deposit &&
			strings.HasPrefix(txn.ReferenceNumber, "DEP-")
	})).Return(nil).Once()
	suite.expectEngine()
	suite.mockAccountRepo.On("FindAccountsByNumbersForUpdate", mock.Anything, mock.Anything, []string{account.AccountNumber}).
		Return(map[string]domain.Account{account.AccountNumber: *account}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(deltas map[string]decimal.Decimal) bool {
		return len(deltas) == 1 && deltas[account.AccountNumber].Equal(amount)
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.FinancialTransaction) bool {
		return txn.Status == domain.StatusCompleted && txn.ProcessedAt != nil
	})).Return(nil).Once()
	suite.mockAccountRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("RecordBalanceChange", mock.Anything, domain.AuditDeposit, mock.Anything, mock.Anything, mock.Anything, mock.Anything, suite.userID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{AccountNumber: account.AccountNumber, Amount: amount}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.StatusCompleted, txn.Status)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeposit_ExceedsCeiling() {
	ctx := context.Background()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{
		AccountNumber: "ACC-100",
		Amount:        decimal.NewFromInt(1_000_001),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeposit_NonPositiveAmount() {
	ctx := context.Background()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{AccountNumber: "ACC-100", Amount: decimal.Zero}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestDeposit_NotOwner() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "50")
	account.UserID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{AccountNumber: account.AccountNumber, Amount: decimal.NewFromInt(10)}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestDeposit_FrozenAccountRejected() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "50")
	account.IsFrozen = true

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{AccountNumber: account.AccountNumber, Amount: decimal.NewFromInt(100)}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeposit_InactiveAccountRejected() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "50")
	account.IsActive = false

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	txn, err := suite.service.Deposit(ctx, dto.DepositRequest{AccountNumber: account.AccountNumber, Amount: decimal.NewFromInt(100)}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

// --- Withdraw Tests ---

func (suite *TransactionServiceTestSuite) TestWithdraw_InsufficientFundsMarksFailed() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "10")
	amount := decimal.NewFromInt(50)

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("ExistsByReferenceNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.FinancialTransaction")).Return(nil).Once()
	suite.expectEngine()
	suite.mockAccountRepo.On("FindAccountsByNumbersForUpdate", mock.Anything, mock.Anything, []string{account.AccountNumber}).
		Return(map[string]domain.Account{account.AccountNumber: *account}, nil).Once()
	// The FAILED status lands in a separate write after rollback.
	suite.mockTxnRepo.On("UpdateTransaction", mock.Anything, mock.MatchedBy(func(txn domain.FinancialTransaction) bool {
		return txn.Status == domain.StatusFailed && txn.FailureReason != ""
	})).Return(nil).Once()
	suite.mockAudit.On("RecordTransactionEvent", mock.Anything, mock.Anything, domain.StatusPending, suite.userID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.Withdraw(ctx, dto.WithdrawRequest{AccountNumber: account.AccountNumber, Amount: amount}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestWithdraw_FrozenAccountRejected() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "500")
	account.IsFrozen = true

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("ExistsByReferenceNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.FinancialTransaction")).Return(nil).Once()
	suite.expectEngine()
	suite.mockAccountRepo.On("FindAccountsByNumbersForUpdate", mock.Anything, mock.Anything, []string{account.AccountNumber}).
		Return(map[string]domain.Account{account.AccountNumber: *account}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", mock.Anything, mock.AnythingOfType("domain.FinancialTransaction")).Return(nil).Once()
	suite.mockAudit.On("RecordTransactionEvent", mock.Anything, mock.Anything, domain.StatusPending, suite.userID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.Withdraw(ctx, dto.WithdrawRequest{AccountNumber: account.AccountNumber, Amount: decimal.NewFromInt(10)}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

// --- Transfer Tests ---

func (suite *TransactionServiceTestSuite) TestTransfer_SuccessConservesFunds() {
	ctx := context.Background()
	from := suite.newAccount("ACC-100", "200")
	to := suite.newAccount("ACC-200", "50")
	to.UserID = uuid.NewString()
	amount := decimal.NewFromInt(75)

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, from.AccountNumber).Return(from, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, to.AccountNumber).Return(to, nil).Once()
	suite.mockTxnRepo.On("ExistsByReferenceNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.FinancialTransaction) bool {
		return txn.TransactionType == domain.Transfer && strings.HasPrefix(txn.ReferenceNumber, "TRF-")
	})).Return(nil).Once()
	suite.expectEngine()
	suite.mockAccountRepo.On("FindAccountsByNumbersForUpdate", mock.Anything, mock.Anything, []string{from.AccountNumber, to.AccountNumber}).
		Return(map[string]domain.Account{from.AccountNumber: *from, to.AccountNumber: *to}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(deltas map[string]decimal.Decimal) bool {
		sum := decimal.Zero
		for _, d := range deltas {
			sum = sum.Add(d)
		}
		return len(deltas) == 2 && sum.IsZero() &&
			deltas[from.AccountNumber].Equal(amount.Neg()) &&
			deltas[to.AccountNumber].Equal(amount)
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.FinancialTransaction) bool {
		return txn.Status == domain.StatusCompleted
	})).Return(nil).Once()
	suite.mockAccountRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	// Both sides of the transfer land in the audit trail with their balances.
	matchBalance := func(want string) interface{} {
		return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString(want)) })
	}
	suite.mockAudit.On("RecordBalanceChange", mock.Anything, domain.AuditTransfer, from,
		matchBalance("200"), matchBalance("125"), mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("RecordBalanceChange", mock.Anything, domain.AuditTransfer, to,
		matchBalance("50"), matchBalance("125"), mock.Anything, suite.userID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		FromAccountNumber: from.AccountNumber,
		ToAccountNumber:   to.AccountNumber,
		Amount:            amount,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.Equal(from.AccountID, txn.FromAccountID)
	suite.Equal(to.AccountID, txn.ToAccountID)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestTransfer_SameAccountRejected() {
	ctx := context.Background()

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		FromAccountNumber: "ACC-100",
		ToAccountNumber:   "ACC-100",
		Amount:            decimal.NewFromInt(10),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByNumber", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestTransfer_CurrencyMismatch() {
	ctx := context.Background()
	from := suite.newAccount("ACC-100", "200")
	to := suite.newAccount("ACC-200", "50")
	to.CurrencyCode = "EUR"

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, from.AccountNumber).Return(from, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, to.AccountNumber).Return(to, nil).Once()

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		FromAccountNumber: from.AccountNumber,
		ToAccountNumber:   to.AccountNumber,
		Amount:            decimal.NewFromInt(10),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestTransfer_FrozenDestinationRejected() {
	ctx := context.Background()
	from := suite.newAccount("ACC-100", "200")
	to := suite.newAccount("ACC-200", "50")
	to.IsFrozen = true

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, from.AccountNumber).Return(from, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, to.AccountNumber).Return(to, nil).Once()

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		FromAccountNumber: from.AccountNumber,
		ToAccountNumber:   to.AccountNumber,
		Amount:            decimal.NewFromInt(75),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestTransfer_InactiveDestinationRejected() {
	ctx := context.Background()
	from := suite.newAccount("ACC-100", "200")
	to := suite.newAccount("ACC-200", "50")
	to.IsActive = false

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, from.AccountNumber).Return(from, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, to.AccountNumber).Return(to, nil).Once()

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		FromAccountNumber: from.AccountNumber,
		ToAccountNumber:   to.AccountNumber,
		Amount:            decimal.NewFromInt(75),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestTransfer_DestinationFrozenAtLockTimeMarksFailed() {
	ctx := context.Background()
	from := suite.newAccount("ACC-100", "200")
	to := suite.newAccount("ACC-200", "50")

	// The destination freezes between the pre-flight read and the row lock.
	lockedTo := *to
	lockedTo.IsFrozen = true

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, from.AccountNumber).Return(from, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, to.AccountNumber).Return(to, nil).Once()
	suite.mockTxnRepo.On("ExistsByReferenceNumber", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.FinancialTransaction")).Return(nil).Once()
	suite.expectEngine()
	suite.mockAccountRepo.On("FindAccountsByNumbersForUpdate", mock.Anything, mock.Anything, []string{from.AccountNumber, to.AccountNumber}).
		Return(map[string]domain.Account{from.AccountNumber: *from, to.AccountNumber: lockedTo}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", mock.Anything, mock.MatchedBy(func(txn domain.FinancialTransaction) bool {
		return txn.Status == domain.StatusFailed && txn.FailureReason != ""
	})).Return(nil).Once()
	suite.mockAudit.On("RecordTransactionEvent", mock.Anything, mock.Anything, domain.StatusPending, suite.userID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		FromAccountNumber: from.AccountNumber,
		ToAccountNumber:   to.AccountNumber,
		Amount:            decimal.NewFromInt(75),
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestTransfer_DuplicateReferenceConflicts() {
	ctx := context.Background()
	from := suite.newAccount("ACC-100", "200")
	to := suite.newAccount("ACC-200", "50")

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, from.AccountNumber).Return(from, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, to.AccountNumber).Return(to, nil).Once()
	suite.mockTxnRepo.On("ExistsByReferenceNumber", ctx, "TRF-123-ABCDEFGH").Return(true, nil).Once()

	txn, err := suite.service.Transfer(ctx, dto.TransferRequest{
		FromAccountNumber: from.AccountNumber,
		ToAccountNumber:   to.AccountNumber,
		Amount:            decimal.NewFromInt(10),
		ReferenceNumber:   "TRF-123-ABCDEFGH",
	}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

// --- Cancel Tests ---

func (suite *TransactionServiceTestSuite) TestCancelTransaction_Pending() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "50")
	txn := &domain.FinancialTransaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: "DEP-1-AAAAAAAA",
		TransactionType: domain.Deposit,
		Status:          domain.StatusPending,
		Amount:          decimal.NewFromInt(10),
		ToAccountID:     account.AccountID,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(updated domain.FinancialTransaction) bool {
		return updated.Status == domain.StatusCancelled && updated.ProcessedAt != nil
	})).Return(nil).Once()
	suite.mockAudit.On("RecordTransactionEvent", mock.Anything, mock.Anything, domain.StatusPending, suite.userID, mock.Anything).Return(nil).Once()

	cancelled, err := suite.service.CancelTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCancelTransaction_CompletedRejected() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "50")
	txn := &domain.FinancialTransaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Deposit,
		Status:          domain.StatusCompleted,
		Amount:          decimal.NewFromInt(10),
		ToAccountID:     account.AccountID,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	cancelled, err := suite.service.CancelTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(cancelled)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything)
}

// --- Reverse Tests ---

func (suite *TransactionServiceTestSuite) TestReverseTransaction_CompletedTransfer() {
	ctx := context.Background()
	from := suite.newAccount("ACC-100", "125")
	to := suite.newAccount("ACC-200", "125")
	amount := decimal.NewFromInt(75)
	processedAt := time.Now().UTC()
	txn := &domain.FinancialTransaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: "TRF-1-AAAAAAAA",
		TransactionType: domain.Transfer,
		Status:          domain.StatusCompleted,
		Amount:          amount,
		CurrencyCode:    "USD",
		FromAccountID:   from.AccountID,
		ToAccountID:     to.AccountID,
		ProcessedAt:     &processedAt,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, from.AccountID).Return(from, nil).Twice()
	suite.mockAccountRepo.On("FindAccountByID", ctx, to.AccountID).Return(to, nil).Once()
	suite.expectEngine()
	suite.mockAccountRepo.On("FindAccountsByNumbersForUpdate", mock.Anything, mock.Anything, []string{from.AccountNumber, to.AccountNumber}).
		Return(map[string]domain.Account{from.AccountNumber: *from, to.AccountNumber: *to}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(deltas map[string]decimal.Decimal) bool {
		return deltas[to.AccountNumber].Equal(amount.Neg()) && deltas[from.AccountNumber].Equal(amount)
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(updated domain.FinancialTransaction) bool {
		return updated.Status == domain.StatusReversed
	})).Return(nil).Once()
	suite.mockAccountRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("RecordTransactionEvent", mock.Anything, mock.Anything, domain.StatusCompleted, suite.userID, mock.Anything).Return(nil).Once()

	reversed, err := suite.service.ReverseTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusReversed, reversed.Status)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestReverseTransaction_DepositRejected() {
	ctx := context.Background()
	account := suite.newAccount("ACC-100", "50")
	txn := &domain.FinancialTransaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Deposit,
		Status:          domain.StatusCompleted,
		Amount:          decimal.NewFromInt(10),
		ToAccountID:     account.AccountID,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	reversed, err := suite.service.ReverseTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversed)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- Read Tests ---

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_NotInvolvedForbidden() {
	ctx := context.Background()
	otherAccount := suite.newAccount("ACC-900", "10")
	otherAccount.UserID = uuid.NewString()
	txn := &domain.FinancialTransaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Deposit,
		Status:          domain.StatusCompleted,
		ToAccountID:     otherAccount.AccountID,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, otherAccount.AccountID).Return(otherAccount, nil).Once()

	found, err := suite.service.GetTransactionByID(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestSearchTransactions_ScopedToCaller() {
	ctx := context.Background()
	expected := []domain.FinancialTransaction{{TransactionID: uuid.NewString()}}

	suite.mockTxnRepo.On("SearchTransactions", ctx, mock.MatchedBy(func(criteria portsrepo.TransactionSearchCriteria) bool {
		return criteria.UserID == suite.userID && criteria.Type == domain.Transfer
	})).Return(expected, nil).Once()

	txns, err := suite.service.SearchTransactions(ctx, dto.SearchTransactionsRequest{Type: "TRANSFER"}, suite.userID)

	suite.Require().NoError(err)
	suite.Len(txns, 1)
}

func (suite *TransactionServiceTestSuite) TestSearchTransactions_UnknownTypeRejected() {
	ctx := context.Background()

	txns, err := suite.service.SearchTransactions(ctx, dto.SearchTransactionsRequest{Type: "BARTER"}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(txns)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Suite ---
func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
