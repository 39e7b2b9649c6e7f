package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bankcore/ledger/internal/apperrors"
	"github.com/bankcore/ledger/internal/core/domain"
	portssvc "github.com/bankcore/ledger/internal/core/ports/services"
	"github.com/bankcore/ledger/internal/dto"
	"github.com/bankcore/ledger/internal/handlers"
	"github.com/bankcore/ledger/internal/platform/config"
	"github.com/bankcore/ledger/internal/utils"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

// --- Mock AccountService ---
type MockAccountSvc struct {
	mock.Mock
}

func (m *MockAccountSvc) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountByNumber(ctx context.Context, accountNumber string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ListAccounts(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) IsAccountOwner(ctx context.Context, accountNumber string, userID string) (bool, error) {
	args := m.Called(ctx, accountNumber, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountSvc) ActivateAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) DeactivateAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) FreezeAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) UnfreezeAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountSvc)(nil)

// --- Mock AuditService ---
type MockHandlerAuditSvc struct {
	mock.Mock
}

func (m *MockHandlerAuditSvc) RecordAccountChange(ctx context.Context, action domain.AuditAction, oldState *domain.Account, newState *domain.Account, userID string, description string) error {
	args := m.Called(ctx, action, oldState, newState, userID, description)
	return args.Error(0)
}

func (m *MockHandlerAuditSvc) RecordBalanceChange(ctx context.Context, action domain.AuditAction, account *domain.Account, oldBalance decimal.Decimal, newBalance decimal.Decimal, transactionID string, userID string, description string) error {
	args := m.Called(ctx, action, account, oldBalance, newBalance, transactionID, userID, description)
	return args.Error(0)
}

func (m *MockHandlerAuditSvc) RecordTransactionEvent(ctx context.Context, txn *domain.FinancialTransaction, oldStatus domain.TransactionStatus, userID string, description string) error {
	args := m.Called(ctx, txn, oldStatus, userID, description)
	return args.Error(0)
}

func (m *MockHandlerAuditSvc) ListAccountAudit(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialAuditLog, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialAuditLog), args.Error(1)
}

func (m *MockHandlerAuditSvc) ListTransactionAudit(ctx context.Context, transactionID string) ([]domain.FinancialAuditLog, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialAuditLog), args.Error(1)
}

var _ portssvc.AuditSvc = (*MockHandlerAuditSvc)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockAccountSvc *MockAccountSvc
	mockAuditSvc   *MockHandlerAuditSvc
	userID         string
	authHeader     string
}

func (s *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.mockAccountSvc = new(MockAccountSvc)
	s.mockAuditSvc = new(MockHandlerAuditSvc)
	s.userID = uuid.NewString()

	token, err := utils.GenerateJWT(s.userID, testJWTSecret, time.Hour, "ledger-test")
	s.Require().NoError(err)
	s.authHeader = "Bearer " + token

	cfg := &config.Config{
		JWTSecret:         testJWTSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ledger-test",
		RateLimit:         "1000-M",
	}

	services := &portssvc.ServiceContainer{
		Account: s.mockAccountSvc,
		Audit:   s.mockAuditSvc,
	}

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, services)
}

func (s *AccountHandlerTestSuite) performRequest(method, path string, body any, authenticated bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", s.authHeader)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AccountHandlerTestSuite) sampleAccount() *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: "ACC-400000-AB12CD34",
		UserID:        s.userID,
		AccountType:   domain.Checking,
		CurrencyCode:  "USD",
		Balance:       decimal.NewFromInt(250),
		CreditLimit:   decimal.NewFromInt(100),
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     s.userID,
			LastUpdatedAt: now,
			LastUpdatedBy: s.userID,
		},
	}
}

func (s *AccountHandlerTestSuite) TestCreateAccount_Success() {
	account := s.sampleAccount()

	s.mockAccountSvc.On("CreateAccount", mock.Anything, mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
		return req.AccountType == domain.Checking && req.CurrencyCode == "USD"
	}), s.userID).Return(account, nil).Once()

	w := s.performRequest(http.MethodPost, "/api/v1/accounts", gin.H{
		"accountType":    "CHECKING",
		"currencyCode":   "USD",
		"initialDeposit": "250",
		"creditLimit":    "100",
	}, true)

	s.Equal(http.StatusCreated, w.Code)

	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(account.AccountID, resp.AccountID)
	s.Equal(account.AccountNumber, resp.AccountNumber)
	s.True(resp.AvailableBalance.Equal(decimal.NewFromInt(350)))
	s.mockAccountSvc.AssertExpectations(s.T())
}

func (s *AccountHandlerTestSuite) TestCreateAccount_InvalidCurrencyCode() {
	w := s.performRequest(http.MethodPost, "/api/v1/accounts", gin.H{
		"accountType":  "CHECKING",
		"currencyCode": "usd",
	}, true)

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockAccountSvc.AssertNotCalled(s.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountHandlerTestSuite) TestCreateAccount_UnknownAccountType() {
	w := s.performRequest(http.MethodPost, "/api/v1/accounts", gin.H{
		"accountType":  "OFFSHORE",
		"currencyCode": "USD",
	}, true)

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockAccountSvc.AssertNotCalled(s.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountHandlerTestSuite) TestCreateAccount_Unauthenticated() {
	w := s.performRequest(http.MethodPost, "/api/v1/accounts", gin.H{
		"accountType":  "CHECKING",
		"currencyCode": "USD",
	}, false)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AccountHandlerTestSuite) TestGetAccount_Success() {
	account := s.sampleAccount()
	s.mockAccountSvc.On("GetAccountByID", mock.Anything, account.AccountID, s.userID).Return(account, nil).Once()

	w := s.performRequest(http.MethodGet, "/api/v1/accounts/"+account.AccountID, nil, true)

	s.Equal(http.StatusOK, w.Code)

	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(account.AccountNumber, resp.AccountNumber)
}

func (s *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	s.mockAccountSvc.On("GetAccountByID", mock.Anything, accountID, s.userID).
		Return(nil, fmt.Errorf("%w: account not found", apperrors.ErrNotFound)).Once()

	w := s.performRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil, true)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *AccountHandlerTestSuite) TestListAccounts_DefaultPagination() {
	accounts := []domain.Account{*s.sampleAccount(), *s.sampleAccount()}
	s.mockAccountSvc.On("ListAccounts", mock.Anything, s.userID, 20, 0).Return(accounts, nil).Once()

	w := s.performRequest(http.MethodGet, "/api/v1/accounts", nil, true)

	s.Equal(http.StatusOK, w.Code)

	var resp dto.ListAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Accounts, 2)
	s.mockAccountSvc.AssertExpectations(s.T())
}

func (s *AccountHandlerTestSuite) TestFreezeAccount_Success() {
	account := s.sampleAccount()
	account.IsFrozen = true
	s.mockAccountSvc.On("FreezeAccount", mock.Anything, account.AccountID, s.userID).Return(account, nil).Once()

	w := s.performRequest(http.MethodPost, "/api/v1/accounts/"+account.AccountID+"/freeze", nil, true)

	s.Equal(http.StatusOK, w.Code)

	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.IsFrozen)
}

func (s *AccountHandlerTestSuite) TestListAccountAudit_ForbiddenForNonOwner() {
	accountID := uuid.NewString()
	s.mockAccountSvc.On("GetAccountByID", mock.Anything, accountID, s.userID).
		Return(nil, fmt.Errorf("%w: account belongs to another user", apperrors.ErrForbidden)).Once()

	w := s.performRequest(http.MethodGet, "/api/v1/accounts/"+accountID+"/audit", nil, true)

	s.Equal(http.StatusForbidden, w.Code)
	s.mockAuditSvc.AssertNotCalled(s.T(), "ListAccountAudit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
