package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockWalletAPI struct {
	mock.Mock
}

func (m *MockWalletAPI) GetWallet(ctx context.Context) (*domain.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) IsAuthenticated() bool {
	return m.Called().Bool(0)
}

func (m *MockSession) UpdateWalletBalance(ctx context.Context, balance domain.Amount) error {
	return m.Called(ctx, balance).Error(0)
}

func TestWalletService_Refresh(t *testing.T) {
	mockAPI := &MockWalletAPI{}
	mockSession := &MockSession{}
	service := NewWalletService(mockAPI, mockSession)
	ctx := context.Background()

	mockSession.On("IsAuthenticated").Return(true)
	mockAPI.On("GetWallet", ctx).Return(&domain.Wallet{WalletBalance: domain.Rupees(42000)}, nil).Once()
	mockSession.On("UpdateWalletBalance", ctx, domain.Rupees(42000)).Return(nil).Once()

	balance, err := service.Refresh(ctx)

	assert.NoError(t, err)
	assert.Equal(t, domain.Rupees(42000), balance)
	mockAPI.AssertExpectations(t)
	mockSession.AssertExpectations(t)
}

func TestWalletService_Refresh_NotAuthenticated(t *testing.T) {
	mockAPI := &MockWalletAPI{}
	mockSession := &MockSession{}
	service := NewWalletService(mockAPI, mockSession)

	mockSession.On("IsAuthenticated").Return(false)

	_, err := service.Refresh(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	mockAPI.AssertNotCalled(t, "GetWallet", mock.Anything)
}

func TestWalletService_Refresh_APIError(t *testing.T) {
	mockAPI := &MockWalletAPI{}
	mockSession := &MockSession{}
	service := NewWalletService(mockAPI, mockSession)
	ctx := context.Background()

	apiErr := errors.New("unauthorized")
	mockSession.On("IsAuthenticated").Return(true)
	mockAPI.On("GetWallet", ctx).Return(nil, apiErr).Once()

	_, err := service.Refresh(ctx)

	assert.ErrorIs(t, err, apiErr)
	mockSession.AssertNotCalled(t, "UpdateWalletBalance", mock.Anything, mock.Anything)
}
