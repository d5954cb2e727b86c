package wallet

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbook/internal/domain"
)

type WalletAPI interface {
	GetWallet(ctx context.Context) (*domain.Wallet, error)
}

type Session interface {
	IsAuthenticated() bool
	UpdateWalletBalance(ctx context.Context, balance domain.Amount) error
}

type WalletService struct {
	api     WalletAPI
	session Session
}

func NewWalletService(api WalletAPI, session Session) *WalletService {
	return &WalletService{api: api, session: session}
}

// Refresh pulls the balance from the backend and stores it in the session.
func (s *WalletService) Refresh(ctx context.Context) (domain.Amount, error) {
	if !s.session.IsAuthenticated() {
		return 0, domain.ErrNotAuthenticated
	}
	wallet, err := s.api.GetWallet(ctx)
	if err != nil {
		return 0, fmt.Errorf("get wallet: %w", err)
	}
	if err := s.session.UpdateWalletBalance(ctx, wallet.WalletBalance); err != nil {
		return 0, err
	}
	return wallet.WalletBalance, nil
}
