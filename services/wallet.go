package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientBalance means the conditional decrement did not apply.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	// ErrDuplicateDebit means the unique ledger index rejected a second
	// deduction for the same order.
	ErrDuplicateDebit = errors.New("duplicate wallet deduction")
)

// walletStore is the persistence boundary of the ledger. The gorm
// implementation backs production; tests exercise the ledger semantics
// through an in-memory implementation.
type walletStore interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.UserWallet, error)
	FindDeduction(ctx context.Context, walletID, orderID uint) (*models.WalletTransaction, error)
	// DebitBalance atomically decrements the balance when it covers the
	// amount and appends the transaction, or fails with
	// ErrInsufficientBalance / ErrDuplicateDebit leaving both untouched.
	DebitBalance(ctx context.Context, walletID uint, amount int64, txn *models.WalletTransaction) error
	CreditBalance(ctx context.Context, walletID uint, amount int64, txn *models.WalletTransaction) error
	MirrorUserBalance(ctx context.Context, userID uint, balance int64) error
	WalletWithTransactions(ctx context.Context, userID uint) (*models.UserWallet, error)
}

// WalletLedger owns per-user balances and their append-only transaction
// logs. Debits are idempotent per order id and can never take a balance
// negative or double-deduct, even under concurrent requests: the decrement
// is a single conditional update, not a read-modify-write.
type WalletLedger struct {
	store  walletStore
	logger *zap.Logger
}

func NewWalletLedger(db *gorm.DB, currency string, logger *zap.Logger) *WalletLedger {
	return &WalletLedger{store: &gormWalletStore{db: db, currency: currency}, logger: logger}
}

func newWalletLedgerWithStore(store walletStore, logger *zap.Logger) *WalletLedger {
	return &WalletLedger{store: store, logger: logger}
}

// Debit deducts amount from the user's wallet for an order. A replayed call
// for the same order returns the prior transaction with replayed=true and
// moves no money.
func (l *WalletLedger) Debit(ctx context.Context, userID uint, amount int64, orderID uint) (*models.WalletTransaction, bool, error) {
	if amount <= 0 {
		return nil, false, validationErr("debit amount must be positive")
	}

	wallet, err := l.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, false, internalErr("wallet lookup failed", err)
	}

	if prior, err := l.store.FindDeduction(ctx, wallet.ID, orderID); err != nil {
		return nil, false, internalErr("wallet ledger lookup failed", err)
	} else if prior != nil {
		l.logger.Info("wallet debit replayed, skipping re-deduction",
			zap.Uint("user_id", userID), zap.Uint("order_id", orderID))
		return prior, true, nil
	}

	txn := &models.WalletTransaction{
		WalletID: wallet.ID,
		OrderID:  &orderID,
		Type:     models.WalletTxDeduction,
		Amount:   amount,
		Status:   models.WalletTxStatusCompleted,
		Note:     fmt.Sprintf("payment for order %d", orderID),
	}

	switch err := l.store.DebitBalance(ctx, wallet.ID, amount, txn); {
	case errors.Is(err, ErrInsufficientBalance):
		// Re-read the balance: a concurrent debit may have landed since the
		// lookup above, and the shortfall should reflect what is there now.
		balance := wallet.Balance
		if fresh, ferr := l.store.GetOrCreate(ctx, userID); ferr == nil {
			balance = fresh.Balance
		}
		shortfall := amount - balance
		if shortfall < 0 {
			shortfall = 0
		}
		return nil, false, validationErr("insufficient wallet balance, short by %d", shortfall)
	case errors.Is(err, ErrDuplicateDebit):
		// Lost a race with a concurrent retry; the other call's deduction
		// stands and this one is a replay.
		prior, ferr := l.store.FindDeduction(ctx, wallet.ID, orderID)
		if ferr != nil || prior == nil {
			return nil, false, internalErr("wallet ledger in inconsistent state", ferr)
		}
		return prior, true, nil
	case err != nil:
		return nil, false, internalErr("wallet debit failed", err)
	}

	l.mirror(ctx, userID)
	return txn, false, nil
}

// Credit adds funds to the user's wallet.
func (l *WalletLedger) Credit(ctx context.Context, userID uint, amount int64, note string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, validationErr("credit amount must be positive")
	}

	wallet, err := l.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, internalErr("wallet lookup failed", err)
	}

	txn := &models.WalletTransaction{
		WalletID: wallet.ID,
		Type:     models.WalletTxCredit,
		Amount:   amount,
		Status:   models.WalletTxStatusCompleted,
		Note:     note,
	}
	if err := l.store.CreditBalance(ctx, wallet.ID, amount, txn); err != nil {
		return nil, internalErr("wallet credit failed", err)
	}

	l.mirror(ctx, userID)
	return txn, nil
}

// Wallet returns the user's wallet with its transaction log.
func (l *WalletLedger) Wallet(ctx context.Context, userID uint) (*models.UserWallet, error) {
	wallet, err := l.store.WalletWithTransactions(ctx, userID)
	if err != nil {
		return nil, internalErr("wallet lookup failed", err)
	}
	if wallet == nil {
		return nil, notFoundErr("wallet for user %d not found", userID)
	}
	return wallet, nil
}

// mirror copies the fresh balance onto the user profile for older clients.
// Best-effort: the ledger stays the source of truth.
func (l *WalletLedger) mirror(ctx context.Context, userID uint) {
	wallet, err := l.store.GetOrCreate(ctx, userID)
	if err != nil {
		l.logger.Warn("wallet balance mirror read failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if err := l.store.MirrorUserBalance(ctx, userID, wallet.Balance); err != nil {
		l.logger.Warn("wallet balance mirror write failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

type gormWalletStore struct {
	db       *gorm.DB
	currency string
}

func (s *gormWalletStore) GetOrCreate(ctx context.Context, userID uint) (*models.UserWallet, error) {
	var wallet models.UserWallet
	err := s.db.WithContext(ctx).
		Where(models.UserWallet{UserID: userID}).
		Attrs(models.UserWallet{Currency: s.currency}).
		FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *gormWalletStore) FindDeduction(ctx context.Context, walletID, orderID uint) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := s.db.WithContext(ctx).
		Where("wallet_id = ? AND order_id = ? AND type = ?", walletID, orderID, models.WalletTxDeduction).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *gormWalletStore) DebitBalance(ctx context.Context, walletID uint, amount int64, txn *models.WalletTransaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserWallet{}).
			Where("id = ? AND balance >= ?", walletID, amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		if err := tx.Create(txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateDebit
			}
			return err
		}
		return nil
	})
}

func (s *gormWalletStore) CreditBalance(ctx context.Context, walletID uint, amount int64, txn *models.WalletTransaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserWallet{}).
			Where("id = ?", walletID).
			UpdateColumn("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		return tx.Create(txn).Error
	})
}

func (s *gormWalletStore) MirrorUserBalance(ctx context.Context, userID uint, balance int64) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("wallet_balance", balance).Error
}

func (s *gormWalletStore) WalletWithTransactions(ctx context.Context, userID uint) (*models.UserWallet, error) {
	var wallet models.UserWallet
	err := s.db.WithContext(ctx).
		Preload("Transactions").
		Where("user_id = ?", userID).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
