package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexbuzzer-backend/internal/models"
)

func seedWallet(t *testing.T, m *Memory, name string, balanceCents int) models.User {
	t.Helper()
	ctx := context.Background()
	u := models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: models.RoleUser}
	if err := m.CreateUser(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := m.CreateWallet(ctx, u.ID); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	m.SetBalance(u.ID, balanceCents)
	return u
}

func TestApplyWalletDeltaWritesLedgerRow(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := seedWallet(t, m, "payer", 1000)

	w, err := m.ApplyWalletDelta(ctx, u.ID, -300, models.Transaction{
		UserID:      u.ID,
		AmountCents: -300,
		Type:        models.TxCallCharge,
		Status:      models.TxCompleted,
		Description: "test debit",
	})
	if err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if w.BalanceCents != 700 {
		t.Errorf("balance = %d, want 700", w.BalanceCents)
	}

	txs, err := m.ListTransactions(ctx, u.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(txs))
	}
	if txs[0].AmountCents != -300 || txs[0].Type != models.TxCallCharge {
		t.Errorf("ledger row = %+v", txs[0])
	}
}

func TestApplyWalletDeltaMissingWallet(t *testing.T) {
	m := NewMemory()
	_, err := m.ApplyWalletDelta(context.Background(), 42, 100, models.Transaction{UserID: 42, AmountCents: 100})
	if !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}
}

func TestCompleteDepositCreditsOnce(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := seedWallet(t, m, "depositor", 0)

	pending := models.Transaction{
		UserID:      u.ID,
		AmountCents: 5000,
		Type:        models.TxDeposit,
		Status:      models.TxPending,
		OrderID:     "DEPOSIT-TEST-1",
	}
	if err := m.CreateTransaction(ctx, &pending); err != nil {
		t.Fatalf("create pending deposit: %v", err)
	}

	w, txn, err := m.CompleteDeposit(ctx, "DEPOSIT-TEST-1")
	if err != nil {
		t.Fatalf("complete deposit: %v", err)
	}
	if w.BalanceCents != 5000 {
		t.Errorf("balance = %d, want 5000", w.BalanceCents)
	}
	if txn.Status != models.TxCompleted {
		t.Errorf("txn status = %s, want completed", txn.Status)
	}

	// A replayed notification must not credit twice.
	if _, _, err := m.CompleteDeposit(ctx, "DEPOSIT-TEST-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("duplicate completion: err = %v, want ErrInvalidState", err)
	}
	w2, _ := m.GetWallet(ctx, u.ID)
	if w2.BalanceCents != 5000 {
		t.Errorf("balance after replay = %d, want 5000", w2.BalanceCents)
	}
}

func TestCompleteDepositUnknownOrder(t *testing.T) {
	m := NewMemory()
	if _, _, err := m.CompleteDeposit(context.Background(), "DEPOSIT-MISSING"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSettleCallMovesBothBalances(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	caller := seedWallet(t, m, "caller", 1000)
	model := seedWallet(t, m, "model", 0)

	call := models.CallSession{
		UserID:    caller.ID,
		ModelID:   model.ID,
		Type:      models.CallVoice,
		Status:    models.CallActive,
		RateCents: 497,
		StartTime: time.Now(),
	}
	if err := m.CreateCallSession(ctx, &call); err != nil {
		t.Fatalf("create call: %v", err)
	}

	settled, err := m.SettleCall(ctx, CallSettlement{
		CallID:             call.ID,
		EndTime:            call.StartTime.Add(75 * time.Second),
		DurationSeconds:    75,
		TotalCostCents:     994,
		ModelCreditCents:   745,
		ChargeDescription:  "charge",
		RevenueDescription: "revenue",
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Status != models.CallCompleted {
		t.Errorf("status = %s, want completed", settled.Status)
	}
	if settled.TotalCostCents != 994 {
		t.Errorf("total cost = %d, want 994", settled.TotalCostCents)
	}

	cw, _ := m.GetWallet(ctx, caller.ID)
	mw, _ := m.GetWallet(ctx, model.ID)
	if cw.BalanceCents != 6 {
		t.Errorf("caller balance = %d, want 6", cw.BalanceCents)
	}
	if mw.BalanceCents != 745 {
		t.Errorf("model balance = %d, want 745", mw.BalanceCents)
	}

	callerTxs, _ := m.ListTransactions(ctx, caller.ID)
	modelTxs, _ := m.ListTransactions(ctx, model.ID)
	if len(callerTxs) != 1 || callerTxs[0].AmountCents != -994 || callerTxs[0].RelatedEntityID != call.ID {
		t.Errorf("caller ledger = %+v", callerTxs)
	}
	if len(modelTxs) != 1 || modelTxs[0].AmountCents != 745 || modelTxs[0].RelatedEntityID != call.ID {
		t.Errorf("model ledger = %+v", modelTxs)
	}
}

func TestSettleCallNotActive(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	caller := seedWallet(t, m, "caller", 1000)
	model := seedWallet(t, m, "model", 0)

	call := models.CallSession{
		UserID:    caller.ID,
		ModelID:   model.ID,
		Type:      models.CallVoice,
		Status:    models.CallCompleted,
		RateCents: 497,
		StartTime: time.Now(),
	}
	if err := m.CreateCallSession(ctx, &call); err != nil {
		t.Fatalf("create call: %v", err)
	}

	_, err := m.SettleCall(ctx, CallSettlement{
		CallID:           call.ID,
		EndTime:          time.Now(),
		DurationSeconds:  60,
		TotalCostCents:   497,
		ModelCreditCents: 372,
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}

	// No balances moved and no ledger rows were written.
	cw, _ := m.GetWallet(ctx, caller.ID)
	if cw.BalanceCents != 1000 {
		t.Errorf("caller balance = %d, want 1000 untouched", cw.BalanceCents)
	}
	txs, _ := m.ListTransactions(ctx, caller.ID)
	if len(txs) != 0 {
		t.Errorf("expected no ledger rows, got %d", len(txs))
	}
}

func TestSettleCallMissingModelWalletRollsBack(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	caller := seedWallet(t, m, "caller", 1000)

	call := models.CallSession{
		UserID:    caller.ID,
		ModelID:   9999, // no wallet
		Type:      models.CallVoice,
		Status:    models.CallActive,
		RateCents: 497,
		StartTime: time.Now(),
	}
	if err := m.CreateCallSession(ctx, &call); err != nil {
		t.Fatalf("create call: %v", err)
	}

	_, err := m.SettleCall(ctx, CallSettlement{
		CallID:           call.ID,
		EndTime:          time.Now(),
		DurationSeconds:  60,
		TotalCostCents:   497,
		ModelCreditCents: 372,
	})
	if !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}

	cw, _ := m.GetWallet(ctx, caller.ID)
	if cw.BalanceCents != 1000 {
		t.Errorf("caller balance = %d, want 1000 after rollback", cw.BalanceCents)
	}
	txs, _ := m.ListTransactions(ctx, caller.ID)
	if len(txs) != 0 {
		t.Errorf("expected debit row undone, got %d rows", len(txs))
	}
	got, _ := m.GetCallSession(ctx, call.ID)
	if got.Status != models.CallActive {
		t.Errorf("call status = %s, want still active", got.Status)
	}
}

func TestScheduledCallStatusTerminal(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c := models.ScheduledCall{
		UserID:        1,
		ModelID:       2,
		ScheduledTime: time.Now().Add(time.Hour),
		Duration:      10,
		Type:          models.CallVoice,
		Status:        models.SchedulePending,
		RateCents:     497,
	}
	if err := m.CreateScheduledCall(ctx, &c); err != nil {
		t.Fatalf("create scheduled call: %v", err)
	}

	if _, err := m.UpdateScheduledCallStatus(ctx, c.ID, models.ScheduleConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := m.UpdateScheduledCallStatus(ctx, c.ID, models.ScheduleCancelled); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("update after confirm: err = %v, want ErrInvalidState", err)
	}
}

func TestGetWalletMissing(t *testing.T) {
	m := NewMemory()
	if _, err := m.GetWallet(context.Background(), 7); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}
}
