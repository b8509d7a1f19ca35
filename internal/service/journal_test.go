package service

import (
	"testing"

	"github.com/AldairAG/PayGlobal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{domain.TxStatusPending, domain.TxStatusApproved, true},
		{domain.TxStatusPending, domain.TxStatusRejected, true},
		{domain.TxStatusPending, domain.TxStatusCompleted, true},
		{domain.TxStatusApproved, domain.TxStatusCompleted, true},
		{domain.TxStatusApproved, domain.TxStatusRejected, false},
		{domain.TxStatusCompleted, domain.TxStatusPending, false},
		{domain.TxStatusRejected, domain.TxStatusApproved, false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			err := checkTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidStatus)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u", "")
	res, err := f.licenses.Purchase(f.ctx, "u", dec("100"))
	require.NoError(t, err)

	out, err := f.journal.UpdateStatus(f.ctx, res.Transaction.Reference, domain.TxStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, out.Status)

	_, err = f.journal.UpdateStatus(f.ctx, res.Transaction.Reference, domain.TxStatusApproved)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatusLeavesWithdrawalRejectionToWallets(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u", "")
	f.fund(t, "u", domain.WalletCommissions, "10")
	w, err := f.wallets.RequestWithdrawal(f.ctx, "u", domain.WalletCommissions, dec("10"), "addr")
	require.NoError(t, err)

	_, err = f.journal.UpdateStatus(f.ctx, w.Reference, domain.TxStatusRejected)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.True(t, f.balance(t, "u", domain.WalletCommissions).IsZero())
}

func TestListFiltersByConcept(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "a", "b")
	_, err := f.licenses.Purchase(f.ctx, "b", dec("1000"))
	require.NoError(t, err)
	_, err = f.licenses.Purchase(f.ctx, "b", dec("1000"))
	require.NoError(t, err)

	list, total, err := f.journal.List(f.ctx, "a", TransactionQuery{Concept: domain.ConceptDirectRegistrationBonus, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)

	list, _, err = f.journal.List(f.ctx, "a", TransactionQuery{Concept: domain.ConceptRenewalBonus})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMonthlyEarningsCountsCompletedIncomeOnly(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "a", "b")
	f.setLicense(t, "a", "1000", "2000", "0", true)
	_, err := f.licenses.Purchase(f.ctx, "b", dec("1000"))
	require.NoError(t, err)
	_, err = f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)

	// A transfer is not income.
	f.register(t, "c", "")
	f.fund(t, "c", domain.WalletDividends, "9")
	_, err = f.wallets.Transfer(f.ctx, "c", "a", dec("9"), domain.WalletDividends)
	require.NoError(t, err)

	earnings, err := f.journal.MonthlyEarnings(f.ctx, "a")
	require.NoError(t, err)
	require.Len(t, earnings, 1)
	// 70 inscription plus 5 passive income.
	assert.True(t, earnings[0].Total.Equal(dec("75")), "total %s", earnings[0].Total)
}
