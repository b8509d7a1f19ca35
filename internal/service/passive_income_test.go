package service

import (
	"context"
	"testing"
	"time"

	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestPassiveIncomeCreditsBelowCap(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u", "")
	f.setLicense(t, "u", "100", "200", "190", true)

	report, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Zero(t, report.Failed())

	assert.True(t, f.balance(t, "u", domain.WalletDividends).Equal(dec("0.5")))
	l := f.license(t, "u")
	assert.True(t, l.Active)
	assert.True(t, l.Accrued.Equal(dec("190.5")))
	assert.Equal(t, "2026-03-02", l.LastAccruedOn)

	journal := f.journalFor(t, "u")
	require.Len(t, journal, 1)
	assert.Equal(t, domain.ConceptPassiveIncome, journal[0].Concept)
	assert.Equal(t, domain.PaymentDividendsWallet, journal[0].PaymentMethod)
}

func TestPassiveIncomeCapReachedCreditsOverflowWithoutCascade(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "parent", "u")
	f.setLicense(t, "parent", "1000", "2000", "0", true)
	f.setLicense(t, "u", "100", "200", "199.6", true)
	require.NoError(t, f.store.Users.UpdateRank(f.user(t, "u").ID, 1))

	_, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "u", domain.WalletDividends).Equal(dec("100.6")))
	l := f.license(t, "u")
	assert.False(t, l.Active)
	assert.True(t, l.Accrued.Equal(dec("200")))
	// The capped license does not cascade.
	assert.True(t, f.balance(t, "parent", domain.WalletCommissions).IsZero())
}

func TestPassiveIncomeCascadesByRankDepth(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "g", "p", "u")
	f.setLicense(t, "u", "1000", "2000", "0", true)
	require.NoError(t, f.store.Users.UpdateRank(f.user(t, "u").ID, 1))

	_, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)

	// delta = 1000 * 0.005 = 5; level 1 gets 10%, depth 1 stops there.
	assert.True(t, f.balance(t, "u", domain.WalletDividends).Equal(dec("5")))
	assert.True(t, f.balance(t, "p", domain.WalletCommissions).Equal(dec("0.5")))
	assert.True(t, f.balance(t, "g", domain.WalletCommissions).IsZero())
}

func TestPassiveIncomeIsIdempotentPerDay(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u", "")
	f.setLicense(t, "u", "1000", "2000", "0", true)

	first, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)
	assert.Zero(t, second.Processed)
	assert.Equal(t, 1, second.Skipped)
	assert.True(t, f.balance(t, "u", domain.WalletDividends).Equal(dec("5")))

	_, err = f.passive.Run(f.ctx, runDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, f.balance(t, "u", domain.WalletDividends).Equal(dec("10")))

	run, err := f.store.BatchRuns.Get(domain.BatchPassiveIncome, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, second.RunID, run.RunID)
}

func TestPassiveIncomeSkipsBackdatedRerun(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "parent", "u")
	f.setLicense(t, "u", "1000", "2000", "0", true)
	require.NoError(t, f.store.Users.UpdateRank(f.user(t, "u").ID, 1))

	_, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)
	_, err = f.passive.Run(f.ctx, runDay.AddDate(0, 0, 1))
	require.NoError(t, err)

	rerun, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)
	assert.Zero(t, rerun.Processed)
	assert.Equal(t, 1, rerun.Skipped)

	assert.True(t, f.balance(t, "u", domain.WalletDividends).Equal(dec("10")))
	assert.True(t, f.balance(t, "parent", domain.WalletCommissions).Equal(dec("1")))
	assert.Equal(t, "2026-03-03", f.license(t, "u").LastAccruedOn)
}

func TestPassiveIncomeIsolatesItemFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ok1", "")
	f.register(t, "ok2", "")
	// broken has a license but no wallets.
	broken := &models.User{Username: "broken"}
	require.NoError(t, f.store.Users.Create(broken))
	require.NoError(t, f.store.Licenses.Create(&models.License{
		UserID: broken.ID, Price: dec("100"), Cap: dec("200"), Accrued: dec("0"), Active: true,
	}))
	f.setLicense(t, "ok1", "100", "200", "0", true)
	f.setLicense(t, "ok2", "100", "200", "0", true)

	report, err := f.passive.Run(f.ctx, runDay)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	require.Equal(t, 1, report.Failed())
	assert.ErrorIs(t, &report.Failures[0], domain.ErrNotFound)

	assert.True(t, f.balance(t, "ok1", domain.WalletDividends).Equal(dec("0.5")))
	assert.True(t, f.balance(t, "ok2", domain.WalletDividends).Equal(dec("0.5")))

	// The failed license was rolled back and is retried on the next run.
	l := f.license(t, "broken")
	assert.True(t, l.Accrued.IsZero())
	assert.Empty(t, l.LastAccruedOn)
}

func TestPassiveIncomeRejectsConcurrentRun(t *testing.T) {
	f := newFixture(t)
	release, err := f.passive.runner.locker.Acquire(context.Background(), "payglobal:batch:"+domain.BatchPassiveIncome, time.Minute)
	require.NoError(t, err)
	defer release()

	_, err = f.passive.Run(f.ctx, runDay)
	assert.ErrorIs(t, err, ErrBatchRunning)
}

func TestPassiveIncomeStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u", "")
	f.setLicense(t, "u", "100", "200", "0", true)

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	_, err := f.passive.Run(ctx, runDay)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.balance(t, "u", domain.WalletDividends).IsZero())
}
