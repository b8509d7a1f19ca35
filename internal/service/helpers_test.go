package service

import (
	"context"
	"testing"
	"time"

	"github.com/AldairAG/PayGlobal/internal/database"
	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/lock"
	"github.com/AldairAG/PayGlobal/internal/models"
	"github.com/AldairAG/PayGlobal/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestStore opens a private in-memory database. One connection keeps the
// whole test on the same database.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return repository.NewStore(db)
}

type fixture struct {
	ctx         context.Context
	store       *repository.Store
	plan        Plan
	users       *UserService
	network     *NetworkService
	commissions *CommissionService
	licenses    *LicenseService
	wallets     *WalletService
	journal     *JournalService
	passive     *PassiveIncomeBatch
	ranks       *RankAssignmentBatch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newTestStore(t)
	plan := DefaultPlan()
	log := zap.NewNop()
	locker := lock.NewLocal()
	commissions := NewCommissionService(store, plan, log)
	return &fixture{
		ctx:         context.Background(),
		store:       store,
		plan:        plan,
		users:       NewUserService(store, log),
		network:     NewNetworkService(store, plan),
		commissions: commissions,
		licenses:    NewLicenseService(store, plan, commissions, log),
		wallets:     NewWalletService(store, log),
		journal:     NewJournalService(store, log),
		passive:     NewPassiveIncomeBatch(store, plan, commissions, locker, time.Minute, log),
		ranks:       NewRankAssignmentBatch(store, plan, locker, time.Minute, log),
	}
}

// chain registers each username referred by the previous one.
func (f *fixture) chain(t *testing.T, usernames ...string) {
	t.Helper()
	referrer := ""
	for _, name := range usernames {
		f.register(t, name, referrer)
		referrer = name
	}
}

func (f *fixture) register(t *testing.T, username, referrer string) *models.User {
	t.Helper()
	u, err := f.users.Register(f.ctx, RegisterInput{Username: username, Referrer: referrer})
	require.NoError(t, err)
	return u
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.store.Users.GetByUsername(username)
	require.NoError(t, err)
	return u
}

func (f *fixture) license(t *testing.T, username string) *models.License {
	t.Helper()
	l, err := f.store.Licenses.GetByUserID(f.user(t, username).ID)
	require.NoError(t, err)
	return l
}

// setLicense overwrites the user's license state.
func (f *fixture) setLicense(t *testing.T, username, price, cap, accrued string, active bool) {
	t.Helper()
	l := f.license(t, username)
	l.Price, l.Cap, l.Accrued, l.Active = dec(price), dec(cap), dec(accrued), active
	require.NoError(t, f.store.Licenses.Save(l))
}

func (f *fixture) fund(t *testing.T, username, kind, amount string) {
	t.Helper()
	_, err := f.store.Wallets.Credit(f.user(t, username).ID, kind, dec(amount))
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, username, kind string) decimal.Decimal {
	t.Helper()
	w, err := f.store.Wallets.Get(f.user(t, username).ID, kind)
	require.NoError(t, err)
	return w.Balance
}

// balances snapshots every wallet by "username/kind".
func (f *fixture) balances(t *testing.T) map[string]decimal.Decimal {
	t.Helper()
	names, err := f.store.Users.ListUsernames()
	require.NoError(t, err)
	out := map[string]decimal.Decimal{}
	for _, name := range names {
		for _, kind := range []string{domain.WalletCommissions, domain.WalletDividends} {
			out[name+"/"+kind] = f.balance(t, name, kind)
		}
	}
	return out
}

func (f *fixture) journalFor(t *testing.T, username string) []models.Transaction {
	t.Helper()
	list, _, err := f.journal.List(f.ctx, username, TransactionQuery{Limit: 100})
	require.NoError(t, err)
	return list
}
