package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankAssignmentFromDownlineTotal(t *testing.T) {
	f := newFixture(t)
	f.register(t, "top", "")
	f.register(t, "x", "top")
	f.register(t, "y", "top")
	f.register(t, "z", "x")
	f.setLicense(t, "x", "2000", "4000", "0", true)
	f.setLicense(t, "y", "1000", "2000", "0", true)
	f.setLicense(t, "z", "2000", "4000", "0", true)
	// top's own license does not count.
	f.setLicense(t, "top", "50000", "100000", "0", true)

	report, err := f.ranks.Run(f.ctx, runDay)
	require.NoError(t, err)
	assert.Zero(t, report.Failed())

	top := f.user(t, "top")
	assert.Equal(t, 1, top.Rank, "5000 in the downline is SENIOR_MANAGER")
	assert.Equal(t, 0, f.user(t, "x").Rank)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 3, report.Skipped)
}

func TestRankAssignmentFollowsLicenseGrowth(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "top", "x")
	f.setLicense(t, "x", "5000", "10000", "0", true)

	_, err := f.ranks.Run(f.ctx, runDay)
	require.NoError(t, err)
	assert.Equal(t, 1, f.user(t, "top").Rank)

	f.setLicense(t, "x", "25000", "50000", "0", true)
	report, err := f.ranks.Run(f.ctx, runDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, f.user(t, "top").Rank)
	assert.Equal(t, 1, report.Processed)

	// A run with nothing new changes nothing.
	report, err = f.ranks.Run(f.ctx, runDay.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Zero(t, report.Processed)
	assert.Equal(t, 2, report.Skipped)
}

func TestRankAssignmentCountsWholeDownline(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	f.setLicense(t, "j", "10000", "20000", "0", true)

	_, err := f.ranks.Run(f.ctx, runDay)
	require.NoError(t, err)

	// j sits nine levels below a and still counts.
	assert.Equal(t, 2, f.user(t, "a").Rank)
	assert.Equal(t, 0, f.user(t, "j").Rank)
}
