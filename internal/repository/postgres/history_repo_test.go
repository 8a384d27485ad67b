package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/repository"
	"github.com/ecotrace/ecotrace-backend/internal/repository/postgres"
	"github.com/ecotrace/ecotrace-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHistoryRepository_Filters(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	testutil.NewHistoryEntryBuilder(userID).
		At(base).
		WithType(domain.AnalysisTypeProductSearch).
		WithQuery("Oat Milk").
		WithAnalysis(testutil.Analysis("Oat Milk", "Food", 80)).
		Build(t, testDB.DB)
	testutil.NewHistoryEntryBuilder(userID).
		At(base.Add(time.Hour)).
		WithType(domain.AnalysisTypeBarcodeScan).
		WithQuery("Chocolate Bar").
		WithAnalysis(testutil.Analysis("Chocolate Bar", "Food", 35)).
		Build(t, testDB.DB)
	testutil.NewHistoryEntryBuilder(userID).
		At(base.Add(2 * time.Hour)).
		WithType(domain.AnalysisTypeURLAnalysis).
		WithQuery("Headphones").
		WithAnalysis(testutil.Analysis("Headphones", "Electronics", 55)).
		Build(t, testDB.DB)

	t.Run("analysis type", func(t *testing.T) {
		analysisType := domain.AnalysisTypeBarcodeScan
		entries, total, err := repos.History.GetByUserID(ctx, userID, repository.HistoryFilter{
			AnalysisType: &analysisType,
			Limit:        10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "Chocolate Bar", entries[0].Query)
	})

	t.Run("category and score combined", func(t *testing.T) {
		category := "Food"
		minScore := 50
		entries, total, err := repos.History.GetByUserID(ctx, userID, repository.HistoryFilter{
			Category:    &category,
			MinEcoScore: &minScore,
			Limit:       10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "Oat Milk", entries[0].Query)
	})

	t.Run("other users never leak in", func(t *testing.T) {
		entries, total, err := repos.History.GetByUserID(ctx, uuid.New(), repository.HistoryFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, entries)
	})

	t.Run("full read is ascending", func(t *testing.T) {
		entries, err := repos.History.GetAllByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		for i := 1; i < len(entries); i++ {
			assert.True(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
		}
	})
}

func TestUserRepository_EmailLookup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("mixed.case@example.com").Build(t, testDB.DB)

	found, err := repos.User.GetByEmail(ctx, "Mixed.Case@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repos.User.GetByEmail(ctx, "absent@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTokenRepository_GetByHash(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Anonymous().Build(t, testDB.DB)
	record := &domain.TokenRecord{
		TokenHash: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		UserID:    user.ID,
		IssuedAt:  time.Now(),
	}
	require.NoError(t, repos.Token.Create(ctx, record))

	found, err := repos.Token.GetByHash(ctx, record.TokenHash)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	_, err = repos.Token.GetByHash(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestComparisonRepository_RecentLimit(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		comparison := testutil.Comparison(t, userID, base.Add(time.Duration(i)*time.Hour),
			testutil.Analysis("A", "Food", 40),
			testutil.Analysis("B", "Food", 60),
		)
		require.NoError(t, repos.Comparison.Create(ctx, comparison))
	}

	recent, err := repos.Comparison.GetByUserID(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// Newest first.
	assert.True(t, recent[0].Timestamp.After(recent[1].Timestamp))

	all, err := repos.Comparison.GetAllByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
