package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/service"
	"github.com/ecotrace/ecotrace-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildJourney_Stats(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []*domain.HistoryEntry{
		testutil.Entry(t, userID, base, testutil.Analysis("Laptop", "Electronics", 40), domain.AnalysisTypeProductSearch, false),
		testutil.Entry(t, userID, base.Add(24*time.Hour), testutil.Analysis("Phone", "Electronics", 60), domain.AnalysisTypeBarcodeScan, false),
		testutil.Entry(t, userID, base.Add(48*time.Hour), testutil.Analysis("Tablet", "Electronics", 90), domain.AnalysisTypeProductSearch, false),
	}

	journey := service.BuildJourney(entries, nil)
	stats := journey.Stats

	assert.Equal(t, 3, stats.TotalAnalyses)
	assert.Equal(t, 0, stats.TotalComparisons)
	assert.InDelta(t, 63.33, stats.AverageEcoScore, 0.01)
	assert.Equal(t, 90, stats.BestEcoScore)
	assert.Equal(t, 40, stats.WorstEcoScore)
	assert.Equal(t, []string{"Electronics"}, stats.FavoriteCategories)
	assert.Equal(t, 3, stats.DaysActive)
	// Below the minimum entry count the overall trend reports 0.
	assert.Equal(t, 0.0, stats.ImprovementTrend)

	require.NotNil(t, stats.FirstAnalysisDate)
	require.NotNil(t, stats.LastAnalysisDate)
	assert.True(t, stats.FirstAnalysisDate.Equal(base))
	assert.True(t, stats.LastAnalysisDate.Equal(base.Add(48*time.Hour)))

	require.Len(t, journey.CategoryBreakdown, 1)
	electronics := journey.CategoryBreakdown[0]
	assert.Equal(t, "Electronics", electronics.Category)
	assert.Equal(t, 3, electronics.Count)
	assert.InDelta(t, 63.33, electronics.AverageScore, 0.01)
	assert.Equal(t, 90, electronics.BestScore)
	assert.Equal(t, 40, electronics.WorstScore)
	// Category trend: mean([60, 90]) - mean([40])
	assert.InDelta(t, 35.0, electronics.Trend, 0.001)

	require.Len(t, journey.Timeline, 3)
	assert.True(t, journey.Timeline[0].Date.Before(journey.Timeline[1].Date))
	assert.True(t, journey.Timeline[1].Date.Before(journey.Timeline[2].Date))
}

func TestBuildJourney_ComparisonsDoNotInflateAnalyses(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []*domain.HistoryEntry{
		testutil.Entry(t, userID, base, testutil.Analysis("Laptop", "Electronics", 70), domain.AnalysisTypeProductSearch, false),
		// Flagged as comparison research: retained but excluded from stats.
		testutil.Entry(t, userID, base.Add(time.Hour), testutil.Analysis("Phone", "Electronics", 30), domain.AnalysisTypeProductSearch, true),
	}
	comparisons := []*domain.ComparisonEntry{
		testutil.Comparison(t, userID, base.Add(25*time.Hour),
			testutil.Analysis("Phone A", "Electronics", 40),
			testutil.Analysis("Phone B", "Electronics", 60),
		),
	}

	journey := service.BuildJourney(entries, comparisons)
	stats := journey.Stats

	assert.Equal(t, 1, stats.TotalAnalyses)
	assert.Equal(t, 1, stats.TotalComparisons)
	assert.InDelta(t, 70.0, stats.AverageEcoScore, 0.001)
	// Comparison day counts toward activity.
	assert.Equal(t, 2, stats.DaysActive)

	require.Len(t, journey.Timeline, 2)
	comparison := journey.Timeline[1]
	assert.Equal(t, domain.AnalysisTypeComparison, comparison.AnalysisType)
	assert.Equal(t, 50, comparison.EcoScore)
	assert.Equal(t, "Compared Phone A, Phone B", comparison.ProductName)
}

func TestBuildJourney_ImprovementTrend(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	var entries []*domain.HistoryEntry
	for i, score := range []int{40, 50, 60, 70} {
		entries = append(entries, testutil.Entry(t, userID, base.Add(time.Duration(i)*time.Hour),
			testutil.Analysis(fmt.Sprintf("Product %d", i), "Food", score), domain.AnalysisTypeProductSearch, false))
	}

	journey := service.BuildJourney(entries, nil)
	// mean([60, 70]) - mean([40, 50])
	assert.InDelta(t, 20.0, journey.Stats.ImprovementTrend, 0.001)
}

func TestBuildJourney_UncategorizedExcludedFromBreakdown(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []*domain.HistoryEntry{
		testutil.Entry(t, userID, base, testutil.Analysis("Mystery Item", "", 55), domain.AnalysisTypeProductSearch, false),
		testutil.Entry(t, userID, base.Add(time.Hour), testutil.Analysis("Shampoo", "Personal Care", 65), domain.AnalysisTypeProductSearch, false),
	}

	journey := service.BuildJourney(entries, nil)

	assert.Equal(t, 2, journey.Stats.TotalAnalyses)
	require.Len(t, journey.CategoryBreakdown, 1)
	assert.Equal(t, "Personal Care", journey.CategoryBreakdown[0].Category)
	assert.Equal(t, []string{"Personal Care"}, journey.Stats.FavoriteCategories)
}

func TestBuildJourney_Empty(t *testing.T) {
	journey := service.BuildJourney(nil, nil)

	assert.Equal(t, 0, journey.Stats.TotalAnalyses)
	assert.Equal(t, 0, journey.Stats.TotalComparisons)
	assert.Equal(t, 0, journey.Stats.DaysActive)
	assert.Nil(t, journey.Stats.FirstAnalysisDate)
	assert.Nil(t, journey.Stats.LastAnalysisDate)
	assert.Empty(t, journey.Timeline)
	assert.Empty(t, journey.CategoryBreakdown)
	assert.Empty(t, journey.Milestones)
}

func TestBuildJourney_Milestones(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// 10 high-scoring analyses across 7 distinct days.
	var entries []*domain.HistoryEntry
	for i := 0; i < 10; i++ {
		day := i % 7
		entries = append(entries, testutil.Entry(t, userID, base.AddDate(0, 0, day).Add(time.Duration(i)*time.Minute),
			testutil.Analysis(fmt.Sprintf("Product %d", i), "Food", 95), domain.AnalysisTypeProductSearch, false))
	}

	journey := service.BuildJourney(entries, nil)

	assert.Contains(t, journey.Milestones, "First analysis complete!")
	assert.Contains(t, journey.Milestones, "10 products analyzed!")
	assert.Contains(t, journey.Milestones, "Found an eco superstar (90+ score)!")
	assert.Contains(t, journey.Milestones, "Eco-conscious choices (70+ average score)!")
	assert.Contains(t, journey.Milestones, "A full week of greener choices!")
	assert.NotContains(t, journey.Milestones, "Eco explorer: 50 analyses!")
	assert.NotContains(t, journey.Milestones, "A month of commitment!")
}

func TestBuildJourney_MilestonesRecomputedEveryCall(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []*domain.HistoryEntry{
		testutil.Entry(t, userID, base, testutil.Analysis("Laptop", "Electronics", 80), domain.AnalysisTypeProductSearch, false),
	}

	first := service.BuildJourney(entries, nil)
	second := service.BuildJourney(entries, nil)
	assert.Equal(t, first.Milestones, second.Milestones)
}

func TestGenerateInsights(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("no analyses yet", func(t *testing.T) {
		insights := service.GenerateInsights(service.BuildJourney(nil, nil))
		require.Len(t, insights, 1)
		assert.Contains(t, insights[0], "first product")
	})

	t.Run("improving trend and standout category", func(t *testing.T) {
		var entries []*domain.HistoryEntry
		for i, score := range []int{40, 45, 75, 80} {
			entries = append(entries, testutil.Entry(t, userID, base.Add(time.Duration(i)*time.Hour),
				testutil.Analysis(fmt.Sprintf("Product %d", i), "Food", score), domain.AnalysisTypeProductSearch, false))
		}

		insights := service.GenerateInsights(service.BuildJourney(entries, nil))

		assert.Condition(t, func() bool {
			for _, insight := range insights {
				if insight == "Your recent choices score 35 points higher than your earliest ones. Keep it up!" {
					return true
				}
			}
			return false
		}, "expected an improving-trend insight, got %v", insights)

		found := false
		for _, insight := range insights {
			if insight == "Most of your research is in Food: 4 analyses averaging 60." {
				found = true
			}
		}
		assert.True(t, found, "expected a standout-category insight, got %v", insights)
	})
}
