package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	// Trend needs enough entries for a meaningful halves split.
	minTrendEntries         = 4
	minCategoryTrendEntries = 2
	favoriteCategoriesCap   = 5
	timelineNameCap         = 2
)

type JourneyService struct {
	historyRepo    repository.HistoryRepository
	comparisonRepo repository.ComparisonRepository
}

func NewJourneyService(historyRepo repository.HistoryRepository, comparisonRepo repository.ComparisonRepository) *JourneyService {
	return &JourneyService{
		historyRepo:    historyRepo,
		comparisonRepo: comparisonRepo,
	}
}

type JourneyStats struct {
	TotalAnalyses      int        `json:"total_analyses"`
	TotalComparisons   int        `json:"total_comparisons"`
	AverageEcoScore    float64    `json:"average_eco_score"`
	BestEcoScore       int        `json:"best_eco_score"`
	WorstEcoScore      int        `json:"worst_eco_score"`
	FavoriteCategories []string   `json:"favorite_categories"`
	ImprovementTrend   float64    `json:"improvement_trend"`
	DaysActive         int        `json:"days_active"`
	FirstAnalysisDate  *time.Time `json:"first_analysis_date,omitempty"`
	LastAnalysisDate   *time.Time `json:"last_analysis_date,omitempty"`
}

type CategoryStats struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
	BestScore    int     `json:"best_score"`
	WorstScore   int     `json:"worst_score"`
	Trend        float64 `json:"trend"`
}

type TimelineEntry struct {
	Date         time.Time           `json:"date"`
	EcoScore     int                 `json:"eco_score"`
	ProductName  string              `json:"product_name"`
	Category     string              `json:"category,omitempty"`
	AnalysisType domain.AnalysisType `json:"analysis_type"`
}

type Journey struct {
	Stats             JourneyStats    `json:"stats"`
	CategoryBreakdown []CategoryStats `json:"category_breakdown"`
	Timeline          []TimelineEntry `json:"timeline"`
	Milestones        []string        `json:"milestones"`
}

type JourneyResult struct {
	Journey  *Journey `json:"journey"`
	Insights []string `json:"insights"`
}

// GetJourney derives the full journey view from the user's ledger.
// Nothing here is persisted; every call recomputes from scratch, so an
// entry appended concurrently may or may not be reflected.
func (s *JourneyService) GetJourney(ctx context.Context, userID uuid.UUID) (*JourneyResult, error) {
	entries, err := s.historyRepo.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comparisons, err := s.comparisonRepo.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	journey := BuildJourney(entries, comparisons)
	return &JourneyResult{
		Journey:  journey,
		Insights: GenerateInsights(journey),
	}, nil
}

// analysisPoint is a decoded, chronologically sortable view of one
// non-comparison history entry.
type analysisPoint struct {
	at       time.Time
	score    int
	category string
	name     string
	typ      domain.AnalysisType
}

// BuildJourney is a pure function of one user's entry set.
func BuildJourney(entries []*domain.HistoryEntry, comparisons []*domain.ComparisonEntry) *Journey {
	points := decodeEntries(entries)
	stats := computeStats(points, entries, comparisons)

	return &Journey{
		Stats:             stats,
		CategoryBreakdown: computeCategoryBreakdown(points),
		Timeline:          buildTimeline(points, comparisons),
		Milestones:        buildMilestones(stats),
	}
}

func decodeEntries(entries []*domain.HistoryEntry) []analysisPoint {
	points := make([]analysisPoint, 0, len(entries))
	for _, entry := range entries {
		if entry.IsComparisonAnalysis {
			continue
		}
		analysis, err := entry.DecodeAnalysis()
		if err != nil {
			log.Printf("WARN [journey.decodeEntries] skipping undecodable entry %s: %v", entry.ID, err)
			continue
		}
		points = append(points, analysisPoint{
			at:       entry.Timestamp,
			score:    analysis.EcoScore,
			category: analysis.ProductInfo.Category,
			name:     analysis.ProductInfo.Name,
			typ:      entry.AnalysisType,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].at.Before(points[j].at) })
	return points
}

func computeStats(points []analysisPoint, entries []*domain.HistoryEntry, comparisons []*domain.ComparisonEntry) JourneyStats {
	stats := JourneyStats{
		TotalAnalyses:      len(points),
		TotalComparisons:   len(comparisons),
		FavoriteCategories: []string{},
		DaysActive:         countActiveDays(entries, comparisons),
	}
	if len(points) == 0 {
		return stats
	}

	scores := make([]int, len(points))
	best, worst := points[0].score, points[0].score
	sum := 0
	for i, p := range points {
		scores[i] = p.score
		sum += p.score
		if p.score > best {
			best = p.score
		}
		if p.score < worst {
			worst = p.score
		}
	}

	stats.AverageEcoScore = float64(sum) / float64(len(points))
	stats.BestEcoScore = best
	stats.WorstEcoScore = worst
	stats.ImprovementTrend = trendOf(scores, minTrendEntries)
	stats.FavoriteCategories = favoriteCategories(points)

	first := points[0].at
	last := points[len(points)-1].at
	stats.FirstAnalysisDate = &first
	stats.LastAnalysisDate = &last

	return stats
}

// countActiveDays counts distinct calendar dates with at least one
// entry of any kind.
func countActiveDays(entries []*domain.HistoryEntry, comparisons []*domain.ComparisonEntry) int {
	days := make(map[string]struct{})
	for _, entry := range entries {
		days[entry.Timestamp.Format("2006-01-02")] = struct{}{}
	}
	for _, comparison := range comparisons {
		days[comparison.Timestamp.Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

// trendOf splits chronologically ordered scores into an earlier and a
// later half and returns the difference of the half means. Below
// minCount the trend is reported as 0.
func trendOf(scores []int, minCount int) float64 {
	if len(scores) < minCount {
		return 0
	}
	mid := len(scores) / 2
	return mean(scores[mid:]) - mean(scores[:mid])
}

func mean(scores []int) float64 {
	sum := 0
	for _, score := range scores {
		sum += score
	}
	return float64(sum) / float64(len(scores))
}

func favoriteCategories(points []analysisPoint) []string {
	counts := make(map[string]int)
	for _, p := range points {
		if p.category != "" {
			counts[p.category]++
		}
	}

	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})

	if len(categories) > favoriteCategoriesCap {
		categories = categories[:favoriteCategoriesCap]
	}
	return categories
}

// computeCategoryBreakdown groups points by category. Uncategorized
// points are left out rather than bucketed under a synthetic name.
func computeCategoryBreakdown(points []analysisPoint) []CategoryStats {
	grouped := make(map[string][]int)
	for _, p := range points {
		if p.category == "" {
			continue
		}
		grouped[p.category] = append(grouped[p.category], p.score)
	}

	breakdown := make([]CategoryStats, 0, len(grouped))
	for category, scores := range grouped {
		best, worst := scores[0], scores[0]
		for _, score := range scores {
			if score > best {
				best = score
			}
			if score < worst {
				worst = score
			}
		}
		breakdown = append(breakdown, CategoryStats{
			Category:     category,
			Count:        len(scores),
			AverageScore: mean(scores),
			BestScore:    best,
			WorstScore:   worst,
			Trend:        trendOf(scores, minCategoryTrendEntries),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// buildTimeline merges analyses and comparisons into one chronological
// series for charting, ascending by date.
func buildTimeline(points []analysisPoint, comparisons []*domain.ComparisonEntry) []TimelineEntry {
	timeline := make([]TimelineEntry, 0, len(points)+len(comparisons))

	for _, p := range points {
		timeline = append(timeline, TimelineEntry{
			Date:         p.at,
			EcoScore:     p.score,
			ProductName:  p.name,
			Category:     p.category,
			AnalysisType: p.typ,
		})
	}

	for _, comparison := range comparisons {
		products, err := comparison.DecodeProducts()
		if err != nil || len(products) == 0 {
			log.Printf("WARN [journey.buildTimeline] skipping undecodable comparison %s: %v", comparison.ID, err)
			continue
		}

		sum := 0
		names := make([]string, 0, len(products))
		for _, product := range products {
			sum += product.EcoScore
			names = append(names, product.ProductInfo.Name)
		}

		timeline = append(timeline, TimelineEntry{
			Date:         comparison.Timestamp,
			EcoScore:     sum / len(products),
			ProductName:  comparisonName(names),
			AnalysisType: domain.AnalysisTypeComparison,
		})
	}

	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Date.Before(timeline[j].Date) })
	return timeline
}

func comparisonName(names []string) string {
	if len(names) > timelineNameCap {
		return fmt.Sprintf("Compared %s...", strings.Join(names[:timelineNameCap], ", "))
	}
	return fmt.Sprintf("Compared %s", strings.Join(names, ", "))
}

// buildMilestones evaluates the fixed achievement rules. Nothing is
// stored about which milestones were shown before, so a milestone can
// reappear on every call; that is accepted behavior.
func buildMilestones(stats JourneyStats) []string {
	milestones := []string{}

	if stats.TotalAnalyses >= 1 {
		milestones = append(milestones, "First analysis complete!")
	}
	if stats.TotalAnalyses >= 10 {
		milestones = append(milestones, "10 products analyzed!")
	}
	if stats.TotalAnalyses >= 50 {
		milestones = append(milestones, "Eco explorer: 50 analyses!")
	}
	if stats.TotalAnalyses >= 100 {
		milestones = append(milestones, "Eco champion: 100 analyses!")
	}

	if stats.BestEcoScore >= 90 {
		milestones = append(milestones, "Found an eco superstar (90+ score)!")
	}
	if stats.TotalAnalyses > 0 && stats.AverageEcoScore >= 70 {
		milestones = append(milestones, "Eco-conscious choices (70+ average score)!")
	}

	if stats.ImprovementTrend > 10 {
		milestones = append(milestones, "Great progress: your choices are improving!")
	}

	if len(stats.FavoriteCategories) >= 5 {
		milestones = append(milestones, "Category explorer: 5+ categories!")
	}

	if stats.DaysActive >= 7 {
		milestones = append(milestones, "A full week of greener choices!")
	}
	if stats.DaysActive >= 30 {
		milestones = append(milestones, "A month of commitment!")
	}

	return milestones
}

// GenerateInsights turns the derived journey into short progress notes.
// Rule-based only; the analysis engine is never consulted here.
func GenerateInsights(journey *Journey) []string {
	stats := journey.Stats
	if stats.TotalAnalyses == 0 {
		return []string{"Analyze your first product to start tracking your environmental impact."}
	}

	insights := []string{}

	if stats.ImprovementTrend > 5 {
		insights = append(insights, fmt.Sprintf("Your recent choices score %.0f points higher than your earliest ones. Keep it up!", stats.ImprovementTrend))
	} else if stats.ImprovementTrend < -5 {
		insights = append(insights, fmt.Sprintf("Your recent eco scores are trending %.0f points below your earlier ones.", -stats.ImprovementTrend))
	}

	if stats.AverageEcoScore >= 70 {
		insights = append(insights, fmt.Sprintf("Your average eco score of %.0f is firmly in sustainable territory.", stats.AverageEcoScore))
	} else if stats.AverageEcoScore < 40 {
		insights = append(insights, fmt.Sprintf("Your average eco score is %.0f; the recommendations on each analysis can help you find greener alternatives.", stats.AverageEcoScore))
	}

	if len(journey.CategoryBreakdown) > 0 {
		top := journey.CategoryBreakdown[0]
		if top.Count >= 3 {
			insights = append(insights, fmt.Sprintf("Most of your research is in %s: %d analyses averaging %.0f.", top.Category, top.Count, top.AverageScore))
		}
	}

	if stats.TotalComparisons > 0 {
		insights = append(insights, fmt.Sprintf("You have compared products %d times. Comparisons are the fastest way to pick the greener option.", stats.TotalComparisons))
	}

	if len(insights) == 0 {
		insights = append(insights, fmt.Sprintf("You have analyzed %d products so far. Keep going to see trends emerge.", stats.TotalAnalyses))
	}

	return insights
}
