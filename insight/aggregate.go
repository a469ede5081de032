package insight

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"b-track7/models"
	"b-track7/period"
)

// TrendDirection describes how a category moved against the
// immediately-preceding window.
type TrendDirection string

const (
	TrendIncrease TrendDirection = "increase"
	TrendDecrease TrendDirection = "decrease"
	TrendNoChange TrendDirection = "no change"
)

// VarianceLevel classifies a category as variable (HIGH) or fixed (LOW)
// across the lookback windows.
type VarianceLevel string

const (
	VarianceHigh VarianceLevel = "HIGH"
	VarianceLow  VarianceLevel = "LOW"
)

// VarianceCoVThreshold is the coefficient-of-variation cutoff above
// which a category counts as variable. Tunable; 0.25 has worked well
// in practice but carries no deeper derivation.
const VarianceCoVThreshold = 0.25

// CategorySnapshot is one category's spend in a window compared with
// the preceding window. ChangePercentage is absolute (0..100+).
type CategorySnapshot struct {
	CategoryName         string
	AmountSpent          float64
	PreviousPeriodAmount float64
	ChangePercentage     float64
	TrendDirection       TrendDirection
}

// WeeklyWindow is one aggregated 7-day window.
type WeeklyWindow struct {
	PeriodStart period.DateKey
	PeriodEnd   period.DateKey
	Categories  []CategorySnapshot
	TotalSpent  float64
	TotalIncome float64
}

// WeeklyCategoryDetail is one category's spend across all four weekly
// windows, with its fixed-vs-variable classification.
type WeeklyCategoryDetail struct {
	CategoryName       string
	Week1Amount        float64
	Week2Amount        float64
	Week3Amount        float64
	Week4Amount        float64
	Variance           VarianceLevel
	ClassificationHint string
}

// WeeklyPromptInput is everything the weekly prompt builder needs.
type WeeklyPromptInput struct {
	Week1           WeeklyWindow
	Week2           WeeklyWindow
	Week3           WeeklyWindow
	Week4           WeeklyWindow
	CategoryDetails []WeeklyCategoryDetail
}

// WeeklyAggregation is the weekly fold result. Week1TransactionCount
// lets the caller skip AI generation for an empty week.
type WeeklyAggregation struct {
	PromptInput           WeeklyPromptInput
	Week1TransactionCount int
}

// MonthlyWindow is one aggregated calendar-month window.
type MonthlyWindow struct {
	Label       string
	Categories  []CategorySnapshot
	TotalSpent  float64
	TotalIncome float64
	NetSavings  float64
}

// MonthlyCategoryDetail is one category's spend across all four monthly
// windows, with its fixed-vs-variable classification.
type MonthlyCategoryDetail struct {
	CategoryName      string
	MonthMinus3Amount float64
	MonthMinus2Amount float64
	MonthMinus1Amount float64
	CurrentAmount     float64
	Variance          VarianceLevel
}

// SavingsGoalData is the optional savings-goal context for the monthly
// prompt.
type SavingsGoalData struct {
	GoalAmount    float64
	ActualSavings float64
	GapAmount     float64
	GapDirection  string // "ahead of" or "short of"
	WasAutoFilled bool
}

// MonthlyPromptInput is everything the monthly prompt builder needs.
type MonthlyPromptInput struct {
	CurrentMonth    MonthlyWindow
	MonthMinus1     MonthlyWindow
	MonthMinus2     MonthlyWindow
	MonthMinus3     MonthlyWindow
	CategoryDetails []MonthlyCategoryDetail
	SavingsGoal     *SavingsGoalData
}

// MonthlyAggregation is the monthly fold result.
type MonthlyAggregation struct {
	PromptInput                  MonthlyPromptInput
	CurrentMonthTransactionCount int
}

func round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}

func trendDirection(current, previous float64) TrendDirection {
	if current > previous {
		return TrendIncrease
	}
	if current < previous {
		return TrendDecrease
	}
	return TrendNoChange
}

// absoluteChangePercent is 0 when both windows are zero and 100 when a
// category appears out of nowhere, so a zero previous window never
// divides.
func absoluteChangePercent(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return round2(math.Abs((current - previous) / previous * 100))
}

func classifyVariance(values []float64) (VarianceLevel, string) {
	var total float64
	for _, v := range values {
		total += v
	}
	mean := total / float64(len(values))
	if mean == 0 {
		return VarianceLow, "No meaningful fluctuation; spend remained near zero."
	}

	var squaredDiffs float64
	for _, v := range values {
		squaredDiffs += (v - mean) * (v - mean)
	}
	standardDeviation := math.Sqrt(squaredDiffs / float64(len(values)))

	if standardDeviation/mean > VarianceCoVThreshold {
		return VarianceHigh, "Spending fluctuates noticeably across periods."
	}
	return VarianceLow, "Spending is fairly stable across periods."
}

func transactionsForRange(transactions []models.Transaction, r period.DateRange) []models.Transaction {
	var inRange []models.Transaction
	for _, tx := range transactions {
		if r.Contains(tx.Date) {
			inRange = append(inRange, tx)
		}
	}
	return inRange
}

func expenseByCategory(transactions []models.Transaction) map[string]float64 {
	byCategory := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		byCategory[tx.CategoryName] = round2(byCategory[tx.CategoryName] + tx.Amount)
	}
	return byCategory
}

func incomeTotal(transactions []models.Transaction) float64 {
	var total float64
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypeIncome {
			total += tx.Amount
		}
	}
	return round2(total)
}

func expenseTotal(transactions []models.Transaction) float64 {
	var total float64
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypeExpense {
			total += tx.Amount
		}
	}
	return round2(total)
}

// collectCategoryNames returns the sorted union of category names seen
// in any window, so every window reports the same category list.
func collectCategoryNames(expenseMaps []map[string]float64) []string {
	seen := make(map[string]struct{})
	for _, m := range expenseMaps {
		for name := range m {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildCategorySnapshots(categoryNames []string, currentMap, previousMap map[string]float64) []CategorySnapshot {
	snapshots := make([]CategorySnapshot, 0, len(categoryNames))
	for _, name := range categoryNames {
		amountSpent := currentMap[name]
		var previousAmount float64
		if previousMap != nil {
			previousAmount = previousMap[name]
		}

		snapshots = append(snapshots, CategorySnapshot{
			CategoryName:         name,
			AmountSpent:          round2(amountSpent),
			PreviousPeriodAmount: round2(previousAmount),
			ChangePercentage:     absoluteChangePercent(amountSpent, previousAmount),
			TrendDirection:       trendDirection(amountSpent, previousAmount),
		})
	}
	return snapshots
}

// AggregateWeekly folds transactions over the four weekly windows.
// Pure function over already-fetched data.
func AggregateWeekly(transactions []models.Transaction, periods period.WeeklyPeriods) WeeklyAggregation {
	ranges := []period.DateRange{periods.Week1, periods.Week2, periods.Week3, periods.Week4}

	periodTransactions := make([][]models.Transaction, len(ranges))
	expenseMaps := make([]map[string]float64, len(ranges))
	for i, r := range ranges {
		periodTransactions[i] = transactionsForRange(transactions, r)
		expenseMaps[i] = expenseByCategory(periodTransactions[i])
	}

	categoryNames := collectCategoryNames(expenseMaps)

	windows := make([]WeeklyWindow, len(ranges))
	for i, r := range ranges {
		var previousMap map[string]float64
		if i < len(expenseMaps)-1 {
			previousMap = expenseMaps[i+1]
		}

		windows[i] = WeeklyWindow{
			PeriodStart: r.Start,
			PeriodEnd:   r.End,
			Categories:  buildCategorySnapshots(categoryNames, expenseMaps[i], previousMap),
			TotalSpent:  expenseTotal(periodTransactions[i]),
			TotalIncome: incomeTotal(periodTransactions[i]),
		}
	}

	details := make([]WeeklyCategoryDetail, 0, len(categoryNames))
	for _, name := range categoryNames {
		values := make([]float64, len(expenseMaps))
		for i, m := range expenseMaps {
			values[i] = round2(m[name])
		}
		variance, hint := classifyVariance(values)

		details = append(details, WeeklyCategoryDetail{
			CategoryName:       name,
			Week1Amount:        values[0],
			Week2Amount:        values[1],
			Week3Amount:        values[2],
			Week4Amount:        values[3],
			Variance:           variance,
			ClassificationHint: hint,
		})
	}

	return WeeklyAggregation{
		PromptInput: WeeklyPromptInput{
			Week1:           windows[0],
			Week2:           windows[1],
			Week3:           windows[2],
			Week4:           windows[3],
			CategoryDetails: details,
		},
		Week1TransactionCount: len(periodTransactions[0]),
	}
}

// AggregateMonthly folds transactions over the current partial month
// and the three preceding full months. Pure function.
func AggregateMonthly(transactions []models.Transaction, periods period.MonthlyPeriods) MonthlyAggregation {
	labeled := []period.LabeledRange{periods.Current, periods.Minus1, periods.Minus2, periods.Minus3}

	periodTransactions := make([][]models.Transaction, len(labeled))
	expenseMaps := make([]map[string]float64, len(labeled))
	for i, r := range labeled {
		periodTransactions[i] = transactionsForRange(transactions, r.DateRange)
		expenseMaps[i] = expenseByCategory(periodTransactions[i])
	}

	categoryNames := collectCategoryNames(expenseMaps)

	windows := make([]MonthlyWindow, len(labeled))
	for i, r := range labeled {
		var previousMap map[string]float64
		if i < len(expenseMaps)-1 {
			previousMap = expenseMaps[i+1]
		}

		spent := expenseTotal(periodTransactions[i])
		income := incomeTotal(periodTransactions[i])

		windows[i] = MonthlyWindow{
			Label:       r.Label,
			Categories:  buildCategorySnapshots(categoryNames, expenseMaps[i], previousMap),
			TotalSpent:  spent,
			TotalIncome: income,
			NetSavings:  round2(income - spent),
		}
	}

	details := make([]MonthlyCategoryDetail, 0, len(categoryNames))
	for _, name := range categoryNames {
		current := round2(expenseMaps[0][name])
		minus1 := round2(expenseMaps[1][name])
		minus2 := round2(expenseMaps[2][name])
		minus3 := round2(expenseMaps[3][name])
		// Oldest-first ordering for the variance fold
		variance, _ := classifyVariance([]float64{minus3, minus2, minus1, current})

		details = append(details, MonthlyCategoryDetail{
			CategoryName:      name,
			MonthMinus3Amount: minus3,
			MonthMinus2Amount: minus2,
			MonthMinus1Amount: minus1,
			CurrentAmount:     current,
			Variance:          variance,
		})
	}

	return MonthlyAggregation{
		PromptInput: MonthlyPromptInput{
			CurrentMonth:    windows[0],
			MonthMinus1:     windows[1],
			MonthMinus2:     windows[2],
			MonthMinus3:     windows[3],
			CategoryDetails: details,
		},
		CurrentMonthTransactionCount: len(periodTransactions[0]),
	}
}
