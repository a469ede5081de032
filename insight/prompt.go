package insight

import (
	"fmt"
	"strings"

	"b-track7/utils"
)

const inrSymbol = "₹"

// sanitizeInline collapses whitespace so user-controlled category names
// cannot break the prompt's line structure.
func sanitizeInline(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func inr(value float64) string {
	return inrSymbol + utils.FormatINR(value)
}

func formatCategorySnapshots(categories []CategorySnapshot, previousLabel string) string {
	lines := make([]string, 0, len(categories)*3)
	for _, category := range categories {
		name := sanitizeInline(category.CategoryName)
		lines = append(lines,
			fmt.Sprintf("  %s: %s", name, inr(category.AmountSpent)),
			fmt.Sprintf("  Same category %s: %s", previousLabel, inr(category.PreviousPeriodAmount)),
			fmt.Sprintf("  Change: %v%% %s", category.ChangePercentage, category.TrendDirection),
		)
	}
	return strings.Join(lines, "\n")
}

func formatWeeklyWindow(label string, week WeeklyWindow) string {
	return strings.Join([]string{
		fmt.Sprintf("%s: %s to %s", label, week.PeriodStart, week.PeriodEnd),
		formatCategorySnapshots(week.Categories, "last week"),
		fmt.Sprintf("Total spent this week: %s", inr(week.TotalSpent)),
		fmt.Sprintf("Total income this week: %s", inr(week.TotalIncome)),
	}, "\n")
}

func formatMonthlyWindow(label string, month MonthlyWindow) string {
	return strings.Join([]string{
		label + ":",
		formatCategorySnapshots(month.Categories, "previous month"),
		fmt.Sprintf("Total spent: %s | Total income: %s", inr(month.TotalSpent), inr(month.TotalIncome)),
		fmt.Sprintf("Net savings: %s", inr(month.NetSavings)),
	}, "\n")
}

func formatWeeklyCategoryDetails(details []WeeklyCategoryDetail) string {
	lines := make([]string, 0, len(details)*4)
	for _, item := range details {
		name := sanitizeInline(item.CategoryName)
		hint := sanitizeInline(item.ClassificationHint)
		lines = append(lines,
			fmt.Sprintf("  %s:", name),
			fmt.Sprintf("    Week 1: %s | Week 2: %s |", inr(item.Week1Amount), inr(item.Week2Amount)),
			fmt.Sprintf("    Week 3: %s | Week 4: %s", inr(item.Week3Amount), inr(item.Week4Amount)),
			fmt.Sprintf("    Variance: %s — %s", item.Variance, hint),
		)
	}
	return strings.Join(lines, "\n")
}

func formatMonthlyCategoryDetails(details []MonthlyCategoryDetail) string {
	lines := make([]string, 0, len(details)*4)
	for _, item := range details {
		name := sanitizeInline(item.CategoryName)
		lines = append(lines,
			fmt.Sprintf("  %s:", name),
			fmt.Sprintf("    [M-3]: %s | [M-2]: %s |", inr(item.MonthMinus3Amount), inr(item.MonthMinus2Amount)),
			fmt.Sprintf("    [M-1]: %s | Current: %s", inr(item.MonthMinus1Amount), inr(item.CurrentAmount)),
			fmt.Sprintf("    Variance across months: %s", item.Variance),
		)
	}
	return strings.Join(lines, "\n")
}

func formatSavingsGoalSection(currentMonthLabel string, goal *SavingsGoalData) string {
	if goal == nil {
		return "SAVINGS GOAL: Not set for this month."
	}

	lines := []string{
		fmt.Sprintf("SAVINGS GOAL FOR %s: %s", sanitizeInline(currentMonthLabel), inr(goal.GoalAmount)),
		fmt.Sprintf("ACTUAL SAVINGS THIS MONTH: %s", inr(goal.ActualSavings)),
		fmt.Sprintf("SAVINGS GAP: %s %s goal", inr(goal.GapAmount), goal.GapDirection),
	}

	if goal.WasAutoFilled {
		lines = append(lines,
			"Note: goal was carried over from last month as user did not set a new one.")
	}

	return strings.Join(lines, "\n")
}

// BuildWeeklyPrompt renders the weekly aggregation into the model
// prompt: rules, all four serialized windows, the per-category
// cross-window detail table, and the exact JSON output contract.
func BuildWeeklyPrompt(input WeeklyPromptInput) string {
	sections := []string{
		"You are an intelligent personal finance assistant embedded " +
			"in B-Track7, a budget tracking app. Your job is to analyze " +
			"a user's real spending data and generate genuinely useful, " +
			"specific, and actionable insights.",
		"",
		"IMPORTANT RULES:",
		"- Analyze each category's transaction history to determine " +
			"if it is fixed (same or near-same amount every week/month, " +
			"e.g. rent, EMI, subscriptions) or variable (fluctuates, " +
			"e.g. food, shopping, entertainment, transport)",
		"- NEVER suggest reducing fixed cost categories",
		"- Only target variable categories in suggestions",
		"- Be specific with rupee amounts, never vague",
		"- Do not repeat the same suggestion across multiple weeks",
		"- Tone: friendly, direct, non-judgmental, like a smart " +
			"friend who understands money",
		fmt.Sprintf("- All amounts are in Indian Rupees (%s)", inrSymbol),
		"- If a category is consistently improving, acknowledge " +
			"it positively in the summary",
		"- Suggestions must be realistically actionable within " +
			"the next 7 days",
		"",
		"USER SPENDING DATA — LAST 4 WEEKS:",
		"",
		formatWeeklyWindow("Week 1 (most recent)", input.Week1),
		"",
		formatWeeklyWindow("Week 2", input.Week2),
		"",
		formatWeeklyWindow("Week 3", input.Week3),
		"",
		formatWeeklyWindow("Week 4 (oldest)", input.Week4),
		"",
		"CATEGORY TRANSACTION DETAIL (last 4 weeks combined, " +
			"so you can determine fixed vs variable):",
		formatWeeklyCategoryDetails(input.CategoryDetails),
		"",
		"Respond ONLY in this exact JSON format, no extra text, " +
			"no markdown, no code fences:",
		"{",
		`  "summary": "3-4 sentences. Trend-aware narrative of this week ` +
			`in context of the last 4 weeks. Mention what improved and what ` +
			`got worse. Be specific with amounts.",`,
		`  "suggestions": [`,
		`    "Suggestion 1 — specific, rupee-amount-referenced, targets a variable category",`,
		`    "Suggestion 2",`,
		`    "Suggestion 3"`,
		"  ],",
		`  "trend_highlight": "One punchy sentence (max 12 words) about ` +
			`the single most notable trend this week. This appears on the user's dashboard."`,
		"}",
	}

	return strings.Join(sections, "\n")
}

// BuildMonthlyPrompt renders the monthly aggregation plus the optional
// savings-goal context into the model prompt. Monthly prompts carry the
// savings section and ask for savings_commentary in the contract.
func BuildMonthlyPrompt(input MonthlyPromptInput) string {
	sections := []string{
		"You are an intelligent personal finance assistant embedded " +
			"in B-Track7, a budget tracking app. Your job is to analyze " +
			"a user's real spending data across 4 months and generate " +
			"genuinely useful, specific, and actionable monthly insights.",
		"",
		"IMPORTANT RULES:",
		"- Analyze each category's transaction history across all " +
			"4 months to determine if it is fixed (consistent amount " +
			"each month, e.g. rent, EMI, insurance) or variable " +
			"(fluctuates month to month, e.g. food, shopping, " +
			"entertainment, transport)",
		"- NEVER suggest reducing fixed cost categories",
		"- Only target variable categories in suggestions",
		"- Be specific with rupee amounts, never vague",
		"- Tone: friendly, direct, non-judgmental, financially " +
			"literate, like a smart friend who understands money",
		fmt.Sprintf("- All amounts are in Indian Rupees (%s)", inrSymbol),
		"- Suggestions must be realistically actionable within " +
			"the next 30 days",
		"- If a savings goal exists, at least one of the 3 " +
			"suggestions must directly address closing the " +
			"savings gap with a specific, realistic action",
		"",
		"USER SPENDING DATA — LAST 4 MONTHS:",
		"",
		formatMonthlyWindow(sanitizeInline(input.CurrentMonth.Label)+" (current)", input.CurrentMonth),
		"",
		formatMonthlyWindow(sanitizeInline(input.MonthMinus1.Label), input.MonthMinus1),
		"",
		formatMonthlyWindow(sanitizeInline(input.MonthMinus2.Label), input.MonthMinus2),
		"",
		formatMonthlyWindow(sanitizeInline(input.MonthMinus3.Label)+" (oldest)", input.MonthMinus3),
		"",
		"CATEGORY TRANSACTION DETAIL (to determine fixed vs variable):",
		formatMonthlyCategoryDetails(input.CategoryDetails),
		"",
		formatSavingsGoalSection(input.CurrentMonth.Label, input.SavingsGoal),
		"",
		"Respond ONLY in this exact JSON format, no extra text, " +
			"no markdown, no code fences:",
		"{",
		`  "summary": "4-5 sentences. Big picture narrative of the month ` +
			`in context of last 4 months. Identify trends (improving, ` +
			`worsening, consistent). Mention wins and areas of concern. ` +
			`Be specific with amounts.",`,
		`  "suggestions": [`,
		`    "Suggestion 1 — specific, rupee-referenced, targets variable category",`,
		`    "Suggestion 2",`,
		`    "Suggestion 3 — if savings goal exists, this one must reference ` +
			`the goal and give a specific action to close the gap"`,
		"  ],",
		`  "trend_highlight": "One punchy sentence (max 12 words) about ` +
			`the single most notable monthly trend. This appears on the user's dashboard.",`,
		`  "savings_commentary": "2 sentences specifically about savings goal ` +
			`progress and what it realistically takes to hit it next month. ` +
			`Set to null if no savings goal exists for this month."`,
		"}",
	}

	return strings.Join(sections, "\n")
}
