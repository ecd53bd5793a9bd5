package service

import (
	"context"
	"sort"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService computes read-only aggregations over the caller's own
// transactions. Every call re-scans the matching rows; nothing is cached.
// Sums and percentages are computed in decimal and emitted as floats.
type ReportService struct {
	store  TransactionStore
	logger *zap.Logger
}

func NewReportService(store TransactionStore, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:  store,
		logger: logger,
	}
}

type monthAggregate struct {
	income     decimal.Decimal
	expenses   decimal.Decimal
	count      int
	categories map[string]decimal.Decimal
}

// MonthlyReport groups the range by calendar month, newest month first. The
// top expense category of a month is picked over lexically sorted category
// names, so ties resolve to the lexically smallest name.
func (s *ReportService) MonthlyReport(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]dto.MonthlyReportEntry, error) {
	transactions, err := s.store.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	months := make(map[string]*monthAggregate)
	for _, tx := range transactions {
		key := tx.Date.Format("2006-01")
		agg, ok := months[key]
		if !ok {
			agg = &monthAggregate{categories: make(map[string]decimal.Decimal)}
			months[key] = agg
		}

		agg.count++
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == models.TypeIncome {
			agg.income = agg.income.Add(amount)
		} else {
			agg.expenses = agg.expenses.Add(amount)
			category := tx.Category
			if category == "" {
				category = models.UncategorizedLabel
			}
			agg.categories[category] = agg.categories[category].Add(amount)
		}
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	report := make([]dto.MonthlyReportEntry, 0, len(keys))
	for _, key := range keys {
		agg := months[key]
		monthTime, _ := time.Parse("2006-01", key)

		topCategory := "N/A"
		topAmount := decimal.Zero
		for _, category := range sortedKeys(agg.categories) {
			if agg.categories[category].GreaterThan(topAmount) {
				topCategory = category
				topAmount = agg.categories[category]
			}
		}

		income, _ := agg.income.Float64()
		expenses, _ := agg.expenses.Float64()
		net, _ := agg.income.Sub(agg.expenses).Float64()
		top, _ := topAmount.Float64()

		report = append(report, dto.MonthlyReportEntry{
			Month:             monthTime.Format("January 2006"),
			TotalIncome:       income,
			TotalExpenses:     expenses,
			NetIncome:         net,
			TransactionCount:  agg.count,
			TopCategory:       topCategory,
			TopCategoryAmount: top,
		})
	}

	return report, nil
}

// CategoryBreakdown returns per-category totals for one transaction type as a
// share of the filtered total. Transactions without a category are folded
// into "Uncategorized"; categories with no matching transactions are omitted.
// An empty range yields an empty list, not zero-filled entries.
func (s *ReportService) CategoryBreakdown(ctx context.Context, userID uuid.UUID, from, to time.Time, txType models.TransactionType) ([]dto.CategoryBreakdownEntry, error) {
	sums, err := s.store.SumByCategory(ctx, userID, from, to, txType)
	if err != nil {
		return nil, err
	}

	amounts := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	total := decimal.Zero
	for _, sum := range sums {
		category := sum.Category
		if category == "" {
			category = models.UncategorizedLabel
		}
		amount := decimal.NewFromFloat(sum.Total)
		amounts[category] = amounts[category].Add(amount)
		counts[category] += int(sum.Count)
		total = total.Add(amount)
	}

	if !total.IsPositive() {
		return []dto.CategoryBreakdownEntry{}, nil
	}

	hundred := decimal.NewFromInt(100)
	breakdown := make([]dto.CategoryBreakdownEntry, 0, len(amounts))
	for _, category := range sortedKeys(amounts) {
		amount, _ := amounts[category].Float64()
		percentage := amounts[category].Mul(hundred).Div(total).Round(0).IntPart()

		breakdown = append(breakdown, dto.CategoryBreakdownEntry{
			Category:     category,
			Amount:       amount,
			Transactions: counts[category],
			Percentage:   int(percentage),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount > breakdown[j].Amount
	})

	return breakdown, nil
}

// FinancialSummary reports aggregate totals over the range plus the rounded
// mean of all income and expense amounts combined.
func (s *ReportService) FinancialSummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*dto.FinancialSummary, error) {
	transactions, err := s.store.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == models.TypeIncome {
			income = income.Add(amount)
		} else {
			expenses = expenses.Add(amount)
		}
	}

	avg := decimal.Zero
	if len(transactions) > 0 {
		avg = income.Add(expenses).Div(decimal.NewFromInt(int64(len(transactions)))).Round(0)
	}

	totalIncome, _ := income.Float64()
	totalExpenses, _ := expenses.Float64()
	net, _ := income.Sub(expenses).Float64()
	avgTransaction, _ := avg.Float64()

	return &dto.FinancialSummary{
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		NetIncome:         net,
		TotalTransactions: len(transactions),
		AvgTransaction:    avgTransaction,
	}, nil
}

// TrendData buckets the range by the requested granularity: daily
// (YYYY-MM-DD), weekly (date of the Sunday starting the week), or monthly
// (YYYY-MM). Buckets sort ascending by period key, which is correct for
// these fixed-width formats.
func (s *ReportService) TrendData(ctx context.Context, userID uuid.UUID, from, to time.Time, period string) ([]dto.TrendEntry, error) {
	switch period {
	case "daily", "weekly", "monthly":
	case "":
		period = "monthly"
	default:
		return nil, &InputError{Reason: "period must be daily, weekly or monthly"}
	}

	transactions, err := s.store.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	type trendAggregate struct {
		income   decimal.Decimal
		expenses decimal.Decimal
		count    int
	}

	buckets := make(map[string]*trendAggregate)
	for _, tx := range transactions {
		var key string
		switch period {
		case "daily":
			key = tx.Date.Format("2006-01-02")
		case "weekly":
			weekStart := tx.Date.AddDate(0, 0, -int(tx.Date.Weekday()))
			key = weekStart.Format("2006-01-02")
		default:
			key = tx.Date.Format("2006-01")
		}

		agg, ok := buckets[key]
		if !ok {
			agg = &trendAggregate{}
			buckets[key] = agg
		}

		agg.count++
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == models.TypeIncome {
			agg.income = agg.income.Add(amount)
		} else {
			agg.expenses = agg.expenses.Add(amount)
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trend := make([]dto.TrendEntry, 0, len(keys))
	for _, key := range keys {
		agg := buckets[key]
		income, _ := agg.income.Float64()
		expenses, _ := agg.expenses.Float64()
		net, _ := agg.income.Sub(agg.expenses).Float64()

		trend = append(trend, dto.TrendEntry{
			Period:       key,
			Income:       income,
			Expenses:     expenses,
			Transactions: agg.count,
			Net:          net,
		})
	}

	return trend, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
