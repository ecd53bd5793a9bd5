package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestMonthlyReport(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())
	userID := uuid.New()

	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, store, userID, models.TypeIncome, "Salary", 5000, march)
	seedTransaction(t, store, userID, models.TypeExpense, "Food", 300, march)
	seedTransaction(t, store, userID, models.TypeExpense, "Travel", 700, march)
	seedTransaction(t, store, userID, models.TypeExpense, "Food", 150, april)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC)

	report, err := svc.MonthlyReport(context.Background(), userID, from, to)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("months = %d, want 2", len(report))
	}

	// Newest month first.
	if report[0].Month != "April 2024" {
		t.Errorf("report[0].Month = %q, want %q", report[0].Month, "April 2024")
	}
	if report[1].Month != "March 2024" {
		t.Errorf("report[1].Month = %q, want %q", report[1].Month, "March 2024")
	}

	march2024 := report[1]
	if march2024.TotalIncome != 5000 {
		t.Errorf("TotalIncome = %v, want 5000", march2024.TotalIncome)
	}
	if march2024.TotalExpenses != 1000 {
		t.Errorf("TotalExpenses = %v, want 1000", march2024.TotalExpenses)
	}
	if march2024.NetIncome != 4000 {
		t.Errorf("NetIncome = %v, want 4000", march2024.NetIncome)
	}
	if march2024.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", march2024.TransactionCount)
	}
	if march2024.TopCategory != "Travel" || march2024.TopCategoryAmount != 700 {
		t.Errorf("top category = %q/%v, want Travel/700", march2024.TopCategory, march2024.TopCategoryAmount)
	}
}

func TestMonthlyReportTopCategoryTieBreak(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())
	userID := uuid.New()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, models.TypeExpense, "Travel", 500, date)
	seedTransaction(t, store, userID, models.TypeExpense, "Food", 500, date)

	from, to := monthRange(2024, time.March)
	report, err := svc.MonthlyReport(context.Background(), userID, from, to)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("months = %d, want 1", len(report))
	}

	// Equal totals resolve to the lexically smallest name regardless of
	// insertion order.
	if report[0].TopCategory != "Food" {
		t.Errorf("TopCategory = %q, want %q", report[0].TopCategory, "Food")
	}
}

func TestMonthlyReportIncomeOnly(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())
	userID := uuid.New()

	seedTransaction(t, store, userID, models.TypeIncome, "Salary", 5000, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	from, to := monthRange(2024, time.March)
	report, err := svc.MonthlyReport(context.Background(), userID, from, to)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}
	if report[0].TopCategory != "N/A" || report[0].TopCategoryAmount != 0 {
		t.Errorf("top category = %q/%v, want N/A/0 when there are no expenses", report[0].TopCategory, report[0].TopCategoryAmount)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())
	userID := uuid.New()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, models.TypeExpense, "Food", 600, date)
	seedTransaction(t, store, userID, models.TypeExpense, "Travel", 300, date)
	seedTransaction(t, store, userID, models.TypeExpense, "", 100, date)
	seedTransaction(t, store, userID, models.TypeIncome, "Salary", 5000, date)

	from, to := monthRange(2024, time.March)
	breakdown, err := svc.CategoryBreakdown(context.Background(), userID, from, to, models.TypeExpense)
	if err != nil {
		t.Fatalf("CategoryBreakdown() error = %v", err)
	}
	if len(breakdown) != 3 {
		t.Fatalf("categories = %d, want 3", len(breakdown))
	}

	// Largest amount first; the blank category shows up under the fold label.
	if breakdown[0].Category != "Food" || breakdown[0].Percentage != 60 {
		t.Errorf("breakdown[0] = %+v, want Food at 60%%", breakdown[0])
	}
	if breakdown[1].Category != "Travel" || breakdown[1].Percentage != 30 {
		t.Errorf("breakdown[1] = %+v, want Travel at 30%%", breakdown[1])
	}
	if breakdown[2].Category != models.UncategorizedLabel || breakdown[2].Percentage != 10 {
		t.Errorf("breakdown[2] = %+v, want %s at 10%%", breakdown[2], models.UncategorizedLabel)
	}

	sum := 0
	for _, entry := range breakdown {
		sum += entry.Percentage
	}
	if sum < 98 || sum > 102 {
		t.Errorf("percentage sum = %d, want ~100", sum)
	}
}

func TestCategoryBreakdownEmptyRange(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())

	from, to := monthRange(2024, time.March)
	breakdown, err := svc.CategoryBreakdown(context.Background(), uuid.New(), from, to, models.TypeExpense)
	if err != nil {
		t.Fatalf("CategoryBreakdown() error = %v", err)
	}
	if breakdown == nil {
		t.Fatal("breakdown should be an empty slice, not nil")
	}
	if len(breakdown) != 0 {
		t.Errorf("categories = %d, want 0", len(breakdown))
	}
}

func TestFinancialSummary(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())
	userID := uuid.New()

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, userID, models.TypeIncome, "Salary", 5000, date)
	seedTransaction(t, store, userID, models.TypeExpense, "Food", 600, date)
	seedTransaction(t, store, userID, models.TypeExpense, "Travel", 401, date)

	from, to := monthRange(2024, time.March)
	summary, err := svc.FinancialSummary(context.Background(), userID, from, to)
	if err != nil {
		t.Fatalf("FinancialSummary() error = %v", err)
	}

	if summary.TotalIncome != 5000 {
		t.Errorf("TotalIncome = %v, want 5000", summary.TotalIncome)
	}
	if summary.TotalExpenses != 1001 {
		t.Errorf("TotalExpenses = %v, want 1001", summary.TotalExpenses)
	}
	if summary.NetIncome != 3999 {
		t.Errorf("NetIncome = %v, want 3999", summary.NetIncome)
	}
	if summary.TotalTransactions != 3 {
		t.Errorf("TotalTransactions = %d, want 3", summary.TotalTransactions)
	}
	// (5000 + 600 + 401) / 3 = 2000.33..., rounded.
	if math.Abs(summary.AvgTransaction-2000) > 1e-9 {
		t.Errorf("AvgTransaction = %v, want 2000", summary.AvgTransaction)
	}
}

func TestFinancialSummaryEmpty(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())

	from, to := monthRange(2024, time.March)
	summary, err := svc.FinancialSummary(context.Background(), uuid.New(), from, to)
	if err != nil {
		t.Fatalf("FinancialSummary() error = %v", err)
	}
	if summary.TotalTransactions != 0 || summary.AvgTransaction != 0 {
		t.Errorf("empty summary = %+v, want zeroes", summary)
	}
}

func TestTrendData(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, zap.NewNop())
	userID := uuid.New()

	// 2024-03-04 is a Monday, 2024-03-06 a Wednesday of the same week;
	// 2024-03-12 falls in the following week.
	seedTransaction(t, store, userID, models.TypeExpense, "Food", 100, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, store, userID, models.TypeExpense, "Food", 50, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, store, userID, models.TypeIncome, "Salary", 5000, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))

	from, to := monthRange(2024, time.March)

	t.Run("weekly", func(t *testing.T) {
		trend, err := svc.TrendData(context.Background(), userID, from, to, "weekly")
		if err != nil {
			t.Fatalf("TrendData() error = %v", err)
		}
		if len(trend) != 2 {
			t.Fatalf("buckets = %d, want 2", len(trend))
		}
		// Weeks anchor on Sunday.
		if trend[0].Period != "2024-03-03" {
			t.Errorf("trend[0].Period = %q, want %q", trend[0].Period, "2024-03-03")
		}
		if trend[0].Expenses != 150 || trend[0].Transactions != 2 {
			t.Errorf("trend[0] = %+v, want expenses 150 over 2 transactions", trend[0])
		}
		if trend[1].Period != "2024-03-10" {
			t.Errorf("trend[1].Period = %q, want %q", trend[1].Period, "2024-03-10")
		}
		if trend[1].Income != 5000 || trend[1].Net != 5000 {
			t.Errorf("trend[1] = %+v, want income 5000", trend[1])
		}
	})

	t.Run("daily", func(t *testing.T) {
		trend, err := svc.TrendData(context.Background(), userID, from, to, "daily")
		if err != nil {
			t.Fatalf("TrendData() error = %v", err)
		}
		if len(trend) != 3 {
			t.Fatalf("buckets = %d, want 3", len(trend))
		}
		if trend[0].Period != "2024-03-04" {
			t.Errorf("trend[0].Period = %q, want %q", trend[0].Period, "2024-03-04")
		}
	})

	t.Run("default monthly", func(t *testing.T) {
		trend, err := svc.TrendData(context.Background(), userID, from, to, "")
		if err != nil {
			t.Fatalf("TrendData() error = %v", err)
		}
		if len(trend) != 1 {
			t.Fatalf("buckets = %d, want 1", len(trend))
		}
		if trend[0].Period != "2024-03" {
			t.Errorf("Period = %q, want %q", trend[0].Period, "2024-03")
		}
		if trend[0].Net != 4850 {
			t.Errorf("Net = %v, want 4850", trend[0].Net)
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := svc.TrendData(context.Background(), userID, from, to, "yearly")
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("TrendData() error = %v, want *InputError", err)
		}
	})
}
