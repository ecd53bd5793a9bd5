package dto

type MonthlyReportEntry struct {
	Month             string  `json:"month"`
	TotalIncome       float64 `json:"totalIncome"`
	TotalExpenses     float64 `json:"totalExpenses"`
	NetIncome         float64 `json:"netIncome"`
	TransactionCount  int     `json:"transactionCount"`
	TopCategory       string  `json:"topCategory"`
	TopCategoryAmount float64 `json:"topCategoryAmount"`
}

type CategoryBreakdownEntry struct {
	Category     string  `json:"category"`
	Amount       float64 `json:"amount"`
	Transactions int     `json:"transactions"`
	Percentage   int     `json:"percentage"`
}

type FinancialSummary struct {
	TotalIncome       float64 `json:"totalIncome"`
	TotalExpenses     float64 `json:"totalExpenses"`
	NetIncome         float64 `json:"netIncome"`
	TotalTransactions int     `json:"totalTransactions"`
	AvgTransaction    float64 `json:"avgTransaction"`
}

type TrendEntry struct {
	Period       string  `json:"period"`
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	Transactions int     `json:"transactions"`
	Net          float64 `json:"net"`
}
