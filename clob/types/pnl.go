package types

import "github.com/shopspring/decimal"

// TokenPnL 单个 token 的盈亏汇总（加权平均成本法）
type TokenPnL struct {
	TokenID string `json:"token_id"`

	// RealizedPnL 已实现盈亏：每笔平仓按 (成交价 - 平均成本) * 匹配数量 计提，
	// 空头方向符号相反
	RealizedPnL decimal.Decimal `json:"realized_pnl"`

	// UnrealizedPnL 未实现盈亏，需要外部提供当前价；未提供时为 0 并标记 Unpriced
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`

	// NetPosition 净持仓（正为多头，负为空头）
	NetPosition decimal.Decimal `json:"net_position_size"`

	// AvgCost 当前持仓的平均成本
	AvgCost decimal.Decimal `json:"avg_cost"`

	// Unpriced 持仓非零但没有当前价，未实现盈亏不可信
	Unpriced bool `json:"unpriced"`
}

// PnLSummary 盈亏汇总
type PnLSummary struct {
	Tokens []TokenPnL `json:"tokens"`

	TotalRealized   decimal.Decimal `json:"total_realized"`
	TotalUnrealized decimal.Decimal `json:"total_unrealized"`

	// UnpricedTokens 未提供当前价且持仓非零的 token 列表
	UnpricedTokens []string `json:"unpriced_tokens,omitempty"`
}

// CashFlowEntry 现金流分类统计
type CashFlowEntry struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowSummary 按成交类型拆分的现金流汇总。
// Split/Buy 计入流入（投入市场的抵押品），Merge/Sell 计入流出（收回的抵押品），
// ProfitLoss = 流出 - 流入 - 手续费
type CashFlowSummary struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	TotalFees    decimal.Decimal `json:"total_fees"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`

	Split CashFlowEntry `json:"split"`
	Buy   CashFlowEntry `json:"buy"`
	Merge CashFlowEntry `json:"merge"`
	Sell  CashFlowEntry `json:"sell"`

	TradeCount   int `json:"trade_count"`
	SuccessCount int `json:"success_count"`
	FailedCount  int `json:"failed_count"`
}
