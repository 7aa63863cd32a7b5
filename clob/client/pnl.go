package client

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/betbot/goopinion/clob/types"
)

var half = decimal.NewFromFloat(0.5)

// CalculatePnL 按加权平均成本法计算逐 token 盈亏。
// 只统计成功状态的 Buy/Sell 成交；Split/Merge 不改变单 token 的成本口径，
// 在 CalculateCashFlow 里单独核算。
// currentPrices 按 token id 提供当前价；持仓非零又没给价的 token
// 未实现盈亏记 0 并标记 Unpriced。
// 纯计算，输入相同结果相同，重复调用幂等
func CalculatePnL(trades []types.Trade, currentPrices map[string]decimal.Decimal) (*types.PnLSummary, error) {
	type state struct {
		net      decimal.Decimal
		avgCost  decimal.Decimal
		realized decimal.Decimal
	}
	states := make(map[string]*state)
	var tokenOrder []string

	for _, trade := range trades {
		if trade.Status != types.TradeStatusSuccess {
			continue
		}
		if trade.Side != types.TradeTypeBuy && trade.Side != types.TradeTypeSell {
			continue
		}
		shares, err := decimal.NewFromString(trade.Shares)
		if err != nil {
			return nil, types.NewInvalidParams("trade %s has invalid shares %q", trade.TransNo, trade.Shares)
		}
		price, err := decimal.NewFromString(trade.Price)
		if err != nil {
			return nil, types.NewInvalidParams("trade %s has invalid price %q", trade.TransNo, trade.Price)
		}
		if shares.IsNegative() {
			return nil, types.NewInvalidParams("trade %s has negative shares", trade.TransNo)
		}
		if shares.IsZero() {
			continue
		}

		s, ok := states[trade.TokenID]
		if !ok {
			s = &state{}
			states[trade.TokenID] = s
			tokenOrder = append(tokenOrder, trade.TokenID)
		}

		// 买入为正、卖出为负的带符号数量
		qty := shares
		if trade.Side == types.TradeTypeSell {
			qty = shares.Neg()
		}

		switch {
		case s.net.IsZero() || s.net.Sign() == qty.Sign():
			// 开仓或加仓：重算加权平均成本
			total := s.net.Abs().Mul(s.avgCost).Add(qty.Abs().Mul(price))
			s.net = s.net.Add(qty)
			s.avgCost = total.Div(s.net.Abs())
		default:
			// 减仓或反手：先按平均成本计提已实现盈亏
			matched := decimal.Min(qty.Abs(), s.net.Abs())
			if s.net.Sign() > 0 {
				s.realized = s.realized.Add(price.Sub(s.avgCost).Mul(matched))
			} else {
				s.realized = s.realized.Add(s.avgCost.Sub(price).Mul(matched))
			}
			s.net = s.net.Add(qty)
			if s.net.IsZero() {
				s.avgCost = decimal.Zero
			} else if s.net.Sign() == qty.Sign() {
				// 反手：剩余仓位以本笔成交价为新成本
				s.avgCost = price
			}
		}
	}

	summary := &types.PnLSummary{}
	sort.Strings(tokenOrder)
	for _, tokenID := range tokenOrder {
		s := states[tokenID]
		pnl := types.TokenPnL{
			TokenID:     tokenID,
			RealizedPnL: s.realized,
			NetPosition: s.net,
			AvgCost:     s.avgCost,
		}
		if !s.net.IsZero() {
			if cur, ok := currentPrices[tokenID]; ok {
				pnl.UnrealizedPnL = cur.Sub(s.avgCost).Mul(s.net)
			} else {
				pnl.Unpriced = true
				summary.UnpricedTokens = append(summary.UnpricedTokens, tokenID)
			}
		}
		summary.Tokens = append(summary.Tokens, pnl)
		summary.TotalRealized = summary.TotalRealized.Add(pnl.RealizedPnL)
		summary.TotalUnrealized = summary.TotalUnrealized.Add(pnl.UnrealizedPnL)
	}
	return summary, nil
}

// CalculateCashFlow 按成交类型核算抵押品现金流。
// Split/Merge 按每份 0.5 折算，Buy/Sell 按成交价折算，
// 手续费从 1e18 最小单位换算。失败状态的成交只计数不计金额
func CalculateCashFlow(trades []types.Trade) (*types.CashFlowSummary, error) {
	summary := &types.CashFlowSummary{TradeCount: len(trades)}

	for _, trade := range trades {
		if trade.Status != types.TradeStatusSuccess {
			summary.FailedCount++
			continue
		}
		summary.SuccessCount++

		shares, err := decimal.NewFromString(trade.Shares)
		if err != nil {
			return nil, types.NewInvalidParams("trade %s has invalid shares %q", trade.TransNo, trade.Shares)
		}
		if fee, err := decimal.NewFromString(trade.Fee); err == nil {
			summary.TotalFees = summary.TotalFees.Add(types.FromWei(fee))
		}

		switch trade.Side {
		case types.TradeTypeSplit:
			amount := shares.Mul(half)
			summary.TotalInflow = summary.TotalInflow.Add(amount)
			summary.Split.Count++
			summary.Split.Amount = summary.Split.Amount.Add(amount)
		case types.TradeTypeBuy:
			price, err := decimal.NewFromString(trade.Price)
			if err != nil {
				return nil, types.NewInvalidParams("trade %s has invalid price %q", trade.TransNo, trade.Price)
			}
			amount := shares.Mul(price)
			summary.TotalInflow = summary.TotalInflow.Add(amount)
			summary.Buy.Count++
			summary.Buy.Amount = summary.Buy.Amount.Add(amount)
		case types.TradeTypeMerge:
			amount := shares.Mul(half)
			summary.TotalOutflow = summary.TotalOutflow.Add(amount)
			summary.Merge.Count++
			summary.Merge.Amount = summary.Merge.Amount.Add(amount)
		case types.TradeTypeSell:
			price, err := decimal.NewFromString(trade.Price)
			if err != nil {
				return nil, types.NewInvalidParams("trade %s has invalid price %q", trade.TransNo, trade.Price)
			}
			amount := shares.Mul(price)
			summary.TotalOutflow = summary.TotalOutflow.Add(amount)
			summary.Sell.Count++
			summary.Sell.Amount = summary.Sell.Amount.Add(amount)
		}
	}

	summary.ProfitLoss = summary.TotalOutflow.Sub(summary.TotalInflow).Sub(summary.TotalFees)
	return summary, nil
}

// GetPnL 拉取全量成交并计算盈亏。
// currentPrices 可为 nil，此时所有未平仓 token 都会标记 Unpriced
func (c *Client) GetPnL(ctx context.Context, params types.TradeQueryParams, currentPrices map[string]decimal.Decimal) (*types.PnLSummary, error) {
	trades, err := c.GetAllTrades(ctx, params)
	if err != nil {
		return nil, err
	}
	return CalculatePnL(trades, currentPrices)
}

// GetCashFlow 拉取全量成交并核算现金流
func (c *Client) GetCashFlow(ctx context.Context, params types.TradeQueryParams) (*types.CashFlowSummary, error) {
	trades, err := c.GetAllTrades(ctx, params)
	if err != nil {
		return nil, err
	}
	return CalculateCashFlow(trades)
}
