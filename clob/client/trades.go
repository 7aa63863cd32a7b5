package client

import (
	"context"
	"strconv"

	"github.com/betbot/goopinion/clob/types"
)

// maxTradePages 全量拉取的页数上限，防止接口异常时无限翻页
const maxTradePages = 500

const defaultTradePageSize = 100

// QueryTrades 分页查询历史成交
func (c *Client) QueryTrades(ctx context.Context, params types.TradeQueryParams) (*types.TradePage, error) {
	wallet := params.WalletAddress
	if wallet == "" {
		wallet = c.makerAddress
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTradePageSize
	}
	query := map[string]string{
		"walletAddress": wallet,
		"page":          strconv.Itoa(page),
		"limit":         strconv.Itoa(limit),
		"chainId":       strconv.FormatInt(int64(c.chainID), 10),
	}
	if params.TopicID > 0 {
		query["topicId"] = strconv.FormatInt(params.TopicID, 10)
	}

	result, err := c.http.getResult(ctx, EndpointQueryTrades, query)
	if err != nil {
		return nil, err
	}
	var out types.TradePage
	if err := jsonUnmarshalResult(result, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAllTrades 翻页拉取全部成交。
// 任何一页失败整个调用失败，不返回部分结果；
// 空页或达到 total 即停，另有页数上限兜底
func (c *Client) GetAllTrades(ctx context.Context, params types.TradeQueryParams) ([]types.Trade, error) {
	if params.Limit <= 0 {
		params.Limit = defaultTradePageSize
	}

	var trades []types.Trade
	for page := 1; page <= maxTradePages; page++ {
		params.Page = page
		result, err := c.QueryTrades(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(result.List) == 0 {
			break
		}
		trades = append(trades, result.List...)
		if result.Total > 0 && len(trades) >= result.Total {
			break
		}
	}
	return trades, nil
}
