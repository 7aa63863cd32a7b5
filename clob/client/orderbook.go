package client

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/betbot/goopinion/clob/types"
)

// depthRaw 深度接口的 result 载荷，档位为 [price, amount] 数组，
// 元素可能是数字也可能是字符串
type depthRaw struct {
	Bids      [][]json.RawMessage `json:"bids"`
	Asks      [][]json.RawMessage `json:"asks"`
	LastPrice json.Number         `json:"last_price"`
}

// GetOrderBook 拉取某一侧的订单簿快照。
// 上游排序不可信，这里统一重排：买盘降序、卖盘升序
func (c *Client) GetOrderBook(ctx context.Context, topicID int64, position types.Position) (*types.OrderBook, error) {
	topic, err := c.topics.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	tokenID, err := topic.TokenIDForPosition(position)
	if err != nil {
		return nil, err
	}

	symbolType := "0"
	if position == types.PositionNo {
		symbolType = "1"
	}
	query := map[string]string{
		"symbol_types": symbolType,
		"question_id":  topic.QuestionID,
		"symbol":       tokenID,
		"chainId":      strconv.FormatInt(int64(c.chainID), 10),
	}

	result, err := c.http.getResult(ctx, EndpointMarketDepth, query)
	if err != nil {
		return nil, err
	}
	var raw depthRaw
	if err := jsonUnmarshalResult(result, &raw); err != nil {
		return nil, err
	}

	bids, err := parseBookLevels(raw.Bids)
	if err != nil {
		return nil, err
	}
	asks, err := parseBookLevels(raw.Asks)
	if err != nil {
		return nil, err
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price.GreaterThan(bids[j].Price) })
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price.LessThan(asks[j].Price) })

	return &types.OrderBook{
		TopicID:   topicID,
		Position:  position,
		Bids:      bids,
		Asks:      asks,
		LastPrice: raw.LastPrice.String(),
		Timestamp: time.Now().UTC(),
	}, nil
}

// GetBothOrderBooks 并发拉取 YES/NO 两侧订单簿。
// 任一侧失败整体失败，不返回半个快照
func (c *Client) GetBothOrderBooks(ctx context.Context, topicID int64) (*types.OrderBookPair, error) {
	var pair types.OrderBookPair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		book, err := c.GetOrderBook(gctx, topicID, types.PositionYes)
		if err != nil {
			return err
		}
		pair.Yes = book
		return nil
	})
	g.Go(func() error {
		book, err := c.GetOrderBook(gctx, topicID, types.PositionNo)
		if err != nil {
			return err
		}
		pair.No = book
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

// parseBookLevels 解析 [price, amount] 档位数组，
// 无法解析的档位整体报错而不是静默跳过
func parseBookLevels(raw [][]json.RawMessage) ([]types.BookLevel, error) {
	levels := make([]types.BookLevel, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			return nil, &types.ApiError{Errno: -1, Message: "malformed depth level"}
		}
		price, err := decodeDecimal(entry[0])
		if err != nil {
			return nil, &types.ApiError{Errno: -1, Message: "malformed depth price: " + err.Error()}
		}
		size, err := decodeDecimal(entry[1])
		if err != nil {
			return nil, &types.ApiError{Errno: -1, Message: "malformed depth size: " + err.Error()}
		}
		levels = append(levels, types.BookLevel{Price: price, Size: size})
	}
	return levels, nil
}

// decodeDecimal 把 JSON 数字或字符串解析为十进制，不经过 float
func decodeDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	return decimal.NewFromString(s)
}
