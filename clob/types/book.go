package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookLevel 订单簿单个价位
type BookLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// OrderBook 某一侧 token 的订单簿快照。
// 每次拉取都整体重建，不做增量更新
type OrderBook struct {
	TopicID  int64    `json:"topic_id"`
	Position Position `json:"position"`

	// Bids 按价格降序、Asks 按价格升序
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`

	LastPrice string    `json:"last_price"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderBookPair YES/NO 两侧的订单簿
type OrderBookPair struct {
	Yes *OrderBook
	No  *OrderBook
}
