package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Side 订单方向
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// WireValue 链上/接口使用的数值（BUY=0, SELL=1）
func (s Side) WireValue() uint8 {
	if s == SideSell {
		return 1
	}
	return 0
}

// ParseSide 解析订单方向，不认识的值视为参数错误
func ParseSide(v string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(v))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", NewInvalidParams("unknown side %q", v)
}

// Position YES/NO 持仓方向
type Position string

const (
	PositionYes Position = "YES"
	PositionNo  Position = "NO"
)

// ParsePosition 解析持仓方向
func ParsePosition(v string) (Position, error) {
	switch Position(strings.ToUpper(strings.TrimSpace(v))) {
	case PositionYes:
		return PositionYes, nil
	case PositionNo:
		return PositionNo, nil
	}
	return "", NewInvalidParams("unknown position %q", v)
}

// VolumeType 委托量类型
// 线上接口使用 "Shares"（份额）和 "Amount"（抵押品金额）两个字符串
type VolumeType string

const (
	VolumeTypeShares   VolumeType = "Shares"
	VolumeTypeNotional VolumeType = "Amount"
)

// ParseVolumeType 解析委托量类型
func ParseVolumeType(v string) (VolumeType, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "SHARES":
		return VolumeTypeShares, nil
	case "AMOUNT", "NOTIONAL":
		return VolumeTypeNotional, nil
	}
	return "", NewInvalidParams("unknown volume type %q", v)
}

// Chain 区块链网络
type Chain int64

const (
	// ChainBSC BNB Smart Chain 主网
	ChainBSC Chain = 56
)

// TradingMethod 交易方式
type TradingMethod int

const (
	TradingMethodMarket TradingMethod = 1
	TradingMethodLimit  TradingMethod = 2
)

// SignatureType 签名类型
type SignatureType int

const (
	// SignatureTypeGnosisSafe Gnosis Safe 多签代理钱包（maker 为 Safe 地址）
	SignatureTypeGnosisSafe SignatureType = 2
)

// OrderQueryType 订单查询类型
type OrderQueryType int

const (
	OrderQueryOpen   OrderQueryType = 1
	OrderQueryClosed OrderQueryType = 2
)

// OrderStatus 订单状态
type OrderStatus int

const (
	OrderStatusOpen      OrderStatus = 1
	OrderStatusFilled    OrderStatus = 2
	OrderStatusCancelled OrderStatus = 3
)

// TradeType 成交类型
type TradeType string

const (
	TradeTypeSplit TradeType = "Split"
	TradeTypeBuy   TradeType = "Buy"
	TradeTypeSell  TradeType = "Sell"
	TradeTypeMerge TradeType = "Merge"
)

// TradeStatusSuccess 成交记录的成功状态码
const TradeStatusSuccess = 2

// Errno 接口错误码。上游偶尔会以字符串形式返回，这里兼容两种编码
type Errno int

func (e *Errno) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*e = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid errno %q", string(data))
	}
	*e = Errno(n)
	return nil
}
