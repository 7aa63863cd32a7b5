package types

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// LimitOrderParams token 级限价单意图
type LimitOrderParams struct {
	TopicID int64
	TokenID string
	Side    Side

	// LimitPrice 十进制字符串，严格位于 (0,1) 开区间
	LimitPrice string

	// Volume 十进制字符串，严格为正。含义由 VolumeType 决定：
	// Shares 为份额数量，Amount 为抵押品金额
	Volume     string
	VolumeType VolumeType

	// SafeRate 滑点保护比例（十进制字符串），空串等价于 "0"。
	// 非零时限价会向不利于交易者的方向调整该比例，这不是市价单
	SafeRate string

	// Expiration 订单过期时间（Unix 秒），0 表示不过期
	Expiration int64
}

// LimitOrderByTopicParams 话题级限价单意图（由 Position 解析出 token）
type LimitOrderByTopicParams struct {
	TopicID    int64
	Position   Position
	Side       Side
	LimitPrice string
	Volume     string
	VolumeType VolumeType
	SafeRate   string
	Expiration int64
}

// NormalizedOrder 归一化后的订单：所有数值字段均已换算为最小单位。
// 由 OrderBuilder 产出，是签名的唯一输入
type NormalizedOrder struct {
	TopicID int64
	TokenID string
	Side    Side

	// Price 生效限价（已含滑点调整，小数位不超过 PriceDecimals）
	Price         decimal.Decimal
	PriceDecimals int

	// PriceUnits 生效限价在最小价格单位下的整数表示
	PriceUnits int64

	// Shares 份额数量（十进制）
	Shares decimal.Decimal

	// MakerAmount/TakerAmount 交易所订单结构的两条腿，抵押品最小单位（1e18）。
	// BUY：maker 付抵押品、taker 付份额；SELL 相反
	MakerAmount *big.Int
	TakerAmount *big.Int

	SafeRate        string
	Expiration      int64
	CollateralToken string
}

// SignedOrder 已签名订单。签名只对当前字段组合有效，任何改动都会使其失效；
// 每次提交都必须重新构建（salt 每次随机生成，不得复用）
type SignedOrder struct {
	Salt          int64  `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	Side          Side   `json:"side"`
	SignatureType int    `json:"signatureType"`
	Signature     string `json:"signature"`
}

// SubmitOrderPayload 提交订单的完整请求体（字段名与上游一致）
type SubmitOrderPayload struct {
	TopicID         int64  `json:"topicId"`
	ContractAddress string `json:"contractAddress"`
	Price           string `json:"price"`
	TradingMethod   int    `json:"tradingMethod"`
	Salt            string `json:"salt"`
	Maker           string `json:"maker"`
	Signer          string `json:"signer"`
	Taker           string `json:"taker"`
	TokenID         string `json:"tokenId"`
	MakerAmount     string `json:"makerAmount"`
	TakerAmount     string `json:"takerAmount"`
	Expiration      string `json:"expiration"`
	Nonce           string `json:"nonce"`
	FeeRateBps      string `json:"feeRateBps"`
	Side            string `json:"side"`
	SignatureType   string `json:"signatureType"`
	Signature       string `json:"signature"`
	Timestamp       int64  `json:"timestamp"`
	Sign            string `json:"sign"`
	SafeRate        string `json:"safeRate"`
	OrderExpTime    string `json:"orderExpTime"`
	CurrencyAddress string `json:"currencyAddress"`
	ChainID         int64  `json:"chainId"`
}

// OrderData 交易所返回的订单明细
type OrderData struct {
	Amount       string `json:"amount"`
	ChainID      int64  `json:"chain_id"`
	CreatedAt    int64  `json:"created_at"`
	Currency     string `json:"currency_address"`
	Expiration   int64  `json:"expiration"`
	Filled       string `json:"filled"`
	FinishAmount string `json:"finish_amount"`
	FinishShare  string `json:"finish_share"`
	OrderID      int64  `json:"order_id"`
	Outcome      string `json:"outcome"`
	OutcomeSide  int    `json:"outcome_side"`
	Price        string `json:"price"`
	Profit       string `json:"profit"`
	Side         int    `json:"side"`
	Status       int    `json:"status"`
	TopicID      int64  `json:"topic_id"`
	TopicTitle   string `json:"topic_title"`
	TotalPrice   string `json:"total_price"`
	TradingMethod int   `json:"trading_method"`
	TransNo      string `json:"trans_no"`
}

// SubmitOrderResult 提交订单的 result 载荷
type SubmitOrderResult struct {
	OrderData *OrderData `json:"orderData"`
}

// SubmitOrderResponse 提交订单的响应。
// 非零 Errno 是业务层结果（余额不足等），作为数据返回而不是错误
type SubmitOrderResponse struct {
	Errno  Errno             `json:"errno"`
	Errmsg string            `json:"errmsg"`
	Result SubmitOrderResult `json:"result"`
}

// CancelOrderResult 撤单的 result 载荷
type CancelOrderResult struct {
	Success bool `json:"result"`
}

// CancelOrderResponse 撤单响应，Errno 语义同 SubmitOrderResponse
type CancelOrderResponse struct {
	Errno  Errno             `json:"errno"`
	Errmsg string            `json:"errmsg"`
	Result CancelOrderResult `json:"result"`
}

// OrderQueryParams 订单查询参数
type OrderQueryParams struct {
	WalletAddress string
	QueryType     OrderQueryType
	TopicID       int64 // 0 表示不过滤
	Page          int
	Limit         int
}

// OrderQueryResult 订单查询结果（单页）
type OrderQueryResult struct {
	List  []OrderData `json:"list"`
	Total int         `json:"total"`
}
