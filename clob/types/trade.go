package types

// Trade 一条历史成交记录，由交易所返回后不可变
type Trade struct {
	TokenID   string    `json:"token_id"`
	Side      TradeType `json:"side"`
	Price     string    `json:"last_price"`
	Shares    string    `json:"shares"`
	Fee       string    `json:"fee"`
	Status    int       `json:"status"`
	Timestamp int64     `json:"created_at"`
	TransNo   string    `json:"trans_no"`
}

// TradeQueryParams 成交查询参数
type TradeQueryParams struct {
	WalletAddress string
	TopicID       int64 // 0 表示不过滤
	Page          int
	Limit         int
}

// TradePage 成交查询结果（单页）
type TradePage struct {
	List  []Trade `json:"list"`
	Total int     `json:"total"`
}
