package types

import (
	"encoding/json"
	"time"
)

// Topic 预测市场话题的元数据。
// 一经缓存即视为不可变，除非显式失效或强制刷新。
type Topic struct {
	TopicID         int64     `json:"topic_id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	QuestionID      string    `json:"question_id"`
	ChainID         Chain     `json:"chain_id"`
	YesTokenID      string    `json:"yes_token_id"`
	NoTokenID       string    `json:"no_token_id"`
	PriceDecimals   int       `json:"price_decimals"`
	SizeDecimals    int       `json:"size_decimals"`
	CollateralToken string    `json:"collateral_token_addr"`
	YesPrice        string    `json:"yes_price,omitempty"`
	NoPrice         string    `json:"no_price,omitempty"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// TokenIDForPosition 按 YES/NO 取出对应的 token ID
func (t *Topic) TokenIDForPosition(p Position) (string, error) {
	switch p {
	case PositionYes:
		return t.YesTokenID, nil
	case PositionNo:
		if t.NoTokenID == "" {
			return "", NewInvalidParams("topic %d has no NO token", t.TopicID)
		}
		return t.NoTokenID, nil
	}
	return "", NewInvalidParams("unknown position %q", string(p))
}

// topicRaw 上游 /v2/topic/{id} 返回的原始字段
type topicRaw struct {
	TopicID        int64       `json:"topic_id"`
	Title          string      `json:"title"`
	Status         json.Number `json:"status"`
	ChainID        json.Number `json:"chain_id"`
	QuestionID     string      `json:"question_id"`
	YesPos         string      `json:"yes_pos"`
	NoPos          string      `json:"no_pos"`
	YesMarketPrice json.Number `json:"yes_market_price"`
	NoMarketPrice  json.Number `json:"no_market_price"`
	PriceDecimals  int         `json:"price_decimals"`
	SizeDecimals   int         `json:"size_decimals"`
	Currency       string      `json:"currency_address"`
}

// ParseTopicResult 解析话题接口的 result 载荷。
// 上游省略精度/抵押品字段时回填默认值
func ParseTopicResult(result json.RawMessage) (*Topic, error) {
	var wrapper struct {
		Data topicRaw `json:"data"`
	}
	if err := json.Unmarshal(result, &wrapper); err != nil {
		return nil, &ApiError{Errno: -1, Message: "malformed topic payload: " + err.Error()}
	}
	raw := wrapper.Data
	if raw.TopicID == 0 || raw.Title == "" || raw.QuestionID == "" {
		return nil, &ApiError{Errno: -1, Message: "topic payload missing required fields"}
	}
	if raw.YesPos == "" {
		return nil, &ApiError{Errno: -1, Message: "topic payload missing yes token"}
	}
	if raw.NoPos != "" && raw.NoPos == raw.YesPos {
		return nil, &ApiError{Errno: -1, Message: "topic yes/no tokens must differ"}
	}

	chainID := DefaultChainID
	if v, err := raw.ChainID.Int64(); err == nil && v != 0 {
		chainID = Chain(v)
	}
	priceDecimals := raw.PriceDecimals
	if priceDecimals <= 0 {
		priceDecimals = DefaultPriceDecimals
	}
	sizeDecimals := raw.SizeDecimals
	if sizeDecimals <= 0 {
		sizeDecimals = DefaultSizeDecimals
	}
	currency := raw.Currency
	if currency == "" {
		currency = CollateralTokenBSC
	}

	return &Topic{
		TopicID:         raw.TopicID,
		Title:           raw.Title,
		Status:          raw.Status.String(),
		QuestionID:      raw.QuestionID,
		ChainID:         chainID,
		YesTokenID:      raw.YesPos,
		NoTokenID:       raw.NoPos,
		PriceDecimals:   priceDecimals,
		SizeDecimals:    sizeDecimals,
		CollateralToken: currency,
		YesPrice:        raw.YesMarketPrice.String(),
		NoPrice:         raw.NoMarketPrice.String(),
		FetchedAt:       time.Now().UTC(),
	}, nil
}

// CachedTopicSummary 缓存条目的摘要信息（ListCached 返回）
type CachedTopicSummary struct {
	TopicID   int64         `json:"topic_id"`
	Title     string        `json:"title"`
	FetchedAt time.Time     `json:"fetched_at"`
	Age       time.Duration `json:"-"`
}
