package client

import (
	"context"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/betbot/goopinion/clob/signing"
	"github.com/betbot/goopinion/clob/types"
	"github.com/betbot/goopinion/pkg/logger"
)

// SignOrder 对归一化订单做 EIP712 签名。
// salt 每次随机生成，同一个订单重复签名得到不同的签名
func (c *Client) SignOrder(order *types.NormalizedOrder) (*types.SignedOrder, error) {
	if order == nil {
		return nil, types.NewInvalidParams("order is nil")
	}
	if order.CollateralToken != "" && !strings.EqualFold(order.CollateralToken, c.contracts.Collateral) {
		return nil, &types.ConfigMismatchError{
			Msg: "order collateral " + order.CollateralToken + " does not match chain config",
		}
	}

	tokenID, ok := new(big.Int).SetString(order.TokenID, 10)
	if !ok {
		return nil, types.NewInvalidParams("token id %q is not a decimal integer", order.TokenID)
	}

	salt, err := signing.NewSalt()
	if err != nil {
		return nil, err
	}
	raw := &signing.Order{
		Salt:          salt,
		Maker:         c.makerAddress,
		Signer:        c.signerAddress,
		Taker:         types.ZeroAddress,
		TokenID:       tokenID,
		MakerAmount:   order.MakerAmount,
		TakerAmount:   order.TakerAmount,
		Expiration:    big.NewInt(order.Expiration),
		Nonce:         big.NewInt(0),
		FeeRateBps:    big.NewInt(0),
		Side:          order.Side,
		SignatureType: types.SignatureTypeGnosisSafe,
	}
	sig, err := signing.SignOrder(c.privateKey, c.chainID, c.contracts.Exchange, raw)
	if err != nil {
		return nil, err
	}

	return &types.SignedOrder{
		Salt:          salt,
		Maker:         c.makerAddress,
		Signer:        c.signerAddress,
		Taker:         types.ZeroAddress,
		TokenID:       order.TokenID,
		MakerAmount:   order.MakerAmount.String(),
		TakerAmount:   order.TakerAmount.String(),
		Expiration:    strconv.FormatInt(order.Expiration, 10),
		Nonce:         "0",
		FeeRateBps:    "0",
		Side:          order.Side,
		SignatureType: int(types.SignatureTypeGnosisSafe),
		Signature:     signing.EncodeGnosisSafeSignature(c.signerAddress, sig),
	}, nil
}

// buildSubmitPayload 组装提交请求体
func (c *Client) buildSubmitPayload(order *types.NormalizedOrder, signed *types.SignedOrder) *types.SubmitOrderPayload {
	return &types.SubmitOrderPayload{
		TopicID:         order.TopicID,
		ContractAddress: c.contracts.Exchange,
		Price:           order.Price.StringFixed(int32(order.PriceDecimals)),
		TradingMethod:   int(types.TradingMethodLimit),
		Salt:            strconv.FormatInt(signed.Salt, 10),
		Maker:           signed.Maker,
		Signer:          signed.Signer,
		Taker:           signed.Taker,
		TokenID:         signed.TokenID,
		MakerAmount:     signed.MakerAmount,
		TakerAmount:     signed.TakerAmount,
		Expiration:      signed.Expiration,
		Nonce:           signed.Nonce,
		FeeRateBps:      signed.FeeRateBps,
		Side:            strconv.Itoa(int(order.Side.WireValue())),
		SignatureType:   strconv.Itoa(signed.SignatureType),
		Signature:       signed.Signature,
		Timestamp:       time.Now().UnixMilli(),
		Sign:            signed.Signature,
		// 限价已在本地按 safeRate 调整过，这里固定传 "0"，
		// 避免服务端再按该比例放大一次容忍区间
		SafeRate:        "0",
		OrderExpTime:    strconv.FormatInt(order.Expiration, 10),
		CurrencyAddress: order.CollateralToken,
		ChainID:         int64(c.chainID),
	}
}

// SubmitOrder 提交已签名订单。
// 返回值里的非零 errno 是业务结果（余额不足、市场关闭等），
// 不会转成 error；error 只表示传输或协议层失败
func (c *Client) SubmitOrder(ctx context.Context, payload *types.SubmitOrderPayload) (*types.SubmitOrderResponse, error) {
	var resp types.SubmitOrderResponse
	if err := c.http.postInto(ctx, EndpointSubmitOrder, payload, &resp); err != nil {
		return nil, err
	}
	logger.Debugf("[CLOB] 订单已提交 topic=%d token=%s side=%s errno=%d",
		payload.TopicID, payload.TokenID, payload.Side, resp.Errno)
	return &resp, nil
}

// CreateLimitOrder 一站式下单：拉元数据、归一化、签名、提交
func (c *Client) CreateLimitOrder(ctx context.Context, params types.LimitOrderParams) (*types.SubmitOrderResponse, error) {
	topic, err := c.topics.GetTopic(ctx, params.TopicID)
	if err != nil {
		return nil, err
	}
	order, err := BuildOrder(params, topic)
	if err != nil {
		return nil, err
	}
	signed, err := c.SignOrder(order)
	if err != nil {
		return nil, err
	}
	return c.SubmitOrder(ctx, c.buildSubmitPayload(order, signed))
}

// CreateLimitOrderByTopic 话题级下单（由 YES/NO 解析 token）
func (c *Client) CreateLimitOrderByTopic(ctx context.Context, params types.LimitOrderByTopicParams) (*types.SubmitOrderResponse, error) {
	resolved, topic, err := c.ResolveTopicOrder(ctx, params)
	if err != nil {
		return nil, err
	}
	order, err := BuildOrder(resolved, topic)
	if err != nil {
		return nil, err
	}
	signed, err := c.SignOrder(order)
	if err != nil {
		return nil, err
	}
	return c.SubmitOrder(ctx, c.buildSubmitPayload(order, signed))
}

// Buy 买入限价单
func (c *Client) Buy(ctx context.Context, params types.LimitOrderParams) (*types.SubmitOrderResponse, error) {
	params.Side = types.SideBuy
	return c.CreateLimitOrder(ctx, params)
}

// Sell 卖出限价单
func (c *Client) Sell(ctx context.Context, params types.LimitOrderParams) (*types.SubmitOrderResponse, error) {
	params.Side = types.SideSell
	return c.CreateLimitOrder(ctx, params)
}

// BuyByTopic 话题级买入
func (c *Client) BuyByTopic(ctx context.Context, params types.LimitOrderByTopicParams) (*types.SubmitOrderResponse, error) {
	params.Side = types.SideBuy
	return c.CreateLimitOrderByTopic(ctx, params)
}

// SellByTopic 话题级卖出
func (c *Client) SellByTopic(ctx context.Context, params types.LimitOrderByTopicParams) (*types.SubmitOrderResponse, error) {
	params.Side = types.SideSell
	return c.CreateLimitOrderByTopic(ctx, params)
}

// CancelOrder 按订单号撤单。errno 语义同 SubmitOrder
func (c *Client) CancelOrder(ctx context.Context, transNo string) (*types.CancelOrderResponse, error) {
	if strings.TrimSpace(transNo) == "" {
		return nil, types.NewInvalidParams("trans no is required")
	}
	body := map[string]interface{}{
		"trans_no": transNo,
		"chainId":  int64(c.chainID),
	}
	var resp types.CancelOrderResponse
	if err := c.http.postInto(ctx, EndpointCancelOrder, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryOrders 分页查询订单
func (c *Client) QueryOrders(ctx context.Context, params types.OrderQueryParams) (*types.OrderQueryResult, error) {
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
		limit = 20
	}
	query := map[string]string{
		"walletAddress": wallet,
		"queryType":     strconv.Itoa(int(params.QueryType)),
		"page":          strconv.Itoa(page),
		"limit":         strconv.Itoa(limit),
		"chainId":       strconv.FormatInt(int64(c.chainID), 10),
	}
	if params.TopicID > 0 {
		query["topicId"] = strconv.FormatInt(params.TopicID, 10)
	}

	result, err := c.http.getResult(ctx, EndpointQueryOrders, query)
	if err != nil {
		return nil, err
	}
	var out types.OrderQueryResult
	if err := jsonUnmarshalResult(result, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOpenOrders 查询未完结订单
func (c *Client) GetOpenOrders(ctx context.Context, topicID int64, page, limit int) (*types.OrderQueryResult, error) {
	return c.QueryOrders(ctx, types.OrderQueryParams{
		QueryType: types.OrderQueryOpen,
		TopicID:   topicID,
		Page:      page,
		Limit:     limit,
	})
}

// GetClosedOrders 查询已完结订单
func (c *Client) GetClosedOrders(ctx context.Context, topicID int64, page, limit int) (*types.OrderQueryResult, error) {
	return c.QueryOrders(ctx, types.OrderQueryParams{
		QueryType: types.OrderQueryClosed,
		TopicID:   topicID,
		Page:      page,
		Limit:     limit,
	})
}
