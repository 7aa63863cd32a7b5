package client

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/betbot/goopinion/clob/types"
)

var (
	decimalZero = decimal.Zero
	decimalOne  = decimal.NewFromInt(1)
)

// collateralShift 抵押品最小单位的幂次（1e18）
const collateralShift = int32(types.CollateralTokenDecimals)

// BuildOrder 把订单意图归一化为可签名的订单。
// 纯计算，确定性：同样的输入和话题元数据永远得到同样的输出。
//
// 价格必须严格位于 (0,1) 且在话题的价格精度内精确表示；
// 份额量必须在份额精度内精确表示；金额量会被换算成份额并
// 向下取整到份额精度（多余的抵押品宁可不用也不超买）。
// 任何不精确都返回 PrecisionError，这里不做静默舍入
func BuildOrder(params types.LimitOrderParams, topic *types.Topic) (*types.NormalizedOrder, error) {
	if params.TokenID == "" {
		return nil, types.NewInvalidParams("token id is required")
	}
	if params.Side != types.SideBuy && params.Side != types.SideSell {
		return nil, types.NewInvalidParams("unknown side %q", string(params.Side))
	}
	if params.TokenID != topic.YesTokenID && params.TokenID != topic.NoTokenID {
		return nil, types.NewInvalidParams("token %s does not belong to topic %d",
			params.TokenID, topic.TopicID)
	}

	price, err := parsePrice(params.LimitPrice, topic.PriceDecimals)
	if err != nil {
		return nil, err
	}

	effPrice, err := applySafeRate(price, params.SafeRate, params.Side, topic.PriceDecimals)
	if err != nil {
		return nil, err
	}

	shares, err := resolveShares(params.Volume, params.VolumeType, effPrice, topic.SizeDecimals)
	if err != nil {
		return nil, err
	}

	// 两条腿都换算成 1e18 最小单位：
	// 抵押品腿 = 生效价 * 份额，份额腿 = 份额本身
	collateralUnits := types.ToWei(effPrice.Mul(shares))
	if !collateralUnits.IsInteger() {
		return nil, &types.PrecisionError{
			Field:    "collateral amount",
			Value:    effPrice.Mul(shares).String(),
			Decimals: int(collateralShift),
		}
	}
	shareUnits := types.ToWei(shares)
	if !shareUnits.IsInteger() {
		return nil, &types.PrecisionError{
			Field:    "share amount",
			Value:    shares.String(),
			Decimals: int(collateralShift),
		}
	}

	order := &types.NormalizedOrder{
		TopicID:         topic.TopicID,
		TokenID:         params.TokenID,
		Side:            params.Side,
		Price:           effPrice,
		PriceDecimals:   topic.PriceDecimals,
		PriceUnits:      effPrice.Shift(int32(topic.PriceDecimals)).IntPart(),
		Shares:          shares,
		SafeRate:        normalizeSafeRate(params.SafeRate),
		Expiration:      params.Expiration,
		CollateralToken: topic.CollateralToken,
	}
	if params.Side == types.SideBuy {
		// 买单：maker 出抵押品，taker 出份额
		order.MakerAmount = collateralUnits.BigInt()
		order.TakerAmount = shareUnits.BigInt()
	} else {
		order.MakerAmount = shareUnits.BigInt()
		order.TakerAmount = collateralUnits.BigInt()
	}
	return order, nil
}

// ResolveTopicOrder 把话题级意图解析为 token 级意图
func (c *Client) ResolveTopicOrder(ctx context.Context, params types.LimitOrderByTopicParams) (types.LimitOrderParams, *types.Topic, error) {
	topic, err := c.topics.GetTopic(ctx, params.TopicID)
	if err != nil {
		return types.LimitOrderParams{}, nil, err
	}
	tokenID, err := topic.TokenIDForPosition(params.Position)
	if err != nil {
		return types.LimitOrderParams{}, nil, err
	}
	return types.LimitOrderParams{
		TopicID:    params.TopicID,
		TokenID:    tokenID,
		Side:       params.Side,
		LimitPrice: params.LimitPrice,
		Volume:     params.Volume,
		VolumeType: params.VolumeType,
		SafeRate:   params.SafeRate,
		Expiration: params.Expiration,
	}, topic, nil
}

// parsePrice 解析限价：开区间 (0,1)，且在价格精度内精确
func parsePrice(v string, priceDecimals int) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Decimal{}, types.NewInvalidParams("invalid price %q", v)
	}
	if !price.GreaterThan(decimalZero) || !price.LessThan(decimalOne) {
		return decimal.Decimal{}, types.NewInvalidParams(
			"price %s must be strictly between 0 and 1", price.String())
	}
	if !price.Equal(price.Truncate(int32(priceDecimals))) {
		return decimal.Decimal{}, &types.PrecisionError{
			Field:    "price",
			Value:    v,
			Decimals: priceDecimals,
		}
	}
	return price, nil
}

// applySafeRate 按滑点保护比例调整限价。
// 买单向上、卖单向下各让出 rate 比例，随后向交易者有利的方向
// 取整回价格精度（买单下取整、卖单上取整），保证调整后的价格
// 绝不越过调用方给出的容忍边界。
// 调整结果越出 (0,1) 视为参数错误
func applySafeRate(price decimal.Decimal, safeRate string, side types.Side, priceDecimals int) (decimal.Decimal, error) {
	rate, err := parseSafeRate(safeRate)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if rate.IsZero() {
		return price, nil
	}

	var eff decimal.Decimal
	if side == types.SideBuy {
		eff = price.Mul(decimalOne.Add(rate)).RoundDown(int32(priceDecimals))
	} else {
		eff = price.Mul(decimalOne.Sub(rate)).RoundUp(int32(priceDecimals))
	}
	if !eff.GreaterThan(decimalZero) || !eff.LessThan(decimalOne) {
		return decimal.Decimal{}, types.NewInvalidParams(
			"safe rate %s pushes price %s out of (0,1)", safeRate, price.String())
	}
	return eff, nil
}

func parseSafeRate(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimalZero, nil
	}
	rate, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, types.NewInvalidParams("invalid safe rate %q", v)
	}
	if rate.IsNegative() || !rate.LessThan(decimalOne) {
		return decimal.Decimal{}, types.NewInvalidParams(
			"safe rate %s must be in [0,1)", rate.String())
	}
	return rate, nil
}

func normalizeSafeRate(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "0"
	}
	return v
}

// resolveShares 把委托量解析为份额数。
// Shares 要求在份额精度内精确；Amount 按生效价换算后
// 向下取整到份额精度
func resolveShares(volume string, volumeType types.VolumeType, effPrice decimal.Decimal, sizeDecimals int) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(volume))
	if err != nil {
		return decimal.Decimal{}, types.NewInvalidParams("invalid volume %q", volume)
	}
	if !v.GreaterThan(decimalZero) {
		return decimal.Decimal{}, types.NewInvalidParams(
			"volume %s must be positive", v.String())
	}

	switch volumeType {
	case types.VolumeTypeShares:
		if !v.Equal(v.Truncate(int32(sizeDecimals))) {
			return decimal.Decimal{}, &types.PrecisionError{
				Field:    "shares",
				Value:    volume,
				Decimals: sizeDecimals,
			}
		}
		return v, nil
	case types.VolumeTypeNotional:
		// 精确下取整：份额 = floor(金额 / 价格 * 10^sd) / 10^sd。
		// QuoRem 的商向零截断，不经过会把边界值进位的有限精度除法
		quot, _ := v.Shift(int32(sizeDecimals)).QuoRem(effPrice, 0)
		shares := quot.Shift(-int32(sizeDecimals))
		if !shares.GreaterThan(decimalZero) {
			return decimal.Decimal{}, types.NewInvalidParams(
				"notional %s is too small at price %s", v.String(), effPrice.String())
		}
		return shares, nil
	}
	return decimal.Decimal{}, types.NewInvalidParams("unknown volume type %q", string(volumeType))
}
