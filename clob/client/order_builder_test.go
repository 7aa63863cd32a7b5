package client

import (
	"testing"

	"github.com/betbot/goopinion/clob/types"
)

func testTopic() *types.Topic {
	return &types.Topic{
		TopicID:         42,
		Title:           "test topic",
		QuestionID:      "0xq",
		ChainID:         types.ChainBSC,
		YesTokenID:      "111",
		NoTokenID:       "222",
		PriceDecimals:   3,
		SizeDecimals:    2,
		CollateralToken: types.CollateralTokenBSC,
	}
}

func TestBuildOrderBuyShares(t *testing.T) {
	order, err := BuildOrder(types.LimitOrderParams{
		TopicID:    42,
		TokenID:    "111",
		Side:       types.SideBuy,
		LimitPrice: "0.65",
		Volume:     "10",
		VolumeType: types.VolumeTypeShares,
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	// maker 腿 = 0.65 * 10 * 1e18，taker 腿 = 10 * 1e18
	if order.MakerAmount.String() != "6500000000000000000" {
		t.Fatalf("MakerAmount = %s", order.MakerAmount)
	}
	if order.TakerAmount.String() != "10000000000000000000" {
		t.Fatalf("TakerAmount = %s", order.TakerAmount)
	}
	if order.PriceUnits != 650 {
		t.Fatalf("PriceUnits = %d, 期望 650", order.PriceUnits)
	}
}

func TestBuildOrderSellMirrorsLegs(t *testing.T) {
	order, err := BuildOrder(types.LimitOrderParams{
		TopicID:    42,
		TokenID:    "222",
		Side:       types.SideSell,
		LimitPrice: "0.4",
		Volume:     "5",
		VolumeType: types.VolumeTypeShares,
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	// 卖单：maker 出份额，taker 出抵押品
	if order.MakerAmount.String() != "5000000000000000000" {
		t.Fatalf("MakerAmount = %s", order.MakerAmount)
	}
	if order.TakerAmount.String() != "2000000000000000000" {
		t.Fatalf("TakerAmount = %s", order.TakerAmount)
	}
}

func TestBuildOrderDeterministic(t *testing.T) {
	params := types.LimitOrderParams{
		TopicID:    42,
		TokenID:    "111",
		Side:       types.SideBuy,
		LimitPrice: "0.333",
		Volume:     "7.25",
		VolumeType: types.VolumeTypeShares,
		SafeRate:   "0.02",
	}
	first, err := BuildOrder(params, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := BuildOrder(params, testTopic())
		if err != nil {
			t.Fatalf("构建失败: %v", err)
		}
		if again.MakerAmount.Cmp(first.MakerAmount) != 0 ||
			again.TakerAmount.Cmp(first.TakerAmount) != 0 ||
			!again.Price.Equal(first.Price) {
			t.Fatalf("同样输入应产生同样输出: %+v vs %+v", again, first)
		}
	}
}

func TestBuildOrderPriceBounds(t *testing.T) {
	for _, price := range []string{"0", "1", "-0.2", "1.5", "abc", ""} {
		_, err := BuildOrder(types.LimitOrderParams{
			TopicID: 42, TokenID: "111", Side: types.SideBuy,
			LimitPrice: price, Volume: "10", VolumeType: types.VolumeTypeShares,
		}, testTopic())
		if err == nil {
			t.Fatalf("价格 %q 应该报错", price)
		}
		if _, ok := err.(*types.InvalidParamsError); !ok {
			t.Fatalf("价格 %q 错误类型 = %T", price, err)
		}
	}
}

func TestBuildOrderPricePrecision(t *testing.T) {
	topic := testTopic()
	topic.PriceDecimals = 2
	_, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.333", Volume: "10", VolumeType: types.VolumeTypeShares,
	}, topic)
	if err == nil {
		t.Fatalf("0.333 在 2 位精度下应该报 PrecisionError")
	}
	if _, ok := err.(*types.PrecisionError); !ok {
		t.Fatalf("错误类型 = %T, 期望 PrecisionError", err)
	}
}

func TestBuildOrderVolumeValidation(t *testing.T) {
	// 零委托量
	_, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.5", Volume: "0", VolumeType: types.VolumeTypeShares,
	}, testTopic())
	if _, ok := err.(*types.InvalidParamsError); !ok {
		t.Fatalf("零委托量错误类型 = %T", err)
	}

	// 份额精度超限
	_, err = BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.5", Volume: "1.555", VolumeType: types.VolumeTypeShares,
	}, testTopic())
	if _, ok := err.(*types.PrecisionError); !ok {
		t.Fatalf("份额精度错误类型 = %T", err)
	}
}

func TestBuildOrderNotionalFloors(t *testing.T) {
	// 10 USDT / 0.3 = 33.333... 份，下取整到 33.33
	order, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.3", Volume: "10", VolumeType: types.VolumeTypeNotional,
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if order.Shares.String() != "33.33" {
		t.Fatalf("Shares = %s, 期望 33.33", order.Shares)
	}
	// 实际使用的抵押品 <= 名义金额
	if order.MakerAmount.String() != "9999000000000000000" {
		t.Fatalf("MakerAmount = %s", order.MakerAmount)
	}
}

func TestBuildOrderNotionalBoundaryNeverExceeds(t *testing.T) {
	// 0.5999999999999999997 / 0.3 = 1.9999...99，差一点到 2 份。
	// 有限精度除法会在第 16 位进位成 2，下取整后反而超出名义金额；
	// 这里必须得到 1.99 份，花费 0.597 <= 名义金额
	order, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.3", Volume: "0.5999999999999999997", VolumeType: types.VolumeTypeNotional,
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if order.Shares.String() != "1.99" {
		t.Fatalf("Shares = %s, 期望 1.99", order.Shares)
	}
	if order.MakerAmount.String() != "597000000000000000" {
		t.Fatalf("MakerAmount = %s, 花费不得超过名义金额", order.MakerAmount)
	}
}

func TestBuildOrderSafeRate(t *testing.T) {
	// 买单：0.5 * 1.03 = 0.515，买方向下取整不超过容忍上限
	order, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.5", Volume: "10", VolumeType: types.VolumeTypeShares,
		SafeRate: "0.03",
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if order.Price.String() != "0.515" {
		t.Fatalf("买单生效价 = %s, 期望 0.515", order.Price)
	}

	// 卖单：0.5 * 0.97 = 0.485，卖方向上取整不低于容忍下限
	order, err = BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideSell,
		LimitPrice: "0.5", Volume: "10", VolumeType: types.VolumeTypeShares,
		SafeRate: "0.03",
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if order.Price.String() != "0.485" {
		t.Fatalf("卖单生效价 = %s, 期望 0.485", order.Price)
	}

	// 取整方向：0.333 * 1.01 = 0.33633，买单下取整到 0.336
	order, err = BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.333", Volume: "10", VolumeType: types.VolumeTypeShares,
		SafeRate: "0.01",
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if order.Price.String() != "0.336" {
		t.Fatalf("生效价 = %s, 期望 0.336", order.Price)
	}

	// 非法 safe rate
	for _, rate := range []string{"-0.1", "1", "abc"} {
		_, err := BuildOrder(types.LimitOrderParams{
			TopicID: 42, TokenID: "111", Side: types.SideBuy,
			LimitPrice: "0.5", Volume: "10", VolumeType: types.VolumeTypeShares,
			SafeRate: rate,
		}, testTopic())
		if _, ok := err.(*types.InvalidParamsError); !ok {
			t.Fatalf("safe rate %q 错误类型 = %T", rate, err)
		}
	}
}

func TestBuildOrderRejectsForeignToken(t *testing.T) {
	_, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "999", Side: types.SideBuy,
		LimitPrice: "0.5", Volume: "10", VolumeType: types.VolumeTypeShares,
	}, testTopic())
	if _, ok := err.(*types.InvalidParamsError); !ok {
		t.Fatalf("不属于话题的 token 错误类型 = %T", err)
	}
}
