package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/betbot/goopinion/clob/signing"
	"github.com/betbot/goopinion/clob/types"
)

func topicEnvelope() string {
	return `{"errno":0,"errmsg":"","result":{"data":{
		"topic_id":42,"title":"test topic","status":1,"chain_id":56,
		"question_id":"0xq","yes_pos":"111","no_pos":"222",
		"yes_market_price":"0.65","no_market_price":"0.35",
		"price_decimals":3,"size_decimals":2,
		"currency_address":"0x55d398326f99059fF775485246999027B3197955"}}}`
}

func TestSignOrderProducesVerifiableSignature(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	order, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.65", Volume: "10", VolumeType: types.VolumeTypeShares,
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}

	signed, err := c.SignOrder(order)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	if signed.SignatureType != int(types.SignatureTypeGnosisSafe) {
		t.Fatalf("SignatureType = %d", signed.SignatureType)
	}
	if signed.Taker != types.ZeroAddress {
		t.Fatalf("Taker = %s", signed.Taker)
	}
	// Safe 封装签名 = 签名者地址 + 原始签名
	prefix := "0x" + strings.TrimPrefix(c.SignerAddress(), "0x")
	if !strings.HasPrefix(signed.Signature, prefix) {
		t.Fatalf("签名前缀应为签名者地址: %s", signed.Signature)
	}

	// 剥掉 Safe 前缀后可恢复签名者
	rawSig := "0x" + strings.TrimPrefix(signed.Signature, prefix)
	tokenID, _ := new(big.Int).SetString(order.TokenID, 10)
	recovered, err := signing.RecoverOrderSigner(c.ChainID(), types.ExchangeAddressBSC, &signing.Order{
		Salt:          signed.Salt,
		Maker:         signed.Maker,
		Signer:        signed.Signer,
		Taker:         signed.Taker,
		TokenID:       tokenID,
		MakerAmount:   order.MakerAmount,
		TakerAmount:   order.TakerAmount,
		Expiration:    big.NewInt(order.Expiration),
		Nonce:         big.NewInt(0),
		FeeRateBps:    big.NewInt(0),
		Side:          order.Side,
		SignatureType: types.SignatureTypeGnosisSafe,
	}, rawSig)
	if err != nil {
		t.Fatalf("恢复签名者失败: %v", err)
	}
	if !strings.EqualFold(recovered.Hex(), c.SignerAddress()) {
		t.Fatalf("恢复的地址 %s != 签名者 %s", recovered.Hex(), c.SignerAddress())
	}
}

func TestSignOrderFreshSaltEachCall(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	order, err := BuildOrder(types.LimitOrderParams{
		TopicID: 42, TokenID: "111", Side: types.SideBuy,
		LimitPrice: "0.65", Volume: "10", VolumeType: types.VolumeTypeShares,
	}, testTopic())
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	a, err := c.SignOrder(order)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	b, err := c.SignOrder(order)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	if a.Salt == b.Salt {
		t.Fatalf("重复签名应使用新 salt")
	}
	if a.Signature == b.Signature {
		t.Fatalf("不同 salt 的签名不应相同")
	}
}

func TestSignOrderRejectsForeignCollateral(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	order := &types.NormalizedOrder{
		TokenID:         "111",
		Side:            types.SideBuy,
		MakerAmount:     big.NewInt(1),
		TakerAmount:     big.NewInt(1),
		CollateralToken: "0x000000000000000000000000000000000000dead",
	}
	_, err := c.SignOrder(order)
	if _, ok := err.(*types.ConfigMismatchError); !ok {
		t.Fatalf("错误类型 = %T, 期望 ConfigMismatchError", err)
	}
}

func TestCreateLimitOrderByTopicSubmits(t *testing.T) {
	var gotPayload types.SubmitOrderPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, EndpointTopic):
			fmt.Fprint(w, topicEnvelope())
		case r.URL.Path == EndpointSubmitOrder && r.Method == http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
				t.Errorf("请求体解析失败: %v", err)
			}
			fmt.Fprint(w, `{"errno":0,"errmsg":"","result":{"orderData":{"trans_no":"T100","price":"0.65","amount":"6.5"}}}`)
		default:
			t.Errorf("意外的请求 %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.CreateLimitOrderByTopic(context.Background(), types.LimitOrderByTopicParams{
		TopicID:    42,
		Position:   types.PositionYes,
		Side:       types.SideBuy,
		LimitPrice: "0.65",
		Volume:     "10",
		VolumeType: types.VolumeTypeShares,
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if resp.Errno != 0 || resp.Result.OrderData == nil || resp.Result.OrderData.TransNo != "T100" {
		t.Fatalf("响应不对: %+v", resp)
	}

	if gotPayload.TokenID != "111" {
		t.Fatalf("payload token = %s, 期望 YES token", gotPayload.TokenID)
	}
	if gotPayload.Price != "0.650" {
		t.Fatalf("payload price = %s, 期望 0.650", gotPayload.Price)
	}
	if gotPayload.Side != "0" {
		t.Fatalf("payload side = %s, 期望 0", gotPayload.Side)
	}
	if gotPayload.TradingMethod != int(types.TradingMethodLimit) {
		t.Fatalf("payload tradingMethod = %d", gotPayload.TradingMethod)
	}
	if gotPayload.ChainID != int64(types.ChainBSC) {
		t.Fatalf("payload chainId = %d", gotPayload.ChainID)
	}
	if gotPayload.MakerAmount != "6500000000000000000" {
		t.Fatalf("payload makerAmount = %s", gotPayload.MakerAmount)
	}
}

func TestCreateLimitOrderSafeRateAppliedOnce(t *testing.T) {
	var gotPayload types.SubmitOrderPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, EndpointTopic):
			fmt.Fprint(w, topicEnvelope())
		default:
			if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
				t.Errorf("请求体解析失败: %v", err)
			}
			fmt.Fprint(w, `{"errno":0,"errmsg":"","result":{}}`)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.CreateLimitOrderByTopic(context.Background(), types.LimitOrderByTopicParams{
		TopicID:    42,
		Position:   types.PositionYes,
		Side:       types.SideBuy,
		LimitPrice: "0.5",
		Volume:     "10",
		VolumeType: types.VolumeTypeShares,
		SafeRate:   "0.03",
	})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	// 滑点只在本地生效一次：价格和两条腿已按 0.03 调整，
	// 请求体里的 safeRate 固定为 "0"
	if gotPayload.Price != "0.515" {
		t.Fatalf("payload price = %s, 期望 0.515", gotPayload.Price)
	}
	if gotPayload.MakerAmount != "5150000000000000000" {
		t.Fatalf("payload makerAmount = %s", gotPayload.MakerAmount)
	}
	if gotPayload.SafeRate != "0" {
		t.Fatalf("payload safeRate = %s, 调整后的订单不应再携带比例", gotPayload.SafeRate)
	}
}

func TestSubmitOrderErrnoIsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, EndpointTopic):
			fmt.Fprint(w, topicEnvelope())
		default:
			fmt.Fprint(w, `{"errno":2001,"errmsg":"insufficient balance","result":{}}`)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.CreateLimitOrderByTopic(context.Background(), types.LimitOrderByTopicParams{
		TopicID:    42,
		Position:   types.PositionYes,
		Side:       types.SideBuy,
		LimitPrice: "0.65",
		Volume:     "10",
		VolumeType: types.VolumeTypeShares,
	})
	// 非零 errno 是业务结果，不是 error
	if err != nil {
		t.Fatalf("业务拒绝不应报 error: %v", err)
	}
	if resp.Errno != 2001 || resp.Errmsg != "insufficient balance" {
		t.Fatalf("响应不对: %+v", resp)
	}
}

func TestCancelOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EndpointCancelOrder || r.Method != http.MethodPost {
			t.Errorf("意外的请求 %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("请求体解析失败: %v", err)
		}
		if body["trans_no"] != "T100" {
			t.Errorf("trans_no = %v", body["trans_no"])
		}
		fmt.Fprint(w, `{"errno":0,"errmsg":"","result":{"result":true}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.CancelOrder(context.Background(), "T100")
	if err != nil {
		t.Fatalf("撤单失败: %v", err)
	}
	if resp.Errno != 0 || !resp.Result.Success {
		t.Fatalf("响应不对: %+v", resp)
	}

	// 空单号是参数错误
	if _, err := c.CancelOrder(context.Background(), " "); err == nil {
		t.Fatalf("空单号应该报错")
	}
}

func TestCancelOrderErrnoIsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errno":3004,"errmsg":"order not found","result":{"result":false}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.CancelOrder(context.Background(), "T404")
	if err != nil {
		t.Fatalf("业务拒绝不应报 error: %v", err)
	}
	if resp.Errno != 3004 || resp.Result.Success {
		t.Fatalf("响应不对: %+v", resp)
	}
}

func TestQueryOrdersErrnoIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("queryType") != "1" {
			t.Errorf("queryType = %s", r.URL.Query().Get("queryType"))
		}
		fmt.Fprint(w, `{"errno":401,"errmsg":"unauthorized","result":null}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetOpenOrders(context.Background(), 42, 1, 20)
	var apiErr *types.ApiError
	if !errors.As(err, &apiErr) || apiErr.Errno != 401 {
		t.Fatalf("错误 = %v, 期望 ApiError errno 401", err)
	}
}

func TestQueryOrdersReturnsList(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"errno":0,"errmsg":"","result":{"total":1,"list":[{"order_id":9,"trans_no":"T9","price":"0.5","status":1,"topic_id":42}]}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, err := c.GetOpenOrders(context.Background(), 42, 1, 20)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if result.Total != 1 || len(result.List) != 1 || result.List[0].TransNo != "T9" {
		t.Fatalf("结果不对: %+v", result)
	}

	// 参数名必须与上游一致（驼峰），钱包缺省回落到 maker 地址
	for key, want := range map[string]string{
		"walletAddress": c.MakerAddress(),
		"queryType":     "1",
		"topicId":       "42",
		"page":          "1",
		"limit":         "20",
	} {
		if got := gotQuery.Get(key); got != want {
			t.Fatalf("查询参数 %s = %q, 期望 %q", key, got, want)
		}
	}
}
