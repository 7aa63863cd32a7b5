package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/betbot/goopinion/clob/types"
	"github.com/betbot/goopinion/pkg/ratelimit"
)

const defaultTimeout = 10 * time.Second

// 客户端侧限速：150 请求/10 秒，与上游配额对齐
const (
	rateLimitRequests = 150
	rateLimitWindow   = 10 * time.Second
)

// httpClient HTTP 客户端封装（resty）。
// 发送前等待本地限速配额；不做任何自动重试，
// 退避/重试策略完全交给调用方
type httpClient struct {
	rc      *resty.Client
	limiter *ratelimit.SlidingWindow
}

// newHTTPClient 创建 HTTP 客户端。authToken 非空时附带 Bearer 认证头
func newHTTPClient(baseURL, authToken string, timeout time.Duration) *httpClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Origin", "https://app.opinion.trade").
		SetHeader("Referer", "https://app.opinion.trade/")

	if authToken != "" {
		if !strings.HasPrefix(authToken, "Bearer ") {
			authToken = "Bearer " + authToken
		}
		rc.SetHeader("Authorization", authToken)
	}

	return &httpClient{
		rc:      rc,
		limiter: ratelimit.NewSlidingWindow(rateLimitRequests, rateLimitWindow),
	}
}

// envelope 上游统一的响应信封
type envelope struct {
	Errno  types.Errno     `json:"errno"`
	Errmsg string          `json:"errmsg"`
	Result json.RawMessage `json:"result"`
}

// do 执行请求并返回原始响应体。
// 传输失败原样上抛；非 2xx 包装为 HttpStatusError
func (h *httpClient) do(ctx context.Context, method, endpoint string, params map[string]string, body interface{}) ([]byte, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req := h.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString())
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, endpoint)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &types.HttpStatusError{
			Status: resp.StatusCode(),
			Body:   strings.TrimSpace(string(resp.Body())),
		}
	}
	return resp.Body(), nil
}

// getResult GET 并解开信封；非零 errno 视为协议错误（仅用于查询类接口）
func (h *httpClient) getResult(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	body, err := h.do(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &types.ApiError{Errno: -1, Message: "malformed response: " + err.Error()}
	}
	if env.Errno != 0 {
		return nil, &types.ApiError{Errno: int(env.Errno), Message: env.Errmsg}
	}
	return env.Result, nil
}

// jsonUnmarshalResult 解码查询接口的 result 载荷
func jsonUnmarshalResult(raw json.RawMessage, out interface{}) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &types.ApiError{Errno: -1, Message: "malformed result: " + err.Error()}
	}
	return nil
}

// postInto POST 并把完整响应（含 errno/errmsg）解码进 out。
// 提交/撤单类接口用它：非零 errno 是业务结果，作为数据返回
func (h *httpClient) postInto(ctx context.Context, endpoint string, body, out interface{}) error {
	raw, err := h.do(ctx, http.MethodPost, endpoint, nil, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &types.ApiError{Errno: -1, Message: "malformed response: " + err.Error()}
	}
	return nil
}
