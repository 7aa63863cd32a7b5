package types

import "fmt"

// InvalidParamsError 调用方传入了非法参数（价格越界、数量为零、未知枚举等）。
// 属于调用方缺陷，重试没有意义。
type InvalidParamsError struct {
	Msg string
}

func (e *InvalidParamsError) Error() string {
	return "invalid params: " + e.Msg
}

// NewInvalidParams 构造参数错误
func NewInvalidParams(format string, args ...interface{}) *InvalidParamsError {
	return &InvalidParamsError{Msg: fmt.Sprintf(format, args...)}
}

// PrecisionError 十进制转换不精确（要求调用方调整输入，不做静默舍入）
type PrecisionError struct {
	Field    string
	Value    string
	Decimals int
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("precision error: %s %q is not exact at %d decimals",
		e.Field, e.Value, e.Decimals)
}

// SigningError 密钥材料或签名过程出错，本次调用不可恢复
type SigningError struct {
	Msg string
	Err error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signing error: %s: %v", e.Msg, e.Err)
	}
	return "signing error: " + e.Msg
}

func (e *SigningError) Unwrap() error { return e.Err }

// ConfigMismatchError 链 ID 与配置的网络/抵押品不一致
type ConfigMismatchError struct {
	Msg string
}

func (e *ConfigMismatchError) Error() string {
	return "config mismatch: " + e.Msg
}

// MetadataFetchError 话题元数据拉取失败。缓存里即使有旧记录也不会静默回退，
// 由调用方决定重试或接受失败。
type MetadataFetchError struct {
	TopicID int64
	Err     error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("metadata fetch failed for topic %d: %v", e.TopicID, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// HttpStatusError 传输层失败（非 2xx 状态码）。是否重试由调用方策略决定
type HttpStatusError struct {
	Status int
	Body   string
}

func (e *HttpStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// ApiError 协议层失败：响应不是预期的信封结构，或查询接口返回了非零 errno
type ApiError struct {
	Errno   int
	Message string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("api error (errno %d): %s", e.Errno, e.Message)
}
