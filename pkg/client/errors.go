package client

import (
	"errors"
	"fmt"

	"github.com/vera-byte/vgo-diet/pkg/model"
)

var (
	// ErrSessionExpired 登录已过期 (HTTP 401)
	ErrSessionExpired = errors.New("session expired")

	// ErrRequestBuild 构造请求失败
	ErrRequestBuild = errors.New("build request")
)

// 默认提示文案
const (
	DefaultBusinessMessage = "系统异常"
	DefaultNetworkMessage  = "网络错误"
)

// BusinessError 业务失败: 响应码不在成功集合内
type BusinessError struct {
	Code     int
	Message  string
	Envelope *model.Envelope
}

// Error 实现 error 接口
func (e *BusinessError) Error() string {
	return fmt.Sprintf("business error %d: %s", e.Code, e.Message)
}

// HTTPError 非 2xx 的 HTTP 响应
type HTTPError struct {
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

// Error 实现 error 接口
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// Unwrap 返回内部错误, 401 时为 ErrSessionExpired
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// TransportError 请求未得到响应 (超时, 连接失败, 取消)
type TransportError struct {
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *TransportError) Error() string {
	return e.Message
}

// Unwrap 返回底层错误
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsSessionExpired 判断错误是否表示登录过期
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// Message 提取适合展示给用户的错误信息
func Message(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
