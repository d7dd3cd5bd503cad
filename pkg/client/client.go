package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vera-byte/vgo-diet/pkg/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultBasePath 后端接口统一前缀
	DefaultBasePath = "/api"

	// DefaultTimeout 请求超时时间
	DefaultTimeout = 5 * time.Second

	// HeaderRequestID 请求ID头
	HeaderRequestID = "X-Request-Id"
)

// SessionAccessor 客户端需要的登录态能力
type SessionAccessor interface {
	// Token 当前 token, 未登录时为空
	Token() string

	// Logout 清除登录态
	Logout() error
}

// Notifier 错误提示
type Notifier interface {
	// Notify 展示错误提示, 返回是否真正展示
	Notify(ctx context.Context, msg string) bool
}

// Config 客户端配置
type Config struct {
	// Address 后端地址, 如 http://localhost:8080
	Address string
	// BasePath 接口前缀, 默认 /api
	BasePath string
	// Timeout 超时时间, 默认 5 秒
	Timeout time.Duration
}

// Client 饮食管理服务 HTTP 客户端
// 请求阶段注入 Authorization, 响应阶段解包 { code, data, message } 并统一处理错误
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionAccessor
	notifier   Notifier
	logger     *zap.Logger

	mu          sync.RWMutex
	subscribers map[uint64]func(SessionInvalidated)
	nextID      uint64
}

// Option 客户端配置项
type Option func(*Client)

// WithSession 注入登录态
func WithSession(s SessionAccessor) Option {
	return func(c *Client) { c.session = s }
}

// WithNotifier 注入错误提示器
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithHTTPClient 使用自定义的 *http.Client, 未设置超时时沿用配置中的超时
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		copied := *hc
		if copied.Timeout == 0 {
			copied.Timeout = c.httpClient.Timeout
		}
		c.httpClient = &copied
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New 创建客户端
// 参数: cfg 客户端配置, opts 配置项
// 返回值: *Client 客户端实例
func New(cfg Config, opts ...Option) *Client {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:     strings.TrimRight(cfg.Address, "/") + "/" + strings.Trim(basePath, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		logger:      zap.NewNop(),
		subscribers: make(map[uint64]func(SessionInvalidated)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL 返回完整的接口前缀
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do 发送请求
// 业务码为 200 或 0 时原样返回响应, 其余情况返回错误并按规则提示
// 参数: ctx 上下文, req 请求描述
// 返回值: *model.Envelope 响应, error 错误信息
func (c *Client) Do(ctx context.Context, req Request) (*model.Envelope, error) {
	httpReq, err := c.interceptRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestBuild, err)
	}

	start := time.Now()
	logger := c.logger.With(
		zap.String("method", httpReq.Method),
		zap.String("url", httpReq.URL.String()),
		zap.String("request_id", httpReq.Header.Get(HeaderRequestID)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn("request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, c.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("read response body failed", zap.Error(err))
		return nil, c.transportFailure(ctx, err)
	}
	logger.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.statusFailure(ctx, resp.StatusCode, body)
	}
	return c.interceptResponse(ctx, body)
}

// DoInto 发送请求并将 data 解析到 v
func (c *Client) DoInto(ctx context.Context, req Request, v any) (*model.Envelope, error) {
	env, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if v != nil && env.HasData() {
		if err := env.Decode(v); err != nil {
			return env, err
		}
	}
	return env, nil
}

// Get 发送 GET 请求
func (c *Client) Get(ctx context.Context, url string, req Request) (*model.Envelope, error) {
	req.URL, req.Method = url, http.MethodGet
	return c.Do(ctx, req)
}

// Post 发送 POST 请求
func (c *Client) Post(ctx context.Context, url string, data any) (*model.Envelope, error) {
	return c.Do(ctx, Request{URL: url, Method: http.MethodPost, Data: data})
}

// Delete 发送 DELETE 请求
func (c *Client) Delete(ctx context.Context, url string) (*model.Envelope, error) {
	return c.Do(ctx, Request{URL: url, Method: http.MethodDelete})
}

// interceptRequest 请求拦截: 构造请求并注入 token
func (c *Client) interceptRequest(ctx context.Context, req Request) (*http.Request, error) {
	httpReq, err := newHTTPRequest(ctx, c.baseURL, req)
	if err != nil {
		return nil, err
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			httpReq.Header.Set("Authorization", token)
		}
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}
	return httpReq, nil
}

// interceptResponse 响应拦截: 解包业务响应
func (c *Client) interceptResponse(ctx context.Context, body []byte) (*model.Envelope, error) {
	var raw struct {
		Code    *int            `json:"code"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
		Msg     string          `json:"msg"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || raw.Code == nil {
		// 没有业务码的响应一律按失败处理
		c.notify(ctx, DefaultBusinessMessage)
		return nil, &BusinessError{Code: -1, Message: DefaultBusinessMessage}
	}

	env := &model.Envelope{
		Code:    *raw.Code,
		Data:    raw.Data,
		Message: raw.Message,
		Msg:     raw.Msg,
	}
	if env.Success() {
		return env, nil
	}

	msg := env.Text()
	if msg == "" {
		msg = DefaultBusinessMessage
	}
	c.notify(ctx, msg)
	return nil, &BusinessError{Code: env.Code, Message: msg, Envelope: env}
}

// statusFailure 处理非 2xx 响应
func (c *Client) statusFailure(ctx context.Context, status int, body []byte) error {
	msg := bodyMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}

	if status == http.StatusUnauthorized {
		c.invalidateSession(msg)
		return &HTTPError{StatusCode: status, Message: msg, Body: body, Err: ErrSessionExpired}
	}

	c.notify(ctx, msg)
	return &HTTPError{StatusCode: status, Message: msg, Body: body}
}

// transportFailure 处理没有响应的失败, 取消请求时不提示
func (c *Client) transportFailure(ctx context.Context, err error) error {
	msg := err.Error()
	if msg == "" {
		msg = DefaultNetworkMessage
	}
	if errors.Is(err, context.Canceled) {
		return &TransportError{Message: msg, Err: err}
	}
	c.notify(ctx, msg)
	return &TransportError{Message: msg, Err: err}
}

// invalidateSession 清除登录态后广播失效事件
func (c *Client) invalidateSession(reason string) {
	if c.session != nil {
		if err := c.session.Logout(); err != nil {
			c.logger.Warn("failed to clear session", zap.Error(err))
		}
	}
	c.logger.Info("session invalidated", zap.String("reason", reason))
	c.publish(SessionInvalidated{Reason: reason, At: time.Now()})
}

func (c *Client) notify(ctx context.Context, msg string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(context.WithoutCancel(ctx), msg)
}

// bodyMessage 从错误响应体中提取 message 或 msg
func bodyMessage(body []byte) string {
	var raw struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if len(body) == 0 || json.Unmarshal(body, &raw) != nil {
		return ""
	}
	if raw.Message != "" {
		return raw.Message
	}
	return raw.Msg
}
