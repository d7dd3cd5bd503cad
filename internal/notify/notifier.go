package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultWindow 两次错误提示的最小间隔
	DefaultWindow = 500 * time.Millisecond

	// DefaultKey 错误提示锁的名称
	DefaultKey = "error-message"
)

// Notifier 去重的错误提示器
// 获取锁成功才会展示, 锁在窗口结束后自动释放, 窗口内的其它提示全部丢弃
type Notifier struct {
	limiter Limiter
	sink    Sink
	window  time.Duration
	key     string
	logger  *zap.Logger
}

// Option Notifier 配置项
type Option func(*Notifier)

// WithWindow 设置窗口时长
func WithWindow(window time.Duration) Option {
	return func(n *Notifier) {
		if window > 0 {
			n.window = window
		}
	}
}

// WithKey 设置锁名称
func WithKey(key string) Option {
	return func(n *Notifier) {
		if key != "" {
			n.key = key
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New 创建错误提示器
// 参数: limiter 锁, sink 展示端, opts 配置项
// 返回值: *Notifier 实例
func New(limiter Limiter, sink Sink, opts ...Option) *Notifier {
	if limiter == nil {
		limiter = NewMemoryLimiter(nil)
	}
	if sink == nil {
		sink = NewConsoleSink(nil)
	}
	n := &Notifier{
		limiter: limiter,
		sink:    sink,
		window:  DefaultWindow,
		key:     DefaultKey,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify 展示一条错误提示
// 参数: ctx 上下文, msg 提示内容
// 返回值: bool 是否真正展示
func (n *Notifier) Notify(ctx context.Context, msg string) bool {
	acquired, err := n.limiter.Acquire(ctx, n.key, n.window)
	if err != nil {
		// 锁不可用时宁可重复提示也不吞掉错误
		n.logger.Warn("notify limiter unavailable", zap.Error(err))
		acquired = true
	}
	if !acquired {
		n.logger.Debug("notification dropped", zap.String("message", msg))
		return false
	}
	n.sink.Show(msg)
	return true
}
