package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/vera-byte/vgo-diet/internal/config"
	"github.com/vera-byte/vgo-diet/internal/notify"
	"github.com/vera-byte/vgo-diet/internal/router"
	"github.com/vera-byte/vgo-diet/internal/session"
	"github.com/vera-byte/vgo-diet/pkg/api"
	"github.com/vera-byte/vgo-diet/pkg/client"

	"go.uber.org/zap"
)

// ErrLoginRequired 当前页面需要登录
var ErrLoginRequired = errors.New("please login first")

// App 应用外壳, 持有登录态, 请求客户端, 路由和接口集合
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Session  *session.Store
	Notifier *notify.Notifier
	Client   *client.Client
	Router   *router.Router
	API      *api.API

	closers []io.Closer
	unbind  func()
}

type options struct {
	logger *zap.Logger
	sink   notify.Sink
	clock  notify.Clock
}

// Option 应用选项
type Option func(*options)

// WithLogger 使用外部日志记录器, 不再按配置创建
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSink 替换错误提示输出端
func WithSink(sink notify.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithClock 替换错误提示限流使用的时钟
func WithClock(clock notify.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// New 按配置组装应用
// 参数: cfg 应用配置, opts 可选项
// 返回值: *App 应用实例, error 错误信息
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{Config: cfg}

	logger := o.logger
	if logger == nil {
		var err error
		if logger, err = config.NewLogger(cfg.Log); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	a.Logger = logger

	storage, err := session.NewStorage(session.StorageConfig{
		Type:      cfg.Session.Storage,
		Path:      cfg.Session.Path,
		Prefix:    cfg.Session.Prefix,
		RedisAddr: cfg.Session.RedisAddr,
		RedisDB:   cfg.Session.RedisDB,
		RedisPass: cfg.Session.RedisPass,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session storage: %w", err)
	}
	a.track(storage)
	a.Session = session.Load(storage, logger)

	limiter, err := notify.NewLimiter(notify.LimiterConfig{
		Type:      cfg.Notify.Type,
		Prefix:    cfg.Notify.Prefix,
		RedisAddr: cfg.Notify.RedisAddr,
		RedisDB:   cfg.Notify.RedisDB,
		RedisPass: cfg.Notify.RedisPass,
		Clock:     o.clock,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create notify limiter: %w", err)
	}
	a.track(limiter)

	sink := o.sink
	if sink == nil {
		sink = notify.NewConsoleSink(nil)
	}
	a.Notifier = notify.New(limiter, sink,
		notify.WithWindow(cfg.Notify.Window),
		notify.WithKey(cfg.Notify.Key),
		notify.WithLogger(logger))

	a.Client = client.New(client.Config{
		Address:  cfg.Server.Address,
		BasePath: cfg.API.BasePath,
		Timeout:  cfg.API.Timeout,
	},
		client.WithSession(a.Session),
		client.WithNotifier(a.Notifier),
		client.WithLogger(logger))

	a.Router = router.New(router.DefaultRoutes(), logger)
	a.Router.BeforeEach(router.AuthGuard(a.Session))
	a.unbind = a.Router.BindSession(a.Client)

	a.API = api.New(a.Client)
	return a, nil
}

// Guard 导航到页面, 被守卫重定向到登录页时返回 ErrLoginRequired
// 参数: path 目标页面
// 返回值: router.Location 最终位置, error 错误信息
func (a *App) Guard(path string) (router.Location, error) {
	loc, err := a.Router.Push(path)
	if err != nil {
		return loc, err
	}
	if loc.Path == router.LoginPath && path != router.LoginPath {
		return loc, ErrLoginRequired
	}
	return loc, nil
}

// Close 释放资源
func (a *App) Close() error {
	if a.unbind != nil {
		a.unbind()
		a.unbind = nil
	}
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

func (a *App) track(v any) {
	if c, ok := v.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
}
