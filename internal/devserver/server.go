package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProxyPrefixes 转发到后端的路径前缀
var ProxyPrefixes = []string{"/api", "/images"}

// Config 开发代理配置
type Config struct {
	Port   string
	Target string
}

// Server 开发代理
// 把 /api 和 /images 转发到后端, 替代前端构建工具自带的代理
type Server struct {
	config Config
	target *url.URL
	engine *gin.Engine
	srv    *http.Server
	logger *zap.Logger
}

// New 创建开发代理
// 参数: cfg 代理配置, logger 日志记录器
// 返回值: *Server 代理实例, error 错误信息
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	target, err := url.Parse(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target %q: %w", cfg.Target, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid proxy target %q: scheme and host required", cfg.Target)
	}

	s := &Server{config: cfg, target: target, logger: logger}
	s.engine = s.buildEngine()
	return s, nil
}

// Handler 返回 HTTP 处理器
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Routes 返回已注册的路由
func (s *Server) Routes() gin.RoutesInfo {
	return s.engine.Routes()
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "target": s.target.String()})
	})

	proxy := s.newReverseProxy()
	handler := func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
	for _, prefix := range ProxyPrefixes {
		router.Any(prefix+"/*path", handler)
	}
	return router
}

// newReverseProxy 路径保持不变, Host 改写为后端地址
func (s *Server) newReverseProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(s.target)
			r.Out.Host = s.target.Host
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.logger.Warn("proxy request failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, `{"code":%d,"message":"backend unavailable"}`, http.StatusBadGateway)
		},
	}
}

// Run 启动代理并阻塞到 ctx 结束, 之后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting dev server",
			zap.String("port", s.config.Port),
			zap.String("target", s.target.String()))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down dev server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev server forced to shutdown: %w", err)
	}
	return nil
}
