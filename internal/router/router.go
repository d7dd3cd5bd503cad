package router

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/vera-byte/vgo-diet/pkg/client"

	"go.uber.org/zap"
)

// 路由路径
const (
	LoginPath     = "/login"
	RootPath      = "/"
	DashboardPath = "/dashboard"
	DietPath      = "/diet"
	UserPath      = "/user"
	AdminUserPath = "/admin/user"
)

// maxRedirects 防止重定向死循环
const maxRedirects = 10

// ErrRouteNotFound 路径没有匹配的路由
var ErrRouteNotFound = errors.New("route not found")

// Route 路由定义
type Route struct {
	Path     string
	Name     string
	Redirect string
	Children []Route
}

// Location 解析后的路由位置
type Location struct {
	// Path 完整路径
	Path string
	// Name 命中的路由名称
	Name string
	// Matched 从父到子的路由链
	Matched []Route
}

// TokenSource 路由守卫读取的登录态
type TokenSource interface {
	Token() string
}

// Guard 导航守卫, 返回非空路径表示重定向
type Guard func(to, from Location) (redirect string)

// AfterHook 导航完成后的回调
type AfterHook func(to, from Location)

// Router 路由器
type Router struct {
	routes  []Route
	logger  *zap.Logger
	mu      sync.RWMutex
	guards  []Guard
	after   []AfterHook
	current Location
}

// DefaultRoutes 应用的路由表
// 布局路由 / 包含所有带侧边栏的页面
func DefaultRoutes() []Route {
	return []Route{
		{Path: LoginPath, Name: "Login"},
		{
			Path:     RootPath,
			Name:     "Layout",
			Redirect: DashboardPath,
			Children: []Route{
				{Path: "dashboard", Name: "Dashboard"},
				{Path: "diet", Name: "Diet"},
				{Path: "user", Name: "User"},
				{Path: "admin/user", Name: "AdminUser"},
			},
		},
	}
}

// New 创建路由器
// 参数: routes 路由表, logger 日志记录器
// 返回值: *Router 路由器实例
func New(routes []Route, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{routes: routes, logger: logger}
}

// AuthGuard 登录守卫: 未登录时除登录页外一律跳转到登录页
func AuthGuard(tokens TokenSource) Guard {
	return func(to, from Location) string {
		if to.Path != LoginPath && tokens.Token() == "" {
			return LoginPath
		}
		return ""
	}
}

// BeforeEach 注册前置守卫
func (r *Router) BeforeEach(g Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards = append(r.guards, g)
}

// AfterEach 注册后置回调
func (r *Router) AfterEach(h AfterHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.after = append(r.after, h)
}

// Current 当前位置
func (r *Router) Current() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Resolve 解析路径并跟随路由表中的重定向
// 参数: p 目标路径
// 返回值: Location 解析结果, error 无匹配时返回 ErrRouteNotFound
func (r *Router) Resolve(p string) (Location, error) {
	target := normalize(p)
	for i := 0; i < maxRedirects; i++ {
		matched, ok := match(r.routes, "", target)
		if !ok {
			return Location{}, fmt.Errorf("%w: %s", ErrRouteNotFound, target)
		}
		leaf := matched[len(matched)-1]
		if leaf.Redirect == "" {
			return Location{Path: target, Name: leaf.Name, Matched: matched}, nil
		}
		target = normalize(leaf.Redirect)
	}
	return Location{}, fmt.Errorf("too many redirects resolving %s", p)
}

// Push 导航到指定路径
// 依次执行前置守卫, 守卫要求重定向时改为导航到重定向目标
// 参数: p 目标路径
// 返回值: Location 最终位置, error 错误信息
func (r *Router) Push(p string) (Location, error) {
	r.mu.RLock()
	guards := append([]Guard(nil), r.guards...)
	after := append([]AfterHook(nil), r.after...)
	from := r.current
	r.mu.RUnlock()

	// 未匹配的路径同样经过守卫, 未登录时跳转登录页而不是报错
	to, resolveErr := r.Resolve(p)
	if resolveErr != nil {
		to = Location{Path: normalize(p)}
	}

	var err error
	for i := 0; i < maxRedirects; i++ {
		redirect := ""
		for _, g := range guards {
			if redirect = g(to, from); redirect != "" {
				break
			}
		}
		if redirect == "" || normalize(redirect) == to.Path {
			break
		}
		r.logger.Debug("navigation redirected",
			zap.String("from", to.Path),
			zap.String("to", redirect))
		if to, err = r.Resolve(redirect); err != nil {
			return Location{}, err
		}
		resolveErr = nil
	}
	if resolveErr != nil {
		return Location{}, resolveErr
	}

	r.mu.Lock()
	r.current = to
	r.mu.Unlock()

	for _, h := range after {
		h(to, from)
	}
	return to, nil
}

// BindSession 订阅登录失效事件, 失效后跳转到登录页
// 返回值: 取消订阅函数
func (r *Router) BindSession(c *client.Client) func() {
	return c.Subscribe(func(ev client.SessionInvalidated) {
		if _, err := r.Push(LoginPath); err != nil {
			r.logger.Error("failed to navigate to login", zap.Error(err))
		}
	})
}

// RouteInfo 展开后的路由信息
type RouteInfo struct {
	Path     string
	Name     string
	Redirect string
}

// Routes 按定义顺序展开所有路由
func (r *Router) Routes() []RouteInfo {
	var out []RouteInfo
	var walk func(prefix string, routes []Route)
	walk = func(prefix string, routes []Route) {
		for _, rt := range routes {
			full := join(prefix, rt.Path)
			out = append(out, RouteInfo{Path: full, Name: rt.Name, Redirect: rt.Redirect})
			walk(full, rt.Children)
		}
	}
	walk("", r.routes)
	return out
}

// match 深度优先匹配, 返回从父到子的路由链
func match(routes []Route, prefix, target string) ([]Route, bool) {
	for _, rt := range routes {
		full := join(prefix, rt.Path)
		if full == target {
			return []Route{rt}, true
		}
		if len(rt.Children) == 0 {
			continue
		}
		if chain, ok := match(rt.Children, full, target); ok {
			return append([]Route{rt}, chain...), true
		}
	}
	return nil, false
}

func join(prefix, p string) string {
	if strings.HasPrefix(p, "/") {
		return normalize(p)
	}
	return normalize(prefix + "/" + p)
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return RootPath
	}
	return path.Clean("/" + p)
}
