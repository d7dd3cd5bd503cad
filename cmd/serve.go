package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/vera-byte/vgo-diet/internal/config"
	"github.com/vera-byte/vgo-diet/internal/devserver"
	"github.com/vera-byte/vgo-diet/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

// serveCmd 开发代理命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development proxy",
	Long:  `Serve a local proxy that forwards /api and /images to the backend, for front ends under development.`,
	RunE:  runServe,
}

// routesCmd 输出页面路由表
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show the page routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		printPageRoutes(cmd.OutOrStdout(), router.New(router.DefaultRoutes(), nil).Routes())
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides devserver.port)")
	RootCmd.AddCommand(serveCmd, routesCmd)
}

// runServe 启动开发代理, 收到中断信号后优雅关闭
// cmd: cobra命令实例
// args: 命令行参数
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	port := cfg.DevServer.Port
	if servePort != "" {
		port = servePort
	}
	srv, err := devserver.New(devserver.Config{Port: port, Target: cfg.DevServer.Target}, logger)
	if err != nil {
		return err
	}

	logger.Info("=== VGO Diet Dev Server Information ===")
	printRouteDetailsTable(cmd.OutOrStdout(), srv.Routes())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		logger.Error("Dev server stopped", zap.Error(err))
		return err
	}
	logger.Info("Dev server exited")
	return nil
}

// printRouteDetailsTable 输出代理路由表格
func printRouteDetailsTable(w io.Writer, routes gin.RoutesInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Path", "Handler"})

	for _, route := range routes {
		// 截断过长的处理器名称
		table.Append([]string{route.Method, route.Path, truncate(route.Handler, 60)})
	}

	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	fmt.Fprintln(w, "\n🛣️  Route Details:")
	table.Render()
}

// printPageRoutes 输出页面路由表格
func printPageRoutes(w io.Writer, routes []router.RouteInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Path", "Name", "Redirect", "Login"})
	for _, r := range routes {
		login := "required"
		if r.Path == router.LoginPath {
			login = "-"
		}
		table.Append([]string{r.Path, r.Name, r.Redirect, login})
	}

	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Render()
}
