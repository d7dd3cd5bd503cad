package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vera-byte/vgo-diet/internal/app"
	"github.com/vera-byte/vgo-diet/internal/config"
	"github.com/vera-byte/vgo-diet/pkg/model"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var configPath string

// RootCmd 根命令
var RootCmd = &cobra.Command{
	Use:           "vgo-diet",
	Short:         "VGO Diet client",
	Long:          `VGO Diet is a command line client for the diet management service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config/config.yaml)")
}

// withApp 加载配置并组装应用, 执行完成后释放资源
// 参数: page 需要通过路由守卫的页面, 为空时不检查登录态
func withApp(cmd *cobra.Command, page string, fn func(a *app.App) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if page != "" {
		if _, err := a.Guard(page); err != nil {
			return err
		}
	}
	return fn(a)
}

// printJSON 以缩进 JSON 输出
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printData 输出响应中的 data 字段, 没有 data 时输出提示信息
func printData(w io.Writer, env *model.Envelope) error {
	if !env.HasData() {
		text := env.Text()
		if text == "" {
			text = "ok"
		}
		_, err := fmt.Fprintln(w, text)
		return err
	}
	var v any
	if err := env.Decode(&v); err != nil {
		return err
	}
	return printJSON(w, v)
}

// printPage 以表格输出分页记录
// 参数: w 输出目标, env 列表接口的响应, columns 优先展示的列
func printPage(w io.Writer, env *model.Envelope, columns ...string) error {
	var page model.Page[model.Record]
	if err := env.Decode(&page); err != nil {
		return err
	}
	renderRecords(w, page.Records, columns)
	_, err := fmt.Fprintf(w, "total: %d\n", page.Total)
	return err
}

// renderRecords 输出记录表格, 优先列之后按字母序补齐其余字段
func renderRecords(w io.Writer, records []model.Record, columns []string) {
	header := recordColumns(records, columns)

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, rec := range records {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = cell(rec[col])
		}
		table.Append(row)
	}

	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Render()
}

func recordColumns(records []model.Record, preferred []string) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			seen[k] = true
		}
	}

	var header []string
	for _, col := range preferred {
		if seen[col] {
			header = append(header, col)
			delete(seen, col)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(header, rest...)
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return truncate(val, 40)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

// truncate 按字符截断, 超长时以 ... 结尾
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// parseFields 把 key=value 转为请求体, 数字和布尔值按 JSON 解析
func parseFields(fields map[string]string) map[string]any {
	out := make(map[string]any, len(fields))
	for k, raw := range fields {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil && !isContainer(v) {
			out[k] = v
			continue
		}
		out[k] = strings.TrimSpace(raw)
	}
	return out
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
