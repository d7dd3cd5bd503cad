package cmd

import (
	"fmt"
	"io"

	"github.com/vera-byte/vgo-diet/internal/config"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  `Print the configuration after merging defaults, the config file and VGO_DIET_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printConfigTable(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}

// printConfigTable 输出配置表格, 密码类字段不输出
func printConfigTable(w io.Writer, cfg *config.Config) {
	rows := [][]string{
		{"server.address", cfg.Server.Address},
		{"api.base_path", cfg.API.BasePath},
		{"api.timeout", cfg.API.Timeout.String()},
		{"notify.type", cfg.Notify.Type},
		{"notify.window", cfg.Notify.Window.String()},
		{"notify.key", cfg.Notify.Key},
		{"session.storage", cfg.Session.Storage},
	}
	switch cfg.Session.Storage {
	case "redis":
		rows = append(rows,
			[]string{"session.redis_addr", cfg.Session.RedisAddr},
			[]string{"session.prefix", cfg.Session.Prefix})
	case "", "file":
		rows = append(rows, []string{"session.path", cfg.Session.Path})
	}
	if cfg.Notify.Type == "redis" {
		rows = append(rows,
			[]string{"notify.redis_addr", cfg.Notify.RedisAddr},
			[]string{"notify.prefix", cfg.Notify.Prefix})
	}
	rows = append(rows,
		[]string{"devserver.port", cfg.DevServer.Port},
		[]string{"devserver.target", cfg.DevServer.Target},
		[]string{"log.level", cfg.Log.Level},
		[]string{"log.format", cfg.Log.Format})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Value"})
	table.AppendBulk(rows)
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Render()
}
