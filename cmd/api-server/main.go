// Package main API Server 入口
//
// 子命令：
//
//	jobboard serve   # 启动 HTTP API
//	jobboard seed    # 写入演示数据
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobboard/internal/config"
	"jobboard/pkg/logging"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Job board API server",
	Long: `Job board API server.

Employers publish jobs, job seekers apply, employers accept or reject,
accepted applicants download an offer letter. Admins can override.

Examples:
  jobboard serve                    # Start the HTTP API (APP_ENV=dev)
  jobboard serve --config ./configs # Use an explicit config directory
  jobboard seed                     # Insert demo users, jobs and applications`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configDir != "" {
			config.SetConfigDir(configDir)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory containing {env}.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 加载配置并创建根日志器
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logCfg := cfg.Log
	logCfg.Component = "jobboard"
	return cfg, logging.New(logCfg), nil
}
