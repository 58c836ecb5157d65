package main

import (
	"github.com/spf13/cobra"

	"promoctl/pkg/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP (Model Context Protocol) server",
	Long: `Run an MCP server that exposes the promotion console to AI assistants.

The server communicates over stdio using the Model Context Protocol.

Available tools:
  Profiles:
    promo_profiles         - List saved promotion profiles
    promo_profile          - Show one profile in detail
    promo_delete_profile   - Delete a profile

  Promotions:
    promo_start_single     - Schedule a one-off promotion
    promo_start_profile    - Schedule a profile-based promotion
    promo_stop             - Request a cooperative job stop
    promo_job_status       - Check a job's status

  Configuration:
    promo_minimums         - Show minimum order quantities
    promo_username         - Get or set the operator username

  Monitoring:
    promo_monitor_targets  - List monitored accounts
    promo_monitor_add      - Start monitoring an account
    promo_monitor_toggle   - Pause/resume a target
    promo_monitor_remove   - Forget a target
    promo_monitor_settings - Get or set the polling interval
    promo_test_latest_post - One-off scrape test

Environment variables:
  PROMOCTL_API_URL     - Scheduler backend (default: http://127.0.0.1:5000)
  PROMOCTL_CONFIG_DIR  - Custom config directory

Example MCP configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "promoctl": {
        "command": "promoctl",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcp.NewServer(cmd.Context())
		return srv.Serve()
	},
}
