package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aquabotdev/aquabot/internal/config"
	"github.com/aquabotdev/aquabot/internal/gateway"
)

var rootCmd = &cobra.Command{
	Use:   "aquabot",
	Short: "aquabot - water and calorie tracking Telegram bot",
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the bot (Telegram channel + reminders)",
	RunE:  runGateway,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize the config file",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show aquabot status",
	RunE:  runStatus,
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Telegram.Enabled && cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not set. Run 'aquabot onboard' or set AQUABOT_TELEGRAM_TOKEN")
	}

	g, err := gateway.New(cfg)
	if err != nil {
		return err
	}
	return g.Run(context.Background())
}

func runOnboard(cmd *cobra.Command, args []string) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		return nil
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Fill in telegram.token, weather.apiKey and exercise.apiKey,")
	fmt.Println("or export AQUABOT_TELEGRAM_TOKEN / OPENWEATHER_API_KEY / API_NINJAS_KEY.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("config:    %s\n", config.ConfigPath())
	fmt.Printf("telegram:  enabled=%v token=%s\n", cfg.Telegram.Enabled, maskSecret(cfg.Telegram.Token))
	fmt.Printf("weather:   key=%s\n", maskSecret(cfg.Weather.APIKey))
	fmt.Printf("exercise:  key=%s\n", maskSecret(cfg.Exercise.APIKey))
	fmt.Printf("admin:     %s\n", valueOr(cfg.Bot.AdminID, "(not set)"))
	fmt.Printf("journal:   %s\n", valueOr(cfg.DBPath(), "(disabled)"))
	fmt.Printf("reminders: %s\n", valueOr(cfg.Bot.ReminderCron, "(disabled)"))
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	rootCmd.AddCommand(gatewayCmd, onboardCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
