package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snnoop-triage/internal/triage"
	"snnoop-triage/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "SNNOOP10 headache triage client",
	Long: `Collects a headache questionnaire and asks the triage relay for a
SNNOOP10 red-flag analysis. The relay holds the AI credentials; this
client only needs the relay URL.`,
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("relay", "r", "", "relay base URL (default "+triage.DefaultRelayURL+")")
	rootCmd.PersistentFlags().Duration("timeout", 60*time.Second, "client-side request timeout")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")

	_ = viper.BindPFlag("relay.url", rootCmd.PersistentFlags().Lookup("relay"))
	_ = viper.BindPFlag("relay.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindEnv("relay.url", "TRIAGE_RELAY_URL")
	viper.SetDefault("relay.url", triage.DefaultRelayURL)

	rootCmd.AddCommand(analyzeCmd, healthCmd, templateCmd)
}

func initConfig() {
	log.Init(viper.GetString("log.level"), "console", "")
}

func newClient() *triage.Client {
	return triage.NewClient(viper.GetString("relay.url"), viper.GetDuration("relay.timeout"))
}
