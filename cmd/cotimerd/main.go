package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fixkme/cotimer/framework/app"
	"github.com/fixkme/cotimer/framework/config"
	"github.com/fixkme/cotimer/mlog"
	"github.com/spf13/cobra"
)

var (
	// 编译时通过 -ldflags 设置
	releaseVersion = "dev"
	commit         = "none"

	configFile  string
	heartbeatMs int64
	statsMs     int64

	rootCmd = &cobra.Command{
		Use:   "cotimerd",
		Short: "Cooperative timer scheduling daemon",
		Long:  "cotimerd drives a cooperative timer registry from a single event loop and exposes it over a small text admin protocol.",
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the timer loop until SIGINT or SIGTERM",
		RunE:  runDaemon,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cotimerd %s (commit %s)\n", releaseVersion, commit)
		},
	}
)

func init() {
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file, json or yaml")
	runCmd.Flags().Int64Var(&heartbeatMs, "heartbeat-ms", 1000, "period of the built-in heartbeat timer, 0 disables it")
	runCmd.Flags().Int64Var(&statsMs, "stats-ms", 10000, "period of the loop stats report, 0 disables it")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = releaseVersion
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if err := config.LoadConfig(configFile, loadConfigFromEnv); err != nil {
		return err
	}
	conf := config.Config

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	defer func() {
		cancel()
		wg.Wait()
	}()
	if conf.LogPath != "" {
		if err := mlog.UseFileLogger(ctx, wg, conf.LogPath, conf.LogName, conf.MlogLevel(), conf.LogStdOut); err != nil {
			return err
		}
	} else {
		mlog.UseStdLogger(conf.MlogLevel())
	}
	mlog.Infof("cotimerd %s config:\n%s", releaseVersion, conf.JsonFormat())

	tm := newTimerModule(conf, heartbeatMs, statsMs)
	return app.New().Run(tm, newAdminModule(conf, tm.loop))
}

func loadConfigFromEnv(conf *config.AppConfig) error {
	if v := os.Getenv("COTIMER_LOG_LEVEL"); v != "" {
		conf.LogLevel = v
	}
	if v := os.Getenv("COTIMER_ADMIN_ADDR"); v != "" {
		conf.AdminEnabled = true
		conf.AdminAddr = v
	}
	return nil
}
