/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/api"
	"github.com/mautops/survey-gin/internal/config"
	"github.com/mautops/survey-gin/internal/container"
	"github.com/mautops/survey-gin/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Survey Gin API server.
The server will listen on the configured host and port,
and provide REST API interfaces for survey schedule configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		cfg, configPath, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if config.IsProduction(cfg) {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// 2. 初始化容器
		ctr, err := container.NewContainer(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 3. 链路追踪
		if cfg.Tracing.Enabled {
			if err := api.InitTracing(ctx, cfg.Tracing); err != nil {
				return fmt.Errorf("failed to initialize tracing: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := api.ShutdownTracing(shutdownCtx); err != nil {
					logrus.WithError(err).Warn("failed to shutdown tracing")
				}
			}()
		}

		// 4. 后台任务
		go ctr.Hub().Run(ctx)
		ctr.DraftService().StartJanitor(ctx, cfg.Draft.SweepInterval)

		collector := metrics.NewCollector(ctr.DB(), ctr.Store().Len, ctr.DraftService().Len, 15*time.Second)
		collector.Start()
		defer collector.Stop()

		if scheduler := ctr.BackupScheduler(); scheduler != nil {
			scheduler.Start(ctx)
		}

		// 5. 配置热更新(仅日志级别)
		if configPath != "" {
			watcher := config.NewConfigWatcher(cfg, configPath)
			watcher.OnConfigChange(func(newCfg *config.Config) {
				if err := api.SetLoggerLevel(newCfg.Log.Level); err != nil {
					logrus.WithError(err).Warn("invalid log level in config")
					return
				}
				logrus.WithField("level", newCfg.Log.Level).Info("log level reloaded")
			})
			if err := watcher.Start(); err != nil {
				logrus.WithError(err).Warn("config watcher not started")
			} else {
				defer watcher.Stop()
			}
		}

		// 6. 设置路由
		router := api.SetupRoutes(api.Dependencies{
			Config:    cfg,
			DB:        ctr.DB(),
			Hub:       ctr.Hub(),
			Schedules: ctr.ScheduleService(),
			Blocks:    ctr.BlockService(),
			Drafts:    ctr.DraftService(),
			Templates: ctr.TemplateService(),
			Backups:   ctr.BackupService(),
			Count:     ctr.Store().Len,
		})

		// 7. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logrus.WithFields(logrus.Fields{
				"addr":    addr,
				"storage": cfg.Storage.Driver,
			}).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// 等待中断信号
		select {
		case <-ctx.Done():
		case err := <-errCh:
			return fmt.Errorf("failed to start server: %w", err)
		}

		logrus.Info("shutting down server")

		// 优雅关闭
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logrus.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}
