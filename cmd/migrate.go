/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"github.com/mautops/survey-gin/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations to create or update database schema.
This command will:
- Create the schedules and audit_logs tables if they don't exist
- Update table schemas if needed
- Create indexes for optimal query performance

The command uses the storage and database configuration from the config file
or environment variables. It does nothing for the memory storage driver.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.UsesDatabase() {
			logrus.WithField("driver", cfg.Storage.Driver).Info("storage driver has no database, nothing to migrate")
			return nil
		}

		// 2. 连接数据库
		logrus.WithFields(logrus.Fields{
			"driver": cfg.Storage.Driver,
			"host":   cfg.Database.Host,
			"dbname": cfg.Database.DBName,
			"path":   cfg.Database.Path,
		}).Info("connecting to database")
		db, err := database.Connect(cfg.Storage.Driver, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer database.Close(db)

		// 3. 执行迁移
		logrus.Info("running database migrations")
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		logrus.Info("database migrations completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
