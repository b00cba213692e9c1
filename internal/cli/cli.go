//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for atelier-dw.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/atelierdata/atelier-dw/internal/config"
	"github.com/atelierdata/atelier-dw/internal/logging"
	"github.com/atelierdata/atelier-dw/pkg/version"
)

var (
	// Global flags
	cfgFile       string
	oltpConn      string
	warehouseConn string
	logLevel      string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "atelier-dw",
		Short: "Garment workshop data warehouse tooling",
		Long: `atelier-dw seeds a garment workshop's operational PostgreSQL schema
with synthetic business data and transforms it into a star-schema
warehouse for sales analytics.

Typical workflow:
  atelier-dw init       # create and seed the operational schema
  atelier-dw init-star  # create the warehouse star schema
  atelier-dw etl        # load dimensions and the sales fact table`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./atelier-dw.yaml)")
	rootCmd.PersistentFlags().StringVar(&oltpConn, "oltp", "",
		"PostgreSQL connection string for the operational database")
	rootCmd.PersistentFlags().StringVar(&warehouseConn, "warehouse", "",
		"PostgreSQL connection string for the warehouse database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(initStarCmd)
	rootCmd.AddCommand(etlCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if oltpConn != "" {
		cfg.OLTPConnection = oltpConn
	}
	if warehouseConn != "" {
		cfg.WarehouseConnection = warehouseConn
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
