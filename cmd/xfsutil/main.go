/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vorteil/xfsread/pkg/elog"
)

var log elog.View

func main() {
	cobra.OnInitialize(initConfig)
	commandInit()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xfsutil",
	Short: "Inspect XFS filesystem images read-only",
}

var (
	flagConfig  string
	flagVerbose bool
	flagDebug   bool
	flagNumbers string
)

// initConfig loads defaults for --verbose/--numbers from a config file
// (xfsutil.yaml/.json/.toml in the working directory, or --config) and from
// XFSUTIL_* environment variables, the way cobra+viper's generator wires
// every subcommand's flags to a single settings source.
func initConfig() {
	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
	} else {
		viper.SetConfigName("xfsutil")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("XFSUTIL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	if !rootCmd.PersistentFlags().Changed("numbers") && viper.IsSet("numbers") {
		flagNumbers = viper.GetString("numbers")
	}
	if !rootCmd.PersistentFlags().Changed("verbose") && viper.IsSet("verbose") {
		flagVerbose = viper.GetBool("verbose")
	}
}

func commandInit() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./xfsutil.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagNumbers, "numbers", "n", "short", "size format: short, dec, or hex")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := &elog.CLI{}
		logrus.SetFormatter(logger)
		logrus.SetLevel(logrus.TraceLevel)

		if flagDebug {
			logger.IsDebug = true
			logger.IsVerbose = true
		} else if flagVerbose {
			logger.IsVerbose = true
		}
		log = logger

		return SetNumbersMode(flagNumbers)
	}

	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(readlinkCmd)
	rootCmd.AddCommand(getfattrCmd)
	rootCmd.AddCommand(listxattrCmd)
	rootCmd.AddCommand(duCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(walkCmd)
}
