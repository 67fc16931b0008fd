/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/sparkview/sparkview-core/pkg/log"
)

var (
	logLevel        string
	logFile         string
	classifierRules string
	tracingEnabled  bool
)

func main() {
	root := &cobra.Command{
		Use:   "sparkview",
		Short: "Spark event log inspection tool",
		Long: `Sparkview reconstructs the state of a Spark application from its
event log: jobs, stages, tasks, executors and environment, with the
metric rollups the Spark UI would show. Malformed or unknown lines
never abort a load, they are counted and reported instead.

Examples:
  sparkview load /var/log/spark/app-20240101-0001
  sparkview serve /var/log/spark/app-20240101-0001 --listen :9080`,
		PersistentPreRunE: setupLogging,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file, rotated at 50MB")
	root.PersistentFlags().StringVar(&classifierRules, "classifier-rules", "", "path to a YAML task outcome rule table")
	root.PersistentFlags().BoolVar(&tracingEnabled, "tracing", false, "report load spans to the local jaeger agent")

	viper.SetEnvPrefix("SPARKVIEW")
	viper.AutomaticEnv()
	bindFlag(root, "log-level")
	bindFlag(root, "log-file")
	bindFlag(root, "classifier-rules")
	bindFlag(root, "tracing")

	root.AddCommand(
		createLoadCommand(),
		createServeCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindFlag(cmd *cobra.Command, name string) {
	if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level zapcore.Level
	if err := level.Set(viper.GetString("log-level")); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if file := viper.GetString("log-file"); file != "" {
		log.InitFileLogger(file, 50, 3)
	}
	log.InitAndSetLevel(level)
	return nil
}
