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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparkview/sparkview-core/pkg/log"
	"github.com/sparkview/sparkview-core/pkg/webservice"
)

func createServeCommand() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve <event-log>",
		Short: "Parse an event log and serve the reconstruction over HTTP",
		Long: `Serve parses the given event log and then exposes the reconstructed
state on the REST endpoints under /ws/v1, including prometheus metrics
and a full state dump. The server runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, diags, err := loadEventLog(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			web := webservice.NewWebApp(store, diags, listenAddr)
			web.StartWebApp()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Logger().Info("shutting down", zap.String("signal", sig.String()))
			return web.StopWebApp()
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", ":9080", "address the web service listens on")
	return cmd
}
