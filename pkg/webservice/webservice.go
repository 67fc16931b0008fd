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

package webservice

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/sparkview/sparkview-core/pkg/cache"
	"github.com/sparkview/sparkview-core/pkg/ingest"
	"github.com/sparkview/sparkview-core/pkg/log"
)

// handlers read the reconstructed state through these, set once before
// the server starts
var lock sync.RWMutex
var liveStore *cache.Store
var liveDiags *ingest.Diagnostics

type WebService struct {
	httpServer *http.Server
	addr       string
}

func newRouter() *httprouter.Router {
	router := httprouter.New()
	for _, webRoute := range webRoutes {
		handler := loggingHandler(webRoute.HandlerFunc, webRoute.Name)
		router.Handle(webRoute.Method, webRoute.Pattern, handler)
	}
	return router
}

func loggingHandler(inner httprouter.Handle, name string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		inner(w, r, ps)
		log.Logger().Debug(fmt.Sprintf("%s\t%s\t%s\t%s",
			r.Method, r.RequestURI, name, time.Since(start)))
	}
}

func NewWebApp(store *cache.Store, diags *ingest.Diagnostics, addr string) *WebService {
	lock.Lock()
	defer lock.Unlock()
	liveStore = store
	liveDiags = diags
	return &WebService{addr: addr}
}

func (m *WebService) StartWebApp() {
	router := newRouter()
	m.httpServer = &http.Server{Addr: m.addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	log.Logger().Info("web-app started", zap.String("addr", m.addr))
	go func() {
		httpError := m.httpServer.ListenAndServe()
		if httpError != nil && httpError != http.ErrServerClosed {
			log.Logger().Error("HTTP serving error",
				zap.Error(httpError))
		}
	}()
}

func (m *WebService) StopWebApp() error {
	if m.httpServer != nil {
		// graceful shutdown in 5 seconds
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return m.httpServer.Shutdown(ctx)
	}

	return nil
}
