/*
 * Copyright (c) 2025-2026, Veridata Inc. (https://www.veridata.io).
 *
 * Veridata Inc. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/veridata/entity-cleanup-service/internal/system/config"
	"github.com/veridata/entity-cleanup-service/internal/system/constants"
	"github.com/veridata/entity-cleanup-service/internal/system/database/provider"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
	"github.com/veridata/entity-cleanup-service/internal/system/managers"
)

const configFile = "config/deployment.yaml"

func main() {

	home := getServiceHome()

	_ = godotenv.Load("config/.env")

	cfg, err := config.LoadConfig(home, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.InitRuntime(home, cfg); err != nil {
		stdlog.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := log.Init(cfg.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	checkDatabase()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Addr.Host, cfg.Addr.Port)
	mux := enableCORS(initMultiplexer(), cfg.Auth.CORSAllowedOrigins)

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Error("Failed to start listener", log.String("addr", serverAddr), log.Error(err))
		os.Exit(1)
	}
	logger.Info("Entity cleanup service started", log.String("addr", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Error("Failed to serve requests", log.Error(err))
		os.Exit(1)
	}
}

// checkDatabase verifies connectivity to the configured data source before
// the service starts accepting traffic.
func checkDatabase() {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()
	log.GetLogger().Info("Database connection verified")
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}
	return mux
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(allowed) == 0 {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getServiceHome() string {

	homeFlag := flag.String("home", "", "Path to the service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}
