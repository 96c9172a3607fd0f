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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"
)

// Runtime holds the loaded configuration for the lifetime of the process.
type Runtime struct {
	Home   string
	Config Config
}

var (
	runtime *Runtime
	mu      sync.RWMutex
)

// LoadConfig reads and parses the deployment yaml under the service home.
func LoadConfig(home, file string) (*Config, error) {

	data, err := os.ReadFile(filepath.Join(home, file))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// InitRuntime installs the loaded configuration as the process runtime.
func InitRuntime(home string, cfg *Config) error {

	if cfg == nil {
		return fmt.Errorf("nil configuration")
	}
	mu.Lock()
	defer mu.Unlock()
	runtime = &Runtime{Home: home, Config: *cfg}
	return nil
}

// GetRuntime returns the process runtime configuration.
func GetRuntime() *Runtime {
	mu.RLock()
	defer mu.RUnlock()
	return runtime
}

// Secrets come from the environment, not the checked-in yaml.
func applyEnvOverrides(cfg *Config) {

	if v := os.Getenv("ECS_DB_PASSWORD"); v != "" {
		cfg.DataSource.Password = v
	}
	if v := os.Getenv("ECS_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ECS_CLASSIFIER_API_KEY"); v != "" {
		cfg.Classifier.APIKey = v
	}
	if v := os.Getenv("ECS_CLASSIFIER_ENDPOINT"); v != "" {
		cfg.Classifier.Endpoint = v
	}
}
