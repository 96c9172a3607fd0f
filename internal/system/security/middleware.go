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

package security

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/veridata/entity-cleanup-service/internal/system/config"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
)

// Authn validates the bearer token of the request against the configured
// HMAC secret. An empty secret disables authentication, which is only
// acceptable for local development.
func Authn(r *http.Request) error {

	secret := config.GetRuntime().Config.Auth.JWTSecret
	if secret == "" {
		return nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return unauthorized("Missing or invalid Authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	if _, err := validateToken(token, secret); err != nil {
		return unauthorized("Missing or invalid Authorization header")
	}
	return nil
}

func validateToken(token, secret string) (jwt.MapClaims, error) {

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func unauthorized(description string) error {
	return errors.NewClientError(errors.ErrorMessage{
		Code:        errors.UN_AUTHORIZED.Code,
		Message:     errors.UN_AUTHORIZED.Message,
		Description: description,
	}, http.StatusUnauthorized)
}
