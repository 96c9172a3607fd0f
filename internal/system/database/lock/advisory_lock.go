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

package lock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/veridata/entity-cleanup-service/internal/system/config"
	"github.com/veridata/entity-cleanup-service/internal/system/errors"
	"github.com/veridata/entity-cleanup-service/internal/system/log"
)

// DistributedLock serializes writers that share a key across service instances.
type DistributedLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// PostgresLock implements DistributedLock using PostgreSQL advisory locks.
//
// Advisory locks are session-scoped, so each held key pins a dedicated
// connection until Release. Acquire and Release for the same key must happen
// on that same connection or the unlock silently fails.
type PostgresLock struct {
	mu   sync.Mutex
	db   *sql.DB
	held map[string]*sql.Conn
}

func NewPostgresLock() *PostgresLock {
	return &PostgresLock{
		held: make(map[string]*sql.Conn),
	}
}

// PostgreSQL advisory locks take a bigint key, so string keys are hashed.
func (l *PostgresLock) generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: fmt.Sprintf("failed to hash lock key '%s'", key),
		}, err)
	}
	return int64(h.Sum64()), nil
}

func (l *PostgresLock) Acquire(ctx context.Context, key string) (bool, error) {

	logger := log.GetLogger()

	lockID, err := l.generateLockKey(key)
	if err != nil {
		return false, err
	}

	conn, err := l.checkout(ctx)
	if err != nil {
		errorMsg := "Failed during connection checkout for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}

	var acquired sql.NullBool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
		_ = conn.Close()
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}
	if !acquired.Valid {
		_ = conn.Close()
		errorMsg := fmt.Sprintf("pg_try_advisory_lock returned no result for lock id %d", lockID)
		logger.Error(errorMsg)
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RESULT_INVALID.Code,
			Message:     errors.LOCK_RESULT_INVALID.Message,
			Description: errorMsg,
		}, nil)
	}
	if !acquired.Bool {
		_ = conn.Close()
		return false, nil
	}

	l.mu.Lock()
	l.held[key] = conn
	l.mu.Unlock()
	return true, nil
}

func (l *PostgresLock) Release(ctx context.Context, key string) error {

	logger := log.GetLogger()

	l.mu.Lock()
	conn, ok := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()
	if !ok {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: fmt.Sprintf("no held lock for key '%s'", key),
		}, nil)
	}
	defer conn.Close()

	lockID, err := l.generateLockKey(key)
	if err != nil {
		return err
	}

	var released sql.NullBool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", lockID).Scan(&released); err != nil {
		errorMsg := "Failed to execute pg_advisory_unlock"
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// checkout hands out a dedicated connection from a lazily opened pool.
func (l *PostgresLock) checkout(ctx context.Context) (*sql.Conn, error) {

	l.mu.Lock()
	if l.db == nil {
		dataSource := config.GetRuntime().Config.DataSource
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dataSource.Hostname, dataSource.Port, dataSource.Username,
			dataSource.Password, dataSource.Name, dataSource.SSLMode)
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			l.mu.Unlock()
			return nil, err
		}
		l.db = db
	}
	db := l.db
	l.mu.Unlock()

	return db.Conn(ctx)
}
