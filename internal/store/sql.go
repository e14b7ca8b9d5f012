// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	// Database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/config"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
)

const recordColumns = "id, category, name, payload, form, style, image_key, image_url, format, scans, created_at, updated_at"

// SQLStore keeps records in MySQL or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect string
	logger  *zap.Logger
}

// Open connects to the configured database and ensures the schema exists.
func Open(ctx context.Context, dbConfig config.DatabaseConfig, logger *zap.Logger) (*SQLStore, error) {
	db, err := openDatabaseConnection(dbConfig, logger)
	if err != nil {
		return nil, err
	}
	s := &SQLStore{db: db, dialect: dbConfig.Type, logger: logger}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openDatabaseConnection(dbConfig config.DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	var driverName string
	switch dbConfig.Type {
	case config.DBTypePostgres:
		driverName = "postgres"
	case config.DBTypeMySQL:
		driverName = "mysql"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbConfig.Type)
	}

	logger.Debug("Opening database connection",
		zap.String("driver", driverName),
		zap.String("host", dbConfig.Host),
		zap.String("database", dbConfig.Name),
	)

	db, err := sql.Open(driverName, dbConfig.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	if dbConfig.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Debug("Database connection established successfully")
	return db, nil
}

// schemaStatement returns the CREATE TABLE statement for the dialect.
func schemaStatement(dialect string) string {
	timestamp := "DATETIME(6)"
	text := "LONGTEXT"
	if dialect == config.DBTypePostgres {
		timestamp = "TIMESTAMPTZ"
		text = "TEXT"
	}
	return "CREATE TABLE IF NOT EXISTS qr_codes (" +
		"id VARCHAR(36) PRIMARY KEY, " +
		"category VARCHAR(32) NOT NULL, " +
		"name VARCHAR(255) NOT NULL DEFAULT '', " +
		"payload " + text + " NOT NULL, " +
		"form " + text + " NOT NULL, " +
		"style " + text + " NOT NULL, " +
		"image_key VARCHAR(255) NOT NULL DEFAULT '', " +
		"image_url VARCHAR(1024) NOT NULL DEFAULT '', " +
		"format VARCHAR(8) NOT NULL DEFAULT '', " +
		"scans BIGINT NOT NULL DEFAULT 0, " +
		"created_at " + timestamp + " NOT NULL, " +
		"updated_at " + timestamp + " NOT NULL)"
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func rebind(dialect, query string) string {
	if dialect != config.DBTypePostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureSchema creates the qr_codes table when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaStatement(s.dialect)); err != nil {
		return fmt.Errorf("failed to create qr_codes table: %w", err)
	}
	return nil
}

// Save inserts the record, or updates it when the id already exists.
func (s *SQLStore) Save(ctx context.Context, rec *Record) error {
	prepare(rec, time.Now().UTC())
	styleJSON, err := json.Marshal(rec.Style)
	if err != nil {
		return fmt.Errorf("failed to marshal style: %w", err)
	}
	form := rec.Form
	if form == nil {
		form = []byte("{}")
	}

	var upsert string
	if s.dialect == config.DBTypePostgres {
		upsert = " ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, payload = EXCLUDED.payload, form = EXCLUDED.form, " +
			"style = EXCLUDED.style, image_key = EXCLUDED.image_key, image_url = EXCLUDED.image_url, " +
			"format = EXCLUDED.format, updated_at = EXCLUDED.updated_at"
	} else {
		upsert = " ON DUPLICATE KEY UPDATE name = VALUES(name), payload = VALUES(payload), form = VALUES(form), " +
			"style = VALUES(style), image_key = VALUES(image_key), image_url = VALUES(image_url), " +
			"format = VALUES(format), updated_at = VALUES(updated_at)"
	}
	query := rebind(s.dialect, "INSERT INTO qr_codes ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"+upsert)

	_, err = s.db.ExecContext(ctx, query,
		rec.ID, string(rec.Category), rec.Name, rec.Payload, string(form), string(styleJSON),
		rec.ImageKey, rec.ImageURL, rec.Format, rec.Scans, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save qr code %s: %w", rec.ID, err)
	}
	s.logger.Debug("Saved qr code", zap.String("id", rec.ID), zap.String("category", string(rec.Category)))
	return nil
}

// Get loads one record.
func (s *SQLStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, rebind(s.dialect, "SELECT "+recordColumns+" FROM qr_codes WHERE id = ?"), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load qr code %s: %w", id, err)
	}
	return rec, nil
}

// IncrementScans bumps the scan counter inside a transaction and returns the
// updated record.
func (s *SQLStore) IncrementScans(ctx context.Context, id string) (*Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		rebind(s.dialect, "UPDATE qr_codes SET scans = scans + 1, updated_at = ? WHERE id = ?"),
		time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to increment scans for %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	row := tx.QueryRowContext(ctx, rebind(s.dialect, "SELECT "+recordColumns+" FROM qr_codes WHERE id = ?"), id)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("failed to reload qr code %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scan increment: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (s *SQLStore) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		rebind(s.dialect, "SELECT "+recordColumns+" FROM qr_codes ORDER BY created_at DESC, id LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list qr codes: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qr code row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating qr code rows: %w", err)
	}
	return out, nil
}

// Delete removes a record.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, rebind(s.dialect, "DELETE FROM qr_codes WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete qr code %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		category  string
		form      string
		styleJSON string
	)
	err := row.Scan(&rec.ID, &category, &rec.Name, &rec.Payload, &form, &styleJSON,
		&rec.ImageKey, &rec.ImageURL, &rec.Format, &rec.Scans, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Category = payload.Category(category)
	rec.Form = []byte(form)
	if styleJSON != "" {
		if err := json.Unmarshal([]byte(styleJSON), &rec.Style); err != nil {
			return nil, fmt.Errorf("failed to decode style: %w", err)
		}
	}
	return &rec, nil
}
