package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/jackc/pgx/v5"
)

// TempDatabase is a scratch database created for one script run
type TempDatabase struct {
	Name      string // e.g. "sqlsplit_20260105_150405_a3f9c2b1"
	CreatedAt time.Time
}

// CreateTempDatabase creates an empty database on the pool's server
func CreateTempDatabase(ctx context.Context, adminPool *Pool) (*TempDatabase, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random suffix: %w", err)
	}
	now := time.Now()
	name := fmt.Sprintf("sqlsplit_%s_%s", now.Format("20060102_150405"), hex.EncodeToString(randomBytes))

	if _, err := adminPool.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return nil, fmt.Errorf("failed to create temporary database: %w", err)
	}
	logger.Debug("created temporary database %s", name)

	return &TempDatabase{Name: name, CreatedAt: now}, nil
}

// DestroyTempDatabase drops db, terminating any sessions still attached to it
func DestroyTempDatabase(ctx context.Context, adminPool *Pool, db *TempDatabase) error {
	if db == nil {
		return nil
	}
	_, err := adminPool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", pgx.Identifier{db.Name}.Sanitize()))
	if err != nil {
		return fmt.Errorf("failed to drop temporary database %s: %w", db.Name, err)
	}
	logger.Debug("dropped temporary database %s", db.Name)
	return nil
}
