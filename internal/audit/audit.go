// Package audit records upload and export activity in Postgres. The recorder
// is optional: with no pool configured every call is a no-op, so the service
// runs fully in-memory on a laptop and audited in a deployment.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Recorder struct {
	pool *pgxpool.Pool
}

func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

func (r *Recorder) Enabled() bool {
	return r != nil && r.pool != nil
}

// EnsureSchema creates the audit tables on startup.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS upload_audit (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			row_count INT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS export_audit (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			format TEXT NOT NULL,
			byte_size INT NOT NULL,
			exported_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

// RecordUpload logs one accepted upload. Failures are logged, never surfaced:
// an audit outage must not block report work.
func (r *Recorder) RecordUpload(ctx context.Context, sessionID, filename, fingerprint string, rowCount int) {
	if !r.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO upload_audit (session_id, filename, fingerprint, row_count) VALUES ($1, $2, $3, $4)`,
		sessionID, filename, fingerprint, rowCount)
	if err != nil {
		log.Println("[ERROR] audit: record upload:", err)
	}
}

// RecordExport logs one produced export.
func (r *Recorder) RecordExport(ctx context.Context, sessionID, format string, byteSize int) {
	if !r.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO export_audit (session_id, format, byte_size) VALUES ($1, $2, $3)`,
		sessionID, format, byteSize)
	if err != nil {
		log.Println("[ERROR] audit: record export:", err)
	}
}
