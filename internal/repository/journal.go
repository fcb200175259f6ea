package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

// EnsureJournalTable 在启动时创建操作日志表，已存在时不做任何事
func (r *Repository) EnsureJournalTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS operation_journal (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			resource TEXT NOT NULL,
			action TEXT NOT NULL,
			succeeded BOOLEAN NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS operation_journal_created_at_idx ON operation_journal (created_at DESC);
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query)
	return err
}

// Record 实现 operation.Journal
func (r *Repository) Record(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		INSERT INTO operation_journal (session_id, resource, action, succeeded, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	args := []any{entry.SessionID, entry.Resource, entry.Action, entry.Succeeded, entry.Message, createdAt}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

// GetRecentJournal 按时间倒序返回最近的操作日志，sessionID 为空时返回所有会话的日志
func (r *Repository) GetRecentJournal(sessionID string, limit int) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, session_id, resource, action, succeeded, message, created_at
		FROM operation_journal
		WHERE $1 = '' OR session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	ctx, cancel := r.queryContext(context.Background())
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.JournalEntry{}
	for rows.Next() {
		entry := &domain.JournalEntry{}
		dst := []any{&entry.ID, &entry.SessionID, &entry.Resource, &entry.Action, &entry.Succeeded, &entry.Message, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteJournalBefore 清理早于指定时间的日志，返回删除的行数
func (r *Repository) DeleteJournalBefore(before time.Time) (int64, error) {
	query := `DELETE FROM operation_journal WHERE created_at < $1`

	ctx, cancel := r.queryContext(context.Background())
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
