package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roasbeef/revue/internal/db"
)

// SQLStore implements Storage on top of a SQLite database. Multi-statement
// operations run through the transaction executor, which retries on
// serialization and busy errors.
type SQLStore struct {
	db *db.BaseDB

	executor *db.TransactionExecutor[*sql.Tx]
}

// A compile time assertion that SQLStore implements Storage.
var _ Storage = (*SQLStore)(nil)

// NewSQLStore creates a new SQL backed store from an open database handle.
func NewSQLStore(baseDB *db.BaseDB, log *slog.Logger) *SQLStore {
	return &SQLStore{
		db: baseDB,
		executor: db.NewTransactionExecutor(
			baseDB, func(tx *sql.Tx) *sql.Tx { return tx }, log,
		),
	}
}

// CreateSubmission inserts a new submission record and returns it.
func (s *SQLStore) CreateSubmission(ctx context.Context,
	params CreateSubmissionParams,
) (*Submission, error) {
	now := time.Now().UTC()

	var sub *Submission
	err := s.executor.ExecTx(
		ctx, db.WriteTxOption(), func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO submissions (
					id, title, content, conference_id,
					status, created_at, updated_at
				)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				params.ID, params.Title, params.Content,
				params.ConferenceID, params.Status, now, now,
			)
			if err != nil {
				return fmt.Errorf("insert submission: %w", err)
			}

			sub, err = scanSubmission(tx.QueryRowContext(
				ctx, submissionQuery+" WHERE id = ?",
				params.ID,
			))

			return err
		},
	)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// submissionQuery is the shared SELECT prefix for submission scans.
const submissionQuery = `
	SELECT id, title, content, conference_id, status, result,
	       created_at, updated_at
	FROM submissions`

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSubmission decodes one submission row.
func scanSubmission(row rowScanner) (*Submission, error) {
	var (
		sub    Submission
		result sql.NullString
	)
	err := row.Scan(
		&sub.ID, &sub.Title, &sub.Content, &sub.ConferenceID,
		&sub.Status, &result, &sub.CreatedAt, &sub.UpdatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound

	case err != nil:
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	if result.Valid {
		sub.Result = []byte(result.String)
	}

	return &sub, nil
}

// GetSubmission fetches a submission by id.
func (s *SQLStore) GetSubmission(ctx context.Context,
	id string,
) (*Submission, error) {
	return scanSubmission(s.db.QueryRowContext(
		ctx, submissionQuery+" WHERE id = ?", id,
	))
}

// ListSubmissions returns all submissions, newest first.
func (s *SQLStore) ListSubmissions(ctx context.Context) ([]*Submission,
	error) {

	rows, err := s.db.QueryContext(
		ctx, submissionQuery+" ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// UpdateSubmissionStatus sets the lifecycle status of a submission.
func (s *SQLStore) UpdateSubmissionStatus(ctx context.Context,
	id, status string,
) error {
	return s.updateSubmission(ctx, id, "status", status)
}

// UpdateSubmissionContent replaces the paper text of a submission.
func (s *SQLStore) UpdateSubmissionContent(ctx context.Context,
	id, content string,
) error {
	return s.updateSubmission(ctx, id, "content", content)
}

// UpdateSubmissionResult replaces the accumulated result snapshot.
func (s *SQLStore) UpdateSubmissionResult(ctx context.Context, id string,
	result []byte,
) error {
	return s.updateSubmission(ctx, id, "result", string(result))
}

// updateSubmission writes a single column along with the updated_at stamp.
// The column name is always one of a fixed set chosen by the callers above.
func (s *SQLStore) updateSubmission(ctx context.Context, id, column string,
	value any,
) error {
	query := fmt.Sprintf(
		"UPDATE submissions SET %s = ?, updated_at = ? WHERE id = ?",
		column,
	)

	res, err := s.db.ExecContext(
		ctx, query, value, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update submission %s: %w",
			column, db.MapSQLError(err))
	}

	return requireRowAffected(res)
}

// DeleteSubmission removes a submission; dialogue turns cascade.
func (s *SQLStore) DeleteSubmission(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx, "DELETE FROM submissions WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("delete submission: %w", db.MapSQLError(err))
	}

	return requireRowAffected(res)
}

// requireRowAffected maps a zero-row update or delete to ErrNotFound.
func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendRebuttalMessage appends one dialogue turn and returns it with its
// assigned id and timestamp.
func (s *SQLStore) AppendRebuttalMessage(ctx context.Context,
	params AppendRebuttalMessageParams,
) (*RebuttalMessage, error) {
	now := time.Now().UTC()

	var msg *RebuttalMessage
	err := s.executor.ExecTx(
		ctx, db.WriteTxOption(), func(tx *sql.Tx) error {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO rebuttal_messages (
					submission_id, role, text, created_at
				)
				VALUES (?, ?, ?, ?)`,
				params.SubmissionID, params.Role, params.Text,
				now,
			)
			if err != nil {
				return fmt.Errorf("insert rebuttal turn: %w",
					err)
			}

			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}

			msg = &RebuttalMessage{
				ID:           id,
				SubmissionID: params.SubmissionID,
				Role:         params.Role,
				Text:         params.Text,
				CreatedAt:    now,
			}

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// ListRebuttalMessages returns a submission's dialogue turns in append
// order.
func (s *SQLStore) ListRebuttalMessages(ctx context.Context,
	submissionID string,
) ([]*RebuttalMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, submission_id, role, text, created_at
		FROM rebuttal_messages
		WHERE submission_id = ?
		ORDER BY id ASC`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rebuttal turns: %w", err)
	}
	defer rows.Close()

	var msgs []*RebuttalMessage
	for rows.Next() {
		var msg RebuttalMessage
		err := rows.Scan(
			&msg.ID, &msg.SubmissionID, &msg.Role, &msg.Text,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rebuttal turn: %w", err)
		}
		msgs = append(msgs, &msg)
	}

	return msgs, rows.Err()
}

// GetAppConfig returns the persisted config snapshot.
func (s *SQLStore) GetAppConfig(ctx context.Context) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(
		ctx, "SELECT data FROM app_config WHERE id = 1",
	).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound

	case err != nil:
		return nil, fmt.Errorf("get app config: %w", err)
	}

	return []byte(data), nil
}

// SetAppConfig overwrites the config snapshot in full.
func (s *SQLStore) SetAppConfig(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_config (id, data, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set app config: %w", db.MapSQLError(err))
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.DB.Close()
}
