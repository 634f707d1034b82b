package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const versionColumns = `id, name, user_notes, ai_notes, transcript, status`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) UpsertVersion(ctx context.Context, v repository.Version) (bool, error) {
	var inserted bool
	err := r.pool.QueryRow(ctx,
		`INSERT INTO versions (id, name, user_notes, ai_notes, transcript, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			user_notes = EXCLUDED.user_notes,
			ai_notes = EXCLUDED.ai_notes,
			transcript = EXCLUDED.transcript,
			status = EXCLUDED.status,
			updated_at = NOW()
		 RETURNING (xmax = 0)`,
		v.ID, v.Name, v.UserNotes, v.AINotes, v.Transcript, v.Status).Scan(&inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *PostgresRepository) GetVersion(ctx context.Context, id string) (*repository.Version, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM versions WHERE id = $1`, id)
	return scanVersion(row)
}

func (r *PostgresRepository) ListVersions(ctx context.Context) ([]repository.Version, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+versionColumns+` FROM versions ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []repository.Version{}
	for rows.Next() {
		var v repository.Version
		if err := rows.Scan(&v.ID, &v.Name, &v.UserNotes, &v.AINotes, &v.Transcript, &v.Status); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) UpdateVersion(ctx context.Context, id string, input repository.UpdateVersionInput) (*repository.Version, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE versions SET
			user_notes = COALESCE($2, user_notes),
			ai_notes = COALESCE($3, ai_notes),
			transcript = COALESCE($4, transcript),
			status = COALESCE($5, status),
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+versionColumns,
		id, input.UserNotes, input.AINotes, input.Transcript, input.Status)
	return scanVersion(row)
}

func (r *PostgresRepository) AppendUserNote(ctx context.Context, id, note string) (*repository.Version, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE versions SET
			user_notes = CASE WHEN user_notes = '' THEN $2 ELSE user_notes || $3 || $2 END,
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+versionColumns,
		id, note, repository.NoteDelimiter)
	return scanVersion(row)
}

func (r *PostgresRepository) DeleteVersion(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM versions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearVersions(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM versions`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *PostgresRepository) ReplaceVersions(ctx context.Context, versions []repository.Version) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if _, err := tx.Exec(ctx, `DELETE FROM versions`); err != nil {
		return fmt.Errorf("clear versions: %w", err)
	}
	for _, v := range versions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO versions (id, name, user_notes, ai_notes, transcript, status)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			v.ID, v.Name, v.UserNotes, v.AINotes, v.Transcript, v.Status); err != nil {
			return fmt.Errorf("insert version %s: %w", v.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func scanVersion(row pgx.Row) (*repository.Version, error) {
	var v repository.Version
	if err := row.Scan(&v.ID, &v.Name, &v.UserNotes, &v.AINotes, &v.Transcript, &v.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
