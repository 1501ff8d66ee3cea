package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"attendlog/internal/model"
)

// ErrRunNotFound 运行记录不存在
var ErrRunNotFound = errors.New("run not found")

// CreateRun 创建运行记录（状态 processing）
func (s *Store) CreateRun(run model.RunRecord) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = model.RunStatusProcessing
	}
	_, err := s.db.Exec(`
		INSERT INTO analysis_runs (id, filename, data_year, data_month, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Filename, run.Year, run.Month, string(run.Status), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun 写入员工汇总并把运行标记为成功，同时记录最近分析的年月
func (s *Store) CompleteRun(id, artifactName string, summaries []model.StaffSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	lateTotal := 0
	stmt, err := tx.Prepare(`
		INSERT INTO run_staff_results (run_id, row_no, name, department, late_count, late_days, label)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare staff insert: %w", err)
	}
	defer stmt.Close()

	for _, sum := range summaries {
		lateTotal += sum.LateCount
		if _, err := stmt.Exec(id, sum.Row, sum.Name, string(sum.Department), sum.LateCount, joinDays(sum.LateDays), sum.Label); err != nil {
			return fmt.Errorf("failed to insert staff result row %d: %w", sum.Row, err)
		}
	}

	res, err := tx.Exec(`
		UPDATE analysis_runs SET
			artifact_name = ?,
			staff_count = ?,
			late_total = ?,
			status = ?,
			completed_at = ?
		WHERE id = ?
	`, artifactName, len(summaries), lateTotal, string(model.RunStatusSuccess), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	var year, month int
	if err := tx.QueryRow(`SELECT data_year, data_month FROM analysis_runs WHERE id = ?`, id).Scan(&year, &month); err != nil {
		return fmt.Errorf("failed to read run period: %w", err)
	}
	for key, v := range map[string]int{"last_year": year, "last_month": month} {
		if _, err := tx.Exec(`
			INSERT INTO config (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, strconv.Itoa(v)); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// FailRun 把运行标记为失败
func (s *Store) FailRun(id, message string) error {
	res, err := s.db.Exec(`
		UPDATE analysis_runs SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ?
	`, string(model.RunStatusFailed), message, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

const runColumns = `id, filename, data_year, data_month, artifact_name, staff_count, late_total, status, error_message, created_at, completed_at`

// GetRun 获取单次运行
func (s *Store) GetRun(id string) (*model.RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM analysis_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns 最近的运行记录（按创建时间倒序）
func (s *Store) ListRuns(limit int) ([]*model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs failed: %w", err)
	}
	defer rows.Close()

	var out []*model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run failed: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs failed: %w", err)
	}
	return out, nil
}

// ListRunStaff 单次运行的员工汇总（按行号）
func (s *Store) ListRunStaff(runID string) ([]model.StaffSummary, error) {
	rows, err := s.db.Query(`
		SELECT row_no, name, department, late_count, late_days, label
		FROM run_staff_results WHERE run_id = ? ORDER BY row_no
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query staff results failed: %w", err)
	}
	defer rows.Close()

	var out []model.StaffSummary
	for rows.Next() {
		var it model.StaffSummary
		var dept, days string
		if err := rows.Scan(&it.Row, &it.Name, &dept, &it.LateCount, &days, &it.Label); err != nil {
			return nil, fmt.Errorf("scan staff result failed: %w", err)
		}
		it.Department = model.Department(dept)
		it.LateDays = splitDays(days)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff results failed: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (*model.RunRecord, error) {
	var run model.RunRecord
	var status string
	var completed sql.NullTime
	if err := sc.Scan(&run.ID, &run.Filename, &run.Year, &run.Month, &run.ArtifactName,
		&run.StaffCount, &run.LateTotal, &status, &run.ErrorMessage, &run.CreatedAt, &completed); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

func joinDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func splitDays(s string) []int {
	out := []int{}
	for _, p := range strings.Split(s, ",") {
		if d, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			out = append(out, d)
		}
	}
	return out
}
