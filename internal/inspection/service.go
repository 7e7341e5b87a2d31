package inspection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inspectra/inspectra-core/internal/device"
	"github.com/inspectra/inspectra-core/internal/infrastructure/database"
	"github.com/inspectra/inspectra-core/internal/panel"
)

// defaultInspectorName is substituted when an inspection is started
// with a blank inspector name.
const defaultInspectorName = "Inspector"

// Service drives inspections through their lifecycle: start, per-device
// result recording, checklist reads and finalisation. Multi-row
// operations run inside transactions on the injected database handle.
type Service struct {
	db     *database.DB
	panels panel.Repository
}

// NewService creates a Service backed by the given database and panel
// repository.
func NewService(db *database.DB, panels panel.Repository) *Service {
	return &Service{
		db:     db,
		panels: panels,
	}
}

// Start creates an inspection against the panel's current device
// registry, seeding one NOT_TESTED result per device in a single
// transaction. The seeded snapshot is fixed: devices added to the panel
// later are not retroactively included.
//
// A blank inspector name falls back to a placeholder rather than
// failing; field crews routinely leave it empty and fill it in later.
func (s *Service) Start(ctx context.Context, panelID, inspectorName, notes string) (*Inspection, error) {
	if _, err := s.panels.GetByID(ctx, panelID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(inspectorName)
	if name == "" {
		name = defaultInspectorName
	}

	now := time.Now().UTC()
	insp := &Inspection{
		ID:            uuid.NewString(),
		PanelID:       panelID,
		InspectorName: name,
		Notes:         notes,
		OverallStatus: StatusInProgress,
		StartedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inspections (id, panel_id, inspector_name, notes, overall_status, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		insp.ID,
		insp.PanelID,
		insp.InspectorName,
		insp.Notes,
		string(insp.OverallStatus),
		insp.StartedAt.Format(time.RFC3339),
		insp.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting inspection: %w", err)
	}

	if err := seedResults(ctx, tx, insp.ID, panelID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing inspection start: %w", err)
	}
	return insp, nil
}

// seedResults creates one NOT_TESTED result row per device currently on
// the panel.
func seedResults(ctx context.Context, tx *sql.Tx, inspectionID, panelID string, now time.Time) error {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM devices WHERE panel_id = ?", panelID)
	if err != nil {
		return fmt.Errorf("querying panel devices: %w", err)
	}
	defer rows.Close()

	var deviceIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning device id: %w", err)
		}
		deviceIDs = append(deviceIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating panel devices: %w", err)
	}

	timestamp := now.Format(time.RFC3339)
	for _, deviceID := range deviceIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inspection_results (id, inspection_id, device_id, status, comment, created_at, updated_at)
			VALUES (?, ?, ?, ?, '', ?, ?)`,
			uuid.NewString(),
			inspectionID,
			deviceID,
			string(ResultNotTested),
			timestamp,
			timestamp,
		)
		if err != nil {
			return fmt.Errorf("seeding result for device %s: %w", deviceID, err)
		}
	}

	return nil
}

// GetByID retrieves an inspection by its unique identifier.
func (s *Service) GetByID(ctx context.Context, id string) (*Inspection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, panel_id, inspector_name, notes, overall_status, started_at, updated_at
		FROM inspections WHERE id = ?`, id)

	insp, err := scanInspection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInspectionNotFound
		}
		return nil, fmt.Errorf("querying inspection by id: %w", err)
	}
	return insp, nil
}

// ListByPanel retrieves a panel's inspections, most recent first.
func (s *Service) ListByPanel(ctx context.Context, panelID string) ([]Inspection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, panel_id, inspector_name, notes, overall_status, started_at, updated_at
		FROM inspections
		WHERE panel_id = ?
		ORDER BY started_at DESC`, panelID)
	if err != nil {
		return nil, fmt.Errorf("querying inspections: %w", err)
	}
	defer rows.Close()

	var inspections []Inspection
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inspection: %w", err)
		}
		inspections = append(inspections, *insp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inspections: %w", err)
	}
	return inspections, nil
}

// Record upserts the result for one device in an inspection, keyed on
// (inspection, device). A FAIL status requires a non-empty comment.
// Recording is idempotent: resubmitting the same status and comment is
// a no-op in effect, and a different status simply overwrites.
//
// Devices outside the inspection's snapshot are rejected with
// ErrResultNotFound; the snapshot is fixed at start time.
func (s *Service) Record(ctx context.Context, inspectionID, deviceID string, status ResultStatus, comment string) (*Result, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if status == ResultFail && strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE inspection_results
		SET status = ?, comment = ?, updated_at = ?
		WHERE inspection_id = ? AND device_id = ?`,
		string(status),
		comment,
		now.Format(time.RFC3339),
		inspectionID,
		deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating result: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking result update: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing inspection from a device outside the snapshot.
		if _, err := s.GetByID(ctx, inspectionID); err != nil {
			return nil, err
		}
		return nil, ErrResultNotFound
	}

	return s.getResult(ctx, inspectionID, deviceID)
}

// RecordBulk records a batch of results in one transaction. Validation
// runs on every row before any write; an invalid row rejects the whole
// batch.
func (s *Service) RecordBulk(ctx context.Context, inspectionID string, entries []ResultEntry) error {
	for i, entry := range entries {
		if !entry.Status.Valid() {
			return fmt.Errorf("row %d: %w", i, ErrInvalidStatus)
		}
		if entry.Status == ResultFail && strings.TrimSpace(entry.Comment) == "" {
			return fmt.Errorf("row %d: %w", i, ErrCommentRequired)
		}
	}

	if _, err := s.GetByID(ctx, inspectionID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	timestamp := time.Now().UTC().Format(time.RFC3339)
	for i, entry := range entries {
		result, err := tx.ExecContext(ctx, `
			UPDATE inspection_results
			SET status = ?, comment = ?, updated_at = ?
			WHERE inspection_id = ? AND device_id = ?`,
			string(entry.Status),
			entry.Comment,
			timestamp,
			inspectionID,
			entry.DeviceID,
		)
		if err != nil {
			return fmt.Errorf("row %d: updating result: %w", i, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("row %d: checking result update: %w", i, err)
		}
		if rows == 0 {
			return fmt.Errorf("row %d: %w", i, ErrResultNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bulk record: %w", err)
	}
	return nil
}

// ResultEntry is one row of a bulk result submission.
type ResultEntry struct {
	DeviceID string       `json:"device_id"`
	Status   ResultStatus `json:"status"`
	Comment  string       `json:"comment"`
}

// Checklist returns the inspection together with one row per device in
// its snapshot, each paired with its result, in numeric-aware zone
// order, plus completion counts.
func (s *Service) Checklist(ctx context.Context, inspectionID string) (*Checklist, error) {
	insp, err := s.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			d.id, d.panel_id, d.zone, d.address, d.category, d.category_other,
			d.description, d.notes, d.created_at, d.updated_at,
			r.id, r.status, r.comment, r.created_at, r.updated_at
		FROM inspection_results r
		JOIN devices d ON d.id = r.device_id
		WHERE r.inspection_id = ?
		ORDER BY
			CASE WHEN d.zone = '' OR d.zone GLOB '*[^0-9]*' THEN 1 ELSE 0 END,
			CAST(d.zone AS INTEGER),
			d.zone,
			d.address`, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("querying checklist: %w", err)
	}
	defer rows.Close()

	checklist := &Checklist{Inspection: *insp}
	for rows.Next() {
		var item ChecklistItem
		var category, dCreated, dUpdated string
		var status, rCreated, rUpdated string

		err := rows.Scan(
			&item.Device.ID,
			&item.Device.PanelID,
			&item.Device.Zone,
			&item.Device.Address,
			&category,
			&item.Device.CategoryOther,
			&item.Device.Description,
			&item.Device.Notes,
			&dCreated,
			&dUpdated,
			&item.Result.ID,
			&status,
			&item.Result.Comment,
			&rCreated,
			&rUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning checklist row: %w", err)
		}

		item.Device.Category = device.Category(category)
		item.Device.CreatedAt, _ = time.Parse(time.RFC3339, dCreated) //nolint:errcheck // Format is controlled
		item.Device.UpdatedAt, _ = time.Parse(time.RFC3339, dUpdated) //nolint:errcheck // Format is controlled

		item.Result.InspectionID = inspectionID
		item.Result.DeviceID = item.Device.ID
		item.Result.Status = ResultStatus(status)
		item.Result.CreatedAt, _ = time.Parse(time.RFC3339, rCreated) //nolint:errcheck // Format is controlled
		item.Result.UpdatedAt, _ = time.Parse(time.RFC3339, rUpdated) //nolint:errcheck // Format is controlled

		checklist.Items = append(checklist.Items, item)
		tallyResult(&checklist.Counts, item.Result.Status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checklist: %w", err)
	}
	return checklist, nil
}

// tallyResult accumulates a result status into the completion counts.
func tallyResult(counts *Counts, status ResultStatus) {
	counts.Total++
	switch status {
	case ResultNotTested:
		counts.NotTested++
	case ResultPass:
		counts.Passed++
	case ResultFail:
		counts.Failed++
	case ResultNA:
		counts.NA++
	}
}

// Finalize sets the inspection's overall status to PASSED or FAILED and
// stamps the update time. Finalisation is overwritable: a second call
// with a different outcome corrects the first. Notes are left untouched
// unless the call supplies new ones, so finalising never erases notes
// recorded at start. Completion policy is not enforced here; callers
// wanting 100% coverage check the checklist counts before calling.
func (s *Service) Finalize(ctx context.Context, inspectionID string, status Status, notes string) (*Inspection, error) {
	if !status.Final() {
		return nil, ErrInvalidOverallStatus
	}

	now := time.Now().UTC()
	query := `
		UPDATE inspections
		SET overall_status = ?, updated_at = ?
		WHERE id = ?`
	args := []any{string(status), now.Format(time.RFC3339), inspectionID}

	if strings.TrimSpace(notes) != "" {
		query = `
			UPDATE inspections
			SET overall_status = ?, notes = ?, updated_at = ?
			WHERE id = ?`
		args = []any{string(status), notes, now.Format(time.RFC3339), inspectionID}
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finalising inspection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking finalise result: %w", err)
	}
	if rows == 0 {
		return nil, ErrInspectionNotFound
	}

	return s.GetByID(ctx, inspectionID)
}

// Delete removes an inspection and, by cascade, its result rows.
func (s *Service) Delete(ctx context.Context, inspectionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM inspections WHERE id = ?", inspectionID)
	if err != nil {
		return fmt.Errorf("deleting inspection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrInspectionNotFound
	}
	return nil
}

// getResult fetches the stored result for one (inspection, device) pair.
func (s *Service) getResult(ctx context.Context, inspectionID, deviceID string) (*Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, inspection_id, device_id, status, comment, created_at, updated_at
		FROM inspection_results
		WHERE inspection_id = ? AND device_id = ?`,
		inspectionID, deviceID)

	var r Result
	var status, createdAt, updatedAt string
	err := row.Scan(&r.ID, &r.InspectionID, &r.DeviceID, &status, &r.Comment, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("querying result: %w", err)
	}

	r.Status = ResultStatus(status)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled

	return &r, nil
}

// scanner abstracts sql.Row and sql.Rows for scanInspection.
type scanner interface {
	Scan(dest ...any) error
}

// scanInspection scans an inspection row into an Inspection struct.
func scanInspection(row scanner) (*Inspection, error) {
	var insp Inspection
	var status, startedAt, updatedAt string

	err := row.Scan(
		&insp.ID,
		&insp.PanelID,
		&insp.InspectorName,
		&insp.Notes,
		&status,
		&startedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	insp.OverallStatus = Status(status)
	insp.StartedAt, _ = time.Parse(time.RFC3339, startedAt) //nolint:errcheck // Format is controlled
	insp.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled

	return &insp, nil
}
