package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inspectra/inspectra-core/internal/infrastructure/database"
	"github.com/inspectra/inspectra-core/internal/panel"
)

// Reconciler applies single and bulk changes to a panel's device
// registry. Every bulk operation runs as one transaction: either all
// writes land, or none do. Identity key uniqueness is enforced within
// each submitted batch and, where the operation contract calls for it,
// against stored state; the unique index on (panel_id, identity_key)
// catches races between concurrent writers.
type Reconciler struct {
	db     *database.DB
	panels panel.Repository
}

// NewReconciler creates a Reconciler backed by the given database and
// panel repository.
func NewReconciler(db *database.DB, panels panel.Repository) *Reconciler {
	return &Reconciler{
		db:     db,
		panels: panels,
	}
}

// RowError describes why one row of a bulk create failed.
type RowError struct {
	// Index is the zero-based position of the row in the submitted batch.
	Index int `json:"index"`

	// Messages are the field-level validation failures for the row.
	Messages []string `json:"messages"`
}

// BulkCreateReport is the per-row outcome of a bulk create. Valid rows
// are inserted and reported in Created; invalid rows are skipped and
// reported in Errors.
type BulkCreateReport struct {
	Created []Device   `json:"created"`
	Errors  []RowError `json:"errors"`
}

// Create validates one device payload and inserts it.
//
// A fresh identifier is assigned when the input carries none. All
// validation happens before the write; a storage-level uniqueness
// rejection surfaces as a ConflictError.
func (r *Reconciler) Create(ctx context.Context, panelID string, input Input) (*Device, error) {
	p, err := r.panels.GetByID(ctx, panelID)
	if err != nil {
		return nil, err
	}

	if verr := validateInput(p.AddressingMode, input); verr != nil {
		return nil, verr
	}

	key, err := IdentityKey(p.AddressingMode, input)
	if err != nil {
		return nil, err
	}

	d := newDevice(panelID, input, key)
	if err := insertDevice(ctx, r.db.DB, d); err != nil {
		return nil, err
	}

	return d, nil
}

// BulkUpsert applies a batch of device rows to a panel as one
// transaction, keyed on identifier: rows carrying an existing ID update
// that record (re-parenting it to this panel), rows without insert
// fresh. With pruneMissing set, every device on the panel whose ID was
// not in the written set is deleted, making the batch a full roster
// replacement.
//
// The batch is all-or-nothing: the first invalid row, or any in-batch
// identity key collision, rejects the whole batch before any write.
// Returns the panel's full device list after the batch.
func (r *Reconciler) BulkUpsert(ctx context.Context, panelID string, inputs []Input, pruneMissing bool) ([]Device, error) {
	p, err := r.panels.GetByID(ctx, panelID)
	if err != nil {
		return nil, err
	}

	keys, err := validateBatch(p.AddressingMode, inputs)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	writtenIDs := make([]string, 0, len(inputs))
	for i, input := range inputs {
		d := newDevice(panelID, input, keys[i])

		if input.ID != "" {
			err = updateDevice(ctx, tx, d)
			if errors.Is(err, ErrDeviceNotFound) {
				err = insertDevice(ctx, tx, d)
			}
		} else {
			err = insertDevice(ctx, tx, d)
		}
		if err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i, err)
		}

		writtenIDs = append(writtenIDs, d.ID)
	}

	if pruneMissing {
		if err := pruneExcept(ctx, tx, panelID, writtenIDs); err != nil {
			return nil, err
		}
	}

	devices, err := listByPanel(ctx, tx, panelID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bulk upsert: %w", err)
	}
	return devices, nil
}

// BulkCreate inserts a batch of new devices, collecting all row-level
// failures rather than stopping at the first, and returns a per-row
// success/failure report. Unlike BulkUpsert it also checks proposed
// rows against existing storage for identity key collisions; a device's
// own stored key is not exempted, so in-place updates belong in
// BulkUpsert, not here.
//
// Valid rows are committed together; invalid rows are skipped.
func (r *Reconciler) BulkCreate(ctx context.Context, panelID string, inputs []Input) (*BulkCreateReport, error) {
	p, err := r.panels.GetByID(ctx, panelID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	existing, err := existingKeys(ctx, tx, panelID)
	if err != nil {
		return nil, err
	}
	existingIDs := make(map[string]bool, len(existing))
	for _, id := range existing {
		existingIDs[id] = true
	}

	report := &BulkCreateReport{}
	batchKeys := make(map[string]int)

	for i, input := range inputs {
		var messages []string

		if verr := validateInput(p.AddressingMode, input); verr != nil {
			messages = append(messages, verr.Messages...)
		}

		key := ""
		if len(messages) == 0 {
			key, err = IdentityKey(p.AddressingMode, input)
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					return nil, err
				}
				messages = append(messages, verr.Messages...)
				key = ""
			}
		}

		if key != "" {
			if prev, dup := batchKeys[key]; dup {
				messages = append(messages, fmt.Sprintf("duplicate identity key within batch (rows %d and %d): %s", prev, i, key))
			} else if _, taken := existing[key]; taken {
				messages = append(messages, "identity key already exists on panel: "+key)
			}
		}

		if input.ID != "" && existingIDs[input.ID] {
			messages = append(messages, "device id already exists: "+input.ID)
		}

		if len(messages) > 0 {
			report.Errors = append(report.Errors, RowError{Index: i, Messages: messages})
			continue
		}

		batchKeys[key] = i
		d := newDevice(panelID, input, key)
		if err := insertDevice(ctx, tx, d); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i, err)
		}
		report.Created = append(report.Created, *d)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bulk create: %w", err)
	}
	return report, nil
}

// ReplaceAll deletes every device on the panel and inserts the incoming
// list fresh, as one transaction. The operation is rejected wholesale,
// with no deletion performed, if any incoming row fails validation or
// two rows collide on identity key.
func (r *Reconciler) ReplaceAll(ctx context.Context, panelID string, inputs []Input) ([]Device, error) {
	p, err := r.panels.GetByID(ctx, panelID)
	if err != nil {
		return nil, err
	}

	keys, err := validateBatch(p.AddressingMode, inputs)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := deleteByPanel(ctx, tx, panelID); err != nil {
		return nil, err
	}

	for i, input := range inputs {
		d := newDevice(panelID, input, keys[i])
		if err := insertDevice(ctx, tx, d); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	devices, err := listByPanel(ctx, tx, panelID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing replace: %w", err)
	}
	return devices, nil
}

// Update modifies a single existing device in place.
//
// The device must belong to the given panel. The identity key is
// recomputed from the new field values; a collision with another
// device on the panel surfaces as a ConflictError from the unique index.
func (r *Reconciler) Update(ctx context.Context, panelID, deviceID string, input Input) (*Device, error) {
	p, err := r.panels.GetByID(ctx, panelID)
	if err != nil {
		return nil, err
	}

	if verr := validateInput(p.AddressingMode, input); verr != nil {
		return nil, verr
	}

	key, err := IdentityKey(p.AddressingMode, input)
	if err != nil {
		return nil, err
	}

	repo := NewSQLiteRepository(r.db.DB)
	existing, err := repo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if existing.PanelID != panelID {
		return nil, ErrDeviceNotFound
	}

	applyInput(existing, input)
	existing.identityKey = key
	existing.UpdatedAt = time.Now().UTC()

	if err := updateDevice(ctx, r.db.DB, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a single device. Its inspection result rows cascade.
func (r *Reconciler) Delete(ctx context.Context, deviceID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", deviceID)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// newDevice builds a Device from a validated input, assigning a fresh
// identifier when the input carries none.
func newDevice(panelID string, input Input, key string) *Device {
	now := time.Now().UTC()
	d := &Device{
		ID:        strings.TrimSpace(input.ID),
		PanelID:   panelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	applyInput(d, input)
	d.identityKey = key
	return d
}

// validateBatch validates every row of an all-or-nothing batch and
// computes its identity keys. The first invalid row, or the first
// in-batch key collision, fails the whole batch with a ValidationError
// carrying the offending row index.
func validateBatch(mode panel.AddressingMode, inputs []Input) ([]string, error) {
	keys := make([]string, len(inputs))
	seen := make(map[string]int, len(inputs))

	for i, input := range inputs {
		if verr := validateInput(mode, input); verr != nil {
			verr.Row = i
			return nil, verr
		}

		key, err := IdentityKey(mode, input)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Row = i
			}
			return nil, err
		}

		if prev, dup := seen[key]; dup {
			return nil, &ValidationError{
				Row: i,
				Messages: []string{
					fmt.Sprintf("duplicate identity key within batch (rows %d and %d): %s", prev, i, key),
				},
			}
		}
		seen[key] = i
		keys[i] = key
	}

	return keys, nil
}

// pruneExcept deletes every device on the panel whose ID is not in keep.
func pruneExcept(ctx context.Context, q dbtx, panelID string, keep []string) error {
	if len(keep) == 0 {
		_, err := deleteByPanel(ctx, q, panelID)
		return err
	}

	placeholders := strings.Repeat("?,", len(keep))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(keep)+1)
	args = append(args, panelID)
	for _, id := range keep {
		args = append(args, id)
	}

	query := "DELETE FROM devices WHERE panel_id = ? AND id NOT IN (" + placeholders + ")"
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("pruning missing devices: %w", err)
	}
	return nil
}
