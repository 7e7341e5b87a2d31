package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// deviceColumns is the canonical column list for device queries.
const deviceColumns = `id, panel_id, zone, address, category, category_other,
	description, notes, identity_key, created_at, updated_at`

// zoneOrdering sorts numeric zone labels numerically before non-numeric
// labels lexically, then by address. "2" sorts before "10", and both
// sort before "Plant Room".
const zoneOrdering = `
	ORDER BY
		CASE WHEN zone = '' OR zone GLOB '*[^0-9]*' THEN 1 ELSE 0 END,
		CAST(zone AS INTEGER),
		zone,
		address`

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting query helpers run inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository defines the read-side interface for stored devices.
// Writes go through the Reconciler, which owns transaction scope.
type Repository interface {
	// GetByID retrieves a device by its unique identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// ListByPanel retrieves all devices on a panel in zone order.
	ListByPanel(ctx context.Context, panelID string) ([]Device, error)

	// CountByPanel returns the number of devices on a panel.
	CountByPanel(ctx context.Context, panelID string) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a device by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE id = ?"

	row := r.db.QueryRowContext(ctx, query, id)
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// ListByPanel retrieves all devices on a panel in zone order.
func (r *SQLiteRepository) ListByPanel(ctx context.Context, panelID string) ([]Device, error) {
	return listByPanel(ctx, r.db, panelID)
}

// CountByPanel returns the number of devices on a panel.
func (r *SQLiteRepository) CountByPanel(ctx context.Context, panelID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM devices WHERE panel_id = ?", panelID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting devices: %w", err)
	}
	return count, nil
}

// listByPanel runs the panel device listing on a db or tx handle.
func listByPanel(ctx context.Context, q dbtx, panelID string) ([]Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE panel_id = ?" + zoneOrdering

	rows, err := q.QueryContext(ctx, query, panelID)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// existingKeys returns identity_key -> device ID for every device on a
// panel, used by bulk operations to check proposed rows against storage.
func existingKeys(ctx context.Context, q dbtx, panelID string) (map[string]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT identity_key, id FROM devices WHERE panel_id = ?", panelID)
	if err != nil {
		return nil, fmt.Errorf("querying identity keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, fmt.Errorf("scanning identity key: %w", err)
		}
		keys[key] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating identity keys: %w", err)
	}
	return keys, nil
}

// insertDevice writes a new device row.
func insertDevice(ctx context.Context, q dbtx, d *Device) error {
	query := `
		INSERT INTO devices (
			id, panel_id, zone, address, category, category_other,
			description, notes, identity_key, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := q.ExecContext(ctx, query,
		d.ID,
		d.PanelID,
		d.Zone,
		d.Address,
		string(d.Category),
		d.CategoryOther,
		d.Description,
		d.Notes,
		d.identityKey,
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return mapConstraintError(err, d.PanelID)
	}
	return nil
}

// updateDevice overwrites an existing device row's mutable fields,
// re-parenting it to d.PanelID. Returns ErrDeviceNotFound if no row
// matched.
func updateDevice(ctx context.Context, q dbtx, d *Device) error {
	query := `
		UPDATE devices
		SET panel_id = ?, zone = ?, address = ?, category = ?,
			category_other = ?, description = ?, notes = ?,
			identity_key = ?, updated_at = ?
		WHERE id = ?`

	result, err := q.ExecContext(ctx, query,
		d.PanelID,
		d.Zone,
		d.Address,
		string(d.Category),
		d.CategoryOther,
		d.Description,
		d.Notes,
		d.identityKey,
		d.UpdatedAt.Format(time.RFC3339),
		d.ID,
	)
	if err != nil {
		return mapConstraintError(err, d.PanelID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// deleteByPanel removes every device on a panel. Returns the number removed.
func deleteByPanel(ctx context.Context, q dbtx, panelID string) (int64, error) {
	result, err := q.ExecContext(ctx, "DELETE FROM devices WHERE panel_id = ?", panelID)
	if err != nil {
		return 0, fmt.Errorf("deleting panel devices: %w", err)
	}
	return result.RowsAffected()
}

// scanner abstracts sql.Row and sql.Rows for scanDevice.
type scanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a device row into a Device struct.
func scanDevice(row scanner) (*Device, error) {
	var d Device
	var category, createdAt, updatedAt string

	err := row.Scan(
		&d.ID,
		&d.PanelID,
		&d.Zone,
		&d.Address,
		&category,
		&d.CategoryOther,
		&d.Description,
		&d.Notes,
		&d.identityKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Category = Category(category)
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled

	return &d, nil
}
