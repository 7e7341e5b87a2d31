package panel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for panel persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a panel by its unique identifier.
	// Returns ErrPanelNotFound if the panel does not exist.
	GetByID(ctx context.Context, id string) (*Panel, error)

	// List retrieves all panels ordered by name.
	List(ctx context.Context) ([]Panel, error)

	// Create validates the input and inserts a new panel.
	Create(ctx context.Context, input Input) (*Panel, error)

	// Update modifies an existing panel's name, location and notes.
	// Returns ErrModeImmutable if the input attempts to change the
	// addressing mode, and ErrPanelNotFound if the panel does not exist.
	Update(ctx context.Context, id string, input Input) (*Panel, error)

	// Delete removes a panel by ID. Devices, inspections and results
	// belonging to the panel are removed by foreign key cascade.
	// Returns ErrPanelNotFound if the panel does not exist.
	Delete(ctx context.Context, id string) error
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

const panelColumns = "id, name, location, notes, addressing_mode, created_at, updated_at"

// GetByID retrieves a panel by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Panel, error) {
	query := "SELECT " + panelColumns + " FROM panels WHERE id = ?"

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanPanel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPanelNotFound
		}
		return nil, fmt.Errorf("querying panel by id: %w", err)
	}
	return p, nil
}

// List retrieves all panels ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Panel, error) {
	query := "SELECT " + panelColumns + " FROM panels ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying panels: %w", err)
	}
	defer rows.Close()

	var panels []Panel
	for rows.Next() {
		p, err := scanPanel(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning panel: %w", err)
		}
		panels = append(panels, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating panels: %w", err)
	}
	return panels, nil
}

// Create validates the input and inserts a new panel.
// An omitted addressing mode defaults to ZONE; a non-empty mode must be
// a recognised value.
func (r *SQLiteRepository) Create(ctx context.Context, input Input) (*Panel, error) {
	if input.AddressingMode == "" {
		input.AddressingMode = AddressingModeZone
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Panel{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		Location:       strings.TrimSpace(input.Location),
		Notes:          input.Notes,
		AddressingMode: input.AddressingMode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	query := `
		INSERT INTO panels (id, name, location, notes, addressing_mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Location,
		p.Notes,
		string(p.AddressingMode),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting panel: %w", err)
	}

	return p, nil
}

// Update modifies an existing panel's name, location and notes.
// The addressing mode is immutable: an input carrying a different mode
// is rejected, an empty mode means "leave unchanged".
func (r *SQLiteRepository) Update(ctx context.Context, id string, input Input) (*Panel, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.AddressingMode != "" && input.AddressingMode != existing.AddressingMode {
		return nil, ErrModeImmutable
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	existing.Name = name
	existing.Location = strings.TrimSpace(input.Location)
	existing.Notes = input.Notes
	existing.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE panels
		SET name = ?, location = ?, notes = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		existing.Name,
		existing.Location,
		existing.Notes,
		existing.UpdatedAt.Format(time.RFC3339),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating panel: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return nil, ErrPanelNotFound
	}

	return existing, nil
}

// Delete removes a panel by ID.
// Devices, inspections and results cascade via foreign keys.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM panels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting panel: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrPanelNotFound
	}

	return nil
}

// validateInput checks the fields required to create a panel.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidName
	}
	if !input.AddressingMode.Valid() {
		return ErrInvalidAddressingMode
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanPanel.
type scanner interface {
	Scan(dest ...any) error
}

// scanPanel scans a panel row into a Panel struct.
func scanPanel(row scanner) (*Panel, error) {
	var p Panel
	var mode, createdAt, updatedAt string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Location,
		&p.Notes,
		&mode,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.AddressingMode = AddressingMode(mode)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)   //nolint:errcheck // Format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)   //nolint:errcheck // Format is controlled

	return &p, nil
}
