package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/pose"
)

// Pose is a stored pose definition. Name is authoritative and is copied into
// Definition.Name on every write.
type Pose struct {
	ID         string
	Name       string
	Ordinal    int
	Definition pose.Definition
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PoseRepository provides CRUD operations for poses.
type PoseRepository struct {
	db *sql.DB
}

// Poses returns the pose repository for this store.
func (s *Store) Poses() *PoseRepository {
	return &PoseRepository{db: s.db}
}

const poseColumns = `id, name, ordinal, definition, enabled, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPose(row rowScanner) (*Pose, error) {
	p := &Pose{}
	var definition string
	var enabled int

	if err := row.Scan(&p.ID, &p.Name, &p.Ordinal, &definition, &enabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(definition), &p.Definition); err != nil {
		return nil, fmt.Errorf("decode pose %s: %w", p.ID, err)
	}
	p.Definition.Name = p.Name
	p.Enabled = enabled != 0
	return p, nil
}

// encodeDefinition validates p and returns its definition as JSON.
func encodeDefinition(p *Pose) (string, error) {
	p.Definition.Name = p.Name
	if err := p.Definition.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(p.Definition)
	if err != nil {
		return "", fmt.Errorf("encode pose %s: %w", p.Name, err)
	}
	return string(data), nil
}

// Create inserts a new pose. When p.Ordinal is zero the pose is appended
// after the current last pose.
func (r *PoseRepository) Create(p *Pose) error {
	definition, err := encodeDefinition(p)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if p.Ordinal == 0 {
		if err := tx.QueryRow(`SELECT COALESCE(MAX(ordinal), 0) + 1 FROM poses`).Scan(&p.Ordinal); err != nil {
			return err
		}
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = tx.Exec(
		`INSERT INTO poses (id, name, ordinal, definition, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Ordinal, definition, p.Enabled, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translate(err)
	}

	return tx.Commit()
}

// GetByID retrieves a pose by its ID.
func (r *PoseRepository) GetByID(id string) (*Pose, error) {
	p, err := scanPose(r.db.QueryRow(`SELECT `+poseColumns+` FROM poses WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// GetByName retrieves a pose by its name.
func (r *PoseRepository) GetByName(name string) (*Pose, error) {
	p, err := scanPose(r.db.QueryRow(`SELECT `+poseColumns+` FROM poses WHERE name = ?`, name))
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// List retrieves all poses in priority order.
func (r *PoseRepository) List() ([]*Pose, error) {
	rows, err := r.db.Query(`SELECT ` + poseColumns + ` FROM poses ORDER BY ordinal, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var poses []*Pose
	for rows.Next() {
		p, err := scanPose(rows)
		if err != nil {
			return nil, err
		}
		poses = append(poses, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return poses, nil
}

// ListEnabledDefinitions returns the definitions of enabled poses in
// priority order, ready for matching.
func (r *PoseRepository) ListEnabledDefinitions() ([]pose.Definition, error) {
	poses, err := r.List()
	if err != nil {
		return nil, err
	}

	defs := make([]pose.Definition, 0, len(poses))
	for _, p := range poses {
		if p.Enabled {
			defs = append(defs, p.Definition)
		}
	}
	return defs, nil
}

// Update updates an existing pose.
func (r *PoseRepository) Update(p *Pose) error {
	definition, err := encodeDefinition(p)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE poses SET name = ?, ordinal = ?, definition = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Ordinal, definition, p.Enabled, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return translate(err)
	}

	return checkAffected(result)
}

// Delete removes a pose and its action bindings.
func (r *PoseRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM poses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

// Count returns the number of stored poses.
func (r *PoseRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM poses`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
