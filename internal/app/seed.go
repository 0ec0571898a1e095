package app

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/store"
)

// SeedDefaults stores the built-in pose definitions when the store holds no
// poses yet. It returns the number of poses created.
func SeedDefaults(s *store.Store) (int, error) {
	n, err := s.Poses().Count()
	if err != nil {
		return 0, fmt.Errorf("count poses: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	defs := pose.DefaultDefinitions()
	for i, def := range defs {
		p := &store.Pose{
			ID:         uuid.New().String(),
			Name:       def.Name,
			Ordinal:    i + 1,
			Definition: def,
			Enabled:    true,
		}
		if err := s.Poses().Create(p); err != nil {
			return i, fmt.Errorf("seed pose %s: %w", def.Name, err)
		}
	}
	return len(defs), nil
}
