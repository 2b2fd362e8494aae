package permission

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Seed registers the default permissions that are not yet present.
func Seed(ctx context.Context, repo Repository) error {
	for _, d := range Defaults {
		p := d
		p.ID = ulid.Make().String()
		if err := repo.CreateIfMissing(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", d.Codename, err)
		}
	}
	return nil
}
