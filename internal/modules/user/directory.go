package user

import (
	"context"

	"github.com/google/uuid"
)

// Directory answers existence checks for modules that grant access to users.
type Directory struct{ repo Repository }

func NewDirectory(repo Repository) *Directory { return &Directory{repo: repo} }

// UserExists returns apperr.ErrNotFound for unknown ids.
func (d *Directory) UserExists(ctx context.Context, id uuid.UUID) error {
	_, err := d.repo.GetUserByID(ctx, id)
	return err
}
