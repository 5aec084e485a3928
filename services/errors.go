package services

import (
	"fmt"

	"restaurant/models"
)

// storageErr marks a backend failure as ErrStorageUnavailable while keeping
// the driver error reachable through errors.Is/As.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
}
