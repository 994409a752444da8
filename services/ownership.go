package services

import "github.com/rpupo63/portfolio-backend/errs"

// Authorize allows a write only when subject owns the row.
// Every update and delete of a user owned entity goes through it.
func Authorize(subject, owner uint, entity string) error {
	if subject == 0 || subject != owner {
		return errs.NewOwnershipError(entity)
	}
	return nil
}
