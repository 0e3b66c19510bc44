package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Errors returned by the service layer.
var (
	ErrNotFound       = errors.New("tenant not found")
	ErrDomainConflict = errors.New("tenant domain already exists")
	// ErrTenantCreateFailed aborts provisioning before anything else is attempted.
	ErrTenantCreateFailed = errors.New("tenant create failed")
	// ErrAdminCreateFailed means the administrator insert failed and the
	// just-created tenant was rolled back.
	ErrAdminCreateFailed = errors.New("administrator create failed")
)

// CompensationError reports that the administrator insert failed AND the
// compensating tenant delete failed too: an orphaned tenant without an
// administrator now exists and requires manual cleanup. It must never be
// treated as a routine failure.
type CompensationError struct {
	TenantID  uuid.UUID
	AdminErr  error
	DeleteErr error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("tenant %s left without administrator: admin insert failed (%v) and compensating delete failed (%v)",
		e.TenantID, e.AdminErr, e.DeleteErr)
}

func (e *CompensationError) Unwrap() error {
	return e.DeleteErr
}

// PartialUpdateError reports that the tenant row was updated but the
// administrator email was not. Unlike create, update does not roll back;
// the caller gets the updated tenant alongside the failure.
type PartialUpdateError struct {
	Tenant   Tenant
	AdminErr error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("tenant %s updated but administrator email was not: %v", e.Tenant.ID, e.AdminErr)
}

func (e *PartialUpdateError) Unwrap() error {
	return e.AdminErr
}
