package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/uninotice/platform/platform/go/password"
)

// fallbackTenantName stands in for a missing tenant display name; a broken
// tenant join must not block sign-in.
const fallbackTenantName = "University"

// OperatorCredential is one entry of the fixed platform operator list. The
// secret is stored as an argon2id hash, never plaintext.
type OperatorCredential struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// LoadOperatorCredentials reads the out-of-band operator credential file.
func LoadOperatorCredentials(path string) ([]OperatorCredential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read operator credentials: %w", err)
	}

	var creds []OperatorCredential
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse operator credentials: %w", err)
	}
	return creds, nil
}

// Resolver decides whether raw login input denotes a valid identity in the
// claimed domain. It is read-only: given identical inputs and store state the
// result is identical.
type Resolver struct {
	operators []OperatorCredential
	directory Directory
}

// NewResolver constructs a Resolver over the fixed operator list and the
// tenant-user directory.
func NewResolver(operators []OperatorCredential, directory Directory) *Resolver {
	if directory == nil {
		panic("identity directory is required")
	}
	return &Resolver{operators: operators, directory: directory}
}

// Resolve maps (email, secret, domain) to a normalized Identity or a failure
// reason. Platform operators are matched against the fixed list; tenant users
// against the directory, where only active accounts exist.
func (r *Resolver) Resolve(ctx context.Context, email, secret string, domain Domain) (Identity, error) {
	switch domain {
	case DomainPlatformOperator:
		return r.resolveOperator(email, secret)
	case DomainTenantUser:
		return r.resolveTenantUser(ctx, email, secret)
	default:
		return Identity{}, ErrUnknownDomain
	}
}

func (r *Resolver) resolveOperator(email, secret string) (Identity, error) {
	for _, cred := range r.operators {
		if cred.Email != email {
			continue
		}
		ok, err := password.Verify(secret, cred.PasswordHash)
		if err != nil || !ok {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{
			ID:     cred.ID,
			Email:  cred.Email,
			Domain: DomainPlatformOperator,
			Profile: map[string]string{
				"university_name": "Platform Admin",
			},
		}, nil
	}
	return Identity{}, ErrInvalidCredentials
}

func (r *Resolver) resolveTenantUser(ctx context.Context, email, secret string) (Identity, error) {
	user, err := r.directory.FindActiveUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return Identity{}, ErrUserNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("look up tenant user: %w", err)
	}

	ok, err := password.Verify(secret, user.PasswordHash)
	if err != nil || !ok {
		return Identity{}, ErrInvalidCredentials
	}

	tenantName, err := r.directory.TenantName(ctx, user.TenantID)
	if err != nil || tenantName == "" {
		tenantName = fallbackTenantName
	}

	return Identity{
		ID:       user.ID,
		Email:    user.Email,
		Domain:   DomainTenantUser,
		TenantID: user.TenantID,
		Profile: map[string]string{
			"first_name":      user.FirstName,
			"last_name":       user.LastName,
			"student_id":      user.StudentID,
			"department":      user.Department,
			"year_level":      user.YearLevel,
			"university_name": tenantName,
		},
	}, nil
}
