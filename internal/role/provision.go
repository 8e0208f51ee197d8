package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// DeriveDisplayName turns a role name into its human label: hyphens become
// spaces and every run of letters starts upper-case with the rest lower-case,
// so "qa-lead" becomes "Qa Lead".
func DeriveDisplayName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	prevLetter := false
	for _, r := range strings.ReplaceAll(name, "-", " ") {
		switch {
		case unicode.IsLetter(r) && prevLetter:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// DeriveDescription returns the generic description of a lazily created role.
func DeriveDescription(name string) string {
	return "Role for " + name
}

// GetOrCreate resolves a role by name, creating it active with a derived
// display name and description when absent. A concurrent insert of the same
// name is resolved by reading the winner's row once.
func GetOrCreate(ctx context.Context, repo Repository, name string, createdBy *uuid.UUID) (*Role, bool, error) {
	existing, err := repo.GetByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return nil, false, fmt.Errorf("looking up role %q: %w", name, err)
	}

	ro := &Role{
		Name:        name,
		DisplayName: DeriveDisplayName(name),
		Description: DeriveDescription(name),
		IsActive:    true,
		CreatedBy:   createdBy,
	}
	if err := repo.Create(ctx, ro); err != nil {
		if !errors.Is(err, ErrDuplicateRoleName) {
			return nil, false, fmt.Errorf("creating role %q: %w", name, err)
		}
		winner, err := repo.GetByName(ctx, name)
		if err != nil {
			return nil, false, fmt.Errorf("re-reading role %q after conflict: %w", name, err)
		}
		return winner, false, nil
	}

	slog.Info("created role", "role", name)
	return ro, true, nil
}

// Seed makes sure every named role exists. Existing roles are left untouched.
func Seed(ctx context.Context, repo Repository, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, _, err := GetOrCreate(ctx, repo, name, nil); err != nil {
			return err
		}
	}
	return nil
}
