package user

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"usersvc/internal/core/apperror"
	"usersvc/internal/core/db"
	"usersvc/internal/core/id"
)

// Validators are pure decision functions separated from mutation. The
// service runs them first, inside the same transaction as the mutation, so
// a late-discovered violation never leaves a partial write. The duplicate
// pre-check here is race-prone by nature; the database unique constraint
// remains the authoritative guard and the repository maps its violation to
// the same duplicate error kind.

const maxNameLength = 255

// validate carries the same rules as the gin binding tags on the create
// body, so direct service callers and patch values get identical checks.
var validate = validator.New()

// ValidateCreateUserRequest checks business invariants for user creation:
// well-formed non-empty fields and an unused email.
func ValidateCreateUserRequest(ctx context.Context, dbCtx db.Context, repo Repository, in CreateUser) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.Age != nil && *in.Age < 0 {
		return apperror.NewValidation("age cannot be negative").
			WithDetail("field", "age")
	}

	existing, err := repo.GetByEmail(ctx, dbCtx, in.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewDuplicate("user", "email", in.Email)
	}

	return nil
}

// ValidatePatchUserRequest checks business invariants for a partial update
// and returns the current entity so the caller need not re-fetch it.
func ValidatePatchUserRequest(ctx context.Context, dbCtx db.Context, repo Repository, userID id.ID, patch Patch) (*User, error) {
	current, err := repo.GetByID(ctx, dbCtx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}

	if err := validatePatchName(patch); err != nil {
		return nil, err
	}

	if err := validatePatchEmail(ctx, dbCtx, repo, patch, current.Email); err != nil {
		return nil, err
	}

	if age, ok := patch.Age.Get(); ok && age < 0 {
		return nil, apperror.NewValidation("age cannot be negative").
			WithDetail("field", "age")
	}

	return current, nil
}

// ValidateDeleteUserRequest checks the user exists and returns it for use
// in the subsequent publish step.
func ValidateDeleteUserRequest(ctx context.Context, dbCtx db.Context, repo Repository, userID id.ID) (*User, error) {
	current, err := repo.GetByID(ctx, dbCtx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}

	return current, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidation("name cannot be empty").
			WithDetail("field", "name")
	}
	if len(name) > maxNameLength {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max_length", maxNameLength)
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return apperror.NewValidation("email is not valid").
			WithDetail("field", "email")
	}
	return nil
}

func validatePatchName(patch Patch) error {
	if !patch.Name.IsSet() {
		return nil
	}
	// Name is not nullable.
	if patch.Name.IsNull() {
		return apperror.NewValidation("name cannot be null").
			WithDetail("field", "name")
	}
	name, _ := patch.Name.Get()
	return validateName(name)
}

func validatePatchEmail(ctx context.Context, dbCtx db.Context, repo Repository, patch Patch, currentEmail string) error {
	if !patch.Email.IsSet() {
		return nil
	}
	// Email is not nullable.
	if patch.Email.IsNull() {
		return apperror.NewValidation("email cannot be null").
			WithDetail("field", "email")
	}

	email, _ := patch.Email.Get()
	if err := validateEmail(email); err != nil {
		return err
	}

	// Updating to the current email is a no-op, not a conflict.
	if email == currentEmail {
		return nil
	}

	existing, err := repo.GetByEmail(ctx, dbCtx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewDuplicate("user", "email", email)
	}

	return nil
}
