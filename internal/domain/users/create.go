package users

import (
	"context"
	"fmt"
	"strings"
)

const opCreate = "create_user"

// CreateUser creates the identity, then the profile, then the role record.
// With compensation enabled a failure undoes the completed steps in reverse.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.Role = strings.TrimSpace(input.Role)

	switch {
	case input.Email == "":
		return nil, invalid("email is required")
	case input.Password == "":
		return nil, invalid("password is required")
	case input.Name == "":
		return nil, invalid("name is required")
	case input.Role == "":
		return nil, invalid("role is required")
	}

	role, known := ParseRole(input.Role)
	if !known && !s.opts.UnknownRoleNoop {
		return nil, &ValidationError{Message: fmt.Sprintf("%s: %q", ErrUnknownRole, input.Role)}
	}
	roleLabel := input.Role
	if known {
		roleLabel = string(role)
	}

	var fingerprint string
	claimed := false
	if input.IdempotencyKey != "" {
		fingerprint = requestFingerprint(input)
		stored, ok, err := s.claimKey(ctx, input.IdempotencyKey, fingerprint)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			s.log.Info("users.create: replayed stored result", "user_id", stored.UserID)
			return stored, nil
		}
		claimed = ok
	}
	succeeded := false
	if claimed {
		defer func() {
			if !succeeded {
				s.releaseKey(ctx, input.IdempotencyKey)
			}
		}()
	}

	sg := newSaga(opCreate, s.opts.Compensate, s.metrics)

	var identity *Identity
	err := sg.run(ctx, "identity", func(ctx context.Context) error {
		created, err := s.identities.CreateIdentity(ctx, NewIdentity{
			Email:    input.Email,
			Password: input.Password,
			Metadata: map[string]any{"name": input.Name, "role": roleLabel},
		})
		if err != nil {
			return err
		}
		identity = created
		return nil
	}, func(ctx context.Context) error {
		return s.identities.DeleteIdentity(ctx, identity.ID)
	})
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:     identity.ID,
		Role:   Role(roleLabel),
		Name:   input.Name,
		Email:  input.Email,
		Status: StatusActive,
	}
	err = sg.run(ctx, "profile", func(ctx context.Context) error {
		return s.repo.CreateProfile(ctx, profile)
	}, func(ctx context.Context) error {
		return s.repo.DeleteProfile(ctx, profile.ID)
	})
	if err != nil {
		s.compensate(ctx, sg, err, identity.ID)
		return nil, err
	}

	details, ok := DetailsFor(role, input.Attributes)
	if ok {
		record := details.record(identity.ID, input.Name, input.Email)
		err = sg.run(ctx, "role_record", func(ctx context.Context) error {
			return s.repo.CreateRecord(ctx, record)
		}, nil)
		if err != nil {
			s.compensate(ctx, sg, err, identity.ID)
			return nil, err
		}
	} else {
		s.log.Warn("users.create: unknown role, no role record inserted", "role", roleLabel, "user_id", identity.ID)
	}

	result := &CreateUserResult{
		UserID:  identity.ID,
		Role:    roleLabel,
		Message: fmt.Sprintf("%s user created successfully", roleLabel),
	}

	succeeded = true
	if claimed {
		entry := IdempotencyEntry{Fingerprint: fingerprint, Result: result}
		if err := s.idempotency.Complete(ctx, input.IdempotencyKey, entry, s.opts.IdempotencyTTL); err != nil {
			s.log.Warn("users.create: idempotency save failed", "err", err, "user_id", identity.ID)
		}
	}

	s.log.Info("users.create: user created", "user_id", identity.ID, "role", roleLabel)
	s.publish(ctx, Event{Type: EventUserCreated, UserID: identity.ID, Role: roleLabel})
	return result, nil
}
