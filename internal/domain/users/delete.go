package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const opDelete = "delete_record"

// DeleteRecord removes a role record, then its profile, then its identity.
// Companies and meals are removed by id only.
func (s *Service) DeleteRecord(ctx context.Context, input DeleteRecordInput) (*DeleteRecordResult, error) {
	input.AuthID = strings.TrimSpace(input.AuthID)
	if input.RecordID <= 0 {
		return nil, invalid("recordId is required")
	}
	if strings.TrimSpace(input.RecordType) == "" {
		return nil, invalid("recordType is required")
	}
	recordType, ok := ParseRecordType(input.RecordType)
	if !ok {
		return nil, invalid("invalid recordType: %s", input.RecordType)
	}

	role, isUser := recordType.UserRole()
	if isUser && input.AuthID == "" {
		return nil, invalid("authId is required")
	}

	sg := newSaga(opDelete, s.opts.Compensate, s.metrics)

	var err error
	switch {
	case recordType == RecordCompany:
		err = sg.run(ctx, "record", func(ctx context.Context) error {
			return s.repo.DeleteCompany(ctx, input.RecordID)
		}, nil)
	case recordType == RecordMeal:
		err = sg.run(ctx, "record", func(ctx context.Context) error {
			return s.repo.DeleteMeal(ctx, input.RecordID)
		}, nil)
	default:
		err = s.deleteUserChain(ctx, sg, role, input)
	}
	if err != nil {
		s.compensate(ctx, sg, err, input.AuthID)
		return nil, err
	}

	s.log.Info("users.delete: record deleted", "record_type", recordType, "record_id", input.RecordID, "user_id", input.AuthID)
	s.publish(ctx, Event{
		Type:       EventRecordDeleted,
		UserID:     input.AuthID,
		Role:       string(role),
		RecordType: string(recordType),
		RecordID:   input.RecordID,
	})

	return &DeleteRecordResult{
		RecordType: recordType,
		Message:    fmt.Sprintf("%s deleted successfully", recordType),
	}, nil
}

func (s *Service) deleteUserChain(ctx context.Context, sg *saga, role Role, input DeleteRecordInput) error {
	record, err := s.repo.GetRecord(ctx, role, input.RecordID)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		record = nil
	case err != nil:
		return &StepError{Operation: opDelete, Step: "record", Err: err}
	case record.OwnerID() != input.AuthID:
		return &ValidationError{Message: ErrOwnerMismatch.Error()}
	}

	profile, err := s.repo.GetProfile(ctx, input.AuthID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		profile = nil
	case err != nil:
		return &StepError{Operation: opDelete, Step: "profile", Err: err}
	}

	// Without a role row the profile is the only proof that authId is a user of this role.
	if record == nil && (profile == nil || profile.Role != role) {
		return &ValidationError{Message: fmt.Sprintf("%s: %s", ErrRoleMismatch, role)}
	}

	var restoreRecord func(context.Context) error
	if record != nil {
		restoreRecord = func(ctx context.Context) error {
			return s.repo.CreateRecord(ctx, record)
		}
	}
	if err := sg.run(ctx, "record", func(ctx context.Context) error {
		return s.repo.DeleteRecord(ctx, role, input.RecordID)
	}, restoreRecord); err != nil {
		return err
	}

	var restoreProfile func(context.Context) error
	if profile != nil {
		restoreProfile = func(ctx context.Context) error {
			return s.repo.CreateProfile(ctx, profile)
		}
	}
	if err := sg.run(ctx, "profile", func(ctx context.Context) error {
		return s.repo.DeleteProfile(ctx, input.AuthID)
	}, restoreProfile); err != nil {
		return err
	}

	return sg.run(ctx, "identity", func(ctx context.Context) error {
		return s.identities.DeleteIdentity(ctx, input.AuthID)
	}, nil)
}
