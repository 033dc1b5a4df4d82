package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/logger"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/storage"
	"github.com/abhishek070702/Safe-Heaven/internal/repository"
)

// MaxHomePhotos bounds the photo set accepted at operator registration.
const MaxHomePhotos = 5

// OperatorRegistration carries the multipart registration payload for
// elder-home operators. Capacity arrives as the raw form value so the
// "must be a number" rule fires in its documented position.
type OperatorRegistration struct {
	FullName      string
	Username      string
	Email         string
	Address       string
	ContactNumber string
	Password      string
	HomeName      string
	HomeAddress   string
	AccountNumber string
	Capacity      string
	Description   string
	License       *multipart.FileHeader
	HomePhotos    []*multipart.FileHeader
}

// OperatorProfileUpdate carries the fields an operator may change.
// Empty values preserve the stored data.
type OperatorProfileUpdate struct {
	FullName      string
	Email         string
	Address       string
	ContactNumber string
	HomeAddress   string
	Capacity      int
	Description   string
}

// OperatorLoginResult distinguishes the three login outcomes an operator
// can see. Token is set only for approved operators.
type OperatorLoginResult struct {
	Operator        *domain.Operator
	Token           string
	ApprovalStatus  domain.ApprovalStatus
	RejectionReason string
}

// OperatorService coordinates operator registration, login, and profile management.
type OperatorService struct {
	operators port.OperatorRepository
	files     port.FileStore
	validator *storage.DiskStore
	tokens    *security.TokenService
	publisher port.EventPublisher
}

// NewOperatorService constructs an OperatorService instance.
func NewOperatorService(operators port.OperatorRepository, files port.FileStore, tokens *security.TokenService, publisher port.EventPublisher) *OperatorService {
	svc := &OperatorService{operators: operators, files: files, tokens: tokens, publisher: publisher}
	if disk, ok := files.(*storage.DiskStore); ok {
		svc.validator = disk
	}
	return svc
}

// validateFile checks upload constraints without writing, when the
// backing store supports pre-validation.
func (s *OperatorService) validateFile(field string, file *multipart.FileHeader) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.Validate(field, file); err != nil {
		return mapUploadError(err)
	}
	return nil
}

// validateRegistration runs the registration rules in their documented
// order. The first violation aborts the whole operation; nothing is
// written before every rule has passed.
func (s *OperatorService) validateRegistration(ctx context.Context, input OperatorRegistration) error {
	if input.License == nil {
		return validationErr("License document upload is required")
	}

	if err := validation.Validate(input.AccountNumber,
		validation.Required.Error("Account number must be exactly 16 digits"),
		validation.Match(accountNumberPattern).Error("Account number must be exactly 16 digits"),
	); err != nil {
		return validationErr(err.Error())
	}

	if err := validation.Validate(input.HomeName,
		validation.Length(0, 20).Error("Elder home name cannot exceed 20 characters"),
	); err != nil {
		return validationErr(err.Error())
	}

	if err := s.validateFile(storage.FieldLicenseDocument, input.License); err != nil {
		return err
	}

	if err := validation.Validate(input.Username,
		validation.Required.Error("Username is required"),
		validation.Length(3, 0).Error("Username must be at least 3 characters"),
		validation.Match(usernamePattern).Error("Username can only contain letters, numbers, and underscores"),
	); err != nil {
		return validationErr(err.Error())
	}

	if err := validation.Validate(input.Email,
		validation.Required.Error("Email is required"),
		is.Email.Error("Invalid email format"),
	); err != nil {
		return validationErr(err.Error())
	}

	if taken, err := s.operators.ExistsByUsername(ctx, input.Username); err != nil {
		return fmt.Errorf("check username: %w", err)
	} else if taken {
		return conflictErr(msgUsernameTaken)
	}

	if taken, err := s.operators.ExistsByEmail(ctx, input.Email); err != nil {
		return fmt.Errorf("check email: %w", err)
	} else if taken {
		return conflictErr(msgEmailTaken)
	}

	// A second, stricter bound on the home name applies after the
	// identity checks.
	if err := validation.Validate(input.HomeName,
		validation.Required.Error("Elder home name is required and must be 10 characters or less"),
		validation.Length(0, 10).Error("Elder home name is required and must be 10 characters or less"),
	); err != nil {
		return validationErr(err.Error())
	}

	if taken, err := s.operators.ExistsByHomeName(ctx, input.HomeName); err != nil {
		return fmt.Errorf("check home name: %w", err)
	} else if taken {
		return conflictErr(msgHomeNameTaken)
	}

	if err := validation.Validate(input.FullName,
		validation.Required.Error("Owner name is required"),
		validation.Match(lettersOnlyPattern).Error("Owner name can only contain letters"),
	); err != nil {
		return validationErr(err.Error())
	}

	if err := validation.Validate(input.Address,
		validation.Required.Error("Address is required and must be 20 characters or less"),
		validation.Length(0, 20).Error("Address is required and must be 20 characters or less"),
	); err != nil {
		return validationErr(err.Error())
	}

	if err := validation.Validate(input.Capacity,
		validation.Required.Error("Capacity is required and must be a number"),
		validation.Match(digitsPattern).Error("Capacity is required and must be a number"),
	); err != nil {
		return validationErr(err.Error())
	}

	if err := validation.Validate(input.Description,
		validation.Required.Error("Description is required and must be 50 characters or less"),
		validation.Length(0, 50).Error("Description is required and must be 50 characters or less"),
	); err != nil {
		return validationErr(err.Error())
	}

	if err := validation.Validate(input.ContactNumber,
		validation.Required.Error("Contact number must be exactly 10 digits"),
		validation.Match(contactPattern).Error("Contact number must be exactly 10 digits"),
	); err != nil {
		return validationErr(err.Error())
	}

	if len(input.HomePhotos) == 0 {
		return validationErr("At least one home photo is required")
	}
	if len(input.HomePhotos) > MaxHomePhotos {
		return validationErr("You can upload a maximum of 5 home photos")
	}

	for _, photo := range input.HomePhotos {
		if err := s.validateFile(storage.FieldHomePhotos, photo); err != nil {
			return err
		}
	}

	return nil
}

// Register validates the full payload, stores the license and photos,
// and creates the operator in the pending approval state. If the insert
// fails after files were written, every stored file is removed.
func (s *OperatorService) Register(ctx context.Context, input OperatorRegistration) (*domain.Operator, error) {
	if err := s.validateRegistration(ctx, input); err != nil {
		return nil, err
	}

	if len(input.Password) < 6 {
		return nil, validationErr("Password must be at least 6 characters")
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var capacity int
	if _, err := fmt.Sscanf(input.Capacity, "%d", &capacity); err != nil {
		return nil, validationErr("Capacity is required and must be a number")
	}

	saved := make([]string, 0, len(input.HomePhotos)+1)
	cleanup := func() {
		for _, path := range saved {
			if removeErr := s.files.Remove(ctx, path); removeErr != nil {
				logger.WithContext(ctx).Warn("failed to clean up upload",
					zap.String("path", path), zap.Error(removeErr))
			}
		}
	}

	licensePath, err := s.files.Save(ctx, storage.FieldLicenseDocument, input.License)
	if err != nil {
		return nil, mapUploadError(err)
	}
	saved = append(saved, licensePath)

	photoPaths := make([]string, 0, len(input.HomePhotos))
	for _, photo := range input.HomePhotos {
		path, err := s.files.Save(ctx, storage.FieldHomePhotos, photo)
		if err != nil {
			cleanup()
			return nil, mapUploadError(err)
		}
		saved = append(saved, path)
		photoPaths = append(photoPaths, path)
	}

	now := time.Now().UTC()
	operator := domain.Operator{
		ID:             uuid.NewString(),
		FullName:       input.FullName,
		Username:       input.Username,
		Email:          input.Email,
		Address:        input.Address,
		ContactNumber:  input.ContactNumber,
		PasswordHash:   hash,
		HomeName:       input.HomeName,
		HomeAddress:    input.HomeAddress,
		AccountNumber:  input.AccountNumber,
		Capacity:       capacity,
		Description:    input.Description,
		LicensePath:    licensePath,
		HomePhotoPaths: photoPaths,
		ApprovalStatus: domain.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.operators.Create(ctx, operator); err != nil {
		cleanup()
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictErr(msgUsernameTaken)
		}
		return nil, fmt.Errorf("create operator: %w", err)
	}

	event := domain.AccountRegisteredEvent{
		AccountID:    operator.ID,
		AccountKind:  "operator",
		Username:     operator.Username,
		Email:        operator.Email,
		RegisteredAt: operator.CreatedAt,
	}
	if err := s.publisher.PublishAccountRegistered(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish registration event",
			zap.String("account_id", operator.ID), zap.Error(err))
	}

	operator.PasswordHash = ""
	return &operator, nil
}

// Login verifies operator credentials and reports the approval state.
// Blocked operators are denied before the approval check. Pending and
// rejected operators get a status result without a token.
func (s *OperatorService) Login(ctx context.Context, username, password string) (*OperatorLoginResult, error) {
	operator, err := s.operators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup operator: %w", err)
	}

	if !security.VerifyPassword(password, operator.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if operator.IsBlocked {
		return nil, ErrAccountBlocked
	}

	operator.PasswordHash = ""
	result := &OperatorLoginResult{
		Operator:       operator,
		ApprovalStatus: operator.ApprovalStatus,
	}

	switch operator.ApprovalStatus {
	case domain.ApprovalApproved:
		token, err := s.tokens.Issue(operator.ID)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		result.Token = token
	case domain.ApprovalRejected:
		reason := operator.RejectionReason
		if reason == "" {
			reason = domain.DefaultRejectionReason
		}
		result.RejectionReason = reason
	}

	return result, nil
}

// Get loads an operator's public projection.
func (s *OperatorService) Get(ctx context.Context, id string) (*domain.Operator, error) {
	operator, err := s.operators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load operator: %w", err)
	}
	return operator, nil
}

// List returns every operator account.
func (s *OperatorService) List(ctx context.Context) ([]domain.Operator, error) {
	operators, err := s.operators.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	return operators, nil
}

// ListApproved returns the operators visible to donors and volunteers.
func (s *OperatorService) ListApproved(ctx context.Context) ([]domain.Operator, error) {
	operators, err := s.operators.ListByApprovalStatus(ctx, domain.ApprovalApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved operators: %w", err)
	}
	return operators, nil
}

// Update applies a partial profile update and re-issues a token.
func (s *OperatorService) Update(ctx context.Context, id string, input OperatorProfileUpdate) (*domain.Operator, string, error) {
	operator, err := s.operators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("load operator: %w", err)
	}

	if input.Email != "" && input.Email != operator.Email {
		if err := validation.Validate(input.Email, is.Email.Error("Invalid email format")); err != nil {
			return nil, "", validationErr(err.Error())
		}
		if taken, err := s.operators.ExistsByEmail(ctx, input.Email); err != nil {
			return nil, "", fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, "", conflictErr(msgEmailTaken)
		}
		operator.Email = input.Email
	}

	if input.FullName != "" {
		operator.FullName = input.FullName
	}
	if input.Address != "" {
		operator.Address = input.Address
	}
	if input.ContactNumber != "" {
		operator.ContactNumber = input.ContactNumber
	}
	if input.HomeAddress != "" {
		operator.HomeAddress = input.HomeAddress
	}
	if input.Capacity > 0 {
		operator.Capacity = input.Capacity
	}
	if input.Description != "" {
		operator.Description = input.Description
	}

	operator.UpdatedAt = time.Now().UTC()

	if err := s.operators.Update(ctx, *operator); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", conflictErr(msgEmailTaken)
		}
		return nil, "", fmt.Errorf("update operator: %w", err)
	}

	token, err := s.tokens.Issue(operator.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return operator, token, nil
}

// HomeNameAvailable reports whether an elder home name is free.
func (s *OperatorService) HomeNameAvailable(ctx context.Context, homeName string) (bool, error) {
	exists, err := s.operators.ExistsByHomeName(ctx, homeName)
	if err != nil {
		return false, fmt.Errorf("check home name: %w", err)
	}
	return !exists, nil
}

// Delete removes the operator account together with its stored license
// and home photos, then publishes the deletion event.
func (s *OperatorService) Delete(ctx context.Context, id string) error {
	operator, err := s.operators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load operator: %w", err)
	}

	if err := s.operators.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete operator: %w", err)
	}

	paths := append([]string{}, operator.HomePhotoPaths...)
	if operator.LicensePath != "" {
		paths = append(paths, operator.LicensePath)
	}
	for _, path := range paths {
		if removeErr := s.files.Remove(ctx, path); removeErr != nil {
			logger.WithContext(ctx).Warn("failed to remove uploaded file",
				zap.String("path", path), zap.Error(removeErr))
		}
	}

	event := domain.AccountDeletedEvent{
		AccountID:   id,
		AccountKind: "operator",
		DeletedAt:   time.Now().UTC(),
	}
	if err := s.publisher.PublishAccountDeleted(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish deletion event",
			zap.String("account_id", id), zap.Error(err))
	}

	return nil
}
