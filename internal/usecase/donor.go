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

// DonorRegistration carries the multipart registration payload for donors.
type DonorRegistration struct {
	FullName      string
	Username      string
	Email         string
	Address       string
	ContactNumber string
	Description   string
	Password      string
	ProfilePhoto  *multipart.FileHeader
}

// DonorProfileUpdate carries the fields a donor may change. Empty values
// are treated as "not provided" and preserve the stored data.
type DonorProfileUpdate struct {
	FullName      string
	Username      string
	Email         string
	Address       string
	ContactNumber string
	Description   string
	ProfilePhoto  *multipart.FileHeader
}

// DonorService coordinates donor registration, login, and profile management.
type DonorService struct {
	donors    port.DonorRepository
	files     port.FileStore
	tokens    *security.TokenService
	publisher port.EventPublisher
}

// NewDonorService constructs a DonorService instance.
func NewDonorService(donors port.DonorRepository, files port.FileStore, tokens *security.TokenService, publisher port.EventPublisher) *DonorService {
	return &DonorService{donors: donors, files: files, tokens: tokens, publisher: publisher}
}

func (s *DonorService) validateRegistration(input DonorRegistration) error {
	checks := []struct {
		value any
		rules []validation.Rule
	}{
		{input.FullName, []validation.Rule{
			validation.Required.Error("Full name is required"),
			validation.Match(lettersOnlyPattern).Error("Full name can only contain letters"),
		}},
		{input.Username, []validation.Rule{
			validation.Required.Error("Username is required"),
			validation.Length(3, 0).Error("Username must be at least 3 characters"),
			validation.Match(usernamePattern).Error("Username can only contain letters, numbers, and underscores"),
		}},
		{input.Email, []validation.Rule{
			validation.Required.Error("Email is required"),
			is.Email.Error("Invalid email format"),
		}},
		{input.Password, []validation.Rule{
			validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		}},
		{input.ContactNumber, []validation.Rule{
			validation.Required.Error("Contact number is required"),
			validation.Match(contactPattern).Error("Contact number must be exactly 10 digits"),
		}},
		{input.Address, []validation.Rule{
			validation.Required.Error("Address is required"),
			validation.Length(0, 20).Error("Address cannot exceed 20 characters"),
		}},
	}

	for _, check := range checks {
		if err := validation.Validate(check.value, check.rules...); err != nil {
			return validationErr(err.Error())
		}
	}

	return nil
}

// Register validates and creates a donor account, returning the created
// record and a signed session token.
func (s *DonorService) Register(ctx context.Context, input DonorRegistration) (*domain.Donor, string, error) {
	if err := s.validateRegistration(input); err != nil {
		return nil, "", err
	}

	if taken, err := s.donors.ExistsByUsername(ctx, input.Username); err != nil {
		return nil, "", fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, "", conflictErr(msgUsernameTaken)
	}

	if taken, err := s.donors.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, "", conflictErr(msgEmailTaken)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	profilePhoto := domain.DefaultProfilePhoto
	if input.ProfilePhoto != nil {
		path, err := s.files.Save(ctx, storage.FieldProfilePhoto, input.ProfilePhoto)
		if err != nil {
			return nil, "", mapUploadError(err)
		}
		profilePhoto = path
	}

	now := time.Now().UTC()
	donor := domain.Donor{
		ID:            uuid.NewString(),
		FullName:      input.FullName,
		Username:      input.Username,
		Email:         input.Email,
		Address:       input.Address,
		ContactNumber: input.ContactNumber,
		Description:   input.Description,
		PasswordHash:  hash,
		ProfilePhoto:  profilePhoto,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.donors.Create(ctx, donor); err != nil {
		if profilePhoto != domain.DefaultProfilePhoto {
			if removeErr := s.files.Remove(ctx, profilePhoto); removeErr != nil {
				logger.WithContext(ctx).Warn("failed to clean up profile photo",
					zap.String("path", profilePhoto), zap.Error(removeErr))
			}
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", conflictErr(msgUsernameTaken)
		}
		return nil, "", fmt.Errorf("create donor: %w", err)
	}

	token, err := s.tokens.Issue(donor.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.publishRegistered(ctx, donor)

	donor.PasswordHash = ""
	return &donor, token, nil
}

func (s *DonorService) publishRegistered(ctx context.Context, donor domain.Donor) {
	event := domain.AccountRegisteredEvent{
		AccountID:    donor.ID,
		AccountKind:  "donor",
		Username:     donor.Username,
		Email:        donor.Email,
		RegisteredAt: donor.CreatedAt,
	}
	if err := s.publisher.PublishAccountRegistered(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish registration event",
			zap.String("account_id", donor.ID), zap.Error(err))
	}
}

// Login verifies donor credentials and issues a session token. Blocked
// accounts are rejected after the credential check so the caller can map
// the failure to a forbidden response.
func (s *DonorService) Login(ctx context.Context, username, password string) (*domain.Donor, string, error) {
	donor, err := s.donors.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup donor: %w", err)
	}

	if !security.VerifyPassword(password, donor.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if donor.IsBlocked {
		return nil, "", ErrAccountBlocked
	}

	token, err := s.tokens.Issue(donor.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	donor.PasswordHash = ""
	return donor, token, nil
}

// Get loads a donor's public projection.
func (s *DonorService) Get(ctx context.Context, id string) (*domain.Donor, error) {
	donor, err := s.donors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load donor: %w", err)
	}
	return donor, nil
}

// List returns every donor account.
func (s *DonorService) List(ctx context.Context) ([]domain.Donor, error) {
	donors, err := s.donors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	return donors, nil
}

// Update applies a partial profile update. Fields are merged only when
// present; username and email changes re-run the uniqueness checks. On
// success a fresh token bound to the same identity is returned.
func (s *DonorService) Update(ctx context.Context, id string, input DonorProfileUpdate) (*domain.Donor, string, error) {
	donor, err := s.donors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("load donor: %w", err)
	}

	if input.Username != "" && input.Username != donor.Username {
		if taken, err := s.donors.ExistsByUsername(ctx, input.Username); err != nil {
			return nil, "", fmt.Errorf("check username: %w", err)
		} else if taken {
			return nil, "", conflictErr(msgUsernameTaken)
		}
		donor.Username = input.Username
	}

	if input.Email != "" && input.Email != donor.Email {
		if err := validation.Validate(input.Email, is.Email.Error("Invalid email format")); err != nil {
			return nil, "", validationErr(err.Error())
		}
		if taken, err := s.donors.ExistsByEmail(ctx, input.Email); err != nil {
			return nil, "", fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, "", conflictErr(msgEmailTaken)
		}
		donor.Email = input.Email
	}

	if input.FullName != "" {
		donor.FullName = input.FullName
	}
	if input.Address != "" {
		donor.Address = input.Address
	}
	if input.ContactNumber != "" {
		donor.ContactNumber = input.ContactNumber
	}
	if input.Description != "" {
		donor.Description = input.Description
	}

	if input.ProfilePhoto != nil {
		path, err := s.files.Save(ctx, storage.FieldProfilePhoto, input.ProfilePhoto)
		if err != nil {
			return nil, "", mapUploadError(err)
		}
		if donor.ProfilePhoto != "" && donor.ProfilePhoto != domain.DefaultProfilePhoto {
			if removeErr := s.files.Remove(ctx, donor.ProfilePhoto); removeErr != nil {
				logger.WithContext(ctx).Warn("failed to remove old profile photo",
					zap.String("path", donor.ProfilePhoto), zap.Error(removeErr))
			}
		}
		donor.ProfilePhoto = path
	}

	donor.UpdatedAt = time.Now().UTC()

	if err := s.donors.Update(ctx, *donor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", conflictErr(msgUsernameTaken)
		}
		return nil, "", fmt.Errorf("update donor: %w", err)
	}

	token, err := s.tokens.Issue(donor.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return donor, token, nil
}

// Delete removes a donor account and its stored profile photo.
func (s *DonorService) Delete(ctx context.Context, id string) error {
	donor, err := s.donors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load donor: %w", err)
	}

	if err := s.donors.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete donor: %w", err)
	}

	if donor.ProfilePhoto != "" && donor.ProfilePhoto != domain.DefaultProfilePhoto {
		if removeErr := s.files.Remove(ctx, donor.ProfilePhoto); removeErr != nil {
			logger.WithContext(ctx).Warn("failed to remove profile photo",
				zap.String("path", donor.ProfilePhoto), zap.Error(removeErr))
		}
	}

	event := domain.AccountDeletedEvent{
		AccountID:   id,
		AccountKind: "donor",
		DeletedAt:   time.Now().UTC(),
	}
	if err := s.publisher.PublishAccountDeleted(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish deletion event",
			zap.String("account_id", id), zap.Error(err))
	}

	return nil
}

// mapUploadError converts storage-layer failures into the client-facing
// validation taxonomy so transport details never leak.
func mapUploadError(err error) error {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return validationErr("File exceeds the 5MB size limit")
	case errors.Is(err, storage.ErrInvalidLicenseType):
		return validationErr("Invalid license document type. Only PDF, JPEG, JPG and PNG are allowed")
	case errors.Is(err, storage.ErrInvalidImageType):
		return validationErr("Invalid image type. Only JPEG, JPG, PNG and GIF are allowed")
	case errors.Is(err, storage.ErrUnknownField):
		return validationErr("Unexpected upload field")
	default:
		return fmt.Errorf("store upload: %w", err)
	}
}
