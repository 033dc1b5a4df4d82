package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
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

// VolunteerRegistration carries the multipart registration payload for volunteers.
type VolunteerRegistration struct {
	Name         string
	Username     string
	Email        string
	Password     string
	Phone        string
	Age          int
	DateOfBirth  time.Time
	Address      string
	Role         string
	Description  string
	Skills       []string
	Availability domain.Availability
	ProfilePhoto *multipart.FileHeader
}

// VolunteerProfileUpdate carries the fields a volunteer may change.
// Empty values preserve the stored data.
type VolunteerProfileUpdate struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	Role         string
	Description  string
	Skills       []string
	Availability *domain.Availability
	ProfilePhoto *multipart.FileHeader
}

// VolunteerService coordinates volunteer registration, login, and ratings.
type VolunteerService struct {
	volunteers port.VolunteerRepository
	files      port.FileStore
	tokens     *security.TokenService
	publisher  port.EventPublisher
}

// NewVolunteerService constructs a VolunteerService instance.
func NewVolunteerService(volunteers port.VolunteerRepository, files port.FileStore, tokens *security.TokenService, publisher port.EventPublisher) *VolunteerService {
	return &VolunteerService{volunteers: volunteers, files: files, tokens: tokens, publisher: publisher}
}

func (s *VolunteerService) validateRegistration(input VolunteerRegistration) error {
	checks := []struct {
		value any
		rules []validation.Rule
	}{
		{input.Name, []validation.Rule{
			validation.Required.Error("Name is required"),
			validation.Match(lettersOnlyPattern).Error("Name can only contain letters"),
		}},
		{input.Username, []validation.Rule{
			validation.Required.Error("Username is required"),
			validation.Length(3, 0).Error("Username must be at least 3 characters"),
			validation.Match(lowerUsernamePattern).Error("Username can only contain lowercase letters"),
		}},
		{input.Email, []validation.Rule{
			validation.Required.Error("Email is required"),
			is.Email.Error("Invalid email format"),
		}},
		{input.Phone, []validation.Rule{
			validation.Required.Error("Phone number is required"),
			validation.Match(contactPattern).Error("Phone number must be exactly 10 digits"),
		}},
		{input.Role, []validation.Rule{
			validation.Required.Error("Role is required"),
		}},
		{input.Address, []validation.Rule{
			validation.Required.Error("Address is required"),
			validation.Length(0, 20).Error("Address cannot exceed 20 characters"),
		}},
		{input.Description, []validation.Rule{
			validation.Required.Error("Description is required"),
		}},
	}

	for _, check := range checks {
		if err := validation.Validate(check.value, check.rules...); err != nil {
			return validationErr(err.Error())
		}
	}

	if err := validatePassword(input.Password, input.Name, input.Username); err != nil {
		return err
	}

	if err := validateAge(input.Age, input.DateOfBirth); err != nil {
		return err
	}

	return nil
}

// validatePassword enforces the volunteer password policy: minimum
// length, an '@' symbol, a digit, and no echo of the holder's name
// or username.
func validatePassword(password, name, username string) error {
	if len(password) < 6 {
		return validationErr("Password must be at least 6 characters")
	}
	if !strings.Contains(password, "@") {
		return validationErr("Password must contain the @ symbol")
	}
	if !strings.ContainsAny(password, "0123456789") {
		return validationErr("Password must contain at least one number")
	}

	lowered := strings.ToLower(password)
	if name != "" && strings.Contains(lowered, strings.ToLower(name)) {
		return validationErr("Password cannot contain your name")
	}
	if username != "" && strings.Contains(lowered, strings.ToLower(username)) {
		return validationErr("Password cannot contain your username")
	}

	return nil
}

// validateAge cross-checks the declared age against the date of birth.
func validateAge(age int, dateOfBirth time.Time) error {
	if age < 18 {
		return validationErr("Volunteers must be at least 18 years old")
	}
	if dateOfBirth.IsZero() {
		return validationErr("Date of birth is required")
	}

	derived := deriveAge(dateOfBirth, time.Now().UTC())
	if derived != age {
		return validationErr("Age does not match date of birth")
	}

	return nil
}

func deriveAge(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	anniversary := dateOfBirth.AddDate(age, 0, 0)
	if anniversary.After(now) {
		age--
	}
	return age
}

// Register validates and creates a volunteer account. The username is
// stored lower-cased.
func (s *VolunteerService) Register(ctx context.Context, input VolunteerRegistration) (*domain.Volunteer, string, error) {
	if err := s.validateRegistration(input); err != nil {
		return nil, "", err
	}

	username := strings.ToLower(input.Username)

	if taken, err := s.volunteers.ExistsByUsername(ctx, username); err != nil {
		return nil, "", fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, "", conflictErr(msgUsernameTaken)
	}

	if taken, err := s.volunteers.ExistsByEmail(ctx, input.Email); err != nil {
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
	volunteer := domain.Volunteer{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Username:     username,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Age:          input.Age,
		DateOfBirth:  input.DateOfBirth,
		Address:      input.Address,
		Role:         input.Role,
		Description:  input.Description,
		Skills:       input.Skills,
		Availability: input.Availability,
		ProfilePhoto: profilePhoto,
		Ratings:      []int{},
		Feedback:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.volunteers.Create(ctx, volunteer); err != nil {
		if profilePhoto != domain.DefaultProfilePhoto {
			if removeErr := s.files.Remove(ctx, profilePhoto); removeErr != nil {
				logger.WithContext(ctx).Warn("failed to clean up profile photo",
					zap.String("path", profilePhoto), zap.Error(removeErr))
			}
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", conflictErr(msgUsernameTaken)
		}
		return nil, "", fmt.Errorf("create volunteer: %w", err)
	}

	event := domain.AccountRegisteredEvent{
		AccountID:    volunteer.ID,
		AccountKind:  "volunteer",
		Username:     volunteer.Username,
		Email:        volunteer.Email,
		RegisteredAt: volunteer.CreatedAt,
	}
	if err := s.publisher.PublishAccountRegistered(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish registration event",
			zap.String("account_id", volunteer.ID), zap.Error(err))
	}

	token, err := s.tokens.Issue(volunteer.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	volunteer.PasswordHash = ""
	return &volunteer, token, nil
}

// Login verifies volunteer credentials and issues a session token.
func (s *VolunteerService) Login(ctx context.Context, username, password string) (*domain.Volunteer, string, error) {
	volunteer, err := s.volunteers.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup volunteer: %w", err)
	}

	if !security.VerifyPassword(password, volunteer.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if volunteer.IsBlocked {
		return nil, "", ErrAccountBlocked
	}

	token, err := s.tokens.Issue(volunteer.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	volunteer.PasswordHash = ""
	return volunteer, token, nil
}

// Get loads a volunteer's public projection.
func (s *VolunteerService) Get(ctx context.Context, id string) (*domain.Volunteer, error) {
	volunteer, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load volunteer: %w", err)
	}
	return volunteer, nil
}

// List returns every volunteer account.
func (s *VolunteerService) List(ctx context.Context) ([]domain.Volunteer, error) {
	volunteers, err := s.volunteers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	return volunteers, nil
}

// Update applies a partial profile update and re-issues a token.
func (s *VolunteerService) Update(ctx context.Context, id string, input VolunteerProfileUpdate) (*domain.Volunteer, string, error) {
	volunteer, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("load volunteer: %w", err)
	}

	if input.Email != "" && input.Email != volunteer.Email {
		if err := validation.Validate(input.Email, is.Email.Error("Invalid email format")); err != nil {
			return nil, "", validationErr(err.Error())
		}
		if taken, err := s.volunteers.ExistsByEmail(ctx, input.Email); err != nil {
			return nil, "", fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, "", conflictErr(msgEmailTaken)
		}
		volunteer.Email = input.Email
	}

	if input.Name != "" {
		volunteer.Name = input.Name
	}
	if input.Phone != "" {
		volunteer.Phone = input.Phone
	}
	if input.Address != "" {
		volunteer.Address = input.Address
	}
	if input.Role != "" {
		volunteer.Role = input.Role
	}
	if input.Description != "" {
		volunteer.Description = input.Description
	}
	if len(input.Skills) > 0 {
		volunteer.Skills = input.Skills
	}
	if input.Availability != nil {
		volunteer.Availability = *input.Availability
	}

	if input.ProfilePhoto != nil {
		path, err := s.files.Save(ctx, storage.FieldProfilePhoto, input.ProfilePhoto)
		if err != nil {
			return nil, "", mapUploadError(err)
		}
		if volunteer.ProfilePhoto != "" && volunteer.ProfilePhoto != domain.DefaultProfilePhoto {
			if removeErr := s.files.Remove(ctx, volunteer.ProfilePhoto); removeErr != nil {
				logger.WithContext(ctx).Warn("failed to remove old profile photo",
					zap.String("path", volunteer.ProfilePhoto), zap.Error(removeErr))
			}
		}
		volunteer.ProfilePhoto = path
	}

	volunteer.UpdatedAt = time.Now().UTC()

	if err := s.volunteers.Update(ctx, *volunteer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", conflictErr(msgEmailTaken)
		}
		return nil, "", fmt.Errorf("update volunteer: %w", err)
	}

	token, err := s.tokens.Issue(volunteer.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return volunteer, token, nil
}

// Delete removes a volunteer account.
func (s *VolunteerService) Delete(ctx context.Context, id string) error {
	volunteer, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load volunteer: %w", err)
	}

	if err := s.volunteers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete volunteer: %w", err)
	}

	if volunteer.ProfilePhoto != "" && volunteer.ProfilePhoto != domain.DefaultProfilePhoto {
		if removeErr := s.files.Remove(ctx, volunteer.ProfilePhoto); removeErr != nil {
			logger.WithContext(ctx).Warn("failed to remove profile photo",
				zap.String("path", volunteer.ProfilePhoto), zap.Error(removeErr))
		}
	}

	event := domain.AccountDeletedEvent{
		AccountID:   id,
		AccountKind: "volunteer",
		DeletedAt:   time.Now().UTC(),
	}
	if err := s.publisher.PublishAccountDeleted(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("failed to publish deletion event",
			zap.String("account_id", id), zap.Error(err))
	}

	return nil
}

// AddFeedback records a rating and optional comment for a volunteer and
// refreshes the running average.
func (s *VolunteerService) AddFeedback(ctx context.Context, id string, rating int, comment string) (*domain.Volunteer, error) {
	if rating < 1 || rating > 5 {
		return nil, validationErr("Rating must be between 1 and 5")
	}

	volunteer, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load volunteer: %w", err)
	}

	volunteer.Ratings = append(volunteer.Ratings, rating)
	if comment != "" {
		volunteer.Feedback = append(volunteer.Feedback, comment)
	}

	var sum int
	for _, r := range volunteer.Ratings {
		sum += r
	}
	volunteer.AverageRating = float64(sum) / float64(len(volunteer.Ratings))
	volunteer.UpdatedAt = time.Now().UTC()

	if err := s.volunteers.Update(ctx, *volunteer); err != nil {
		return nil, fmt.Errorf("update volunteer: %w", err)
	}

	return volunteer, nil
}

// UsernameAvailable reports whether a volunteer username is free.
// Usernames are stored lower-cased, so the check lower-cases too.
func (s *VolunteerService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := s.volunteers.ExistsByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !exists, nil
}

// EmailAvailable reports whether a volunteer email is free.
func (s *VolunteerService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.volunteers.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return !exists, nil
}
