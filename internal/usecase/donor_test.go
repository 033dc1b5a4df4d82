package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
)

func validDonorRegistration() DonorRegistration {
	return DonorRegistration{
		FullName:      "Saman Silva",
		Username:      "saman_s",
		Email:         "saman@example.com",
		Address:       "7 Temple Road",
		ContactNumber: "0719876543",
		Description:   "Monthly donor",
		Password:      "giving@1",
	}
}

func TestDonorRegisterDefaultsProfilePhoto(t *testing.T) {
	repo := newMockDonorRepository()
	files := &stubFileStore{}
	publisher := &stubPublisher{}
	tokens := newTestTokens(t)
	svc := NewDonorService(repo, files, tokens, publisher)

	donor, token, err := svc.Register(context.Background(), validDonorRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if donor.ProfilePhoto != domain.DefaultProfilePhoto {
		t.Fatalf("profile photo = %q, want default", donor.ProfilePhoto)
	}
	if files.saveCalls != 0 {
		t.Fatalf("no upload was provided, yet %d saves ran", files.saveCalls)
	}
	subject, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if subject != donor.ID {
		t.Fatalf("token subject = %q, want %q", subject, donor.ID)
	}
	if len(publisher.registered) != 1 || publisher.registered[0].AccountKind != "donor" {
		t.Fatalf("registration event not published: %+v", publisher.registered)
	}
}

func TestDonorRegisterStoresUploadedPhoto(t *testing.T) {
	repo := newMockDonorRepository()
	files := &stubFileStore{}
	svc := NewDonorService(repo, files, newTestTokens(t), &stubPublisher{})

	input := validDonorRegistration()
	input.ProfilePhoto = fileHeader("me.png", 512)

	donor, _, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if donor.ProfilePhoto == domain.DefaultProfilePhoto {
		t.Fatal("uploaded photo ignored")
	}
	if files.saveCalls != 1 {
		t.Fatalf("expected 1 save, got %d", files.saveCalls)
	}
}

func TestDonorRegisterDuplicateUsername(t *testing.T) {
	repo := newMockDonorRepository()
	repo.donors["d-1"] = &domain.Donor{ID: "d-1", Username: "saman_s", Email: "other@example.com"}
	svc := NewDonorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	_, _, err := svc.Register(context.Background(), validDonorRegistration())
	cErr := asConflict(t, err)
	if cErr.Message != msgUsernameTaken {
		t.Fatalf("unexpected message: %q", cErr.Message)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no create, got %d", repo.createCalls)
	}
}

func TestDonorRegisterCleansUpPhotoOnCreateFailure(t *testing.T) {
	repo := newMockDonorRepository()
	repo.createErr = errors.New("connection reset")
	files := &stubFileStore{}
	svc := NewDonorService(repo, files, newTestTokens(t), &stubPublisher{})

	input := validDonorRegistration()
	input.ProfilePhoto = fileHeader("me.png", 512)

	_, _, err := svc.Register(context.Background(), input)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(files.removed) != 1 {
		t.Fatalf("expected the stored photo removed, got %d removals", len(files.removed))
	}
}

func TestDonorRegisterRejectsShortPassword(t *testing.T) {
	svc := NewDonorService(newMockDonorRepository(), &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	input := validDonorRegistration()
	input.Password = "abc"

	_, _, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "Password must be at least 6 characters" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
}

func TestDonorLoginBlocked(t *testing.T) {
	repo := newMockDonorRepository()
	repo.donors["d-1"] = &domain.Donor{
		ID:           "d-1",
		Username:     "saman_s",
		PasswordHash: mustHash(t, "giving@1"),
		IsBlocked:    true,
	}
	svc := NewDonorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	_, _, err := svc.Login(context.Background(), "saman_s", "giving@1")
	if !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestDonorLoginUnknownUser(t *testing.T) {
	svc := NewDonorService(newMockDonorRepository(), &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	_, _, err := svc.Login(context.Background(), "ghost", "whatever1@")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestDonorDeletePublishesEvent(t *testing.T) {
	repo := newMockDonorRepository()
	repo.donors["d-1"] = &domain.Donor{ID: "d-1", Username: "saman_s"}
	publisher := &stubPublisher{}
	svc := NewDonorService(repo, &stubFileStore{}, newTestTokens(t), publisher)

	if err := svc.Delete(context.Background(), "d-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.donors["d-1"]; ok {
		t.Fatal("donor not removed")
	}
	if len(publisher.deleted) != 1 || publisher.deleted[0].AccountKind != "donor" {
		t.Fatalf("deletion event not published: %+v", publisher.deleted)
	}
}
