package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
)

func validOperatorRegistration() OperatorRegistration {
	return OperatorRegistration{
		FullName:      "Nimal Perera",
		Username:      "nimal_homes",
		Email:         "nimal@example.com",
		Address:       "12 Lake Road",
		ContactNumber: "0771234567",
		Password:      "sunset@9",
		HomeName:      "Sunset",
		HomeAddress:   "45 Hill Street, Kandy",
		AccountNumber: "1234567890123456",
		Capacity:      "25",
		Description:   "A quiet home by the lake",
		License:       fileHeader("license.pdf", 1024),
		HomePhotos: []*multipart.FileHeader{
			fileHeader("front.jpg", 2048),
			fileHeader("garden.jpg", 2048),
			fileHeader("rooms.jpg", 2048),
		},
	}
}

func TestOperatorRegisterRequiresLicense(t *testing.T) {
	repo := newMockOperatorRepository()
	files := &stubFileStore{}
	svc := NewOperatorService(repo, files, newTestTokens(t), &stubPublisher{})

	input := validOperatorRegistration()
	input.License = nil

	_, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "License document upload is required" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
	if repo.createCalls != 0 || files.saveCalls != 0 {
		t.Fatalf("expected no writes, got %d creates and %d saves", repo.createCalls, files.saveCalls)
	}
}

func TestOperatorRegisterRejectsBadAccountNumber(t *testing.T) {
	repo := newMockOperatorRepository()
	files := &stubFileStore{}
	svc := NewOperatorService(repo, files, newTestTokens(t), &stubPublisher{})

	input := validOperatorRegistration()
	input.AccountNumber = "12345678901234567" // 17 digits

	_, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "Account number must be exactly 16 digits" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
	if repo.createCalls != 0 || files.saveCalls != 0 {
		t.Fatalf("expected no writes, got %d creates and %d saves", repo.createCalls, files.saveCalls)
	}
}

func TestOperatorRegisterRejectsTooManyPhotos(t *testing.T) {
	repo := newMockOperatorRepository()
	files := &stubFileStore{}
	svc := NewOperatorService(repo, files, newTestTokens(t), &stubPublisher{})

	input := validOperatorRegistration()
	input.HomePhotos = nil
	for i := 0; i < MaxHomePhotos+1; i++ {
		input.HomePhotos = append(input.HomePhotos, fileHeader("photo.jpg", 1024))
	}

	_, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "You can upload a maximum of 5 home photos" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
	if files.saveCalls != 0 {
		t.Fatalf("expected no saves, got %d", files.saveCalls)
	}
}

func TestOperatorRegisterRequiresAtLeastOnePhoto(t *testing.T) {
	repo := newMockOperatorRepository()
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	input := validOperatorRegistration()
	input.HomePhotos = nil

	_, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "At least one home photo is required" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
}

func TestOperatorRegisterCreatesPendingAccount(t *testing.T) {
	repo := newMockOperatorRepository()
	files := &stubFileStore{}
	publisher := &stubPublisher{}
	svc := NewOperatorService(repo, files, newTestTokens(t), publisher)

	operator, err := svc.Register(context.Background(), validOperatorRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if operator.ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("expected pending status, got %q", operator.ApprovalStatus)
	}
	if operator.PasswordHash != "" {
		t.Fatal("password hash leaked in result")
	}
	if operator.LicensePath == "" {
		t.Fatal("license path not recorded")
	}
	if len(operator.HomePhotoPaths) != 3 {
		t.Fatalf("expected 3 photo paths, got %d", len(operator.HomePhotoPaths))
	}
	// License plus three photos.
	if files.saveCalls != 4 {
		t.Fatalf("expected 4 saves, got %d", files.saveCalls)
	}
	if repo.created.Capacity != 25 {
		t.Fatalf("capacity not parsed, got %d", repo.created.Capacity)
	}
	if len(publisher.registered) != 1 || publisher.registered[0].AccountKind != "operator" {
		t.Fatalf("registration event not published: %+v", publisher.registered)
	}
}

func TestOperatorRegisterRemovesFilesWhenCreateFails(t *testing.T) {
	repo := newMockOperatorRepository()
	repo.createErr = errors.New("connection reset")
	files := &stubFileStore{}
	svc := NewOperatorService(repo, files, newTestTokens(t), &stubPublisher{})

	_, err := svc.Register(context.Background(), validOperatorRegistration())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(files.removed) != 4 {
		t.Fatalf("expected every stored file removed, got %d of 4", len(files.removed))
	}
}

func seedOperator(t *testing.T, repo *mockOperatorRepository, status domain.ApprovalStatus, blocked bool) domain.Operator {
	t.Helper()

	operator := domain.Operator{
		ID:             "op-1",
		FullName:       "Nimal Perera",
		Username:       "nimal_homes",
		Email:          "nimal@example.com",
		PasswordHash:   mustHash(t, "sunset@9"),
		HomeName:       "Sunset",
		ApprovalStatus: status,
		IsBlocked:      blocked,
		CreatedAt:      time.Now().UTC(),
	}
	repo.operators[operator.ID] = &operator
	return operator
}

func TestOperatorLoginPendingWithholdsToken(t *testing.T) {
	repo := newMockOperatorRepository()
	seedOperator(t, repo, domain.ApprovalPending, false)
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	result, err := svc.Login(context.Background(), "nimal_homes", "sunset@9")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("expected pending, got %q", result.ApprovalStatus)
	}
	if result.Token != "" {
		t.Fatal("pending operator must not receive a token")
	}
}

func TestOperatorLoginRejectedReportsDefaultReason(t *testing.T) {
	repo := newMockOperatorRepository()
	seedOperator(t, repo, domain.ApprovalRejected, false)
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	result, err := svc.Login(context.Background(), "nimal_homes", "sunset@9")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token != "" {
		t.Fatal("rejected operator must not receive a token")
	}
	if result.RejectionReason != domain.DefaultRejectionReason {
		t.Fatalf("unexpected reason: %q", result.RejectionReason)
	}
}

func TestOperatorLoginApprovedIssuesToken(t *testing.T) {
	repo := newMockOperatorRepository()
	seedOperator(t, repo, domain.ApprovalApproved, false)
	tokens := newTestTokens(t)
	svc := NewOperatorService(repo, &stubFileStore{}, tokens, &stubPublisher{})

	result, err := svc.Login(context.Background(), "nimal_homes", "sunset@9")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	subject, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if subject != "op-1" {
		t.Fatalf("token subject = %q, want op-1", subject)
	}
}

func TestOperatorLoginBlockedBeforeApprovalCheck(t *testing.T) {
	repo := newMockOperatorRepository()
	seedOperator(t, repo, domain.ApprovalPending, true)
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	_, err := svc.Login(context.Background(), "nimal_homes", "sunset@9")
	if !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestOperatorLoginWrongPassword(t *testing.T) {
	repo := newMockOperatorRepository()
	seedOperator(t, repo, domain.ApprovalApproved, false)
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	_, err := svc.Login(context.Background(), "nimal_homes", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestOperatorRegisterDuplicateUsernameConflicts(t *testing.T) {
	repo := newMockOperatorRepository()
	seedOperator(t, repo, domain.ApprovalApproved, false)
	files := &stubFileStore{}
	svc := NewOperatorService(repo, files, newTestTokens(t), &stubPublisher{})

	input := validOperatorRegistration()
	input.Email = "other@example.com"
	input.HomeName = "Lakeside"

	_, err := svc.Register(context.Background(), input)
	cErr := asConflict(t, err)
	if cErr.Message != msgUsernameTaken {
		t.Fatalf("unexpected message: %q", cErr.Message)
	}
	if files.saveCalls != 0 {
		t.Fatalf("expected no saves, got %d", files.saveCalls)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no create, got %d", repo.createCalls)
	}
}

func TestOperatorRegisterEnforcesStrictHomeNameBound(t *testing.T) {
	repo := newMockOperatorRepository()
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	// 11..20 characters pass the first check but fail the stricter one.
	input := validOperatorRegistration()
	input.HomeName = "Sunset Acres"

	_, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "Elder home name is required and must be 10 characters or less" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
}

func TestOperatorRegisterRequiresDescription(t *testing.T) {
	repo := newMockOperatorRepository()
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	input := validOperatorRegistration()
	input.Description = ""

	_, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "Description is required and must be 50 characters or less" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
}

func TestOperatorRegisterRejectsLongAddress(t *testing.T) {
	repo := newMockOperatorRepository()
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	input := validOperatorRegistration()
	input.Address = "12 Lake Road, Colombo 07, Sri Lanka"

	_, err := svc.Register(context.Background(), input)
	vErr := asValidation(t, err)
	if vErr.Message != "Address is required and must be 20 characters or less" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
}

func TestOperatorHomeNameAvailable(t *testing.T) {
	repo := newMockOperatorRepository()
	seedOperator(t, repo, domain.ApprovalApproved, false)
	svc := NewOperatorService(repo, &stubFileStore{}, newTestTokens(t), &stubPublisher{})

	available, err := svc.HomeNameAvailable(context.Background(), "Sunset")
	if err != nil {
		t.Fatalf("check home name: %v", err)
	}
	if available {
		t.Fatal("expected taken home name to be unavailable")
	}

	available, err = svc.HomeNameAvailable(context.Background(), "Lakeside")
	if err != nil {
		t.Fatalf("check home name: %v", err)
	}
	if !available {
		t.Fatal("expected free home name to be available")
	}
}

func TestOperatorDeleteRemovesUploadedFiles(t *testing.T) {
	repo := newMockOperatorRepository()
	operator := seedOperator(t, repo, domain.ApprovalApproved, false)
	operator.LicensePath = "licenses/license-1.pdf"
	operator.HomePhotoPaths = []string{"homes/photo-1.jpg", "homes/photo-2.jpg"}
	repo.operators[operator.ID] = &operator

	files := &stubFileStore{}
	publisher := &stubPublisher{}
	svc := NewOperatorService(repo, files, newTestTokens(t), publisher)

	if err := svc.Delete(context.Background(), operator.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := repo.operators[operator.ID]; ok {
		t.Fatal("expected operator row to be removed")
	}
	if len(files.removed) != 3 {
		t.Fatalf("expected 3 file removals, got %d (%v)", len(files.removed), files.removed)
	}
	if len(publisher.deleted) != 1 || publisher.deleted[0].AccountKind != "operator" {
		t.Fatalf("unexpected deletion events: %+v", publisher.deleted)
	}
}
