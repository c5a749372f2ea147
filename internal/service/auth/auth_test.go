package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/util/password"
)

type fakeUserRepo struct {
	store.UserRepo

	byEmail map[string]*store.User
	created []*store.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*store.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u *store.User) error {
	u.ID = uuid.Must(uuid.NewV7())
	f.created = append(f.created, u)
	return nil
}

func newTestAuth(users *fakeUserRepo) *authService {
	return &authService{
		db: &store.Store{Users: users},
	}
}

func TestRegisterNormalizesEmailAndDefaultsRole(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*store.User{}}
	svc := newTestAuth(users)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  Someone@Example.COM ",
		Password: "correcthorse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "someone@example.com" {
		t.Errorf("email = %q, want normalized lowercase", u.Email)
	}
	if u.Role != store.RolePatient {
		t.Errorf("role = %q, want default %q", u.Role, store.RolePatient)
	}
	if !u.IsActive {
		t.Error("new user should be active")
	}
	if u.PasswordHash == "" || u.PasswordHash == "correcthorse" {
		t.Error("password must be stored hashed")
	}
	if len(users.created) != 1 {
		t.Fatalf("created %d users, want 1", len(users.created))
	}
}

func TestRegisterValidation(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*store.User{}}
	svc := newTestAuth(users)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "longenough"}, ErrInvalidEmail},
		{"no domain", RegisterRequest{Email: "user@nodot", Password: "longenough"}, ErrInvalidEmail},
		{"short password", RegisterRequest{Email: "a@b.com", Password: "short"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if len(users.created) != 0 {
		t.Errorf("created %d users, want 0", len(users.created))
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*store.User{
		"taken@example.com": {Email: "taken@example.com"},
	}}
	svc := newTestAuth(users)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Taken@example.com",
		Password: "longenough",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("Register() error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash, err := password.Hash("right-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &fakeUserRepo{byEmail: map[string]*store.User{
		"doc@example.com":      {Email: "doc@example.com", PasswordHash: hash, IsActive: true},
		"disabled@example.com": {Email: "disabled@example.com", PasswordHash: hash, IsActive: false},
	}}
	svc := newTestAuth(users)

	// Unknown user and wrong password must be indistinguishable to the caller.
	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if apperror.CodeOf(err) != apperror.CodeInvalidCredentials {
		t.Errorf("unknown user: code = %q, want %q", apperror.CodeOf(err), apperror.CodeInvalidCredentials)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "doc@example.com", Password: "wrong-password"})
	if apperror.CodeOf(err) != apperror.CodeInvalidCredentials {
		t.Errorf("wrong password: code = %q, want %q", apperror.CodeOf(err), apperror.CodeInvalidCredentials)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "disabled@example.com", Password: "right-password"})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("disabled account: error = %v, want ErrAccountDisabled", err)
	}
}
