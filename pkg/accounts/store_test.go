package accounts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.csv")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	return NewStore(path)
}

const legacyCSV = "Username,Email,Password,Role\n" +
	"Admin,admin@bank.co.id,secret1,admin\n" +
	"budi,budi@bank.co.id,rahasia2,user\n"

func TestStore_Init(t *testing.T) {
	s := newTestStore(t, "")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "Username,Email,Password,Role\n" {
		t.Errorf("unexpected file content: %q", data)
	}

	// Init keeps existing content.
	s = newTestStore(t, legacyCSV)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	accounts, _ := s.List()
	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}
}

func TestStore_Authenticate(t *testing.T) {
	s := newTestStore(t, legacyCSV)

	tests := []struct {
		name     string
		username string
		password string
		wantRole Role
		wantErr  bool
	}{
		{"exact", "Admin", "secret1", RoleAdmin, false},
		{"case and space insensitive username", "  admin ", "secret1", RoleAdmin, false},
		{"wrong password", "admin", "secret2", "", true},
		{"password is case-sensitive", "budi", "RAHASIA2", "", true},
		{"unknown user", "siti", "secret1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := s.Authenticate(tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if account.Role != tt.wantRole {
				t.Errorf("Role = %v, want %v", account.Role, tt.wantRole)
			}
		})
	}
}

func TestStore_SignUp(t *testing.T) {
	s := newTestStore(t, legacyCSV)

	account, err := s.SignUp(" siti ", "siti@bank.co.id", "pass99")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if account.Role != RoleGuest || account.Username != "siti" {
		t.Errorf("unexpected account: %+v", account)
	}
	if account.Password == "pass99" || !isBcryptHash(account.Password) {
		t.Error("password should be stored hashed")
	}

	data, _ := os.ReadFile(s.Path())
	if strings.Contains(string(data), "pass99") {
		t.Error("plaintext password written to file")
	}

	got, err := s.Authenticate("SITI", "pass99")
	if err != nil {
		t.Fatalf("Authenticate() after SignUp error = %v", err)
	}
	if got.Email != "siti@bank.co.id" {
		t.Errorf("Email = %v", got.Email)
	}

	accounts, _ := s.List()
	if len(accounts) != 3 || accounts[0].Username != "Admin" {
		t.Errorf("existing rows should be preserved in order: %+v", accounts)
	}
}

func TestStore_SignUp_Appends(t *testing.T) {
	// Column order differs from the default, there is an extra column and the
	// last row has no line break.
	existing := "Email,Username,Role,Password,Notes\n" +
		"admin@bank.co.id,Admin,admin,secret1,owner"
	s := newTestStore(t, existing)

	if _, err := s.SignUp("siti", "siti@bank.co.id", "pass99"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.HasPrefix(string(data), existing+"\n") {
		t.Errorf("existing content should be kept byte for byte: %q", data)
	}
	if !strings.HasPrefix(string(data[len(existing)+1:]), "siti@bank.co.id,siti,guest,$2") {
		t.Errorf("unexpected appended row: %q", data[len(existing)+1:])
	}

	accounts, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 2 || accounts[1].Username != "siti" || accounts[1].Role != RoleGuest {
		t.Errorf("unexpected accounts: %+v", accounts)
	}
	if _, err := s.Authenticate("siti", "pass99"); err != nil {
		t.Errorf("Authenticate() after append error = %v", err)
	}
}

func TestStore_SignUp_Validation(t *testing.T) {
	s := newTestStore(t, legacyCSV)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		field    string
	}{
		{"missing username", " ", "x@bank.co.id", "abc123", "username"},
		{"missing email", "x", "", "abc123", "email"},
		{"bad email", "x", "x@bank", "abc123", "email"},
		{"short password", "x", "x@bank.co.id", "ab12", "password"},
		{"password without digit", "x", "x@bank.co.id", "abcdefg", "password"},
		{"password without letter", "x", "x@bank.co.id", "1234567", "password"},
		{"duplicate email", "x", "BUDI@bank.co.id", "abc123", "email"},
		{"duplicate username", "Budi", "other@bank.co.id", "abc123", "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SignUp(tt.username, tt.email, tt.password)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("SignUp() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %v, want %v", ve.Field, tt.field)
			}
		})
	}

	accounts, _ := s.List()
	if len(accounts) != 2 {
		t.Errorf("rejected signups must not be written, got %d accounts", len(accounts))
	}
}

func TestStore_UpdateRoles(t *testing.T) {
	s := newTestStore(t, legacyCSV)

	if err := s.UpdateRoles(map[string]Role{"BUDI": RoleAdmin, "admin": RoleUser}); err != nil {
		t.Fatalf("UpdateRoles() error = %v", err)
	}
	accounts, _ := s.List()
	if accounts[0].Role != RoleUser || accounts[1].Role != RoleAdmin {
		t.Errorf("unexpected roles: %+v", accounts)
	}
	// Passwords survive the rewrite.
	if _, err := s.Authenticate("budi", "rahasia2"); err != nil {
		t.Errorf("Authenticate() after rewrite error = %v", err)
	}

	if err := s.SetRole("budi", Role("root")); !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := s.UpdateRoles(map[string]Role{"budi": RoleGuest, "nobody": RoleGuest}); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
	accounts, _ = s.List()
	if accounts[1].Role != RoleAdmin {
		t.Error("failed update must not be partially applied")
	}
}

func TestStore_MissingColumn(t *testing.T) {
	s := newTestStore(t, "Username,Email,Password\nbudi,b@bank.co.id,x\n")
	if _, err := s.List(); err == nil {
		t.Error("expected error for missing Role column")
	}
}
