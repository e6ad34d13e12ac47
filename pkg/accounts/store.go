// Package accounts stores dashboard accounts in a CSV file and maps roles to
// page capabilities.
package accounts

import (
	"crypto/subtle"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// header is the CSV column layout.
var header = []string{"Username", "Email", "Password", "Role"}

// Account is one row of the account file.
type Account struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

// Store reads and writes the account CSV file. Sign-ups append a row and role
// changes rewrite the whole file. Safe for concurrent use within one process.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Init creates the file with a header row if it does not exist.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat accounts: %w", err)
	}
	return s.write(nil)
}

// List returns every account in file order.
func (s *Store) List() ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// SignUp validates and appends a new guest account. The password is stored
// as a bcrypt hash.
func (s *Store) SignUp(username, email, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Email, email) {
			return nil, &ValidationError{Field: "email", Message: "is already registered"}
		}
		if normalizeUsername(a.Username) == normalizeUsername(username) {
			return nil, &ValidationError{Field: "username", Message: "is already taken"}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := Account{Username: username, Email: email, Password: string(hash), Role: RoleGuest}
	if err := s.appendAccount(account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Authenticate returns the account matching username (trimmed, case-insensitive)
// and password (exact).
func (s *Store) Authenticate(username, password string) (*Account, error) {
	accounts, err := s.List()
	if err != nil {
		return nil, err
	}

	want := normalizeUsername(username)
	for _, a := range accounts {
		if normalizeUsername(a.Username) != want {
			continue
		}
		if !checkPassword(a.Password, password) {
			return nil, ErrInvalidCredentials
		}
		account := a
		return &account, nil
	}
	return nil, ErrInvalidCredentials
}

// UpdateRoles sets the role of each named account and rewrites the file.
// Either every update applies or none does.
func (s *Store) UpdateRoles(roles map[string]Role) error {
	for username, role := range roles {
		if !role.Valid() {
			return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q for %s", role, username)}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.read()
	if err != nil {
		return err
	}

	pending := make(map[string]Role, len(roles))
	for username, role := range roles {
		pending[normalizeUsername(username)] = role
	}
	for i := range accounts {
		key := normalizeUsername(accounts[i].Username)
		if role, ok := pending[key]; ok {
			accounts[i].Role = role
			delete(pending, key)
		}
	}
	if len(pending) > 0 {
		missing := make([]string, 0, len(pending))
		for username := range pending {
			missing = append(missing, username)
		}
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrAccountNotFound, strings.Join(missing, ", "))
	}

	return s.write(accounts)
}

// SetRole changes one account's role.
func (s *Store) SetRole(username string, role Role) error {
	return s.UpdateRoles(map[string]Role{username: role})
}

func checkPassword(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	// Rows written before hashing was introduced hold plaintext.
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

func (s *Store) read() ([]Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open accounts: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse accounts: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	idx := make(map[string]int)
	for i, name := range records[0] {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range header {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("parse accounts: missing column %q", col)
		}
	}

	field := func(rec []string, col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	accounts := make([]Account, 0, len(records)-1)
	for _, rec := range records[1:] {
		accounts = append(accounts, Account{
			Username: field(rec, "Username"),
			Email:    field(rec, "Email"),
			Password: field(rec, "Password"),
			Role:     Role(strings.ToLower(strings.TrimSpace(field(rec, "Role")))),
		})
	}
	return accounts, nil
}

// appendAccount adds one row in the file's own column order. Existing rows
// are left untouched.
func (s *Store) appendAccount(a Account) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return s.write([]Account{a})
	}
	if err != nil {
		return fmt.Errorf("open accounts: %w", err)
	}
	defer f.Close()

	cols, err := csv.NewReader(f).Read()
	if errors.Is(err, io.EOF) {
		return s.write([]Account{a})
	}
	if err != nil {
		return fmt.Errorf("parse accounts: %w", err)
	}

	values := map[string]string{
		"Username": a.Username,
		"Email":    a.Email,
		"Password": a.Password,
		"Role":     string(a.Role),
	}
	rec := make([]string, len(cols))
	for i, c := range cols {
		rec[i] = values[strings.TrimSpace(c)]
	}

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat accounts: %w", err)
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}
	if last[0] != '\n' {
		if _, err := f.Write([]byte("\n")); err != nil {
			return fmt.Errorf("append account: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("append account: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append account: %w", err)
	}
	return f.Close()
}

// write replaces the file through a temporary file in the same directory.
func (s *Store) write(accounts []Account) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".accounts-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write accounts: %w", err)
	}
	for _, a := range accounts {
		if err := w.Write([]string{a.Username, a.Email, a.Password, string(a.Role)}); err != nil {
			tmp.Close()
			return fmt.Errorf("write accounts: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write accounts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace accounts: %w", err)
	}
	return nil
}
