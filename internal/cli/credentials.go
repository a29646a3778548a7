package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

// FileCredentials keeps the admin token in a JSON file readable only by
// the current user. It satisfies apiclient.CredentialStore.
type FileCredentials struct {
	path string

	mu     sync.Mutex
	loaded bool
	saved  models.LoginResult
}

// NewFileCredentials returns a store backed by path. The file is read
// lazily on first use.
func NewFileCredentials(path string) *FileCredentials {
	return &FileCredentials{path: path}
}

// Path is the backing file.
func (c *FileCredentials) Path() string { return c.path }

func (c *FileCredentials) load() {
	if c.loaded {
		return
	}
	c.loaded = true
	b, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(b, &c.saved)
}

// Token returns the saved bearer token, or "" when signed out.
func (c *FileCredentials) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return c.saved.Token
}

// Profile returns the admin profile saved at login.
func (c *FileCredentials) Profile() (models.AdminProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return c.saved.AdminInfo, c.saved.Token != ""
}

// Save stores a login result.
func (c *FileCredentials) Save(res models.LoginResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	c.saved, c.loaded = res, true
	return nil
}

// Clear removes the saved token. Clearing an absent file is not an error.
func (c *FileCredentials) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved, c.loaded = models.LoginResult{}, true
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
