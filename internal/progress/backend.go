package progress

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backend is one storage location for the serialized progress record.
// The store tries backends in rank order: reads prefer the first backend
// that yields data, writes go to every backend so that losing one
// degrades durability instead of losing the record.
type Backend interface {
	// Name identifies the backend in log messages.
	Name() string

	// Get returns the stored record bytes, or ok=false when nothing is
	// stored. Unreadable or undecodable content is reported as an error.
	Get() (data []byte, ok bool, err error)

	// Set stores the record bytes.
	Set(data []byte) error

	// Remove deletes the stored copy. Removing an absent copy is not an
	// error.
	Remove() error
}

// fileBackend stores the record as plain JSON in a file. This is the
// primary backend, the localStorage analogue of the web client.
type fileBackend struct {
	path string
}

// NewFileBackend creates the primary JSON-file backend at path.
func NewFileBackend(path string) Backend {
	return &fileBackend{path: path}
}

func (b *fileBackend) Name() string { return "file" }

func (b *fileBackend) Get() ([]byte, bool, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", b.path, err)
	}
	return data, true, nil
}

func (b *fileBackend) Set(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(b.path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	return nil
}

func (b *fileBackend) Remove() error {
	err := os.Remove(b.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", b.path, err)
	}
	return nil
}

// cookieName matches the web client so the formats stay interchangeable.
const cookieName = "carhythm_progress"

// cookieBackend stores the record as a single cookie-format line:
// URL-encoded value plus expires/path/SameSite attributes. It is the
// fallback copy, the cookie analogue of the web client, and survives the
// primary file being unavailable.
type cookieBackend struct {
	path string
	now  func() time.Time
}

// NewCookieBackend creates the cookie-format fallback backend at path.
func NewCookieBackend(path string) Backend {
	return &cookieBackend{path: path, now: time.Now}
}

func (b *cookieBackend) Name() string { return "cookie" }

func (b *cookieBackend) Get() ([]byte, bool, error) {
	raw, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", b.path, err)
	}

	line := strings.TrimSpace(string(raw))
	prefix := cookieName + "="
	if !strings.HasPrefix(line, prefix) {
		return nil, false, fmt.Errorf("%s: not a %s cookie", b.path, cookieName)
	}

	value := strings.TrimPrefix(line, prefix)
	if i := strings.Index(value, ";"); i >= 0 {
		value = value[:i]
	}
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return nil, false, fmt.Errorf("decode cookie value: %w", err)
	}
	return []byte(decoded), true, nil
}

func (b *cookieBackend) Set(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	expires := b.now().Add(ExpiryDays * 24 * time.Hour).UTC().Format(time.RFC1123)
	line := fmt.Sprintf("%s=%s; expires=%s; path=/; SameSite=Strict\n",
		cookieName, url.QueryEscape(string(data)), expires)
	if err := os.WriteFile(b.path, []byte(line), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	return nil
}

func (b *cookieBackend) Remove() error {
	err := os.Remove(b.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", b.path, err)
	}
	return nil
}

// DefaultStatePath resolves the primary record path in priority order:
// 1. CARHYTHM_STATE environment variable
// 2. $XDG_STATE_HOME/carhythm/progress.json
// 3. ~/.local/state/carhythm/progress.json
func DefaultStatePath() (string, error) {
	if p := os.Getenv("CARHYTHM_STATE"); p != "" {
		return p, nil
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}

	return filepath.Join(stateHome, "carhythm", "progress.json"), nil
}

// DefaultCookiePath resolves the fallback cookie-format path,
// ~/.carhythm_progress.
func DefaultCookiePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, "."+cookieName), nil
}
