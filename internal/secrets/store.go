package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/taskdeck/taskdeck/internal/auth"
)

// lightweight per-user session cache (file, 0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but keeps the token out of plain text.

const fileName = "session.bin"

// ErrNoSession covers both "never signed in" and "cache unreadable"; callers
// fall back to the sign-in screen either way.
var ErrNoSession = errors.New("no cached session")

// SessionPath returns the default cache location under the user config dir,
// creating the directory if needed.
func SessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "taskdeck")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// SaveSession encrypts s and writes it atomically. The file layout is
// nonce || ciphertext, no framing.
func SaveSession(path string, s auth.Session) error {
	plain, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	blob, err := seal(plain)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSession reads the cache back. Missing, corrupt, or foreign-machine
// files all report ErrNoSession.
func LoadSession(path string) (auth.Session, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return auth.Session{}, ErrNoSession
		}
		return auth.Session{}, err
	}
	plain, err := open(blob)
	if err != nil {
		return auth.Session{}, ErrNoSession
	}
	var s auth.Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return auth.Session{}, ErrNoSession
	}
	return s, nil
}

// ClearSession removes the cache; a missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// masterKey is derived from the machine and user rather than stored anywhere.
// A cache copied to another box simply fails to open.
func masterKey() []byte {
	host, _ := os.Hostname()
	user := os.Getenv("USER")
	base := fmt.Sprintf("taskdeck-%s-%s-%s", runtime.GOOS, host, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func seal(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func open(blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(blob) < gcm.NonceSize() {
		return nil, fmt.Errorf("cache too short")
	}
	nonce := blob[:gcm.NonceSize()]
	body := blob[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
