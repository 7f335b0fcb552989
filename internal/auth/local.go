package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taskdeck/taskdeck/internal/crypto"
	"github.com/taskdeck/taskdeck/internal/database/repository"
)

const minSignUpPassword = 8

// LocalProvider authenticates against the taskdeck database: Argon2id hashes
// in the users table, HS256 session tokens minted locally. Sign-in attempts
// are throttled per email so a stolen laptop can't be brute-forced through
// the UI.
type LocalProvider struct {
	users    *repository.UserRepo
	secret   string
	tokenTTL time.Duration
	throttle *emailThrottle
}

func NewLocalProvider(users *repository.UserRepo, secret string, tokenTTL time.Duration) *LocalProvider {
	return &LocalProvider{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		throttle: newEmailThrottle(rate.Every(20*time.Second), 5),
	}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	key := normalizeEmail(email)
	if !p.throttle.allow(key) {
		return Session{}, ErrTooManyAttempts
	}

	u, err := p.users.ByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("look up user: %w", err)
	}

	ok, err := crypto.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	return p.mintSession(u)
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	key := normalizeEmail(email)
	if _, err := mail.ParseAddress(key); err != nil {
		return Session{}, ErrInvalidEmail
	}
	if len(password) < minSignUpPassword {
		return Session{}, ErrWeakPassword
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := repository.User{ID: uuid.NewString(), Email: key, PasswordHash: hash}
	if err := p.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return p.mintSession(&u)
}

// Validate checks a previously issued token, for resuming a cached session.
func (p *LocalProvider) Validate(token string) (*crypto.SessionClaims, error) {
	return crypto.ParseSessionToken(token, p.secret)
}

func (p *LocalProvider) mintSession(u *repository.User) (Session, error) {
	token, expires, err := crypto.MintSessionToken(u.ID, u.Email, p.secret, p.tokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("mint session token: %w", err)
	}
	return Session{Token: token, UserID: u.ID, Email: u.Email, ExpiresAt: expires}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// emailThrottle keeps a token bucket per email address. Entries are swept
// lazily once the map grows, so no background goroutine is needed.
type emailThrottle struct {
	mu       sync.Mutex
	buckets  map[string]*throttleEntry
	rate     rate.Limit
	burst    int
	sweepLen int
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newEmailThrottle(r rate.Limit, burst int) *emailThrottle {
	return &emailThrottle{
		buckets:  make(map[string]*throttleEntry),
		rate:     r,
		burst:    burst,
		sweepLen: 64,
	}
}

func (t *emailThrottle) allow(email string) bool {
	key := strings.ToLower(email)

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.buckets) > t.sweepLen {
		t.sweep()
	}

	e, ok := t.buckets[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.buckets[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

// sweep drops buckets idle long enough to have fully refilled. Callers hold mu.
func (t *emailThrottle) sweep() {
	idle := time.Duration(float64(t.burst) / float64(t.rate) * float64(time.Second))
	for key, e := range t.buckets {
		if time.Since(e.lastSeen) > idle {
			delete(t.buckets, key)
		}
	}
}
