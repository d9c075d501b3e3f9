package auth

import (
	"CollectPortal/internal/config"
	"CollectPortal/internal/logger"
	"CollectPortal/internal/session"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var ErrUnknownEmail = errors.New("no portal account for this email")

// Account is a portal login. Client users are scoped to ClientID; admins
// see every client.
type Account struct {
	UserID   string `json:"userId"`
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// DemoAccounts is the built-in directory used when no other is configured.
var DemoAccounts = []Account{
	{UserID: "user-001", ClientID: "client-001", Name: "Example Corp", Email: "layla@example.com", Role: "client"},
	{UserID: "user-002", ClientID: "client-002", Name: "ACME Corporation", Email: "john@acmecorp.com", Role: "client"},
	{UserID: "admin-001", Name: "Portal Administrator", Email: "admin@portal.com", Role: "admin"},
}

type AuthService struct {
	accounts map[string]Account
	sessions *session.Manager
	timeout  time.Duration
	interval time.Duration
	stopCh   chan struct{}
}

func NewAuthService(accounts []Account, timeout time.Duration) *AuthService {
	if len(accounts) == 0 {
		accounts = DemoAccounts
	}
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultSessionTimeout) * time.Minute
	}
	byEmail := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byEmail[strings.ToLower(strings.TrimSpace(a.Email))] = a
	}
	return &AuthService{
		accounts: byEmail,
		sessions: session.NewManager(),
		timeout:  timeout,
		interval: 10 * time.Minute,
		stopCh:   make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

// Login opens a session for a known email. The portal has no passwords.
func (a *AuthService) Login(email string) (*session.Session, error) {
	acct, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrUnknownEmail
	}
	s := a.sessions.CreateSession(session.Session{
		UserID:   acct.UserID,
		ClientID: acct.ClientID,
		Role:     acct.Role,
		Name:     acct.Name,
		Email:    acct.Email,
	}, a.timeout)
	audit(fmt.Sprintf("User logged in: %s (%s)", acct.Email, acct.Role))
	return s, nil
}

func (a *AuthService) Logout(token string) error {
	s, ok := a.sessions.GetSession(token)
	if !ok {
		return errors.New("session not found")
	}
	a.sessions.DeleteSession(token)
	audit("User logged out: " + s.UserID)
	return nil
}

// Validate returns the live session for a token.
func (a *AuthService) Validate(token string) (*session.Session, bool) {
	if token == "" {
		return nil, false
	}
	return a.sessions.GetSession(token)
}

func (a *AuthService) ActiveSessions() int {
	return a.sessions.Count()
}

func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if n := a.sessions.CleanupExpiredSessions(); n > 0 {
				log.Printf("[INFO] auth: removed %d expired sessions", n)
			}
		}
	}
}

func audit(msg string) {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(msg)
		return
	}
	log.Println("[INFO]", msg)
}
