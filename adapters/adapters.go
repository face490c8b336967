package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/FrenchMajesty/waste-classifier/upload"
)

// UserEnvVar names the environment variable holding the signed-in user id
const UserEnvVar = "WASTESIM_USER"

// StaticSession adapts a fixed user id to the upload.SessionProvider interface
type StaticSession struct {
	user upload.User
}

// NewStaticSession creates a session for the given user id, falling back to WASTESIM_USER
func NewStaticSession(userID *string) (*StaticSession, error) {
	id, err := loadEnvVar(userID, UserEnvVar)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil, fmt.Errorf("user id is empty")
	}

	user := upload.User{ID: trimmed}
	if strings.Contains(trimmed, "@") {
		user.Email = trimmed
	}

	return &StaticSession{user: user}, nil
}

// CurrentUser implements upload.SessionProvider interface
func (s *StaticSession) CurrentUser(ctx context.Context) (*upload.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user := s.user
	return &user, nil
}

// AnonymousSession is a session provider with nobody signed in
type AnonymousSession struct{}

// NewAnonymousSession creates a signed-out session provider
func NewAnonymousSession() *AnonymousSession {
	return &AnonymousSession{}
}

// CurrentUser implements upload.SessionProvider interface
func (AnonymousSession) CurrentUser(ctx context.Context) (*upload.User, error) {
	return nil, nil
}

// SessionFromConfig returns a static session when a user is configured, or an anonymous one
func SessionFromConfig(userID string) upload.SessionProvider {
	if strings.TrimSpace(userID) == "" {
		if s, err := NewStaticSession(nil); err == nil {
			return s
		}
		return NewAnonymousSession()
	}

	s, err := NewStaticSession(&userID)
	if err != nil {
		return NewAnonymousSession()
	}
	return s
}

// LogNotifier adapts a zap logger to the upload.Notifier interface
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier writing to logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements upload.Notifier interface
func (n *LogNotifier) Notify(note upload.Notification) {
	fields := []zap.Field{
		zap.String("title", note.Title),
		zap.String("variant", string(note.Variant)),
	}

	if note.Variant == upload.VariantDestructive {
		n.logger.Warn(note.Description, fields...)
		return
	}
	n.logger.Info(note.Description, fields...)
}

// loadEnvVar loads an environment variable into a pointer if no value is provided
func loadEnvVar(target *string, envKey string) (*string, error) {
	if target == nil {
		envVar := os.Getenv(envKey)
		if envVar == "" {
			return nil, fmt.Errorf("%s environment variable not set and no value provided", envKey)
		}
		return &envVar, nil
	}
	return target, nil
}
