package testutil

import (
	"context"
	"sync"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/upload"
)

// MockSessionProvider is a mock implementation of upload.SessionProvider for testing
type MockSessionProvider struct {
	CurrentUserFunc func(ctx context.Context) (*upload.User, error)

	mu        sync.Mutex
	CallCount int
}

// SignedIn returns a session provider that always reports the given user id
func SignedIn(id string) *MockSessionProvider {
	return &MockSessionProvider{
		CurrentUserFunc: func(ctx context.Context) (*upload.User, error) {
			return &upload.User{ID: id, Email: id + "@example.com"}, nil
		},
	}
}

func (m *MockSessionProvider) CurrentUser(ctx context.Context) (*upload.User, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}

	// Default: nobody signed in
	return nil, nil
}

// MockNotifier records notifications for testing
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []upload.Notification
}

func (m *MockNotifier) Notify(n upload.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, n)
}

// Last returns the most recent notification, or the zero value
func (m *MockNotifier) Last() upload.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Notifications) == 0 {
		return upload.Notification{}
	}
	return m.Notifications[len(m.Notifications)-1]
}

// Count returns the number of notifications received
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notifications)
}

// MockClassifier is a mock implementation of upload.Classifier for testing.
// Without ClassifyFunc it delegates to Simulator when set.
type MockClassifier struct {
	ClassifyFunc func(ctx context.Context, fileName string, sizeBytes int64) (*classifier.Run, error)
	Simulator    *classifier.Simulator

	mu         sync.Mutex
	CallCount  int
	ResetCount int
	LastName   string
	LastSize   int64
}

func (m *MockClassifier) Classify(ctx context.Context, fileName string, sizeBytes int64) (*classifier.Run, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastName = fileName
	m.LastSize = sizeBytes
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, fileName, sizeBytes)
	}
	if m.Simulator != nil {
		return m.Simulator.Classify(ctx, fileName, sizeBytes)
	}
	return nil, nil
}

func (m *MockClassifier) Reset() {
	m.mu.Lock()
	m.ResetCount++
	m.mu.Unlock()

	if m.Simulator != nil {
		m.Simulator.Reset()
	}
}

// Calls returns the number of Classify calls
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
