package upload_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/pkg/testutil"
	"github.com/FrenchMajesty/waste-classifier/upload"
)

func newUploader(t *testing.T, sessions upload.SessionProvider) (*upload.Uploader, *testutil.MockClassifier, *testutil.MockNotifier) {
	t.Helper()

	sim, err := classifier.NewSimulator(classifier.Config{
		TickInterval: time.Millisecond,
		Duration:     time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sim.Close() })

	mockClassifier := &testutil.MockClassifier{Simulator: sim}
	notifier := &testutil.MockNotifier{}

	u, err := upload.NewUploader(upload.Config{
		Sessions:   sessions,
		Classifier: mockClassifier,
		Notifier:   notifier,
	})
	require.NoError(t, err)
	return u, mockClassifier, notifier
}

func pngFile(name string, size int64) upload.File {
	return upload.File{Name: name, Size: size, ContentType: "image/png"}
}

func TestNewUploader_RequiresCollaborators(t *testing.T) {
	_, err := upload.NewUploader(upload.Config{Classifier: &testutil.MockClassifier{}})
	assert.Error(t, err)

	_, err = upload.NewUploader(upload.Config{Sessions: testutil.SignedIn("u1")})
	assert.Error(t, err)
}

func TestUploader_DefaultMaxBytes(t *testing.T) {
	u, _, _ := newUploader(t, testutil.SignedIn("u1"))
	assert.Equal(t, int64(5*1024*1024), u.MaxBytes())
}

func TestUploader_SubmitUnauthenticated(t *testing.T) {
	u, mockClassifier, notifier := newUploader(t, &testutil.MockSessionProvider{})

	run, err := u.Submit(context.Background(), pngFile("a.png", 10))
	assert.Nil(t, run)
	assert.ErrorIs(t, err, upload.ErrUnauthenticated)
	assert.Equal(t, 0, mockClassifier.Calls())

	last := notifier.Last()
	assert.Equal(t, "Authentication required", last.Title)
	assert.Equal(t, "Please sign in to upload and classify images", last.Description)
	assert.Equal(t, upload.VariantDestructive, last.Variant)
}

func TestUploader_SessionLookupFailure(t *testing.T) {
	sessions := &testutil.MockSessionProvider{
		CurrentUserFunc: func(ctx context.Context) (*upload.User, error) {
			return nil, errors.New("session store down")
		},
	}
	u, mockClassifier, _ := newUploader(t, sessions)

	_, err := u.Submit(context.Background(), pngFile("a.png", 10))
	assert.ErrorIs(t, err, upload.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "session store down")
	assert.Equal(t, 0, mockClassifier.Calls())
}

// The auth gate runs before validation, so an invalid file from a signed-out user
// is reported as an authentication problem.
func TestUploader_AuthBeforeValidation(t *testing.T) {
	u, _, notifier := newUploader(t, &testutil.MockSessionProvider{})

	_, err := u.Submit(context.Background(), upload.File{Name: "a.txt", Size: 1, ContentType: "text/plain"})
	assert.ErrorIs(t, err, upload.ErrUnauthenticated)
	assert.Equal(t, "Authentication required", notifier.Last().Title)
	assert.NoError(t, u.LastError())
}

func TestUploader_Validate(t *testing.T) {
	u, _, _ := newUploader(t, testutil.SignedIn("u1"))

	tests := []struct {
		name    string
		file    upload.File
		wantErr error
	}{
		{"png", pngFile("a.png", 100), nil},
		{"jpeg at limit", upload.File{Name: "a.jpg", Size: upload.DefaultMaxBytes, ContentType: "image/jpeg"}, nil},
		{"empty image", pngFile("a.png", 0), nil},
		{"text", upload.File{Name: "a.txt", Size: 10, ContentType: "text/plain; charset=utf-8"}, upload.ErrUnsupportedType},
		{"no content type", upload.File{Name: "a", Size: 10}, upload.ErrUnsupportedType},
		{"one byte over", pngFile("big.png", upload.DefaultMaxBytes+1), upload.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.Validate(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUploader_SubmitRejectsInvalidFile(t *testing.T) {
	u, mockClassifier, notifier := newUploader(t, testutil.SignedIn("u1"))

	_, err := u.Submit(context.Background(), pngFile("big.png", 6*1024*1024))
	assert.ErrorIs(t, err, upload.ErrFileTooLarge)
	assert.Equal(t, 0, mockClassifier.Calls())
	assert.Nil(t, u.Selected())
	assert.ErrorIs(t, u.LastError(), upload.ErrFileTooLarge)

	last := notifier.Last()
	assert.Equal(t, upload.VariantDestructive, last.Variant)
	assert.Equal(t, "File size exceeds the 5.0 MiB limit", last.Description)
}

func TestUploader_SubmitStartsClassification(t *testing.T) {
	u, mockClassifier, notifier := newUploader(t, testutil.SignedIn("u1"))

	run, err := u.Submit(context.Background(), pngFile("bottle.png", 204800))
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, "bottle.png", mockClassifier.LastName)
	assert.Equal(t, int64(204800), mockClassifier.LastSize)
	assert.Equal(t, classifier.StateRunning, run.State())

	selected := u.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, "bottle.png", selected.Name)

	last := notifier.Last()
	assert.Equal(t, "Image uploaded successfully", last.Title)
	assert.Equal(t, "Analyzing your waste...", last.Description)
}

func TestUploader_SecondSubmitSupersedes(t *testing.T) {
	u, _, _ := newUploader(t, testutil.SignedIn("u1"))

	first, err := u.Submit(context.Background(), pngFile("first.png", 1))
	require.NoError(t, err)
	second, err := u.Submit(context.Background(), pngFile("second.png", 2))
	require.NoError(t, err)

	_, err = first.Wait(context.Background())
	assert.ErrorIs(t, err, classifier.ErrSuperseded)
	assert.Equal(t, classifier.StateRunning, second.State())
	assert.Equal(t, "second.png", u.Selected().Name)
}

// A rejected file keeps the previous classification running.
func TestUploader_RejectionKeepsCurrentRun(t *testing.T) {
	u, _, _ := newUploader(t, testutil.SignedIn("u1"))

	run, err := u.Submit(context.Background(), pngFile("first.png", 1))
	require.NoError(t, err)

	_, err = u.Submit(context.Background(), upload.File{Name: "doc.pdf", Size: 1, ContentType: "application/pdf"})
	assert.ErrorIs(t, err, upload.ErrUnsupportedType)
	assert.Equal(t, classifier.StateRunning, run.State())
	assert.Equal(t, "first.png", u.Selected().Name)
}

func TestUploader_RemoveCancels(t *testing.T) {
	u, mockClassifier, _ := newUploader(t, testutil.SignedIn("u1"))

	run, err := u.Submit(context.Background(), pngFile("a.png", 1))
	require.NoError(t, err)

	u.Remove()
	assert.Nil(t, u.Selected())
	assert.Equal(t, 1, mockClassifier.ResetCount)

	_, err = run.Wait(context.Background())
	assert.ErrorIs(t, err, classifier.ErrCanceled)
}

func TestUploader_ClassifierFailure(t *testing.T) {
	mockClassifier := &testutil.MockClassifier{
		ClassifyFunc: func(ctx context.Context, fileName string, sizeBytes int64) (*classifier.Run, error) {
			return nil, classifier.ErrClosed
		},
	}
	u, err := upload.NewUploader(upload.Config{
		Sessions:   testutil.SignedIn("u1"),
		Classifier: mockClassifier,
	})
	require.NoError(t, err)

	_, err = u.Submit(context.Background(), pngFile("a.png", 1))
	assert.ErrorIs(t, err, classifier.ErrClosed)
	assert.Nil(t, u.Selected())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Please sign in to upload and classify images", upload.Message(upload.ErrUnauthenticated, upload.DefaultMaxBytes))
	assert.Equal(t, "Please upload an image file (JPEG, PNG, etc.)", upload.Message(upload.ErrUnsupportedType, upload.DefaultMaxBytes))
	assert.Equal(t, "File size exceeds the 1.0 MiB limit", upload.Message(upload.ErrFileTooLarge, 1<<20))
	assert.Equal(t, "boom", upload.Message(errors.New("boom"), upload.DefaultMaxBytes))
}
