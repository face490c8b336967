package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/pkg/testutil"
	"github.com/FrenchMajesty/waste-classifier/upload"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type recorder struct {
	mu   sync.Mutex
	runs []*classifier.Run
	seen []string
}

func (r *recorder) handle(f upload.File, run *classifier.Run) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	r.seen = append(r.seen, f.Name)
}

func (r *recorder) snapshot() ([]string, []*classifier.Run) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...), append([]*classifier.Run(nil), r.runs...)
}

func newTestWatcher(t *testing.T, duration time.Duration) (*Watcher, *recorder, string) {
	t.Helper()
	dir := t.TempDir()

	sim, err := classifier.NewSimulator(classifier.Config{TickInterval: time.Millisecond, Duration: duration})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sim.Close() })

	uploader, err := upload.NewUploader(upload.Config{
		Sessions:   testutil.SignedIn("u1"),
		Classifier: sim,
	})
	require.NoError(t, err)

	rec := &recorder{}
	w, err := New(Config{
		Dir:       dir,
		Submitter: uploader,
		Handler:   rec.handle,
		Debounce:  20 * time.Millisecond,
	})
	require.NoError(t, err)
	return w, rec, dir
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, append(append([]byte{}, pngHeader...), make([]byte, 64)...), 0644))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Dir: t.TempDir()})
	assert.Error(t, err)

	_, err = New(Config{Dir: filepath.Join(t.TempDir(), "missing"), Submitter: nopSubmitter{}})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.png")
	writePNG(t, file)
	_, err = New(Config{Dir: file, Submitter: nopSubmitter{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

type nopSubmitter struct{}

func (nopSubmitter) Submit(ctx context.Context, f upload.File) (*classifier.Run, error) {
	return nil, nil
}

func (nopSubmitter) Remove() {}

func TestWatcher_ClassifiesDroppedImage(t *testing.T) {
	w, rec, dir := newTestWatcher(t, 10*time.Millisecond)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writePNG(t, filepath.Join(dir, "bottle.png"))

	require.Eventually(t, func() bool {
		seen, _ := rec.snapshot()
		return len(seen) > 0
	}, 5*time.Second, 10*time.Millisecond)

	seen, runs := rec.snapshot()
	assert.Equal(t, "bottle.png", seen[0])

	res, err := runs[len(runs)-1].Wait(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Type)
}

func TestWatcher_IgnoresNonImages(t *testing.T) {
	w, rec, dir := newTestWatcher(t, 10*time.Millisecond)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.png"), pngHeader, 0644))

	time.Sleep(200 * time.Millisecond)
	seen, _ := rec.snapshot()
	assert.Empty(t, seen)
}

func TestWatcher_NewerDropSupersedes(t *testing.T) {
	w, rec, dir := newTestWatcher(t, time.Hour)
	require.NoError(t, w.Start(context.Background()))

	writePNG(t, filepath.Join(dir, "first.png"))
	require.Eventually(t, func() bool {
		seen, _ := rec.snapshot()
		return len(seen) > 0
	}, 5*time.Second, 10*time.Millisecond)

	writePNG(t, filepath.Join(dir, "second.png"))
	require.Eventually(t, func() bool {
		seen, _ := rec.snapshot()
		return seen[len(seen)-1] == "second.png"
	}, 5*time.Second, 10*time.Millisecond)

	seen, runs := rec.snapshot()
	assert.Equal(t, "first.png", seen[0])
	_, err := runs[0].Wait(context.Background())
	assert.ErrorIs(t, err, classifier.ErrSuperseded)

	w.Stop()
	_, err = runs[len(runs)-1].Wait(context.Background())
	assert.ErrorIs(t, err, classifier.ErrCanceled)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, _, _ := newTestWatcher(t, time.Hour)
	assert.NotPanics(t, w.Stop)
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	w, _, dir := newTestWatcher(t, time.Hour)
	require.NoError(t, os.Remove(dir))

	err := w.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after a failed Start")
	}
}
