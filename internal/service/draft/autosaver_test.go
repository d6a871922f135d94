package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain/models"
)

// recordingDrafts captures every save in order
type recordingDrafts struct {
	mu    sync.Mutex
	saves []models.Draft
}

func (r *recordingDrafts) Load(ctx context.Context, toolID string) (*models.Draft, error) {
	return nil, nil
}

func (r *recordingDrafts) Save(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, *draft)
	return draft, nil
}

func (r *recordingDrafts) List(ctx context.Context) ([]models.Draft, error) {
	return nil, nil
}

func (r *recordingDrafts) snapshot() []models.Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Draft(nil), r.saves...)
}

func TestAutosaver_DebouncesToLatest(t *testing.T) {
	rec := &recordingDrafts{}
	a := NewAutosaver(rec, 30*time.Millisecond, discardLogger())
	defer a.Stop()

	for _, content := range []string{"a", "ab", "abc"} {
		a.Touch(models.Draft{ToolID: "cv-builder", Content: content})
	}
	assert.True(t, a.Pending("cv-builder"))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "abc", rec.snapshot()[0].Content)
	assert.False(t, a.Pending("cv-builder"))

	// No trailing duplicate write
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestAutosaver_ToolsDebounceIndependently(t *testing.T) {
	rec := &recordingDrafts{}
	a := NewAutosaver(rec, 20*time.Millisecond, discardLogger())
	defer a.Stop()

	a.Touch(models.Draft{ToolID: "cv-builder", Content: "cv"})
	a.Touch(models.Draft{ToolID: "blog-post", Content: "blog"})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	byTool := map[string]string{}
	for _, d := range rec.snapshot() {
		byTool[d.ToolID] = d.Content
	}
	assert.Equal(t, map[string]string{"cv-builder": "cv", "blog-post": "blog"}, byTool)
}

func TestAutosaver_Flush(t *testing.T) {
	rec := &recordingDrafts{}
	a := NewAutosaver(rec, time.Hour, discardLogger())
	defer a.Stop()

	a.Touch(models.Draft{ToolID: "cv-builder", Content: "now"})
	a.Flush()

	saves := rec.snapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, "now", saves[0].Content)
	assert.False(t, a.Pending("cv-builder"))
}

func TestAutosaver_StopFlushesAndIgnoresLaterTouches(t *testing.T) {
	rec := &recordingDrafts{}
	a := NewAutosaver(rec, time.Hour, discardLogger())

	a.Touch(models.Draft{ToolID: "cv-builder", Content: "pending"})
	a.Stop()
	a.Touch(models.Draft{ToolID: "cv-builder", Content: "after stop"})

	saves := rec.snapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, "pending", saves[0].Content)
	assert.False(t, a.Pending("cv-builder"))
}

// blockingDrafts holds the first save until release is closed
type blockingDrafts struct {
	recordingDrafts
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingDrafts) Save(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.entered)
		<-b.release
	}
	return b.recordingDrafts.Save(ctx, draft)
}

func TestAutosaver_LaterSnapshotLandsLast(t *testing.T) {
	rec := &blockingDrafts{entered: make(chan struct{}), release: make(chan struct{})}
	a := NewAutosaver(rec, 10*time.Millisecond, discardLogger())
	defer a.Stop()

	a.Touch(models.Draft{ToolID: "cv-builder", Content: "old"})
	<-rec.entered // timer fired and its write is in flight

	a.Touch(models.Draft{ToolID: "cv-builder", Content: "new"})
	flushed := make(chan struct{})
	go func() {
		a.Flush()
		close(flushed)
	}()

	close(rec.release)
	<-flushed

	// The second timer may win the write instead of Flush
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "new", rec.snapshot()[1].Content)
}

func TestAutosaver_DropsOutOfOrderSnapshot(t *testing.T) {
	rec := &recordingDrafts{}
	a := NewAutosaver(rec, time.Hour, discardLogger())
	defer a.Stop()

	older := snapshot{draft: &models.Draft{ToolID: "cv-builder", Content: "older"}, seq: 1}
	newer := snapshot{draft: &models.Draft{ToolID: "cv-builder", Content: "newer"}, seq: 2}
	a.save(newer)
	a.save(older)

	saves := rec.snapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, "newer", saves[0].Content)
}

func TestAutosaver_Discard(t *testing.T) {
	rec := &recordingDrafts{}
	a := NewAutosaver(rec, time.Hour, discardLogger())

	a.Touch(models.Draft{ToolID: "cv-builder", Content: "before replace"})
	a.mu.Lock()
	taken := a.pending["cv-builder"].snapshot
	a.mu.Unlock()

	a.Discard()
	assert.False(t, a.Pending("cv-builder"))

	// A snapshot taken before the discard never reaches storage
	a.save(taken)

	a.Touch(models.Draft{ToolID: "cv-builder", Content: "after replace"})
	a.Stop()

	saves := rec.snapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, "after replace", saves[0].Content)
}
