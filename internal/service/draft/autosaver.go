package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quill/internal/domain/models"
	"quill/internal/domain/services"
)

// Autosaver debounces draft writes per tool. Every Touch restarts the quiet
// period; only the latest snapshot is written once it elapses.
type Autosaver struct {
	drafts services.DraftService
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex // protects the fields below
	pending map[string]*pendingDraft
	written map[string]uint64 // Highest sequence handed to the service, per tool
	seq     uint64
	epoch   uint64 // Bumped by Discard; older snapshots are dropped
	stopped bool

	saving sync.Mutex // serializes writes; taken before mu
	wg     sync.WaitGroup
}

// snapshot is one draft version ordered by seq
type snapshot struct {
	draft *models.Draft
	seq   uint64
	epoch uint64
}

// pendingDraft is a snapshot waiting for its quiet period to elapse
type pendingDraft struct {
	snapshot
	timer *time.Timer
}

// NewAutosaver creates an autosaver. A non-positive delay uses one second.
func NewAutosaver(drafts services.DraftService, delay time.Duration, logger *slog.Logger) *Autosaver {
	if delay <= 0 {
		delay = time.Second
	}
	return &Autosaver{
		drafts:  drafts,
		delay:   delay,
		logger:  logger,
		pending: make(map[string]*pendingDraft),
		written: make(map[string]uint64),
	}
}

// Touch schedules draft to be saved after the quiet period, replacing any
// snapshot already pending for the same tool.
func (a *Autosaver) Touch(draft models.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	a.seq++
	snap := snapshot{draft: &draft, seq: a.seq, epoch: a.epoch}

	toolID := draft.ToolID
	if p, ok := a.pending[toolID]; ok {
		p.snapshot = snap
		if p.timer.Stop() {
			p.timer.Reset(a.delay)
			return
		}
		// Timer already fired; its save is racing for the lock. Schedule anew.
	}

	p := &pendingDraft{snapshot: snap}
	a.pending[toolID] = p
	a.wg.Add(1)
	p.timer = time.AfterFunc(a.delay, func() {
		defer a.wg.Done()
		a.fire(toolID, p)
	})
}

// Pending reports whether toolID has an unsaved snapshot
func (a *Autosaver) Pending(toolID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[toolID]
	return ok
}

func (a *Autosaver) fire(toolID string, p *pendingDraft) {
	a.mu.Lock()
	if a.pending[toolID] != p {
		a.mu.Unlock()
		return
	}
	delete(a.pending, toolID)
	snap := p.snapshot
	a.mu.Unlock()

	a.save(snap)
}

// Flush writes every pending snapshot immediately
func (a *Autosaver) Flush() {
	a.mu.Lock()
	snaps := make([]snapshot, 0, len(a.pending))
	for toolID, p := range a.pending {
		if p.timer.Stop() {
			a.wg.Done()
		}
		snaps = append(snaps, p.snapshot)
		delete(a.pending, toolID)
	}
	a.mu.Unlock()

	for _, snap := range snaps {
		a.save(snap)
	}
}

// Discard drops every pending snapshot unsaved. It returns once any write
// already in progress has finished, so a wholesale replace of the stored
// drafts that follows is not overwritten by an earlier edit.
func (a *Autosaver) Discard() {
	a.saving.Lock()
	defer a.saving.Unlock()
	a.mu.Lock()
	defer a.mu.Unlock()

	for toolID, p := range a.pending {
		if p.timer.Stop() {
			a.wg.Done()
		}
		delete(a.pending, toolID)
	}
	a.epoch++
	a.logger.Debug("pending drafts discarded")
}

// Stop flushes pending snapshots and ignores further touches
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()

	a.Flush()
	a.wg.Wait()
}

// save writes snap unless a newer snapshot of the same tool was already
// written or a Discard happened after it was taken.
func (a *Autosaver) save(snap snapshot) {
	a.saving.Lock()
	defer a.saving.Unlock()

	toolID := snap.draft.ToolID
	a.mu.Lock()
	stale := snap.epoch != a.epoch || snap.seq <= a.written[toolID]
	if !stale {
		a.written[toolID] = snap.seq
	}
	a.mu.Unlock()
	if stale {
		a.logger.Debug("stale draft snapshot dropped", "tool_id", toolID, "seq", snap.seq)
		return
	}

	// Detached from any request; the save must outlive the edit that caused it.
	if _, err := a.drafts.Save(context.Background(), snap.draft); err != nil {
		a.logger.Error("autosave failed", "tool_id", toolID, "error", err)
	}
}
