package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrPending              = errors.New("a change for this secret is already in progress")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrUnknownRow           = errors.New("secret not loaded")
)

// Notification kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Notification is a transient message for the administrator.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Table is the review table of one administrator. Rows are fetched once by
// Load and every view is computed over them in memory. The lock is not held
// during backend calls; a pending mark keeps a row from being changed twice.
type Table struct {
	backend Backend

	mu      sync.Mutex
	rows    []Row
	loaded  bool
	pending map[uint]bool
	notes   []Notification
}

func NewTable(backend Backend) *Table {
	return &Table{backend: backend, pending: make(map[uint]bool)}
}

// Load replaces the rows with every secret, newest first.
func (t *Table) Load(ctx context.Context) error {
	secrets, err := t.backend.ListSecrets(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make([]Row, 0, len(secrets))
	for _, s := range secrets {
		t.rows = append(t.rows, Row{Secret: s, Pending: t.pending[s.ID]})
	}
	t.loaded = true
	return nil
}

// Loaded reports whether Load has succeeded at least once.
func (t *Table) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// View returns one page of the loaded rows.
func (t *Table) View(q Query) Page {
	t.mu.Lock()
	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)
	t.mu.Unlock()

	return buildPage(rows, q)
}

// Row returns the loaded row with id.
func (t *Table) Row(id uint) (Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return Row{}, false
	}
	return t.rows[i], true
}

// ToggleApproval flips the approval flag of id through the backend. While
// the write is in flight the row is pending. On failure the row keeps its
// previous value. Either way a notification is queued.
func (t *Table) ToggleApproval(ctx context.Context, id uint) (bool, error) {
	t.mu.Lock()
	i := t.index(id)
	if i < 0 {
		t.mu.Unlock()
		return false, ErrUnknownRow
	}
	if t.pending[id] {
		t.mu.Unlock()
		return t.rows[i].Approved, ErrPending
	}
	previous := t.rows[i].Approved
	t.setPending(id, true)
	t.mu.Unlock()

	err := t.backend.SetApproval(ctx, id, !previous)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.setPending(id, false)

	if err != nil {
		t.notify(KindError, "Failed to update approval status")
		return previous, fmt.Errorf("set approval of secret %d: %w", id, err)
	}

	if i := t.index(id); i >= 0 {
		t.rows[i].Approved = !previous
	}
	if previous {
		t.notify(KindSuccess, "Secret unapproved successfully")
	} else {
		t.notify(KindSuccess, "Secret approved successfully")
	}
	return !previous, nil
}

// Delete removes id through the backend. Unconfirmed requests are refused
// without touching the backend. On failure the row stays.
func (t *Table) Delete(ctx context.Context, id uint, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	t.mu.Lock()
	if t.index(id) < 0 {
		t.mu.Unlock()
		return ErrUnknownRow
	}
	if t.pending[id] {
		t.mu.Unlock()
		return ErrPending
	}
	t.setPending(id, true)
	t.mu.Unlock()

	err := t.backend.DeleteSecret(ctx, id)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.setPending(id, false)

	if err != nil {
		t.notify(KindError, "Failed to delete secret")
		return fmt.Errorf("delete secret %d: %w", id, err)
	}

	if i := t.index(id); i >= 0 {
		t.rows = append(t.rows[:i], t.rows[i+1:]...)
	}
	t.notify(KindSuccess, "Secret deleted successfully")
	return nil
}

// Notify queues a notification raised outside the table, such as a
// rejected request.
func (t *Table) Notify(kind, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notify(kind, msg)
}

// Notifications drains the queued notifications.
func (t *Table) Notifications() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.notes
	t.notes = nil
	return out
}

// callers hold t.mu
func (t *Table) index(id uint) int {
	for i := range t.rows {
		if t.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Table) setPending(id uint, on bool) {
	if on {
		t.pending[id] = true
	} else {
		delete(t.pending, id)
	}
	if i := t.index(id); i >= 0 {
		t.rows[i].Pending = on
	}
}

func (t *Table) notify(kind, msg string) {
	t.notes = append(t.notes, Notification{Kind: kind, Message: msg})
}
