// Package kanban holds the two-column attendance board of a store's leads.
//
// A lead moves from NotAttended to Attended optimistically, the contact is
// persisted, and the move is rolled back if persisting fails. There is no
// transition back to NotAttended other than a rollback.
package kanban

import (
	"context"
	"errors"
	"sync"

	"github.com/noxus/leadops/internal/models"
)

var (
	ErrLeadNotFound      = errors.New("lead not on board")
	ErrAlreadyAttended   = errors.New("lead already attended")
	ErrTransitionPending = errors.New("transition already in progress")
	ErrNotPending        = errors.New("no transition in progress")
)

type Column string

const (
	NotAttended Column = "nao_atendido"
	Attended    Column = "atendido"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"

	MsgAttended     = "Lead marcado como atendido."
	MsgUpdateFailed = "Erro ao atualizar lead."
	msgNotFound     = "Lead não encontrado."
	msgAlready      = "Lead já foi atendido."
	msgInFlight     = "Atualização deste lead já está em andamento."
)

// Notification is the user-facing outcome of a transition.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Card is a lead placed on the board.
type Card struct {
	Lead    models.Lead `json:"lead"`
	Pending bool        `json:"pending"`
}

// Columns is a snapshot of the board. Every lead is in exactly one column.
type Columns struct {
	NotAttended []Card `json:"naoAtendidos"`
	Attended    []Card `json:"atendidos"`
}

// PersistFunc records the contact for a lead upstream.
type PersistFunc func(ctx context.Context, lead models.Lead) error

type Board struct {
	mu      sync.Mutex
	order   []int64
	leads   map[int64]models.Lead
	column  map[int64]Column
	pending map[int64]bool
	guard   *Guard
}

// NewBoard places leads by their atendido flag, keeping their order. guard
// may be nil when the board is private to one caller.
func NewBoard(leads []models.Lead, guard *Guard) *Board {
	b := &Board{
		order:   make([]int64, 0, len(leads)),
		leads:   make(map[int64]models.Lead, len(leads)),
		column:  make(map[int64]Column, len(leads)),
		pending: make(map[int64]bool),
		guard:   guard,
	}
	for _, l := range leads {
		id := l.ID.Int64()
		if _, dup := b.leads[id]; dup {
			continue
		}
		b.order = append(b.order, id)
		b.leads[id] = l
		if l.Atendido {
			b.column[id] = Attended
		} else {
			b.column[id] = NotAttended
		}
	}
	return b
}

// Begin moves id to Attended and marks it pending.
func (b *Board) Begin(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	col, ok := b.column[id]
	switch {
	case !ok:
		return ErrLeadNotFound
	case b.pending[id]:
		return ErrTransitionPending
	case col == Attended:
		return ErrAlreadyAttended
	}

	b.column[id] = Attended
	b.pending[id] = true
	l := b.leads[id]
	l.Atendido = true
	b.leads[id] = l
	return nil
}

// Commit confirms a pending move.
func (b *Board) Commit(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pending[id] {
		return ErrNotPending
	}
	delete(b.pending, id)
	return nil
}

// Rollback reverts a pending move back to NotAttended.
func (b *Board) Rollback(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pending[id] {
		return ErrNotPending
	}
	delete(b.pending, id)
	b.column[id] = NotAttended
	l := b.leads[id]
	l.Atendido = false
	b.leads[id] = l
	return nil
}

func (b *Board) Pending(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending[id]
}

func (b *Board) Column(id int64) (Column, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.column[id]
	return c, ok
}

func (b *Board) Lead(id int64) (models.Lead, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.leads[id]
	return l, ok
}

func (b *Board) Columns() Columns {
	b.mu.Lock()
	defer b.mu.Unlock()

	cols := Columns{NotAttended: []Card{}, Attended: []Card{}}
	for _, id := range b.order {
		card := Card{Lead: b.leads[id], Pending: b.pending[id]}
		if b.column[id] == Attended {
			cols.Attended = append(cols.Attended, card)
		} else {
			cols.NotAttended = append(cols.NotAttended, card)
		}
	}
	return cols
}

// MarkAttended runs one full transition: optimistic move, persist, then
// commit or rollback. It is attempted once.
func (b *Board) MarkAttended(ctx context.Context, id int64, persist PersistFunc) (Notification, error) {
	if b.guard != nil {
		release, err := b.guard.Acquire(id)
		if err != nil {
			return failure(err), err
		}
		defer release()
	}

	if err := b.Begin(id); err != nil {
		return failure(err), err
	}

	lead, _ := b.Lead(id)
	if err := persist(ctx, lead); err != nil {
		_ = b.Rollback(id)
		return failure(err), err
	}

	_ = b.Commit(id)
	return Notification{Level: LevelSuccess, Message: MsgAttended}, nil
}

// reasoner is implemented by errors that carry a message fit for users.
type reasoner interface {
	Reason() string
}

func failure(err error) Notification {
	msg := MsgUpdateFailed
	var r reasoner
	switch {
	case errors.Is(err, ErrLeadNotFound):
		msg = msgNotFound
	case errors.Is(err, ErrAlreadyAttended):
		msg = msgAlready
	case errors.Is(err, ErrTransitionPending):
		msg = msgInFlight
	case errors.As(err, &r) && r.Reason() != "":
		msg = r.Reason()
	}
	return Notification{Level: LevelError, Message: msg}
}
