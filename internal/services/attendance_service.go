package services

import (
	"context"
	"fmt"

	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/kanban"
	"github.com/noxus/leadops/internal/models"
)

// BoardSize is how many leads the attendance board loads.
const BoardSize = 100

// AttendanceService drives the kanban board of store users.
type AttendanceService struct {
	leads *LeadService
	guard *kanban.Guard
}

func NewAttendanceService(leads *LeadService, guard *kanban.Guard) *AttendanceService {
	return &AttendanceService{leads: leads, guard: guard}
}

// Board loads the first BoardSize leads in scope onto a board.
func (s *AttendanceService) Board(ctx context.Context, v *auth.Viewer, token string) (*kanban.Board, error) {
	page, err := s.leads.GetLeads(ctx, v, token, LeadFilter{Page: 1, PerPage: BoardSize})
	if err != nil {
		return nil, err
	}
	return kanban.NewBoard(page.Leads, s.guard), nil
}

// MarkAttended moves one lead to the attended column by registering a
// contact of type tipo. The lead is re-read first so that access and its
// current state are checked against the upstream.
func (s *AttendanceService) MarkAttended(ctx context.Context, v *auth.Viewer, token string, id int64, tipo kanban.ContactType) (kanban.Notification, *kanban.Board, error) {
	if tipo == "" {
		tipo = kanban.ContactManual
	}
	if !tipo.Valid() {
		err := fmt.Errorf("%w: %s", ErrInvalidContact, tipo)
		return kanban.Notification{Level: kanban.LevelError, Message: kanban.MsgUpdateFailed}, nil, err
	}

	lead, err := s.leads.GetLead(ctx, v, token, id)
	if err != nil {
		return kanban.Notification{Level: kanban.LevelError, Message: kanban.MsgUpdateFailed}, nil, err
	}

	board := kanban.NewBoard([]models.Lead{*lead}, s.guard)
	n, err := board.MarkAttended(ctx, id, func(ctx context.Context, l models.Lead) error {
		return s.leads.RegisterContato(ctx, v, token, ContatoInput{
			LeadID:      l.ID.Int64(),
			TipoContato: string(tipo),
			Observacao:  tipo.Observacao(),
		})
	})
	return n, board, err
}
