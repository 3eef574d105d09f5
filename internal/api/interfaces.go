package api

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/limbo/habitboard/internal/session"
)

type JWTServiceI interface {
	GenerateToken(identity uuid.UUID, email string) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	Identity string `json:"identity"`
	Email    string `json:"email"`
}

// BoardSessionI is the slice of the session engine the handlers drive.
type BoardSessionI interface {
	Connect(ctx context.Context, boardID uuid.UUID) error
	CreateBoard(ctx context.Context, req session.CreateBoardRequest) error
	Join(ctx context.Context, req session.JoinBoardRequest) error
	Reload(ctx context.Context) error
	RenameBoard(ctx context.Context, name string) error
	AddHabit(ctx context.Context, title string) error
	RenameHabit(ctx context.Context, habitID uuid.UUID, title string) error
	SetHabitArchived(ctx context.Context, habitID uuid.UUID, archived bool) error
	MoveHabit(ctx context.Context, habitID uuid.UUID, dir session.Direction) error
	DeleteHabit(ctx context.Context, habitID uuid.UUID, confirmed bool) error
	ToggleEntry(ctx context.Context, habitID uuid.UUID, date string) error
	UpdateMember(ctx context.Context, memberID uuid.UUID, upd session.MemberUpdate) error
	ShiftWindow(ctx context.Context, days int) error
	ResetWindow(ctx context.Context) error
	SetShowArchived(ctx context.Context, show bool) error
	Disconnect() error
	View() session.View
}

// SessionProviderI hands out the per-identity session. Implemented by
// session.Manager through ManagerProvider.
type SessionProviderI interface {
	Session(ctx context.Context, identity uuid.UUID) BoardSessionI
	Drop(identity uuid.UUID)
}

type ManagerProvider struct {
	m *session.Manager
}

func NewManagerProvider(m *session.Manager) *ManagerProvider {
	return &ManagerProvider{m: m}
}

func (p *ManagerProvider) Session(ctx context.Context, identity uuid.UUID) BoardSessionI {
	return p.m.Session(ctx, identity)
}

func (p *ManagerProvider) Drop(identity uuid.UUID) {
	p.m.Drop(identity)
}
