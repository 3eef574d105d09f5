package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitboard/internal/error_values"
	"github.com/limbo/habitboard/internal/session"
	"github.com/limbo/habitboard/pkg/httputil"
)

type CreateBoardRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type JoinBoardRequest struct {
	DisplayName string `json:"display_name"`
}

type RenameBoardRequest struct {
	Name string `json:"name"`
}

type AddHabitRequest struct {
	Title string `json:"title"`
}

type RenameHabitRequest struct {
	Title string `json:"title"`
}

type ArchiveHabitRequest struct {
	Archived bool `json:"archived"`
}

type MoveHabitRequest struct {
	Direction string `json:"direction"`
}

type ToggleEntryRequest struct {
	HabitID uuid.UUID `json:"habit_id"`
	Date    string    `json:"date"`
}

type ShiftWindowRequest struct {
	Days int `json:"days"`
}

type ShowArchivedRequest struct {
	Show bool `json:"show"`
}

type UpdateMemberRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// writeOpError maps the session error taxonomy onto HTTP statuses.
func writeOpError(w http.ResponseWriter, logger *slog.Logger, prefix string, err error) {
	logger.Error(prefix, slog.String("error", err.Error()))
	switch {
	case errors.Is(err, errorvalues.ErrAuthRequired):
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
	case errors.Is(err, errorvalues.ErrPermissionDenied):
		httputil.WriteErrorResponse(w, http.StatusForbidden, "operation not allowed for this member", nil)
	case errors.Is(err, errorvalues.ErrBoardNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "board doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrHabitNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrMemberNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "member doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrEntryNotFound):
		httputil.WriteErrorResponse(w, http.StatusNotFound, "entry doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrNotBoardMember):
		httputil.WriteErrorResponse(w, http.StatusForbidden, "not a member of this board", nil)
	case errors.Is(err, errorvalues.ErrValidation),
		errors.Is(err, errorvalues.ErrEmptyTitle),
		errors.Is(err, errorvalues.ErrEmptyName),
		errors.Is(err, errorvalues.ErrDateOutOfWindow),
		errors.Is(err, errorvalues.ErrConfirmRequired):
		httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, errorvalues.ErrNotConnected):
		httputil.WriteErrorResponse(w, http.StatusConflict, "no board connected", nil)
	case errors.Is(err, errorvalues.ErrHabitArchived),
		errors.Is(err, errorvalues.ErrEntryExists),
		errors.Is(err, errorvalues.ErrReorderOutOfSync):
		httputil.WriteErrorResponse(w, http.StatusConflict, err.Error(), nil)
	default:
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (BoardSessionI, *slog.Logger, bool) {
	logger := GetLoggerFromCtx(r.Context())
	identity, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("request error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return nil, logger, false
	}
	return s.sessions.Session(r.Context(), identity), logger, true
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Second*10)
}

func (s *Server) CreateBoard(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req CreateBoardRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create board error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.CreateBoard(ctx, session.CreateBoardRequest{
		Name:        req.Name,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeOpError(w, logger, "create board error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, sess.View())
	logger.Info("board created")
}

func (s *Server) JoinBoard(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	boardID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("join board error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid board id in path value", nil)
		return
	}
	var req JoinBoardRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("join board error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.Join(ctx, session.JoinBoardRequest{
		BoardID:     boardID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeOpError(w, logger, "join board error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("board joined")
}

func (s *Server) ConnectBoard(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	boardID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("connect error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid board id in path value", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.Connect(ctx, boardID)
	if err != nil {
		writeOpError(w, logger, "connect error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("board connected")
}

func (s *Server) GetBoard(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
}

func (s *Server) SyncBoard(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err := sess.Reload(ctx)
	if err != nil {
		writeOpError(w, logger, "sync error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
}

func (s *Server) RenameBoard(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req RenameBoardRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("rename board error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.RenameBoard(ctx, req.Name)
	if err != nil {
		writeOpError(w, logger, "rename board error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("board renamed")
}

func (s *Server) AddHabit(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req AddHabitRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.AddHabit(ctx, req.Title)
	if err != nil {
		writeOpError(w, logger, "add habit error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, sess.View())
	logger.Info("habit added")
}

func (s *Server) RenameHabit(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("rename habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req RenameHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("rename habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.RenameHabit(ctx, habitID, req.Title)
	if err != nil {
		writeOpError(w, logger, "rename habit error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("habit renamed")
}

func (s *Server) ArchiveHabit(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("archive habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req ArchiveHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("archive habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.SetHabitArchived(ctx, habitID, req.Archived)
	if err != nil {
		writeOpError(w, logger, "archive habit error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("habit archive state changed")
}

func (s *Server) MoveHabit(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("move habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req MoveHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("move habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	var dir session.Direction
	switch req.Direction {
	case "up":
		dir = session.MoveUp
	case "down":
		dir = session.MoveDown
	default:
		logger.Error("move habit error: invalid direction")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "direction must be up or down", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.MoveHabit(ctx, habitID, dir)
	if err != nil {
		writeOpError(w, logger, "move habit error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("habit moved")
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("habit deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"
	ctx, cancel := opContext()
	defer cancel()
	err = sess.DeleteHabit(ctx, habitID, confirmed)
	if err != nil {
		writeOpError(w, logger, "habit deletion error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("habit deleted")
}

func (s *Server) ToggleEntry(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req ToggleEntryRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("toggle entry error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.ToggleEntry(ctx, req.HabitID, req.Date)
	if err != nil {
		writeOpError(w, logger, "toggle entry error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("entry toggled")
}

func (s *Server) ShiftWindow(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req ShiftWindowRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("shift window error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.ShiftWindow(ctx, req.Days)
	if err != nil {
		writeOpError(w, logger, "shift window error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
}

func (s *Server) ResetWindow(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err := sess.ResetWindow(ctx)
	if err != nil {
		writeOpError(w, logger, "reset window error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
}

func (s *Server) SetShowArchived(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req ShowArchivedRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("show archived error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.SetShowArchived(ctx, req.Show)
	if err != nil {
		writeOpError(w, logger, "show archived error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
}

func (s *Server) UpdateMember(w http.ResponseWriter, r *http.Request) {
	sess, logger, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update member error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid member id in path value", nil)
		return
	}
	var req UpdateMemberRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update member error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := opContext()
	defer cancel()
	err = sess.UpdateMember(ctx, memberID, session.MemberUpdate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeOpError(w, logger, "update member error", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sess.View())
	logger.Info("member updated")
}

func (s *Server) Disconnect(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	identity, err := GetIdentityFromContext(r)
	if err != nil {
		logger.Error("disconnect error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	sess := s.sessions.Session(r.Context(), identity)
	err = sess.Disconnect()
	if err != nil {
		writeOpError(w, logger, "disconnect error", err)
		return
	}
	s.sessions.Drop(identity)
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"disconnected": true})
	logger.Info("session disconnected")
}
