package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/game"
	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
	"github.com/desertthunder/morningcharge/internal/tasks"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// RoutineHandler serves a [game.Session] and its task list as JSON.
type RoutineHandler struct {
	mu      sync.Mutex
	session *game.Session
	tasks   *tasks.Store
	logger  *log.Logger
}

// NewRoutineHandler creates a handler over session and store.
func NewRoutineHandler(session *game.Session, store *tasks.Store, logger *log.Logger) *RoutineHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RoutineHandler{session: session, tasks: store, logger: logger}
}

// Register adds every route to r.
func (h *RoutineHandler) Register(r Router) {
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(h.health))
	r.Handle(http.MethodGet, "/api/tasks", http.HandlerFunc(h.listTasks))
	r.Handle(http.MethodGet, "/api/status", http.HandlerFunc(h.status))
	r.Handle(http.MethodGet, "/api/stats", http.HandlerFunc(h.stats))
	r.Handle(http.MethodGet, "/api/achievements", http.HandlerFunc(h.achievements))
	r.Handle(http.MethodPost, "/api/complete", http.HandlerFunc(h.complete))
	r.Handle(http.MethodDelete, "/tasks/{id}", http.HandlerFunc(h.deleteTask))
}

func (h *RoutineHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tasksResponse struct {
	Tasks    []models.Task       `json:"tasks"`
	Statuses []models.TaskStatus `json:"statuses"`
}

func (h *RoutineHandler) listTasks(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, tasksResponse{
		Tasks:    h.session.Tasks(),
		Statuses: h.session.TaskStatuses(),
	})
}

func (h *RoutineHandler) status(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *RoutineHandler) stats(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.session.Stats())
}

type achievementsResponse struct {
	Unlocked     int                  `json:"unlocked"`
	Total        int                  `json:"total"`
	Achievements []models.Achievement `json:"achievements"`
}

func (h *RoutineHandler) achievements(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	unlocked, total := h.session.AchievementProgress()
	writeJSON(w, http.StatusOK, achievementsResponse{
		Unlocked:     unlocked,
		Total:        total,
		Achievements: h.session.Achievements(),
	})
}

func (h *RoutineHandler) complete(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.session.Complete()
	switch {
	case errors.Is(err, shared.ErrRoutineRestDay), errors.Is(err, shared.ErrNothingToDo), errors.Is(err, shared.ErrRoutineComplete):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error("completion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "completion failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *RoutineHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	updated, err := h.tasks.Delete(r.Context(), id)
	switch {
	case errors.Is(err, shared.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, shared.ErrLastTask):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, shared.ErrRemoteDelete):
		writeError(w, http.StatusBadGateway, err.Error())
		return
	case err != nil:
		h.logger.Error("delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	h.session.SetTasks(updated)
	h.logger.Info("task deleted", "id", id, "remaining", len(updated))
	w.WriteHeader(http.StatusNoContent)
}
