package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"balance-backend/internal/auth"
	"balance-backend/internal/httpx"
)

type Handlers struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewHandlers(store Store, log *zap.Logger) *Handlers {
	return &Handlers{store: store, log: log, now: time.Now}
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type listResponse struct {
	Success    bool       `json:"success"`
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// List: GET /tasks
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	f := ListFilter{
		Priority:   q.Get("priority"),
		Importance: q.Get("importance"),
		DueBefore:  q.Get("due_before"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}

	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		f.Limit = v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "offset must be a number")
			return
		}
		f.Offset = v
	}

	f.Normalize()
	if err := f.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := h.store.List(r.Context(), uid, f)
	if err != nil {
		h.log.Error("list tasks failed", zap.Int64("user_id", uid), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []Task{}
	}

	httpx.WriteJSON(w, http.StatusOK, listResponse{
		Success: true,
		Tasks:   list,
		Pagination: Pagination{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: f.Offset+len(list) < total,
		},
	})
}

// Create: POST /tasks
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
		Priority    string `json:"priority"`
		Importance  string `json:"importance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		httpx.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}
	if body.Priority == "" {
		body.Priority = RankMedium
	}
	if body.Importance == "" {
		body.Importance = RankMedium
	}
	if !ValidRank(body.Priority) {
		httpx.WriteError(w, http.StatusBadRequest, "priority must be one of low, medium, high")
		return
	}
	if !ValidRank(body.Importance) {
		httpx.WriteError(w, http.StatusBadRequest, "importance must be one of low, medium, high")
		return
	}
	if body.DueDate != "" && !ValidDate(body.DueDate) {
		httpx.WriteError(w, http.StatusBadRequest, "due_date must be a YYYY-MM-DD date")
		return
	}

	t := Task{
		Title:       body.Title,
		Description: strings.TrimSpace(body.Description),
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		Importance:  body.Importance,
		Completed:   false,
		Status:      StatusNew,
	}

	created, err := h.store.Create(r.Context(), uid, t)
	if err != nil {
		h.log.Error("create task failed", zap.Int64("user_id", uid), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.log.Info("task created", zap.Int64("user_id", uid), zap.String("task_id", created.ID))
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"task":    created,
	})
}

// Update: PATCH /tasks/{id}
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "taskId is required")
		return
	}

	var u Update
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields() // unknown update fields are rejected before any write
	if err := dec.Decode(&u); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid update payload")
		return
	}
	if u.Empty() {
		httpx.WriteError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := u.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.store.Update(r.Context(), uid, id, u)
	if errors.Is(err, ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.log.Error("update task failed", zap.Int64("user_id", uid), zap.String("task_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.log.Info("task updated", zap.Int64("user_id", uid), zap.String("task_id", id))
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete: DELETE /tasks/{id}
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "taskId is required")
		return
	}

	err := h.store.Delete(r.Context(), uid, id)
	if errors.Is(err, ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.log.Error("delete task failed", zap.Int64("user_id", uid), zap.String("task_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.log.Info("task deleted", zap.Int64("user_id", uid), zap.String("task_id", id))
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

type analysisResponse struct {
	Success bool `json:"success"`
	Analysis
}

// Analyze: GET /tasks/analysis?type=priority|workload|timeline
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	typ := r.URL.Query().Get("type")
	if typ == "" {
		typ = string(AnalysisPriority)
	}
	if !ValidAnalysisType(typ) {
		httpx.WriteError(w, http.StatusBadRequest, "type must be one of priority, workload, timeline")
		return
	}

	list, err := h.store.All(r.Context(), uid)
	if err != nil {
		h.log.Error("load tasks for analysis failed", zap.Int64("user_id", uid), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result, err := Analyze(list, AnalysisType(typ), h.now())
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, analysisResponse{Success: true, Analysis: result})
}
