package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase"
)

type handlers struct {
	container *app.Container
}

type createTaskRequest struct {
	DueDate     *dueDate               `json:"dueDate"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    domain.Priority        `json:"priority"`
	Attachments []string               `json:"attachments"`
	Checklist   []domain.ChecklistItem `json:"todoChecklist"`
	AssignedTo  domain.Assignment      `json:"assignedTo"`
}

// updateTaskRequest has the same shape as a create; absent or empty fields
// are left unchanged.
type updateTaskRequest = createTaskRequest

type setStatusRequest struct {
	Status domain.Status `json:"status"`
}

type setChecklistRequest struct {
	Checklist []domain.ChecklistItemInput `json:"todoChecklist"`
}

func (h *handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	out, err := h.container.ListTasksUseCase().Execute(r.Context(), usecase.ListTasksInput{
		Actor:  actorOf(r),
		Status: domain.Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListTasksResponse(out))
}

func (h *handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	out, err := h.container.CreateTaskUseCase().Execute(r.Context(), usecase.CreateTaskInput{
		Actor:       actorOf(r),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate.ptr(),
		AssignedTo:  req.AssignedTo,
		Attachments: req.Attachments,
		Checklist:   req.Checklist,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskMessageResponse{
		Message: "Task created successfully",
		Task:    out.Task,
	})
}

func (h *handlers) DashboardData(w http.ResponseWriter, r *http.Request) {
	h.dashboard(w, r, domain.GlobalScope())
}

func (h *handlers) UserDashboardData(w http.ResponseWriter, r *http.Request) {
	h.dashboard(w, r, domain.UserScope(actorOf(r).ID))
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request, scope domain.Scope) {
	out, err := h.container.SummarizeUseCase().Execute(r.Context(), usecase.SummarizeInput{
		Actor: actorOf(r),
		Scope: scope,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardResponse(out.Summary))
}

func (h *handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	out, err := h.container.GetTaskUseCase().Execute(r.Context(), usecase.GetTaskInput{
		Actor:  actorOf(r),
		TaskID: mux.Vars(r)["id"],
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskView(out.Task, out.Assignees))
}

func (h *handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	out, err := h.container.UpdateTaskUseCase().Execute(r.Context(), usecase.UpdateTaskInput{
		Actor:       actorOf(r),
		TaskID:      mux.Vars(r)["id"],
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate.ptr(),
		AssignedTo:  req.AssignedTo,
		Attachments: req.Attachments,
		Checklist:   req.Checklist,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskMessageResponse{
		Message: "Task updated successfully",
		Task:    out.Task,
	})
}

func (h *handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	_, err := h.container.DeleteTaskUseCase().Execute(r.Context(), usecase.DeleteTaskInput{
		Actor:  actorOf(r),
		TaskID: mux.Vars(r)["id"],
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted successfully")
}

func (h *handlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	out, err := h.container.SetStatusUseCase().Execute(r.Context(), usecase.SetStatusInput{
		Actor:  actorOf(r),
		TaskID: mux.Vars(r)["id"],
		Status: req.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskMessageResponse{
		Message: "Task status updated successfully",
		Task:    out.Task,
	})
}

func (h *handlers) SetChecklist(w http.ResponseWriter, r *http.Request) {
	var req setChecklistRequest
	if !h.decode(w, r, &req) {
		return
	}

	out, err := h.container.SetChecklistUseCase().Execute(r.Context(), usecase.SetChecklistInput{
		Actor:     actorOf(r),
		TaskID:    mux.Vars(r)["id"],
		Checklist: req.Checklist,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskMessageResponse{
		Message: "Task checklist updated successfully",
		Task:    newTaskView(out.Task, out.Assignees),
	})
}

func (h *handlers) Workload(w http.ResponseWriter, r *http.Request) {
	out, err := h.container.ListWorkloadsUseCase().Execute(r.Context(), usecase.ListWorkloadsInput{
		Actor: actorOf(r),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	workloads := out.Workloads
	if workloads == nil {
		workloads = []domain.Workload{}
	}
	writeJSON(w, http.StatusOK, workloadResponse{Workloads: workloads})
}

// decode reads a JSON body into v. It writes a 400 response and returns
// false on malformed input.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.container.Logger.Debug("", "http", fmt.Sprintf("decode body: %v", err))
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeError writes the error's message with the status for its kind.
// Unclassified errors are logged and reported without detail.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.container.Logger.Error("", "http", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
		writeMessage(w, status, "Server error")
		return
	}
	writeMessage(w, status, err.Error())
}

func actorOf(r *http.Request) domain.Actor {
	actor, _ := ActorFromContext(r.Context())
	return actor
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger domain.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("", "http", fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond)))
		})
	}
}
