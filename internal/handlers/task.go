package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"todoapp/internal/db"
	"todoapp/internal/models"
)

const taskAPIPrefix = "/tasks/api/"

/*
handles routes:
- GET /tasks/api/ - list all tasks
- POST /tasks/api/ - create a new task
- GET/PUT/PATCH/DELETE /tasks/api/{id} - forwarded to HandleTaskByID
*/
func (h *Handler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	if strings.TrimPrefix(r.URL.Path, taskAPIPrefix) != "" {
		h.HandleTaskByID(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listTasks(w, r)
	case http.MethodPost:
		h.createTask(w, r)
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context())
	if err != nil {
		log.Printf("Error fetching tasks: %v", err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	log.Printf("Fetched %d tasks", len(tasks))
	sendJSON(w, http.StatusOK, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		sendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var input models.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	id, err := h.Tasks.Create(r.Context(), input)
	if err != nil {
		if models.IsValidation(err) {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error creating task: %v", err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching created task %d: %v", id, err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Printf("Task created: id=%d title=%q", task.ID, task.Title)
	w.Header().Set("Location", taskAPIPrefix+strconv.FormatInt(id, 10))
	sendJSON(w, http.StatusCreated, task)
}

/*
routes:
- GET /tasks/api/{id},
- PUT/PATCH /tasks/api/{id},
- DELETE /tasks/api/{id}
*/
func (h *Handler) HandleTaskByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, taskAPIPrefix)
	taskID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || taskID <= 0 {
		sendError(w, "task_id must be a positive integer", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getTaskByID(w, r, taskID)
	case http.MethodPut, http.MethodPatch:
		h.updateTaskByID(w, r, taskID)
	case http.MethodDelete:
		h.deleteTaskByID(w, r, taskID)
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getTaskByID(w http.ResponseWriter, r *http.Request, taskID int64) {
	task, err := h.Tasks.GetByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.Printf("Task not found with ID %d", taskID)
			sendError(w, "Task not found", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching task %d: %v", taskID, err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, task)
}

func (h *Handler) updateTaskByID(w http.ResponseWriter, r *http.Request, taskID int64) {
	if !isJSONContentType(r) {
		sendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var input models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.Tasks.Update(r.Context(), taskID, input); err != nil {
		switch {
		case errors.Is(err, db.ErrNoFields):
			sendError(w, "No fields supplied", http.StatusBadRequest)
		case models.IsValidation(err):
			sendError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error updating task %d: %v", taskID, err)
			sendError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	// an update on an absent id affects zero rows and reports success, so the
	// re-fetch is what detects the missing task
	task, err := h.Tasks.GetByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.Printf("Task not found for update: ID %d", taskID)
			sendError(w, "Task not found", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching updated task %d: %v", taskID, err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Printf("Task updated: id=%d", taskID)
	sendJSON(w, http.StatusOK, task)
}

func (h *Handler) deleteTaskByID(w http.ResponseWriter, r *http.Request, taskID int64) {
	// the store treats deleting a missing id as a no-op; the 404 decision
	// lives here
	if _, err := h.Tasks.GetByID(r.Context(), taskID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.Printf("Task not found for deletion: ID %d", taskID)
			sendError(w, "Task not found", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching task %d: %v", taskID, err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.Tasks.Delete(r.Context(), taskID); err != nil {
		log.Printf("Error deleting task %d: %v", taskID, err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Printf("Task deleted: ID %d", taskID)
	sendJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
