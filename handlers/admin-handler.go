package handlers

import (
	"encoding/json"
	"net/http"

	"taskmanager/logging"
	"taskmanager/services"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	service *services.AdminService
}

func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Stats())
}

func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ListUsers())
}

func (h *AdminHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ListAllTasks())
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if err := h.service.DeleteUser(userID); err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: ADMIN_USER_DELETED, Description: Admin deleted user %s", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	if err := h.service.DeleteTask(taskID); err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: ADMIN_TASK_DELETED, Description: Admin deleted task %s", taskID)
	w.WriteHeader(http.StatusNoContent)
}
