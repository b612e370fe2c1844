package handlers

import (
	"net/http"

	"taskmanager/services"

	"github.com/gorilla/mux"
)

// NewRouter wires every route of the local API server. Shared between main
// and the handler tests.
func NewRouter(auth *services.AuthService, tasks *services.TaskService, categories *services.CategoryService, admin *services.AdminService) *mux.Router {
	authHandler := NewAuthHandler(auth)
	taskHandler := NewTaskHandler(tasks)
	categoryHandler := NewCategoryHandler(categories)
	adminHandler := NewAdminHandler(admin)

	anyRole := []string(nil)
	adminOnly := []string{"admin"}

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)

	r.HandleFunc("/api/tasks", AuthMiddleware(auth, anyRole, taskHandler.GetTasks)).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", AuthMiddleware(auth, anyRole, taskHandler.CreateTask)).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", AuthMiddleware(auth, anyRole, taskHandler.UpdateTask)).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", AuthMiddleware(auth, anyRole, taskHandler.DeleteTask)).Methods(http.MethodDelete)

	r.HandleFunc("/api/categories", AuthMiddleware(auth, anyRole, categoryHandler.GetCategories)).Methods(http.MethodGet)
	r.HandleFunc("/api/categories", AuthMiddleware(auth, anyRole, categoryHandler.CreateCategory)).Methods(http.MethodPost)
	r.HandleFunc("/api/categories/{id}", AuthMiddleware(auth, anyRole, categoryHandler.UpdateCategory)).Methods(http.MethodPut)
	r.HandleFunc("/api/categories/{id}", AuthMiddleware(auth, anyRole, categoryHandler.DeleteCategory)).Methods(http.MethodDelete)

	r.HandleFunc("/api/admin/stats", AuthMiddleware(auth, adminOnly, adminHandler.GetStats)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/users", AuthMiddleware(auth, adminOnly, adminHandler.GetUsers)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/tasks", AuthMiddleware(auth, adminOnly, adminHandler.GetAllTasks)).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/users/{id}", AuthMiddleware(auth, adminOnly, adminHandler.DeleteUser)).Methods(http.MethodDelete)
	r.HandleFunc("/api/admin/tasks/{id}", AuthMiddleware(auth, adminOnly, adminHandler.DeleteTask)).Methods(http.MethodDelete)

	return r
}
