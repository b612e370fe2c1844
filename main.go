package main

import (
	"fmt"
	"net/http"

	"taskmanager/config"
	"taskmanager/handlers"
	"taskmanager/logging"
	"taskmanager/services"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("taskmanager", "logs/taskmanager.log")
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Failed to load configuration: %v", err)
	}

	logging.InitLogger("taskmanager", cfg.LogFilePath)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting local task API server...")

	store := services.NewStore()
	authService := services.NewAuthService(store, cfg.JWTSecret)
	taskService := services.NewTaskService(store)
	categoryService := services.NewCategoryService(store)
	adminService := services.NewAdminService(store)

	if cfg.AdminPassword != "" {
		if _, err := authService.EnsureAdmin(cfg.AdminPassword); err != nil {
			logging.Logger.Fatalf("Event ID: ADMIN_SEED_FAILED, Description: Failed to seed admin account: %v", err)
		}
		logging.Logger.Info("Event ID: ADMIN_SEEDED, Description: Admin account is available")
	}

	router := handlers.NewRouter(authService, taskService, categoryService, adminService)
	corsRouter := enableCORS(router)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
