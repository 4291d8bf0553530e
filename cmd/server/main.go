package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/Priyan2307/ShopBuddy_Server/internal/config"
	"github.com/Priyan2307/ShopBuddy_Server/internal/database"
	"github.com/Priyan2307/ShopBuddy_Server/internal/fixtures"
	"github.com/Priyan2307/ShopBuddy_Server/internal/handlers"
	"github.com/Priyan2307/ShopBuddy_Server/internal/repository"
	"github.com/Priyan2307/ShopBuddy_Server/internal/services"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/logger"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo profiles and exit")
	flag.Parse()

	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	profileRepo := repository.NewProfileRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	if *seed {
		if err := fixtures.SeedDemoProfiles(context.Background(), profileRepo); err != nil {
			log.Fatalf("Seeding error: %v", err)
		}
		logger.Log.Info("Demo profiles seeded")
		return
	}

	// --- Services ---
	profileService := services.NewProfileService(profileRepo)
	pairLocks := services.NewPairLocks()
	buddyService := services.NewBuddyService(profileRepo, connectionRepo, requestRepo, pairLocks)
	chatService := services.NewChatService(profileRepo, connectionRepo, conversationRepo, pairLocks)

	// --- Handlers ---
	profileHandler := handlers.NewProfileHandler(profileService, cfg)
	buddyHandler := handlers.NewBuddyHandler(buddyService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public profile routes
	router.HandleFunc("/profiles/register", profileHandler.RegisterProfileHandler).Methods("POST")
	router.HandleFunc("/profiles/login", profileHandler.LoginHandler).Methods("POST")

	// Protected profile routes
	protectedProfileRoutes := router.PathPrefix("/profiles").Subrouter()
	protectedProfileRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedProfileRoutes.HandleFunc("/{id}", profileHandler.GetProfileHandler).Methods("GET")
	protectedProfileRoutes.HandleFunc("/{id}", profileHandler.UpdateProfileHandler).Methods("PATCH")

	// Buddy routes
	protectedBuddyRoutes := router.PathPrefix("/buddies").Subrouter()
	protectedBuddyRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protectedBuddyRoutes.HandleFunc("/candidates", buddyHandler.ListCandidatesHandler).Methods("GET")
	protectedBuddyRoutes.HandleFunc("/requests", buddyHandler.GetPendingRequestsHandler).Methods("GET")
	protectedBuddyRoutes.HandleFunc("/requests/{id}/accept", buddyHandler.AcceptRequestHandler).Methods("POST")
	protectedBuddyRoutes.HandleFunc("/requests/{id}/decline", buddyHandler.DeclineRequestHandler).Methods("POST")
	protectedBuddyRoutes.HandleFunc("/{id}/request", buddyHandler.SendRequestHandler).Methods("POST")
	protectedBuddyRoutes.HandleFunc("/{id}/report", buddyHandler.ReportBuddyHandler).Methods("POST")
	protectedBuddyRoutes.HandleFunc("", buddyHandler.GetBuddiesHandler).Methods("GET")
	protectedBuddyRoutes.HandleFunc("/{id}", buddyHandler.RemoveBuddyHandler).Methods("DELETE")

	// Chat routes
	protectedChatRoutes := router.PathPrefix("/chats").Subrouter()
	protectedChatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protectedChatRoutes.HandleFunc("", chatHandler.GetOverviewHandler).Methods("GET")
	protectedChatRoutes.HandleFunc("/{id}/messages", chatHandler.SendMessageHandler).Methods("POST")
	protectedChatRoutes.HandleFunc("/{id}/read", chatHandler.MarkReadHandler).Methods("POST")
	protectedChatRoutes.HandleFunc("/{id}/unread", chatHandler.GetUnreadCountHandler).Methods("GET")
	protectedChatRoutes.HandleFunc("/{id}", chatHandler.GetHistoryHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
