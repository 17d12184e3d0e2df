package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/painlog-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/forgot-password", handlers.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.ResetPassword)

	// Pain entry routes
	r.Post("/api/entries", handlers.CreateEntry)
	r.Get("/api/entries", handlers.GetEntries)
	r.Delete("/api/entries", handlers.DeleteEntry)
	r.Get("/api/entries/trend", handlers.GetTrend)

	// Profile routes
	r.Get("/api/profile", handlers.GetProfile)
	r.Put("/api/profile", handlers.UpdateProfile)
	r.Post("/api/profile/photo", handlers.UploadProfilePhoto)

	// Feedback routes (create-only from the client; no read endpoint)
	r.Post("/api/feedback", handlers.SubmitFeedback)

	// WebSocket stream of session-change events
	r.Get("/ws/session", handlers.SessionEvents)
}
