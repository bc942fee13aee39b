package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"deallens-dashboard/internal/config"
	"deallens-dashboard/internal/handler"
	"deallens-dashboard/internal/middleware"
)

func New(
	cfg *config.Config,
	guard *middleware.SessionGuard,
	homeHandler *handler.HomeHandler,
	authHandler *handler.AuthHandler,
	propertyHandler *handler.PropertyHandler,
	documentHandler *handler.DocumentHandler,
	analysisHandler *handler.AnalysisHandler,
	searchHandler *handler.SearchHandler,
	accountHandler *handler.AccountHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", homeHandler.Health)
	r.Get("/", homeHandler.Landing)

	// Entry screens bounce already-authenticated browsers to the dashboard.
	r.Group(func(entry chi.Router) {
		entry.Use(guard.RedirectAuthenticated)

		entry.Get("/login", authHandler.LoginForm)
		entry.Post("/login", authHandler.Login)
		entry.Get("/register", authHandler.RegisterForm)
		entry.Post("/register", authHandler.Register)
		entry.Get("/password-reset", authHandler.PasswordResetForm)
		entry.Post("/password-reset", authHandler.PasswordResetRequest)
		entry.Get("/password-reset/confirm", authHandler.PasswordResetConfirmForm)
		entry.Post("/password-reset/confirm", authHandler.PasswordResetConfirm)
	})

	r.Get("/verify-email", authHandler.VerifyEmail)

	r.Group(func(app chi.Router) {
		app.Use(guard.RequireSession)
		app.Use(middleware.Timeout(cfg.RequestTimeout))

		app.Post("/logout", authHandler.Logout)
		app.Get("/dashboard", homeHandler.Dashboard)

		app.Route("/properties", func(p chi.Router) {
			p.Get("/", propertyHandler.List)
			p.Get("/new", propertyHandler.CreateForm)
			p.Post("/new", propertyHandler.Create)
			p.Get("/{id}", propertyHandler.Detail)
			p.Get("/{id}/edit", propertyHandler.EditForm)
			p.Post("/{id}/edit", propertyHandler.Edit)
			p.Post("/{id}/delete", propertyHandler.Delete)
			p.Post("/{id}/analyze", propertyHandler.Analyze)
			p.Post("/{id}/documents", documentHandler.Upload)
		})

		app.Route("/documents", func(d chi.Router) {
			d.Get("/{id}", documentHandler.Detail)
			d.Post("/{id}/delete", documentHandler.Delete)
			d.Post("/{id}/reprocess", documentHandler.Reprocess)
			d.Get("/{id}/download", documentHandler.Download)
			d.Get("/task/{id}", documentHandler.Task)
		})

		app.Route("/analysis", func(a chi.Router) {
			a.Get("/", analysisHandler.List)
			a.Get("/{id}", analysisHandler.Detail)
			a.Post("/{id}/retry", analysisHandler.Retry)
			a.Get("/{id}/report", analysisHandler.DownloadReport)
		})

		app.Get("/search", searchHandler.Form)
		app.Post("/search", searchHandler.Search)

		app.Get("/account", accountHandler.Show)
		app.Post("/account/password", accountHandler.ChangePassword)
		app.Post("/account/resend-verification", accountHandler.ResendVerification)
	})

	return r
}
