package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/ShadyM97/LearnHub-Backend/app"
	"github.com/ShadyM97/LearnHub-Backend/handlers"
	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// defaultRequestTimeout applies when the server config leaves it unset
const defaultRequestTimeout = 60 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if deps.Metrics != nil {
		r.Use(middleware.RequestMetrics(deps.Metrics))
	}
	r.Use(middleware.RequestLogger(deps.Logger.Named("http")))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var db *sql.DB
	if deps.DB != nil {
		db = deps.DB.DB
	}
	var redisPing handlers.Pinger
	if deps.Relay != nil {
		redisPing = deps.Relay
	}

	health := handlers.NewHealthHandler(db, redisPing, deps.Logger)
	users := handlers.NewUserHandler(deps.Users, deps.Logger)
	courses := handlers.NewCourseHandler(deps.Courses, deps.Logger)
	posts := handlers.NewPostHandler(deps.Posts, deps.Preview, http.HandlerFunc(deps.Hub.ServeWS), deps.Logger)
	spaces := handlers.NewSpaceHandler(deps.Spaces, deps.Logger)
	auth := deps.AuthMiddleware

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	// The WebSocket outlives any request timeout
	r.Get("/posts/ws", posts.HandleWebSocket)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))

		r.Get("/health", health.HandleHealth)
		r.Get("/health/ready", health.HandleReadiness)

		r.Route("/users", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/me", users.HandleGetMe)
			r.Put("/me", users.HandleUpdateMe)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courses.HandleList)
			r.Get("/{courseID}", courses.HandleGet)

			r.With(auth.RequireAuth, auth.RequireRole(models.RoleTeacher)).Get("/my/teacher", courses.HandleListMine)
			r.With(auth.RequireAuth, auth.RequireRole(models.RoleStudent)).Get("/my/student", courses.HandleListEnrolled)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Use(auth.RequireRole(models.RoleTeacher))
				r.Post("/", courses.HandleCreate)
				r.Put("/{courseID}", courses.HandleUpdate)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.With(auth.OptionalAuth).Get("/", posts.HandleFeed)
			r.Get("/utils/link-preview", posts.HandleLinkPreview)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", posts.HandleCreate)
				r.Put("/{postID}", posts.HandleUpdate)
				r.Delete("/{postID}", posts.HandleDelete)
				r.Post("/{postID}/like", posts.HandleLikePost)
				r.Post("/{postID}/comments", posts.HandleAddComment)
				r.Post("/comments/{commentID}/like", posts.HandleLikeComment)
			})
		})

		r.Route("/spaces", func(r chi.Router) {
			r.Get("/{spaceID}/threads", spaces.HandleThreads)
			r.Get("/threads/{threadID}/messages", spaces.HandleMessages)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Get("/", spaces.HandleList)
				r.Post("/", spaces.HandleCreate)
				r.Post("/{spaceID}/join", spaces.HandleJoin)
				r.Post("/{spaceID}/threads", spaces.HandleCreateThread)
				r.Post("/threads/{threadID}/messages", spaces.HandleCreateMessage)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}
