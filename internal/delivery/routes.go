package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

var corsAllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	AllowedHeaders: corsAllowedHeaders,
}

func NewRouter(h *WebhookHandler, webhookPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(corsOptions))
	RegisterRoutes(r, h, webhookPath)
	return r
}

func RegisterRoutes(r chi.Router, h *WebhookHandler, webhookPath string) {
	// --- вебхук: любой метод, кроме OPTIONS ---
	r.HandleFunc(webhookPath, h.Handle)
	r.Options(webhookPath, h.Options)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})
}
