package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/zara_bot/internal/webhook"
)

// апдейты Telegram много меньше; лимит только от мусора
const maxUpdateBytes = 1 << 20

type Pipeline interface {
	Handle(ctx context.Context, body []byte) webhook.Result
}

type WebhookHandler struct {
	pipeline Pipeline
	log      *logger.ZapLogger
}

func NewWebhookHandler(p Pipeline, log *logger.ZapLogger) *WebhookHandler {
	return &WebhookHandler{pipeline: p, log: log}
}

// POST /telegram-webhook
// Платформе всегда отвечаем 200 "OK", иначе Telegram повторит апдейт
// и пользователь получит второй ответ. Исключение: нет секретов.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Log(logger.LogEntry{
				Level:   "error",
				Message: "error processing webhook",
				Service: "zara_bot",
				Error:   fmt.Errorf("panic: %v", rec),
			})
			writeOK(w)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "failed to read update body", Service: "zara_bot", Error: err})
	}

	res := h.pipeline.Handle(r.Context(), body)
	if res.State == webhook.StateConfigError {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Configuration error"})
		return
	}

	writeOK(w)
}

// OPTIONS без Access-Control-Request-Method cors пропускает сюда,
// заголовки ставим сами, как для preflight
func (h *WebhookHandler) Options(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", strings.Join(corsAllowedHeaders, ", "))
	w.WriteHeader(http.StatusOK)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
