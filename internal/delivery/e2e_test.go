package delivery

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"

	"github.com/Vovarama1992/zara_bot/internal/ai"
	"github.com/Vovarama1992/zara_bot/internal/config"
	"github.com/Vovarama1992/zara_bot/internal/domain"
	"github.com/Vovarama1992/zara_bot/internal/infra"
	"github.com/Vovarama1992/zara_bot/internal/telegram"
	"github.com/Vovarama1992/zara_bot/internal/webhook"
)

const zaraReply = "Main Zara hoon, ek psychologist. Aaj aap *kaisa* feel kar rahe ho?"

// botAPI запоминает sendMessage
type botAPI struct {
	mu    sync.Mutex
	sends []url.Values
}

func (b *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	w.Header().Set("Content-Type", "application/json")
	switch strings.TrimPrefix(r.URL.Path, "/botTOKEN/") {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Zara","username":"zara_bot"}}`))
	case "sendMessage":
		b.mu.Lock()
		b.sends = append(b.sends, r.PostForm)
		b.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":555,"type":"private"},"text":"ok"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func completionAPI(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "hi, who are you?" {
			t.Errorf("unexpected completion request: %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		out, _ := json.Marshal(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": zaraReply}, "finish_reason": "stop"}},
		})
		_, _ = w.Write(out)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type relay struct {
	router http.Handler
	bot    *botAPI
	dbPath string
}

func newRelay(t *testing.T, completionStatus int) *relay {
	t.Helper()
	ctx := context.Background()

	bot := &botAPI{}
	tg := httptest.NewServer(bot)
	t.Cleanup(tg.Close)
	llm := completionAPI(t, completionStatus)

	cfg := config.Config{
		CompletionAPIKey:  "csk-test",
		CompletionBaseURL: llm.URL,
		CompletionModel:   config.DefaultCompletionModel,
		CompletionTimeout: 5 * time.Second,
		BotToken:          "TOKEN",
		SQLitePath:        filepath.Join(t.TempDir(), "zara.db"),
		WebhookPath:       config.DefaultWebhookPath,
	}

	store, err := infra.OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	sender, err := telegram.NewSender(cfg.BotToken, tg.URL+"/bot%s/%s", tg.Client())
	if err != nil {
		t.Fatalf("NewSender() error = %v", err)
	}

	p := webhook.New(cfg, webhook.Deps{
		Users: domain.NewUserRegistry(store),
		Completions: ai.NewClient(ai.Options{
			APIKey:  cfg.CompletionAPIKey,
			BaseURL: cfg.CompletionBaseURL,
			Model:   cfg.CompletionModel,
			Timeout: cfg.CompletionTimeout,
		}),
		Conversations: domain.NewConversationService(store),
		Replies:       sender,
	})

	h := NewWebhookHandler(p, logger.NewZapLogger(zap.NewNop().Sugar()))
	return &relay{router: NewRouter(h, cfg.WebhookPath), bot: bot, dbPath: cfg.SQLitePath}
}

func (r *relay) post(t *testing.T, body string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, config.DefaultWebhookPath, strings.NewReader(body)))
	return rec.Code, rec.Body.String()
}

func (r *relay) query(t *testing.T, q string, dest ...any) {
	t.Helper()
	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if err := db.QueryRow(q).Scan(dest...); err != nil {
		t.Fatalf("%s: %v", q, err)
	}
}

const ashaUpdate = `{"update_id":9001,"message":{"message_id":3,"date":1700000000,
	"from":{"id":101,"is_bot":false,"first_name":"Asha","username":"asha_k"},
	"chat":{"id":555,"type":"private"},"text":"hi, who are you?"}}`

func TestRelay_TextMessageEndToEnd(t *testing.T) {
	r := newRelay(t, http.StatusOK)

	code, body := r.post(t, ashaUpdate)
	if code != http.StatusOK || body != "OK" {
		t.Fatalf("got %d %q", code, body)
	}

	r.bot.mu.Lock()
	sends := r.bot.sends
	r.bot.mu.Unlock()
	if len(sends) != 1 {
		t.Fatalf("sendMessage calls = %d, want 1", len(sends))
	}
	if sends[0].Get("chat_id") != "555" || sends[0].Get("text") != zaraReply || sends[0].Get("parse_mode") != "Markdown" {
		t.Fatalf("sendMessage form = %v", sends[0])
	}

	var username, firstName string
	var lastName sql.NullString
	r.query(t, `SELECT username, first_name, last_name FROM telegram_users WHERE telegram_id = 101`, &username, &firstName, &lastName)
	if username != "asha_k" || firstName != "Asha" || lastName.Valid {
		t.Fatalf("user row = %q %q %v", username, firstName, lastName)
	}

	var firstRole, firstMsg, lastRole, lastMsg string
	r.query(t, `SELECT role, message FROM conversations WHERE telegram_user_id = 101 ORDER BY id ASC LIMIT 1`, &firstRole, &firstMsg)
	r.query(t, `SELECT role, message FROM conversations WHERE telegram_user_id = 101 ORDER BY id DESC LIMIT 1`, &lastRole, &lastMsg)
	if firstRole != "user" || firstMsg != "hi, who are you?" {
		t.Fatalf("first conversation row = %q %q", firstRole, firstMsg)
	}
	if lastRole != "assistant" || lastMsg != zaraReply {
		t.Fatalf("last conversation row = %q %q", lastRole, lastMsg)
	}
}

func TestRelay_NonTextUpdateTouchesNothing(t *testing.T) {
	r := newRelay(t, http.StatusOK)

	code, body := r.post(t, `{"update_id":9002,"message":{"message_id":4,"date":1700000000,
		"from":{"id":101,"is_bot":false,"first_name":"Asha"},"chat":{"id":555,"type":"private"},
		"photo":[{"file_id":"x","file_unique_id":"y","width":1,"height":1}]}}`)
	if code != http.StatusOK || body != "OK" {
		t.Fatalf("got %d %q", code, body)
	}

	var users int
	r.query(t, `SELECT COUNT(*) FROM telegram_users`, &users)
	if users != 0 || len(r.bot.sends) != 0 {
		t.Fatalf("users = %d, sends = %d", users, len(r.bot.sends))
	}
}

func TestRelay_CompletionFailureKeepsUserOnly(t *testing.T) {
	r := newRelay(t, http.StatusServiceUnavailable)

	code, body := r.post(t, ashaUpdate)
	if code != http.StatusOK || body != "OK" {
		t.Fatalf("got %d %q", code, body)
	}

	var users, conversations int
	r.query(t, `SELECT COUNT(*) FROM telegram_users`, &users)
	r.query(t, `SELECT COUNT(*) FROM conversations`, &conversations)
	if users != 1 || conversations != 0 {
		t.Fatalf("users = %d, conversations = %d", users, conversations)
	}
	if len(r.bot.sends) != 0 {
		t.Fatalf("no reply expected, got %d", len(r.bot.sends))
	}
}
