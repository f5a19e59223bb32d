package infra

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

func newTestSQLite(t *testing.T) *sqliteStore {
	t.Helper()
	st, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "zara.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st.(*sqliteStore)
}

func strPtr(s string) *string { return &s }

type userRow struct {
	username  sql.NullString
	firstName string
	lastName  sql.NullString
}

func loadUsers(t *testing.T, db *sql.DB) map[int64]userRow {
	t.Helper()
	rows, err := db.Query(`SELECT telegram_id, username, first_name, last_name FROM telegram_users`)
	if err != nil {
		t.Fatalf("select users: %v", err)
	}
	defer rows.Close()

	out := map[int64]userRow{}
	for rows.Next() {
		var id int64
		var u userRow
		if err := rows.Scan(&id, &u.username, &u.firstName, &u.lastName); err != nil {
			t.Fatalf("scan user: %v", err)
		}
		out[id] = u
	}
	return out
}

func loadConversations(t *testing.T, db *sql.DB) []ports.ConversationRecord {
	t.Helper()
	rows, err := db.Query(`SELECT telegram_user_id, message, role FROM conversations ORDER BY id`)
	if err != nil {
		t.Fatalf("select conversations: %v", err)
	}
	defer rows.Close()

	var out []ports.ConversationRecord
	for rows.Next() {
		var rec ports.ConversationRecord
		var role string
		if err := rows.Scan(&rec.TelegramUserID, &rec.Message, &role); err != nil {
			t.Fatalf("scan conversation: %v", err)
		}
		rec.Role = ports.Role(role)
		out = append(out, rec)
	}
	return out
}

func TestSQLiteStore_UpsertIsIdempotent(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	u := ports.ChatUser{TelegramID: 42, FirstName: "Asha"}
	for i := 0; i < 2; i++ {
		if err := st.UpsertUser(ctx, u); err != nil {
			t.Fatalf("UpsertUser() #%d error = %v", i, err)
		}
	}

	users := loadUsers(t, st.db)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	got := users[42]
	if got.firstName != "Asha" || got.username.Valid || got.lastName.Valid {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestSQLiteStore_UpsertLastWriteWins(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	first := ports.ChatUser{TelegramID: 7, Username: strPtr("old"), FirstName: "A", LastName: strPtr("B")}
	second := ports.ChatUser{TelegramID: 7, FirstName: "Ann"}

	if err := st.UpsertUser(ctx, first); err != nil {
		t.Fatalf("UpsertUser(first) error = %v", err)
	}
	if err := st.UpsertUser(ctx, second); err != nil {
		t.Fatalf("UpsertUser(second) error = %v", err)
	}

	got := loadUsers(t, st.db)[7]
	if got.firstName != "Ann" {
		t.Fatalf("first_name = %q", got.firstName)
	}
	if got.username.Valid || got.lastName.Valid {
		t.Fatalf("optional fields must be overwritten, not merged: %+v", got)
	}
}

func TestSQLiteStore_AppendConversationKeepsOrder(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	pair := func(id int64, q, a string) []ports.ConversationRecord {
		return []ports.ConversationRecord{
			{TelegramUserID: id, Message: q, Role: ports.RoleUser},
			{TelegramUserID: id, Message: a, Role: ports.RoleAssistant},
		}
	}

	if err := st.AppendConversation(ctx, pair(42, "I feel anxious.", "Acha, thoda mujhe or btao.")); err != nil {
		t.Fatalf("AppendConversation() error = %v", err)
	}
	if err := st.AppendConversation(ctx, pair(42, "work meetings", "I see.")); err != nil {
		t.Fatalf("AppendConversation() error = %v", err)
	}

	got := loadConversations(t, st.db)
	want := append(pair(42, "I feel anxious.", "Acha, thoda mujhe or btao."), pair(42, "work meetings", "I see.")...)
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSQLiteStore_AppendConversationRejectsUnknownRole(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	err := st.AppendConversation(ctx, []ports.ConversationRecord{
		{TelegramUserID: 1, Message: "ok", Role: ports.RoleUser},
		{TelegramUserID: 1, Message: "bad", Role: ports.Role("tutor")},
	})
	if err == nil {
		t.Fatalf("expected check constraint error")
	}
	if n := len(loadConversations(t, st.db)); n != 0 {
		t.Fatalf("failed pair must not be partially written, got %d rows", n)
	}
}
