package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/zara_bot/internal/ai"
	"github.com/Vovarama1992/zara_bot/internal/config"
	"github.com/Vovarama1992/zara_bot/internal/error_notificator"
	"github.com/Vovarama1992/zara_bot/internal/ports"
	"github.com/Vovarama1992/zara_bot/internal/telegram"
)

type UserRecorder interface {
	Record(ctx context.Context, u ports.ChatUser) error
}

type Completer interface {
	Complete(ctx context.Context, userText string) (ai.Exchange, error)
}

type ConversationRecorder interface {
	RecordExchange(ctx context.Context, telegramID int64, userText, reply string) error
}

type Alerter interface {
	Notify(ctx context.Context, a error_notificator.Alert) error
}

// Deps: внешние участники пайплайна. Archive и Alerts могут быть nil.
type Deps struct {
	Users         UserRecorder
	Completions   Completer
	Conversations ConversationRecorder
	Replies       ports.ReplySender
	Archive       ports.ExchangeArchive
	Alerts        Alerter
	Log           *zap.SugaredLogger
}

// Pipeline обрабатывает один апдейт за вызов и не хранит состояния между вызовами.
type Pipeline struct {
	deps      Deps
	log       *zap.SugaredLogger
	configErr error
	now       func() time.Time
}

var errMissingDeps = errors.New("pipeline dependencies are not wired")

// New проверяет конфиг один раз. При ошибке конфигурации пайплайн
// отвечает configuration-error на каждый вызов, не трогая внешние системы.
func New(cfg config.Config, deps Deps) *Pipeline {
	log := deps.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	err := cfg.Validate()
	if err == nil && (deps.Users == nil || deps.Completions == nil || deps.Conversations == nil || deps.Replies == nil) {
		err = errMissingDeps
	}

	return &Pipeline{
		deps:      deps,
		log:       log,
		configErr: err,
		now:       time.Now,
	}
}

func (p *Pipeline) ConfigErr() error {
	return p.configErr
}

// Handle прогоняет тело вебхука через все стадии. Ошибки стадий, кроме
// конфигурации, в ответ платформе не попадают: только в лог и в Result.
func (p *Pipeline) Handle(ctx context.Context, body []byte) Result {
	res := Result{InvocationID: uuid.NewString()}
	log := p.log.With("invocation_id", res.InvocationID)

	if p.configErr != nil {
		log.Errorw("missing required configuration", "error", p.configErr)
		res.Err = p.configErr
		return res.finish(StateConfigError)
	}

	res.enter(StateReceived)
	log.Debugw("received update", "body", string(body))

	in, err := p.validate(body)
	if err != nil {
		log.Infow("update discarded", "reason", err.Error())
		res.enter(StateDiscarded)
		return res.finish(StateAcknowledged)
	}
	res.enter(StateValidated)
	log = log.With("update_id", in.UpdateID, "telegram_id", in.TelegramID, "chat_id", in.ChatID)

	if err := p.recordUser(ctx, in); err != nil {
		log.Warnw("error storing user", "error", err)
		res.warn(err)
	}
	res.enter(StateUserRecorded)

	ex, err := p.complete(ctx, in)
	if err != nil {
		diagnosis := ai.Describe(err)
		log.Errorw("completion failed", "error", err, "diagnosis", diagnosis)
		res.Err = err
		res.enter(StateAborted)
		if p.deps.Alerts != nil {
			if aerr := p.alert(context.WithoutCancel(ctx), res.InvocationID, in, err, diagnosis); aerr != nil {
				log.Warnw("admin alert failed", "error", aerr)
				res.warn(aerr)
			}
		}
		return res.finish(StateAcknowledged)
	}
	res.enter(StateCompletionObtained)
	log.Debugw("bot reply", "reply", ex.Reply)

	// ответ уже получен: обрыв входящего соединения не должен его потерять
	ctx = context.WithoutCancel(ctx)

	if err := p.recordConversation(ctx, in, ex); err != nil {
		log.Warnw("error storing conversation", "error", err)
		res.warn(err)
	}
	res.enter(StateConversationRecorded)

	if err := p.reply(ctx, in, ex); err != nil {
		log.Errorw("telegram send failed", "error", err)
		res.warn(err)
	} else {
		res.Replied = true
	}
	res.enter(StateReplied)

	if p.deps.Archive != nil && res.Replied {
		if err := p.archive(ctx, in, ex); err != nil {
			log.Warnw("exchange archive failed", "error", err)
			res.warn(err)
		}
	}

	log.Infow("update handled", "replied", res.Replied, "warnings", len(res.Warnings))
	return res.finish(StateAcknowledged)
}

func (p *Pipeline) validate(body []byte) (telegram.Inbound, error) {
	return telegram.ParseUpdate(body)
}

func (p *Pipeline) recordUser(ctx context.Context, in telegram.Inbound) error {
	return p.deps.Users.Record(ctx, in.ChatUser())
}

func (p *Pipeline) complete(ctx context.Context, in telegram.Inbound) (ai.Exchange, error) {
	return p.deps.Completions.Complete(ctx, in.Text)
}

func (p *Pipeline) recordConversation(ctx context.Context, in telegram.Inbound, ex ai.Exchange) error {
	return p.deps.Conversations.RecordExchange(ctx, in.TelegramID, in.Text, ex.Reply)
}

func (p *Pipeline) reply(ctx context.Context, in telegram.Inbound, ex ai.Exchange) error {
	return p.deps.Replies.SendReply(ctx, in.ChatID, ex.Reply)
}

func (p *Pipeline) alert(ctx context.Context, invocationID string, in telegram.Inbound, err error, diagnosis string) error {
	return p.deps.Alerts.Notify(ctx, error_notificator.Alert{
		InvocationID: invocationID,
		TelegramID:   in.TelegramID,
		Err:          err,
		Details:      diagnosis,
	})
}

func (p *Pipeline) archive(ctx context.Context, in telegram.Inbound, ex ai.Exchange) error {
	_, err := p.deps.Archive.Save(ctx, ports.ExchangeSnapshot{
		UpdateID:   in.UpdateID,
		TelegramID: in.TelegramID,
		ChatID:     in.ChatID,
		Model:      ex.Model,
		UserText:   in.Text,
		Reply:      ex.Reply,
		RepliedAt:  p.now().UTC(),
	})
	return err
}
