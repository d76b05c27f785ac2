package submission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"service-request-form/internal/cache"
	"service-request-form/internal/form"
	"service-request-form/internal/logger"
	"service-request-form/internal/remote/client"
	"service-request-form/internal/socket"

	"github.com/gin-gonic/gin"
)

// DefaultDelay is how long SUCCESS and ERROR stay visible.
const DefaultDelay = 4 * time.Second

const (
	MsgValidation     = "Por favor, preencha a Data, o Cliente e o Montador."
	MsgDefaultSuccess = "Requisição enviada com sucesso!"
	MsgUnknownFailure = "Ocorreu um erro desconhecido."

	failurePrefix = "Falha ao enviar: "
)

var (
	ErrBusy = errors.New("submission already in progress")

	errStale = errors.New("status changed since the timer was armed")
)

type (
	Transport interface {
		Submit(ctx context.Context, payload form.Payload) (client.Result, error)
	}

	Notifier interface {
		Publish(formID string, ev socket.Event)
	}

	Timer interface {
		Stop() bool
	}

	AfterFunc func(d time.Duration, f func()) Timer

	Option func(*Pipeline)

	armedTimer struct {
		token uint64
		timer Timer
	}

	// Pipeline drives IDLE -> LOADING -> SUCCESS|ERROR -> IDLE for form
	// sessions kept in a store.
	Pipeline struct {
		store     cache.Store
		transport Transport
		notifier  Notifier

		delay     time.Duration
		now       func() time.Time
		afterFunc AfterFunc

		mu     sync.Mutex
		timers map[string]armedTimer
	}
)

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.delay = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func WithAfterFunc(f AfterFunc) Option {
	return func(p *Pipeline) { p.afterFunc = f }
}

func New(store cache.Store, transport Transport, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     store,
		transport: transport,
		delay:     DefaultDelay,
		now:       time.Now,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		timers: make(map[string]armedTimer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit validates the form, sends its payload and records the outcome in the
// session status. Transport failures never surface as errors here: they end
// up in the status message. The returned error is ErrBusy, cache.ErrNotFound
// or a store failure.
func (p *Pipeline) Submit(ctx context.Context, formID string) (*form.RequestForm, error) {
	// fn may run more than once when the store retries, so the outcome is
	// read from the committed form only
	f, err := p.store.Update(ctx, formID, func(f *form.RequestForm) error {
		if f.Status == form.StatusLoading {
			return ErrBusy
		}
		if f.Validate() != nil {
			p.transition(f, form.StatusError, MsgValidation)
			return nil
		}
		p.transition(f, form.StatusLoading, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.arm(f)
	if f.Status != form.StatusLoading {
		logger.Info("Form", f.ID, "not sent:", f.Validate())
		return f, nil
	}

	payload := f.Payload()
	result, sendErr := p.transport.Submit(ctx, payload)
	if sendErr != nil {
		var cerr *client.Error
		if errors.As(sendErr, &cerr) {
			logger.Warning("Submission of form", formID, "failed:", cerr.Detail())
		} else {
			logger.Warning("Submission of form", formID, "failed:", sendErr)
		}
	}

	// the outcome is recorded even if the caller went away, or the session
	// would stay LOADING
	f, err = p.store.Update(context.WithoutCancel(ctx), formID, func(f *form.RequestForm) error {
		if sendErr != nil {
			p.transition(f, form.StatusError, failureMessage(sendErr))
			return nil
		}

		msg := result.Message
		if msg == "" {
			msg = MsgDefaultSuccess
		}
		p.transition(f, form.StatusSuccess, msg)
		f.Reset(p.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.arm(f)

	return f, nil
}

// Forget drops the pending timer of a deleted session.
func (p *Pipeline) Forget(formID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if at, ok := p.timers[formID]; ok {
		at.timer.Stop()
		delete(p.timers, formID)
	}
}

func failureMessage(err error) string {
	desc := strings.TrimSpace(err.Error())
	if desc == "" {
		desc = MsgUnknownFailure
	}
	return failurePrefix + desc
}

func (p *Pipeline) transition(f *form.RequestForm, to form.Status, message string) {
	logger.Event("Form", f.ID, string(f.Status), "->", string(to))

	f.Status = to
	f.Message = message
	f.StatusToken++
	f.UpdatedAt = p.now()
}

// arm publishes the new status, cancels the previous auto-return timer and,
// for SUCCESS and ERROR, schedules a new one bound to the current token.
func (p *Pipeline) arm(f *form.RequestForm) {
	p.publish(f)

	p.mu.Lock()
	defer p.mu.Unlock()

	prev, ok := p.timers[f.ID]
	if ok {
		if prev.token > f.StatusToken {
			// a newer transition already armed its own timer
			return
		}
		prev.timer.Stop()
		delete(p.timers, f.ID)
	}

	if f.Status != form.StatusSuccess && f.Status != form.StatusError {
		return
	}

	formID, token := f.ID, f.StatusToken
	p.timers[formID] = armedTimer{
		token: token,
		timer: p.afterFunc(p.delay, func() { p.returnToIdle(formID, token) }),
	}
}

func (p *Pipeline) returnToIdle(formID string, token uint64) {
	p.mu.Lock()
	if at, ok := p.timers[formID]; ok && at.token == token {
		delete(p.timers, formID)
	}
	p.mu.Unlock()

	f, err := p.store.Update(context.Background(), formID, func(f *form.RequestForm) error {
		if f.StatusToken != token {
			return errStale
		}
		p.transition(f, form.StatusIdle, "")
		return nil
	})
	if err != nil {
		if !errors.Is(err, errStale) && !errors.Is(err, cache.ErrNotFound) {
			logger.Warning("Cannot return form", formID, "to idle:", err)
		}
		return
	}
	p.publish(f)
}

func (p *Pipeline) publish(f *form.RequestForm) {
	if p.notifier == nil {
		return
	}
	p.notifier.Publish(f.ID, socket.Event{Status: f.Status, Message: f.Message, Token: f.StatusToken})
}

func Inject(key string, p *Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, p)
	}
}
