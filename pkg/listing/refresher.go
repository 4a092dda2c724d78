package listing

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrSuperseded - результат fetch отброшен, потому что после него был запущен более новый.
var ErrSuperseded = errors.New("listing: fetch superseded by a newer request")

// FetchFunc загружает свежий рабочий набор. Должна уважать отмену ctx.
type FetchFunc func(ctx context.Context) ([]Row, error)

// Notifier показывает пользователю ошибку загрузки (аналог toast).
type Notifier func(ctx context.Context, err error)

// Refresher связывает контроллер с внешней загрузкой строк.
// Правило "последний запрос побеждает": новый Refresh отменяет предыдущий,
// а поздний ответ старого запроса никогда не перезапишет более новый.
// При ошибке рабочий набор не трогается.
type Refresher struct {
	mu      sync.Mutex
	ctrl    *Controller
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	notify  Notifier
	logger  *zap.Logger
}

func NewRefresher(ctrl *Controller, notify Notifier, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{ctrl: ctrl, notify: notify, logger: logger}
}

// Refresh запускает загрузку и применяет результат, если он ещё актуален.
// applied=false с ErrSuperseded означает, что ответ устарел; уведомление не отправляется.
func (r *Refresher) Refresh(ctx context.Context, fetch FetchFunc) (applied bool, err error) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	if r.cancel != nil {
		r.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.loading = true
	r.mu.Unlock()

	rows, fetchErr := fetch(fetchCtx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq {
		cancel()
		r.logger.Debug("Refresher: устаревший ответ отброшен", zap.Uint64("seq", seq), zap.Uint64("latest", r.seq))
		return false, ErrSuperseded
	}

	r.loading = false
	r.cancel = nil
	cancel()

	if fetchErr != nil {
		r.logger.Warn("Refresher: ошибка загрузки, остаются прежние данные", zap.Uint64("seq", seq), zap.Error(fetchErr))
		if r.notify != nil {
			r.notify(ctx, fetchErr)
		}
		return false, fetchErr
	}

	r.ctrl.SetRows(rows)
	r.logger.Debug("Refresher: рабочий набор обновлён", zap.Uint64("seq", seq), zap.Int("rows", len(rows)))
	return true, nil
}

// Loading - true, пока выполняется последний запущенный fetch.
func (r *Refresher) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Cancel отменяет текущую загрузку (например, при уходе со страницы).
func (r *Refresher) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.seq++
	r.loading = false
}

// View выполняет fn над контроллером под тем же замком, что и применение результатов.
func (r *Refresher) View(fn func(*Controller)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.ctrl)
}
