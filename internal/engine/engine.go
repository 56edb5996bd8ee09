package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/stats"
)

// Deps содержит зависимости движка. Source и Submitter обязательны.
type Deps struct {
	Source    QuestionSource
	Submitter SubmissionService
	History   HistoryService
	Starts    StartRecorder
	Publisher EventPublisher
	Logger    *slog.Logger
	Now       func() time.Time
}

// Engine управляет одной сессией теста и её взаимодействием с внешними сервисами.
type Engine struct {
	source    QuestionSource
	submitter SubmissionService
	history   HistoryService
	starts    StartRecorder
	publisher EventPublisher
	log       *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	sessionID  string
	session    *quiz.Session
	generating bool
	submitting bool
	timer      *ticker
}

// NewEngine создаёт движок без активной сессии.
func NewEngine(deps Deps) *Engine {
	e := &Engine{
		source:    deps.Source,
		submitter: deps.Submitter,
		history:   deps.History,
		starts:    deps.Starts,
		publisher: deps.Publisher,
		log:       deps.Logger,
		now:       deps.Now,
	}

	if e.log == nil {
		e.log = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e
}

// Generate просит источник сгенерировать тест и создаёт по нему новую сессию.
// При ошибке прежняя сессия не меняется.
func (e *Engine) Generate(ctx context.Context, videoID string) error {
	return e.fetch(ctx, videoID, e.source.GenerateQuiz)
}

// Load загружает готовый тест и создаёт по нему новую сессию.
func (e *Engine) Load(ctx context.Context, videoID string) error {
	return e.fetch(ctx, videoID, e.source.GetQuiz)
}

func (e *Engine) fetch(
	ctx context.Context,
	videoID string,
	get func(context.Context, string) (*quiz.QuestionSet, error),
) error {
	e.mu.Lock()
	if e.generating {
		e.mu.Unlock()
		return ErrGenerationInFlight
	}
	if e.submitting {
		e.mu.Unlock()
		return ErrSubmissionInFlight
	}
	e.generating = true
	e.mu.Unlock()

	e.log.Debug("fetching quiz", "video_id", videoID)

	set, err := get(ctx, videoID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.generating = false

	if err != nil {
		e.log.Warn("failed to fetch quiz", "video_id", videoID, "error", err)
		return err
	}
	if set == nil {
		e.log.Warn("empty question set", "video_id", videoID)
		return fmt.Errorf("%w: no question set for video %s", quiz.ErrInvalidQuestionSet, videoID)
	}

	if set.VideoID == "" {
		set.VideoID = videoID
	}

	session, err := quiz.NewSession(set)
	if err != nil {
		e.log.Warn("rejected question set", "video_id", videoID, "error", err)
		return err
	}

	e.stopTimerLocked()
	e.session = session
	e.sessionID = uuid.NewString()

	e.log.Debug("quiz ready", "session_id", e.sessionID, "questions", session.Len())

	return nil
}

// Begin запускает попытку: фиксирует время начала и отмечает начатый тест.
func (e *Engine) Begin(ctx context.Context) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return ErrNoSession
	}
	if e.session.Status() != quiz.StatusReady {
		e.mu.Unlock()
		return nil
	}

	e.session.Start(e.now())
	payload := e.lifecyclePayloadLocked()
	e.mu.Unlock()

	e.log.Debug("quiz started", "session_id", payload.SessionID)

	e.recordStart(ctx, payload.VideoID)
	e.publish(EventSessionStarted, payload)

	return nil
}

// Status возвращает состояние движка. Пока идёт генерация, это generating.
func (e *Engine) Status() quiz.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.generating {
		return quiz.StatusGenerating
	}
	if e.session == nil {
		return ""
	}

	return e.session.Status()
}

// View возвращает снимок текущей сессии.
func (e *Engine) View() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		if e.generating {
			return View{Status: quiz.StatusGenerating}, ErrNoSession
		}
		return View{}, ErrNoSession
	}

	s := e.session
	v := View{
		SessionID:      e.sessionID,
		VideoID:        s.QuestionSet().VideoID,
		Status:         s.Status(),
		CurrentIndex:   s.CurrentIndex(),
		Total:          s.Len(),
		Question:       s.Current(),
		Answers:        s.Answers(),
		ElapsedSeconds: s.ElapsedSeconds(),
		Progress:       s.Progress(),
		Submitting:     e.submitting,
		Questions:      s.Questions(),
	}

	if e.generating {
		v.Status = quiz.StatusGenerating
	}

	if r := s.Result(); r != nil {
		res := *r
		v.Result = &res
	}

	return v, nil
}

// SelectAnswer записывает ответ на текущий вопрос. После отправки ничего не делает.
func (e *Engine) SelectAnswer(text string) error {
	return e.withSession(func(s *quiz.Session) error {
		s.SelectAnswer(text)
		return nil
	})
}

// GoTo переходит к вопросу с индексом index.
func (e *Engine) GoTo(index int) error {
	return e.withSession(func(s *quiz.Session) error {
		return s.GoTo(index)
	})
}

// Next переходит к следующему вопросу.
func (e *Engine) Next() error {
	return e.withSession(func(s *quiz.Session) error {
		s.Next()
		return nil
	})
}

// Previous переходит к предыдущему вопросу.
func (e *Engine) Previous() error {
	return e.withSession(func(s *quiz.Session) error {
		s.Previous()
		return nil
	})
}

// HandleKey применяет клавиатурную команду.
func (e *Engine) HandleKey(key string) error {
	return e.withSession(func(s *quiz.Session) error {
		return s.HandleKey(key)
	})
}

// Tick пересчитывает прошедшее время. Возвращает false, если обновлять больше нечего.
func (e *Engine) Tick(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Submitted() {
		return false
	}

	e.session.Tick(now)

	return true
}

func (e *Engine) withSession(fn func(s *quiz.Session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}

	return fn(e.session)
}

// Validate проверяет ответы текущей сессии на полноту.
func (e *Engine) Validate() (quiz.ValidationResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return quiz.ValidationResult{}, ErrNoSession
	}

	return e.session.Validate(), nil
}

// Reset начинает попытку заново. Во время отправки не выполняется.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return ErrNoSession
	}
	if e.submitting {
		e.mu.Unlock()
		return ErrSubmissionInFlight
	}

	e.session.Reset(e.now())
	e.sessionID = uuid.NewString()
	payload := e.lifecyclePayloadLocked()
	e.mu.Unlock()

	e.log.Debug("quiz reset", "session_id", payload.SessionID)

	e.recordStart(ctx, payload.VideoID)
	e.publish(EventSessionReset, payload)

	return nil
}

// Submit отправляет ответы. Одновременно может выполняться только одна отправка.
// Неполные ответы возвращают *quiz.IncompleteError без обращения к сервису.
// При ошибке сервиса сессия остаётся без изменений, ошибка возвращается как есть.
// Пока загружается новый тест, отправка не выполняется.
func (e *Engine) Submit(ctx context.Context) (*quiz.AttemptResult, error) {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return nil, ErrNoSession
	}
	if e.generating {
		e.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	if e.submitting {
		e.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	session := e.session
	if session.Submitted() {
		e.mu.Unlock()
		return nil, quiz.ErrAlreadySubmitted
	}

	if err := session.Validate().Err(); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	submission := session.Snapshot()
	if err := quiz.CheckSubmission(session.Questions(), submission.Answers); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.submitting = true
	sessionID := e.sessionID
	e.mu.Unlock()

	e.log.Debug("submitting quiz", "session_id", sessionID, "video_id", submission.VideoID)

	resp, err := e.submitter.SubmitQuiz(ctx, submission)

	e.mu.Lock()
	e.submitting = false

	if err != nil {
		e.mu.Unlock()
		e.log.Warn("failed to submit quiz", "session_id", sessionID, "error", err)
		return nil, err
	}
	if resp == nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("empty submission response for video %s", submission.VideoID)
	}

	result := resp.Result
	e.completeResult(&result, submission)

	session.MarkSubmitted(&result)
	e.stopTimerLocked()
	e.mu.Unlock()

	e.log.Info("quiz submitted",
		"session_id", sessionID,
		"score", result.Score,
		"total", result.TotalQuestions,
		"time_taken", result.TimeTakenSeconds,
	)

	e.publish(EventAttemptSubmitted, result)

	out := result
	return &out, nil
}

// completeResult дополняет результат полями, которые сервис мог не прислать.
// Время прохождения всегда берётся из отправленного снимка.
func (e *Engine) completeResult(result *quiz.AttemptResult, submission quiz.Submission) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.VideoID == "" {
		result.VideoID = submission.VideoID
	}
	if result.SubmittedAt.IsZero() {
		result.SubmittedAt = e.now()
	}
	if result.TotalQuestions == 0 {
		result.TotalQuestions = len(submission.Answers)
	}
	result.TimeTakenSeconds = submission.TimeTakenSeconds
}

// Statistics считает статистику попыток по видео.
// Пустой videoID означает видео текущей сессии.
func (e *Engine) Statistics(ctx context.Context, videoID string) (stats.Statistics, error) {
	if e.history == nil {
		return stats.Statistics{}, errors.New("history service is not configured")
	}

	if videoID == "" {
		e.mu.Lock()
		if e.session == nil {
			e.mu.Unlock()
			return stats.Statistics{}, ErrNoSession
		}
		videoID = e.session.QuestionSet().VideoID
		e.mu.Unlock()
	}

	history, err := e.history.ListAttempts(ctx, videoID)
	if err != nil {
		return stats.Statistics{}, fmt.Errorf("failed to load history for %s: %w", videoID, err)
	}

	return stats.Aggregate(history), nil
}

// Close останавливает таймер.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimerLocked()
}

type lifecyclePayload struct {
	SessionID string    `json:"session_id"`
	VideoID   string    `json:"video_id"`
	Questions int       `json:"questions"`
	StartedAt time.Time `json:"started_at"`
}

func (e *Engine) lifecyclePayloadLocked() lifecyclePayload {
	return lifecyclePayload{
		SessionID: e.sessionID,
		VideoID:   e.session.QuestionSet().VideoID,
		Questions: e.session.Len(),
		StartedAt: e.session.StartedAt(),
	}
}

func (e *Engine) recordStart(ctx context.Context, videoID string) {
	if e.starts == nil {
		return
	}

	if err := e.starts.RecordStart(ctx, videoID); err != nil {
		e.log.Warn("failed to record quiz start", "video_id", videoID, "error", err)
	}
}

func (e *Engine) publish(eventType string, payload interface{}) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(eventType, payload); err != nil {
		e.log.Warn("failed to publish event", "type", eventType, "error", err)
	}
}
