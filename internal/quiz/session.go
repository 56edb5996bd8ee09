package quiz

import (
	"fmt"
	"strings"
	"time"
)

// Session хранит состояние одной попытки прохождения теста.
// Количество ответов всегда равно количеству вопросов, answers[i].QuestionIndex == i.
type Session struct {
	set       *QuestionSet
	answers   []Answer
	current   int
	startedAt time.Time
	elapsed   int
	status    Status
	result    *AttemptResult
}

// NewSession создаёт сессию в состоянии ready.
func NewSession(set *QuestionSet) (*Session, error) {
	if err := CheckQuestionSet(set); err != nil {
		return nil, err
	}

	return &Session{
		set:     set,
		answers: blankAnswers(len(set.Questions)),
		status:  StatusReady,
	}, nil
}

func blankAnswers(n int) []Answer {
	answers := make([]Answer, n)
	for i := range answers {
		answers[i].QuestionIndex = i
	}

	return answers
}

// Start переводит сессию из ready в in_progress и запоминает время начала.
func (s *Session) Start(now time.Time) {
	if s.status != StatusReady {
		return
	}

	if s.startedAt.IsZero() {
		s.startedAt = now
	}
	s.status = StatusInProgress
}

// SelectAnswer записывает ответ на текущий вопрос.
// Принадлежность ответа вариантам здесь не проверяется.
func (s *Session) SelectAnswer(text string) {
	if s.status == StatusSubmitted {
		return
	}

	s.answers[s.current].SelectedAnswer = text

	if s.status == StatusReady && !s.startedAt.IsZero() {
		s.status = StatusInProgress
	}
}

// GoTo переходит к вопросу с индексом index.
func (s *Session) GoTo(index int) error {
	if index < 0 || index >= len(s.answers) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(s.answers))
	}

	s.current = index

	return nil
}

// Next переходит к следующему вопросу; на последнем ничего не делает.
func (s *Session) Next() {
	if s.current < len(s.answers)-1 {
		s.current++
	}
}

// Previous переходит к предыдущему вопросу; на первом ничего не делает.
func (s *Session) Previous() {
	if s.current > 0 {
		s.current--
	}
}

// Tick пересчитывает прошедшее время. После отправки ничего не меняет.
func (s *Session) Tick(now time.Time) {
	if s.status == StatusSubmitted || s.startedAt.IsZero() {
		return
	}

	elapsed := int(now.Sub(s.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	s.elapsed = elapsed
}

// HandleKey применяет клавиатурную команду к сессии.
// Поддерживаются left/right, цифры 1-9 для перехода и буквы a-d для выбора варианта.
func (s *Session) HandleKey(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))

	switch key {
	case KeyLeft:
		s.Previous()
		return nil
	case KeyRight:
		s.Next()
		return nil
	}

	if idx, ok := DigitToIndex(key); ok {
		return s.GoTo(idx)
	}

	if idx, ok := LetterToIndex(key); ok {
		options := s.set.Questions[s.current].Options
		if idx >= len(options) {
			return fmt.Errorf("%w: option %s of question %d", ErrOutOfRange, key, s.current+1)
		}

		s.SelectAnswer(options[idx])

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Validate проверяет ответы сессии на полноту.
func (s *Session) Validate() ValidationResult {
	return Validate(s.answers)
}

// Submit проверяет и оценивает ответы локально, фиксируя время прохождения.
func (s *Session) Submit(now time.Time) (*AttemptResult, error) {
	if s.status == StatusSubmitted {
		return nil, ErrAlreadySubmitted
	}

	if err := s.Validate().Err(); err != nil {
		return nil, err
	}

	result, err := Score(s.set.Questions, s.answers, ScoreOptions{
		VideoID:          s.set.VideoID,
		SubmittedAt:      now,
		TimeTakenSeconds: s.elapsed,
	})
	if err != nil {
		return nil, err
	}

	s.MarkSubmitted(result)

	return result, nil
}

// MarkSubmitted переводит сессию в submitted с копией результата, полученного извне.
// Прошедшее время фиксируется равным времени прохождения из результата.
func (s *Session) MarkSubmitted(result *AttemptResult) {
	if s.status == StatusSubmitted {
		return
	}

	if result != nil {
		r := *result
		s.result = &r
		s.elapsed = r.TimeTakenSeconds
	}

	s.status = StatusSubmitted
}

// Reset начинает попытку заново: пустые ответы, первый вопрос, новое время начала.
func (s *Session) Reset(now time.Time) {
	s.answers = blankAnswers(len(s.set.Questions))
	s.current = 0
	s.elapsed = 0
	s.result = nil
	s.startedAt = now
	s.status = StatusReady
}

// Snapshot возвращает копию ответов в виде данных для отправки.
func (s *Session) Snapshot() Submission {
	return Submission{
		VideoID:          s.set.VideoID,
		Answers:          s.Answers(),
		TimeTakenSeconds: s.elapsed,
	}
}

// Progress считает отвеченные вопросы.
func (s *Session) Progress() Progress {
	answered := 0
	for _, a := range s.answers {
		if strings.TrimSpace(a.SelectedAnswer) != "" {
			answered++
		}
	}

	return Progress{
		Answered: answered,
		Total:    len(s.answers),
		Percent:  Percent(answered, len(s.answers)),
	}
}

func (s *Session) Questions() []Question { return s.set.Questions }

func (s *Session) QuestionSet() *QuestionSet { return s.set }

func (s *Session) Len() int { return len(s.answers) }

func (s *Session) CurrentIndex() int { return s.current }

func (s *Session) Current() Question { return s.set.Questions[s.current] }

func (s *Session) StartedAt() time.Time { return s.startedAt }

func (s *Session) ElapsedSeconds() int { return s.elapsed }

func (s *Session) Status() Status { return s.status }

func (s *Session) Submitted() bool { return s.status == StatusSubmitted }

// Result возвращает результат отправленной попытки или nil.
func (s *Session) Result() *AttemptResult { return s.result }

// Answers возвращает копию ответов.
func (s *Session) Answers() []Answer {
	answers := make([]Answer, len(s.answers))
	copy(answers, s.answers)

	return answers
}
