// internal/app/status_service.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StatusFetcher returns the decoded homework statuses answer for the window
// starting at fromDate.
type StatusFetcher interface {
	GetAPIAnswer(ctx context.Context, fromDate int64) (any, error)
}

// StatusService polls homework statuses and relays changes to a single chat.
// Iterations never overlap; the cursor and the last sent message live only in memory.
type StatusService struct {
	fetcher        StatusFetcher
	telegramClient domainTelegram.Client
	chatID         string
	retryPeriod    time.Duration
	logger         *logrus.Entry
	now            func() time.Time

	mu          sync.Mutex
	cursor      int64
	cursorSet   bool
	lastMessage string
}

type Option func(*StatusService)

// WithClock replaces time.Now, used for the initial cursor.
func WithClock(now func() time.Time) Option {
	return func(s *StatusService) { s.now = now }
}

// WithInitialCursor starts polling from the given unix timestamp instead of now.
func WithInitialCursor(cursor int64) Option {
	return func(s *StatusService) {
		s.cursor = cursor
		s.cursorSet = true
	}
}

func NewStatusService(
	fetcher StatusFetcher,
	tc domainTelegram.Client,
	chatID string,
	retryPeriod time.Duration,
	logger *logrus.Entry,
	opts ...Option,
) *StatusService {
	s := &StatusService{
		fetcher:        fetcher,
		telegramClient: tc,
		chatID:         chatID,
		retryPeriod:    retryPeriod,
		logger:         logger.WithField("component", "status_service"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.cursorSet {
		s.cursor = s.now().Unix()
	}
	return s
}

// Cursor returns the timestamp the next request will start from.
func (s *StatusService) Cursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// LastMessage returns the text of the last dispatch attempt.
func (s *StatusService) LastMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMessage
}

// Run polls until ctx is cancelled, sleeping retryPeriod after every iteration
// whatever its outcome.
func (s *StatusService) Run(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"retry_period": s.retryPeriod.String(),
		"cursor":       s.Cursor(),
	}).Info("Homework status polling started")

	for {
		_ = s.Tick(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("Homework status polling stopped")
			return ctx.Err()
		case <-time.After(s.retryPeriod):
		}
	}
}

// Tick runs a single iteration. Failures are logged and reported to the chat
// before being returned; the returned error is informational only.
func (s *StatusService) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{
		"iteration_id": uuid.NewString(),
		"cursor":       s.cursor,
	})

	iterErr := s.safePoll(ctx, log)
	if iterErr == nil {
		return nil
	}

	if ctx.Err() != nil {
		log.WithError(iterErr.Err).Info("Iteration interrupted by shutdown")
		return ctx.Err()
	}

	log.WithFields(logrus.Fields{
		"stage":      iterErr.Stage,
		"error_kind": iterErr.Kind,
	}).WithError(iterErr.Err).Error("Iteration failed")

	s.notify(log, fmt.Sprintf("Сбой в работе программы: %v", iterErr))
	return iterErr
}

func (s *StatusService) safePoll(ctx context.Context, log *logrus.Entry) (iterErr *IterationError) {
	defer func() {
		if r := recover(); r != nil {
			iterErr = &IterationError{Stage: StagePoll, Kind: KindUnknown, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return s.poll(ctx, log)
}

func (s *StatusService) poll(ctx context.Context, log *logrus.Entry) *IterationError {
	answer, err := s.fetcher.GetAPIAnswer(ctx, s.cursor)
	if err != nil {
		return classify(StageFetch, err)
	}

	homeworks, err := homework.CheckResponse(answer)
	if err != nil {
		return classify(StageValidate, err)
	}
	currentDate, hasCurrentDate, err := homework.CurrentDate(answer)
	if err != nil {
		return classify(StageValidate, err)
	}

	message := homework.NoNewStatusesMessage
	if len(homeworks) > 0 {
		// The API lists the most recently updated homework first.
		message, err = homework.ParseStatus(homeworks[0])
		if err != nil {
			return classify(StageParse, err)
		}
	} else {
		log.Debug("No homework status changes in the current window")
	}

	s.notify(log, message)

	if hasCurrentDate {
		if currentDate < s.cursor {
			log.WithField("current_date", currentDate).Warn("Server moved the cursor backwards")
		}
		s.cursor = currentDate
		log.WithField("next_cursor", currentDate).Debug("Cursor updated")
	}
	return nil
}

// maxMessageRunes is the Telegram Bot API limit for a text message.
const maxMessageRunes = 4096

// notify sends text unless it repeats the previous message.
// Text longer than a Telegram message is cut; the full error is only in the logs.
func (s *StatusService) notify(log *logrus.Entry, text string) {
	text = truncateRunes(text, maxMessageRunes)
	if text == s.lastMessage {
		log.WithField("message", text).Debug("Message repeats the last one sent, skipping")
		return
	}
	s.sendMessage(log, text)
	s.lastMessage = text
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}

// sendMessage makes exactly one delivery attempt and never fails.
func (s *StatusService) sendMessage(log *logrus.Entry, text string) {
	log = log.WithField("chat_id", s.chatID)
	log.Debug("Sending message")

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Telegram client panicked while sending message")
		}
	}()

	if err := s.telegramClient.SendMessage(s.chatID, text); err != nil {
		log.WithError(err).Error("Failed to send message")
		return
	}
	log.WithField("message", text).Info("Message sent")
}
