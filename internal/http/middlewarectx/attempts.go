package middlewarectx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
)

// Attempt — счётчик попыток в пределах скользящего окна.
type Attempt struct {
	Count        int
	FirstAttempt time.Time
}

// AttemptStore — хранилище счётчиков попыток за конкретным владельцем.
// Интерфейс позволяет подменить процессное хранилище общим внешним,
// когда приложение масштабируется за пределы одного процесса.
type AttemptStore interface {
	// Touch атомарно обновляет счётчик ключа: удаляет записи с истёкшим окном,
	// начинает новое окно со счётчиком 1 либо инкрементирует текущий счётчик.
	// Возвращает запись после обновления.
	Touch(key string, now time.Time, window time.Duration) Attempt
}

// MemoryAttemptStore — процессное хранилище счётчиков за мьютексом.
// Состояние не переживает перезапуск и не разделяется между процессами;
// каждый процесс считает попытки независимо.
type MemoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]Attempt
}

// NewMemoryAttemptStore создает новое процессное хранилище счётчиков попыток.
func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{
		attempts: make(map[string]Attempt),
	}
}

// Touch реализует AttemptStore.
func (s *MemoryAttemptStore) Touch(key string, now time.Time, window time.Duration) Attempt {
	threshold := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, a := range s.attempts {
		if a.FirstAttempt.Before(threshold) {
			delete(s.attempts, k)
		}
	}

	current, ok := s.attempts[key]
	if !ok || current.FirstAttempt.Before(threshold) {
		current = Attempt{Count: 1, FirstAttempt: now}
	} else {
		current.Count++
	}
	s.attempts[key] = current
	return current
}

// LimiterConfig — конфигурация ограничителя попыток,
// задаваемая при регистрации маршрута.
type LimiterConfig struct {
	// MaxAttempts — максимум попыток в пределах окна.
	MaxAttempts int
	// Window — длительность скользящего окна.
	Window time.Duration
}

// Validate проверяет конфигурацию. Вызывается один раз при регистрации маршрута.
func (c LimiterConfig) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("limiter config: max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.Window <= 0 {
		return fmt.Errorf("limiter config: window must be positive, got %s", c.Window)
	}
	return nil
}

// AttemptLimit возвращает middleware, ограничивающий попытки входа по ключу
// IP клиента + электронная почта из тела запроса. Превышение лимита в пределах
// окна возвращает 429 с вычисленным интервалом повтора в секундах.
func AttemptLimit(log *slog.Logger, store AttemptStore, cfg LimiterConfig) func(http.Handler) http.Handler {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AttemptLimit"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			email, restored, err := peekEmail(r)
			if err != nil {
				log.Error("failed to read request body")
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid request body"))
				return
			}
			r.Body = restored

			now := time.Now()
			key := clientIP(r) + ":" + email
			attempt := store.Touch(key, now, cfg.Window)

			if attempt.Count > cfg.MaxAttempts {
				retryAfter := int(attempt.FirstAttempt.Add(cfg.Window).Sub(now).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				log.Error("too many attempts", slog.String("key", key),
					slog.Int("count", attempt.Count), slog.Int("retry_after", retryAfter))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.RateLimitError("too many attempts, try again later", retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// peekEmail читает поле email из JSON-тела, возвращая тело для повторного чтения.
func peekEmail(r *http.Request) (string, io.ReadCloser, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return "", nil, err
	}
	_ = r.Body.Close()

	var payload struct {
		Email string `json:"email"`
	}
	// Некорректный JSON отклонит обработчик; лимитер учитывает попытку без почты.
	_ = json.Unmarshal(body, &payload)

	return strings.ToLower(strings.TrimSpace(payload.Email)), io.NopCloser(bytes.NewReader(body)), nil
}

// clientIP определяет IP клиента с учётом заголовка X-Forwarded-For.
func clientIP(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	// RemoteAddr содержит порт; ключ считаем по хосту,
	// иначе каждое новое соединение получает свой счётчик.
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
