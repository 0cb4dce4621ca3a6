package shared

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"
)

// IdempotencyHeader carries the client supplied key of a create request.
const IdempotencyHeader = "Idempotency-Key"

// ReplayedHeader is set on responses served from the store.
const ReplayedHeader = "Idempotent-Replayed"

const maxIdempotencyKeyLength = 255

var (
	// ErrIdempotencyConflict indicates a request with the same key is still being processed.
	ErrIdempotencyConflict = errors.New("idempotent request already in progress")
	// ErrIdempotencyMismatch indicates the key was used before with a different body.
	ErrIdempotencyMismatch = errors.New("idempotency key reused with a different request body")
)

// releaseScript deletes the lock only when it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// StoredResponse is the replayable part of a completed response.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

// IdempotencyStore persists completed create responses in Redis.
type IdempotencyStore struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewIdempotencyStore constructs the store. Responses are kept for ttl.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl, lockTTL: 30 * time.Second}
}

func resultKey(scope, key string) string { return "idempotency:" + scope + ":" + key }
func lockKey(scope, key string) string   { return "idempotency:" + scope + ":" + key + ":lock" }

// Fingerprint identifies a request body.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Begin returns the stored response for key when one exists and was made for
// the same request hash. Otherwise it takes the processing lock and returns
// its token.
func (s *IdempotencyStore) Begin(ctx context.Context, scope, key, requestHash string) (*StoredResponse, string, error) {
	raw, err := s.client.Get(ctx, resultKey(scope, key)).Bytes()
	switch {
	case err == nil:
		var stored StoredResponse
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, "", fmt.Errorf("shared: decode idempotent response: %w", err)
		}
		if stored.RequestHash != requestHash {
			return nil, "", ErrIdempotencyMismatch
		}
		return &stored, "", nil
	case !errors.Is(err, redis.Nil):
		return nil, "", fmt.Errorf("shared: load idempotent response: %w", err)
	}

	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, lockKey(scope, key), token, s.lockTTL).Result()
	if err != nil {
		return nil, "", fmt.Errorf("shared: acquire idempotency lock: %w", err)
	}
	if !ok {
		return nil, "", ErrIdempotencyConflict
	}
	return nil, token, nil
}

// Complete stores resp for key and releases the lock.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key, token string, resp StoredResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("shared: encode idempotent response: %w", err)
	}
	if err := s.client.Set(ctx, resultKey(scope, key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("shared: store idempotent response: %w", err)
	}
	return s.Release(ctx, scope, key, token)
}

// Release drops the lock so the key can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{lockKey(scope, key)}, token).Err(); err != nil {
		return fmt.Errorf("shared: release idempotency lock: %w", err)
	}
	return nil
}

// Middleware replays successful POST responses that carry an Idempotency-Key.
// Failed responses are not stored. A nil store or a Redis outage lets the
// request through unchanged.
func (s *IdempotencyStore) Middleware(scope string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if s == nil || r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLength {
				httpx.RespondError(w, httpx.FieldError(IdempotencyHeader, fmt.Sprintf("Ensure this header has no more than %d characters.", maxIdempotencyKeyLength)))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				httpx.RespondError(w, httpx.FieldError("non_field_errors", "Request body could not be read."))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			hash := Fingerprint(body)

			ctx := r.Context()
			stored, token, err := s.Begin(ctx, scope, key, hash)
			switch {
			case errors.Is(err, ErrIdempotencyConflict):
				httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
				return
			case errors.Is(err, ErrIdempotencyMismatch):
				httpx.RespondError(w, httpx.FieldError(IdempotencyHeader, "This key was already used with a different request body."))
				return
			case err != nil:
				logger.Warn("idempotency unavailable", slog.Any("error", err), slog.String("scope", scope))
				next.ServeHTTP(w, r)
				return
			case stored != nil:
				if stored.ContentType != "" {
					w.Header().Set("Content-Type", stored.ContentType)
				}
				w.Header().Set(ReplayedHeader, "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// The request context may already be cancelled; the bookkeeping must still land.
			bg := context.WithoutCancel(ctx)
			if rec.status >= 200 && rec.status < 300 {
				err = s.Complete(bg, scope, key, token, StoredResponse{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
					RequestHash: hash,
				})
			} else {
				err = s.Release(bg, scope, key, token)
			}
			if err != nil {
				logger.Warn("idempotency bookkeeping failed", slog.Any("error", err), slog.String("scope", scope))
			}
		})
	}
}

type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(data []byte) (int, error) {
	c.body.Write(data)
	return c.ResponseWriter.Write(data)
}
