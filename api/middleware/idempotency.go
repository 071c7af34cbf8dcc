package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ecofinds/ecofinds-backend/api/responses"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
	"github.com/ecofinds/ecofinds-backend/pkg/logger"
	pkgredis "github.com/ecofinds/ecofinds-backend/pkg/redis"

	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client-chosen token for replay-safe checkout.
const IdempotencyKeyHeader = "Idempotency-Key"

type idempotencyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response when a checkout request repeats the
// same Idempotency-Key with an identical payload. A reused key with a different
// payload is rejected. Requests without the header pass through untouched.
func Idempotency(store idempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || ttl <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID := UserIDFromContext(ctx)
			if userID == uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashValue(r.Method + " " + r.URL.Path + " " + string(body))
			key := pkgredis.IdempotencyKey(userID.String(), token)

			stored, found, err := store.Get(ctx, key)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency lookup"))
				return
			}

			if found {
				var record idempotencyRecord
				if unmarshalErr := json.Unmarshal([]byte(stored), &record); unmarshalErr == nil {
					if record.RequestHash != requestHash {
						responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key already used with a different request"))
						return
					}
					replayStoredResponse(w, record)
					return
				}
				// Unreadable record, fall through and process fresh.
			}

			capture := newResponseCapture(w)
			next.ServeHTTP(capture, r)

			if capture.status < http.StatusOK || capture.status >= http.StatusMultipleChoices {
				return
			}

			record := idempotencyRecord{
				Status:      capture.status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				ContentType: capture.Header().Get("Content-Type"),
				RequestHash: requestHash,
			}
			encoded, err := json.Marshal(record)
			if err != nil {
				return
			}
			if err := store.Set(ctx, key, string(encoded), ttl); err != nil && logg != nil {
				logg.Error(ctx, "idempotency.store_failed", err)
			}
		})
	}
}

func replayStoredResponse(w http.ResponseWriter, record idempotencyRecord) {
	payload, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		payload = nil
	}
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set("X-Idempotent-Replay", "true")
	status := record.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

type responseCapture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{ResponseWriter: w, status: http.StatusOK}
}

func (c *responseCapture) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *responseCapture) Write(payload []byte) (int, error) {
	c.body.Write(payload)
	return c.ResponseWriter.Write(payload)
}
