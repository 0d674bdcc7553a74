package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hsallam/matjar-pos/api/responses"
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/redis"
)

const (
	idempotencyHeader   = "Idempotency-Key"
	idempotencyTTL      = 24 * time.Hour
	idempotencyLockTTL  = 30 * time.Second
	idempotencyInFlight = "__in_flight__"
)

type idempotencyRecord struct {
	RequestHash string          `json:"requestHash"`
	Status      int             `json:"status"`
	Body        json.RawMessage `json:"body"`
}

// Idempotency replays recorded responses for repeated mutating requests that
// carry the same Idempotency-Key. Requests without the header pass through,
// as does everything when no store is configured.
func Idempotency(store redis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if store == nil || key == "" || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			hash := requestHash(r.Method, r.URL.Path, body)
			storeKey := store.IdempotencyKey(r.Method+":"+r.URL.Path, key)

			if replayed := tryReplay(w, r, store, logg, storeKey, hash); replayed {
				return
			}

			acquired, err := store.SetNX(r.Context(), storeKey, idempotencyInFlight, idempotencyLockTTL)
			if err != nil {
				// Redis trouble never blocks the sale.
				if logg != nil {
					logg.Warn(r.Context(), "idempotency store unavailable, passing through")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				if replayed := tryReplay(w, r, store, logg, storeKey, hash); replayed {
					return
				}
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeIdempotency, "request with this key is still in progress"))
				return
			}

			rec := newRecorder(w)
			next.ServeHTTP(rec, r)

			record, err := json.Marshal(idempotencyRecord{
				RequestHash: hash,
				Status:      rec.status,
				Body:        rec.buf.Bytes(),
			})
			// Swap the in-flight marker for the recorded response.
			_ = store.Del(r.Context(), storeKey)
			if err == nil {
				_, _ = store.SetNX(r.Context(), storeKey, string(record), idempotencyTTL)
			}
		})
	}
}

func tryReplay(w http.ResponseWriter, r *http.Request, store redis.IdempotencyStore, logg *logger.Logger, storeKey, hash string) bool {
	stored, err := store.Get(r.Context(), storeKey)
	if err == goredis.Nil || stored == "" || stored == idempotencyInFlight {
		return false
	}
	if err != nil {
		return false
	}

	var record idempotencyRecord
	if json.Unmarshal([]byte(stored), &record) != nil {
		return false
	}
	if record.RequestHash != hash {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request"))
		return true
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotency-Replayed", "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(record.Body)
	return true
}

func requestHash(method, path string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte{0})
	sum.Write([]byte(path))
	sum.Write([]byte{0})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}

type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func newRecorder(w http.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	r.buf.Write(p)
	return r.ResponseWriter.Write(p)
}
