// Package cache provides the facade the engines use to memoize expensive
// derived results (recommendation lists, search pages) under a TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TTLs for the derived-result classes. Recommendation lists are more expensive
// to compute than search pages, so they live longer.
const (
	JobRecommendationTTL       = 30 * time.Minute
	CandidateRecommendationTTL = time.Hour
	SearchTTL                  = 10 * time.Minute
)

// Facade is the contract the engines consume. Implementations must treat Get
// misses as (nil, false, nil); errors are reserved for backend failures, which
// callers log and otherwise ignore.
type Facade interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, prefix string) (int, error)
}

// Key builds a deterministic cache key for (operation, subject, parameters).
// Identical requests collide; differing ones never do. The operation and
// subject stay in clear text so DeletePattern can target a subject's entries
// by prefix; the parameter set is folded into a digest.
func Key(op, subject string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(op)
	b.WriteByte('|')
	b.WriteString(subject)
	for _, name := range names {
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}

	digest := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s:%s:%s", op, subject, hex.EncodeToString(digest[:8]))
}

// SubjectPrefix returns the key prefix covering every cached result for one
// subject under the given operation, for use with DeletePattern.
func SubjectPrefix(op, subject string) string {
	return fmt.Sprintf("%s:%s:", op, subject)
}
