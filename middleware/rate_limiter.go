package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor tracks two buckets per IP: browsing the calendar or leaderboard is
// bursty and cheap, while entry writes fan out into streak/achievement
// recomputes and get a much tighter allowance.
type visitor struct {
	readLimiter  *rate.Limiter
	writeLimiter *rate.Limiter
	lastSeen     time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		limiter := getLimiter(ip, isEntryWrite(r))

		if !limiter.Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isEntryWrite matches the mutating entry endpoints: daily saves, periodic
// and onetime completions, and their deletes.
func isEntryWrite(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/v1/entries")
}

func getLimiter(ip string, write bool) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		v = &visitor{
			// 5 req/s sustained, bursts of 30, for reads: a calendar screen
			// loads several endpoints at once.
			readLimiter: rate.NewLimiter(5, 30),
			// One legitimate save per tap; 1 req/s with a burst of 5 covers
			// a user backfilling a few days without admitting scripted spam.
			writeLimiter: rate.NewLimiter(1, 5),
			lastSeen:     time.Now(),
		}
		visitors[ip] = v
	} else {
		v.lastSeen = time.Now()
	}

	if write {
		return v.writeLimiter
	}
	return v.readLimiter
}

// CleanupVisitors runs forever; start it on its own goroutine from main.
func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		mu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, ip)
			}
		}
		mu.Unlock()
	}
}
