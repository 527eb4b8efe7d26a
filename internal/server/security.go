package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rcsinavim/arena/internal/logger"
)

const detectorWindow = 5 * time.Minute

// SuspiciousActivityDetector counts failed auth attempts and request
// rates per client IP over a sliding window.
type SuspiciousActivityDetector struct {
	mu          sync.Mutex
	failedAuth  map[string]int
	requests    map[string]int
	windowStart time.Time
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		failedAuth:  make(map[string]int),
		requests:    make(map[string]int),
		windowStart: time.Now(),
	}
}

// RecordFailedAuth counts an authentication failure for ip, alerting
// once the threshold is crossed.
func (d *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rollWindow()
	d.failedAuth[ip]++
	if d.failedAuth[ip] >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", d.failedAuth[ip])
	}
}

// RecordRequest counts a request for ip and reports whether it is
// still within the per-window limit. Over-limit traffic is logged on a
// sample to keep a flood from also flooding the logs.
func (d *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rollWindow()
	d.requests[ip]++
	if d.requests[ip] <= RequestLimitPerWindow {
		return true
	}
	if d.requests[ip]%RateAlertSampleEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", d.requests[ip])
	}
	return false
}

// rollWindow resets the counters when the window has elapsed. Caller
// must hold the mutex.
func (d *SuspiciousActivityDetector) rollWindow() {
	if time.Since(d.windowStart) > detectorWindow {
		d.failedAuth = make(map[string]int)
		d.requests = make(map[string]int)
		d.windowStart = time.Now()
	}
}

// AuthMiddleware requires a valid API key on every request outside
// PublicPaths. Comparison is constant time.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	proxies := proxySet(trustedProxies)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := clientIP(r, proxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityLoggingMiddleware enforces the per-IP request rate limit.
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	proxies := proxySet(trustedProxies)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(clientIP(r, proxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps the request body size.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets standard browser hardening headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func proxySet(trustedProxies []string) map[string]bool {
	set := make(map[string]bool, len(trustedProxies))
	for _, p := range trustedProxies {
		set[p] = true
	}
	return set
}

// clientIP resolves the client address. X-Forwarded-For is only
// honored when the direct peer is a trusted proxy, and then only its
// rightmost entry, which is the hop the proxy actually saw.
func clientIP(r *http.Request, trustedProxies map[string]bool) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if trustedProxies[remoteIP] {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
	}
	return remoteIP
}
