package middleware

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// Compression gzips responses for clients that accept it
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(w)
		defer gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, writer: gz}, r)
	})
}

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, 5)
		return gz
	},
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}

// ETag answers conditional GETs of unchanged responses with 304 Not Modified
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferedResponse{ResponseWriter: w, buffer: &bytes.Buffer{}}
		next.ServeHTTP(rec, r)

		if rec.statusCode != 0 && rec.statusCode != http.StatusOK {
			w.WriteHeader(rec.statusCode)
			_, _ = w.Write(rec.buffer.Bytes())
			return
		}

		hash := sha256.Sum256(rec.buffer.Bytes())
		etag := `"` + hex.EncodeToString(hash[:16]) + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		_, _ = w.Write(rec.buffer.Bytes())
	})
}

type bufferedResponse struct {
	http.ResponseWriter
	buffer     *bytes.Buffer
	statusCode int
}

func (r *bufferedResponse) Write(b []byte) (int, error) {
	return r.buffer.Write(b)
}

func (r *bufferedResponse) WriteHeader(statusCode int) {
	r.statusCode = statusCode
}

// CacheControl lets clients cache the static protocol data for the catalog TTL
func CacheControl(maxAgeSeconds int) func(http.Handler) http.Handler {
	public := "public, max-age=" + strconv.Itoa(max(maxAgeSeconds, 0)) + ", must-revalidate"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/protocols", "/api/protocol/list":
				w.Header().Set("Cache-Control", public)
			default:
				w.Header().Set("Cache-Control", "private, no-cache, must-revalidate")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ResponseOptimization combines cache headers, ETag and compression
func ResponseOptimization(maxAgeSeconds int) func(http.Handler) http.Handler {
	cacheControl := CacheControl(maxAgeSeconds)
	return func(next http.Handler) http.Handler {
		return cacheControl(ETag(Compression(next)))
	}
}
