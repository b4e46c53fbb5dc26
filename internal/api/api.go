// Package api exposes the discussion trigger over HTTP. The trigger always
// answers 200 with a JSON array; failures surface as an empty array.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/letmevibethatforyou/discussx"
)

// Paths the trigger is served at.
var Paths = []string{"/api/reddit", "/reddit"}

// Source produces the current ranked discussions. It must not fail.
type Source interface {
	Discussions(ctx context.Context) []discussx.Record
}

// Headers returns the response headers of the trigger. maxAge is advertised
// to browsers and intermediaries as Cache-Control.
func Headers(maxAge time.Duration) map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Cache-Control":               fmt.Sprintf("max-age=%d", int(maxAge.Seconds())),
		"Access-Control-Allow-Origin": "*",
	}
}

// Encode renders records as a JSON array. A nil slice encodes as [].
func Encode(records []discussx.Record) []byte {
	if records == nil {
		records = []discussx.Record{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		slog.Error("encode discussions", "error", err)
		return []byte("[]")
	}
	return body
}

// NewRouter builds the gin engine serving the trigger and a health check.
func NewRouter(src Source, maxAge time.Duration) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": "discussx",
		})
	})

	headers := Headers(maxAge)
	handler := func(c *gin.Context) {
		records := src.Discussions(c.Request.Context())
		for k, v := range headers {
			c.Header(k, v)
		}
		c.Data(http.StatusOK, headers["Content-Type"], Encode(records))
	}
	for _, p := range Paths {
		router.GET(p, handler)
	}
	return router
}
