package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/letmevibethatforyou/discussx"
)

type fixedSource []discussx.Record

func (f fixedSource) Discussions(context.Context) []discussx.Record {
	return f
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name     string
		source   fixedSource
		wantBody string
	}{
		{
			name:     "records",
			source:   fixedSource{{ID: "a", Title: "Vercel vs Netlify", Author: "x", Created: 1000, URL: "https://www.reddit.com/a", Community: "r/webdev", Score: 5, NumComments: 3, Snippet: "s"}},
			wantBody: `[{"id":"a","title":"Vercel vs Netlify","author":"x","created":1000,"url":"https://www.reddit.com/a","subreddit":"r/webdev","score":5,"num_comments":3,"snippet":"s"}]`,
		},
		{
			name:     "empty",
			source:   nil,
			wantBody: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.source, time.Hour)
			res, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{Path: "/api/reddit"})
			if err != nil {
				t.Fatalf("HandleRequest() error = %v", err)
			}
			if res.StatusCode != 200 {
				t.Errorf("StatusCode = %d, want 200", res.StatusCode)
			}
			if res.Body != tt.wantBody {
				t.Errorf("Body = %s, want %s", res.Body, tt.wantBody)
			}
			if !json.Valid([]byte(res.Body)) {
				t.Error("Body is not valid JSON")
			}
			for k, want := range map[string]string{
				"Content-Type":                "application/json",
				"Cache-Control":               "max-age=3600",
				"Access-Control-Allow-Origin": "*",
			} {
				if got := res.Headers[k]; got != want {
					t.Errorf("header %s = %q, want %q", k, got, want)
				}
			}
		})
	}
}
