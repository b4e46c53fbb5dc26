package discussx

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeEmptyQuery, "empty query"},
		{ErrCodeInvalidOption, "invalid option"},
		{ErrCodeTimeout, "operation timed out"},
		{ErrCodeCanceled, "operation canceled"},
		{ErrCodeBackendUnavailable, "backend unavailable"},
		{ErrCodeUnauthorized, "unauthorized"},
		{ErrCodeMissingCredentials, "missing credentials"},
		{ErrCodeCacheUnavailable, "cache unavailable"},
		{ErrorCode(1), "unknown error"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", int(tt.code), got, tt.want)
		}
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := errors.Wrap(errors.Mark(cause, ErrBackendUnavailable), "query failed")

	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("errors.Is(%v, ErrBackendUnavailable) = false", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Errorf("errors.Is(%v, ErrTimeout) = true", err)
	}
	if want := "query failed: connection reset"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSearchConfigDefaults(t *testing.T) {
	cfg := NewSearchConfig()
	if cfg.Limit != 25 || cfg.Sort != SortRelevance || cfg.TimeRange != TimeRangeYear || cfg.Community != "" {
		t.Errorf("defaults = %+v", cfg)
	}

	cfg = NewSearchConfig(WithLimit(50), WithCommunity("webdev"), WithSort(SortNew), WithTimeRange(TimeRangeAll))
	if cfg.Limit != 50 || cfg.Community != "webdev" || cfg.Sort != SortNew || cfg.TimeRange != TimeRangeAll {
		t.Errorf("applied = %+v", cfg)
	}
}
