package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

func TestAttrKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{name: "tenant", attr: logger.TenantID(42), key: "tenant_id", want: int64(42)},
		{name: "grant", attr: logger.Grant("auth.login"), key: "grant", want: "auth.login"},
		{name: "component", attr: logger.Component("scope"), key: "component", want: "scope"},
		{name: "task", attr: logger.Task("maintenance.recount_all"), key: "task", want: "maintenance.recount_all"},
		{name: "event", attr: logger.Event("company.registered"), key: "event", want: "company.registered"},
		{name: "user", attr: logger.UserID(int64(7)), key: "user_id", want: int64(7)},
		{name: "request", attr: logger.RequestID("req-1"), key: "request_id", want: "req-1"},
		{name: "retries", attr: logger.RetryCount(3), key: "retry_count", want: int64(3)},
		{name: "duration", attr: logger.Duration(time.Second), key: "duration", want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}
}

func TestAttrNilValuesAreDropped(t *testing.T) {
	t.Parallel()

	for name, attr := range map[string]slog.Attr{
		"error":      logger.Error(nil),
		"errors":     logger.Errors(nil, nil),
		"user_id":    logger.UserID(nil),
		"request_id": logger.RequestID(nil),
	} {
		assert.True(t, attr.Equal(slog.Attr{}), name)
	}
}

func TestErrorsKeepsPositions(t *testing.T) {
	t.Parallel()

	listFailed := errors.New("list companies")
	attr := logger.Errors(nil, listFailed)

	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 1)
	assert.Equal(t, "1", g[0].Key, "index of the original argument")
	assert.Equal(t, listFailed, g[0].Value.Any())
}

func TestAttrsInRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	log.Info("unscoped access",
		logger.Component("scope"),
		logger.Grant("auth.token"),
		logger.TenantID(9),
		logger.Group("op", slog.String("name", "find")),
	)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "scope", rec["component"])
	assert.Equal(t, "auth.token", rec["grant"])
	assert.InDelta(t, 9, rec["tenant_id"], 0)
	assert.Equal(t, map[string]any{"name": "find"}, rec["op"])
}
