package service

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/events"
	pktNats "ai-pdfstudy-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSubscriber struct {
	pattern string
	handler pktNats.EventHandler
}

func (c *capturingSubscriber) Subscribe(_ context.Context, pattern, _ string, handler pktNats.EventHandler) error {
	c.pattern = pattern
	c.handler = handler
	return nil
}

func TestAuditServiceRecordsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	auditLog := logger.NewIsolatedLogger(path)
	sub := &capturingSubscriber{}
	svc := NewAuditService(sub, auditLog)

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, pktNats.Subject(">"), sub.pattern)

	require.NoError(t, sub.handler(context.Background(), events.New(events.TypeQuizGenerated, map[string]interface{}{
		"owner": "alice",
	})))
	require.NoError(t, auditLog.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
	assert.Equal(t, events.TypeQuizGenerated, line["message"])
	assert.Equal(t, "AUDIT", line["module"])
}
