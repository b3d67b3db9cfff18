package util

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlerter_Send(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received = string(b)
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	a := NewAlerter(srv.URL, "test")
	require.NoError(t, a.Send(context.Background(), "清理任务失败"))
	assert.Contains(t, received, "[test] 清理任务失败")
}

func TestAlerter_SendErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errcode":93000,"errmsg":"invalid webhook"}`))
	}))
	defer srv.Close()

	err := NewAlerter(srv.URL, "test").Send(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "invalid webhook", err.Error())
}

func TestAlerter_NoWebhook(t *testing.T) {
	assert.NoError(t, NewAlerter("", "test").Send(context.Background(), "x"))

	var a *Alerter
	assert.NoError(t, a.Send(context.Background(), "x"))
}
