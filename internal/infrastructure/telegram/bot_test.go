package telegram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/bot"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	getMeResponse   = `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Quotes","username":"quotes_bot"}}`
	messageResponse = `{"ok":true,"result":{"message_id":1,"chat":{"id":42,"type":"private"},"date":0,"text":"ok"}}`
)

// fakeTelegram records Bot API calls
type fakeTelegram struct {
	mu       sync.Mutex
	calls    []string
	texts    []string
	photos   []string
	webhooks []string
	failSend bool
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		io.WriteString(w, getMeResponse)
	case "setWebhook":
		f.webhooks = append(f.webhooks, r.FormValue("url"))
		io.WriteString(w, `{"ok":true,"result":true}`)
	case "sendMessage":
		if f.failSend {
			io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
			return
		}
		f.texts = append(f.texts, r.FormValue("chat_id")+":"+r.FormValue("text"))
		io.WriteString(w, messageResponse)
	case "sendPhoto":
		file, header, err := r.FormFile("photo")
		if err != nil {
			io.WriteString(w, `{"ok":false,"error_code":400,"description":"no photo"}`)
			return
		}
		body, _ := io.ReadAll(file)
		f.photos = append(f.photos, r.FormValue("chat_id")+":"+header.Filename+":"+string(body))
		io.WriteString(w, messageResponse)
	default:
		io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
	}
}

// recorded copies one of the recorded call lists
func (f *fakeTelegram) recorded(list *[]string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), (*list)...)
}

func newTestBot(t *testing.T) (*Bot, *fakeTelegram) {
	t.Helper()

	fake := &fakeTelegram{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	b, err := NewBotWithEndpoint("123:abc", server.URL+"/bot%s/%s", server.Client(),
		logger.NewJSONLogger(io.Discard, logger.DebugLevel))
	require.NoError(t, err)
	return b, fake
}

// recordingDispatcher collects dispatched requests
type recordingDispatcher struct {
	requests []bot.Request
	err      error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, req bot.Request) error {
	d.requests = append(d.requests, req)
	return d.err
}

func TestNewBot(t *testing.T) {
	_, fake := newTestBot(t)

	assert.Equal(t, []string{"getMe"}, fake.recorded(&fake.calls))
}

func TestNewBotUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer server.Close()

	_, err := NewBotWithEndpoint("bad", server.URL+"/bot%s/%s", server.Client(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSetWebhook(t *testing.T) {
	b, fake := newTestBot(t)

	require.NoError(t, b.SetWebhook("https://quotes.example.com/123:abc"))
	assert.Equal(t, []string{"https://quotes.example.com/123:abc"}, fake.recorded(&fake.webhooks))

	assert.Error(t, b.SetWebhook("://not a url"))
}

func TestSendText(t *testing.T) {
	b, fake := newTestBot(t)

	require.NoError(t, b.SendText(context.Background(), 42, "112.50 EUR"))
	assert.Equal(t, []string{"42:112.50 EUR"}, fake.recorded(&fake.texts))

	fake.mu.Lock()
	fake.failSend = true
	fake.mu.Unlock()

	err := b.SendText(context.Background(), 42, "again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendPhoto(t *testing.T) {
	b, fake := newTestBot(t)

	require.NoError(t, b.SendPhoto(context.Background(), 42, "chart.png", []byte("png-bytes")))
	assert.Equal(t, []string{"42:chart.png:png-bytes"}, fake.recorded(&fake.photos))
}

func TestUpdatesHandler(t *testing.T) {
	b, _ := newTestBot(t)

	t.Run("Dispatches messages", func(t *testing.T) {
		dispatcher := &recordingDispatcher{}
		body := `{"update_id":7,"message":{"message_id":3,"date":0,"chat":{"id":42,"type":"private"},"text":"/list"}}`
		req := httptest.NewRequest(http.MethodPost, "/123:abc", strings.NewReader(body))
		w := httptest.NewRecorder()

		b.UpdatesHandler(dispatcher).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []bot.Request{{ChatID: 42, Text: "/list"}}, dispatcher.requests)
	})

	t.Run("Acknowledges updates without a message", func(t *testing.T) {
		dispatcher := &recordingDispatcher{}
		req := httptest.NewRequest(http.MethodPost, "/123:abc", strings.NewReader(`{"update_id":8}`))
		w := httptest.NewRecorder()

		b.UpdatesHandler(dispatcher).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, dispatcher.requests)
	})

	t.Run("Acknowledges failed dispatches", func(t *testing.T) {
		dispatcher := &recordingDispatcher{err: errors.New("send failed")}
		body := `{"update_id":9,"message":{"message_id":4,"date":0,"chat":{"id":42,"type":"private"},"text":"/list"}}`
		req := httptest.NewRequest(http.MethodPost, "/123:abc", strings.NewReader(body))
		w := httptest.NewRecorder()

		b.UpdatesHandler(dispatcher).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, dispatcher.requests, 1)
	})

	t.Run("Rejects malformed updates", func(t *testing.T) {
		dispatcher := &recordingDispatcher{}
		req := httptest.NewRequest(http.MethodPost, "/123:abc", strings.NewReader(`{not json`))
		w := httptest.NewRecorder()

		b.UpdatesHandler(dispatcher).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, dispatcher.requests)
	})
}
