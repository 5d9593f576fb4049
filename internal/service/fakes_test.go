package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-pdfstudy-be/pkg/document"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/storage"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

type wordCounter struct{}

func (wordCounter) CountTokens(_ context.Context, text string) (int, error) {
	return len(strings.Fields(text)), nil
}

type fakeLoader struct {
	text document.Text
	err  error
}

func (f fakeLoader) LoadText(context.Context, string, string) (document.Text, error) {
	return f.text, f.err
}

// echoLLM answers with the first user message, optionally after a delay that
// shrinks with each call so later groups finish first.
type echoLLM struct {
	mu      sync.Mutex
	calls   int
	options []llm.Options
	err     error
	delay   time.Duration
}

func (e *echoLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	e.mu.Lock()
	e.calls++
	n := e.calls
	e.options = append(e.options, llm.Apply(llm.Options{}, options...))
	e.mu.Unlock()

	if e.err != nil {
		return "", e.err
	}
	if e.delay > 0 {
		time.Sleep(e.delay / time.Duration(n))
	}
	return "out:" + history[len(history)-1].Content, nil
}

func (e *echoLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return e.Chat(ctx, []llm.Message{llm.UserMessage(prompt)}, options...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType())
	}
	return out
}

// memoryStore is an in-memory ObjectStore.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) Put(_ context.Context, owner, file string, r io.Reader, _ string) error {
	key, err := storage.ObjectKey(owner, file)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) Exists(_ context.Context, owner, file string) (bool, error) {
	key, err := storage.ObjectKey(owner, file)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memoryStore) List(_ context.Context, owner string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var files []string
	for key := range m.objects {
		if name, ok := strings.CutPrefix(key, owner+"/"); ok {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (m *memoryStore) SignedURL(_ context.Context, owner, file string, _ time.Duration) (string, error) {
	base := m.baseURL
	if base == "" {
		base = "memory://"
	}
	return strings.TrimSuffix(base, "/") + "/" + owner + "/" + file, nil
}

func textOf(pages ...string) document.Text {
	return document.NewText(pages)
}

func buildPDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "page")
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}
