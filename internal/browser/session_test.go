package browser

import (
	"context"
	"sync"
	"testing"

	"github.com/webtrail/webtrail-cli/internal/capture"
)

func testSession() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ctx:         ctx,
		cancel:      cancel,
		cancelAlloc: func() {},
		events:      make(chan capture.RawEvent, 4),
	}
}

func TestSendAfterCloseDoesNotPanic(t *testing.T) {
	s := testSession()
	s.Close()

	// Events can still be in flight on the dispatch goroutine when the
	// session is torn down; they must drop, never panic.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.send(capture.RawEvent{Kind: "click"})
			}
		}()
	}
	wg.Wait()

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed after Close")
	}
}

func TestSendDropsOnBacklog(t *testing.T) {
	s := testSession()
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.send(capture.RawEvent{Kind: "console"}) // must not block past the buffer
	}
	if got := len(s.events); got != cap(s.events) {
		t.Errorf("buffered %d events, want %d", got, cap(s.events))
	}
}

func TestDecodePayload(t *testing.T) {
	raw, err := decodePayload(`{"kind":"input","ts":1717243200000,"url":"https://example.com","field_id":"email","value":"a@b.c"}`)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if raw.Kind != "input" || raw.FieldID != "email" || raw.Value != "a@b.c" {
		t.Errorf("decoded = %+v", raw)
	}
	if raw.Time.UnixMilli() != 1717243200000 {
		t.Errorf("time = %v", raw.Time)
	}

	if _, err := decodePayload("not json"); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
