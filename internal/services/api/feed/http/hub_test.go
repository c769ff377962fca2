package http

import (
	"encoding/json"
	"testing"
	"time"

	"killfeed/internal/platform/logger"
	"killfeed/internal/services/api/feed/domain"
	killsdom "killfeed/internal/services/kills/domain"

	"github.com/rs/zerolog"
)

func testHub() *Hub {
	var zl zerolog.Logger
	return NewHub(logger.Logger(zl))
}

func sampleKill() killsdom.Kill {
	return killsdom.Kill{
		ID:         "k-1",
		ServerID:   "srv-1",
		Time:       time.Date(2025, 8, 21, 23, 50, 3, 0, time.UTC),
		KillerID:   "1",
		KillerName: "Riley",
		VictimID:   "2",
		VictimName: "Alex",
		Weapon:     "M4-A1",
		Distance:   143.7,
	}
}

func TestPublishFansOutToEverySubscriber(t *testing.T) {
	t.Parallel()

	h := testHub()
	c1 := h.add()
	c2 := h.add()

	h.Publish(sampleKill())

	for i, c := range []*client{c1, c2} {
		select {
		case raw := <-c.send:
			var ev domain.FeedEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				t.Fatalf("client %d payload: %v", i, err)
			}
			if ev.ID != "k-1" || ev.Time != "2025-08-21T23:50:03Z" || ev.Weapon != "M4-A1" {
				t.Fatalf("client %d event = %+v", i, ev)
			}
		default:
			t.Fatalf("client %d received nothing", i)
		}
	}
}

func TestPublishDropsSaturatedSubscriber(t *testing.T) {
	t.Parallel()

	h := testHub()
	slow := h.add()
	healthy := h.add()

	for i := 0; i < sendBuffer; i++ {
		slow.send <- []byte("backlog")
	}

	h.Publish(sampleKill())

	if n := h.ClientCount(); n != 1 {
		t.Fatalf("clients = %d, want the slow one dropped", n)
	}
	select {
	case <-healthy.send:
	default:
		t.Fatal("healthy subscriber received nothing")
	}

	// the dropped client's channel is closed once its backlog drains
	for i := 0; i < sendBuffer; i++ {
		<-slow.send
	}
	if _, ok := <-slow.send; ok {
		t.Fatal("slow subscriber channel still open")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	h := testHub()
	c := h.add()
	h.remove(c)
	h.remove(c)

	if n := h.ClientCount(); n != 0 {
		t.Fatalf("clients = %d, want 0", n)
	}
}
