package session

import (
	"testing"

	"github.com/collabblog/blogclient/internal/auth/model"
)

func TestCell_ReplayLatestForLateSubscribers(t *testing.T) {
	c := newCell()
	u := &model.User{ID: "u1"}
	c.publish(u)

	ch, cancel := c.subscribe()
	defer cancel()

	select {
	case got := <-ch:
		if got == nil || got.ID != "u1" {
			t.Fatalf("late subscriber got %+v", got)
		}
	default:
		t.Fatal("late subscriber must immediately see the current value")
	}
}

func TestCell_UnresolvedCellDeliversNothing(t *testing.T) {
	c := newCell()
	ch, cancel := c.subscribe()
	defer cancel()

	select {
	case v := <-ch:
		t.Fatalf("unresolved cell delivered %+v", v)
	default:
	}
}

func TestCell_NewestValueWins(t *testing.T) {
	c := newCell()
	ch, cancel := c.subscribe()
	defer cancel()

	c.publish(&model.User{ID: "first"})
	c.publish(&model.User{ID: "second"})

	got := <-ch
	if got == nil || got.ID != "second" {
		t.Fatalf("subscriber must observe the newest value, got %+v", got)
	}
}

func TestCell_NilPublishObservableOnce(t *testing.T) {
	c := newCell()
	c.publish(&model.User{ID: "u1"})

	ch, cancel := c.subscribe()
	defer cancel()
	<-ch // drain the replayed value

	// Redundant clears, as produced by concurrent 401 responses.
	c.publish(nil)
	c.publish(nil)
	c.publish(nil)

	count := 0
	for {
		select {
		case v := <-ch:
			if v != nil {
				t.Fatalf("expected nil transition, got %+v", v)
			}
			count++
		default:
			if count != 1 {
				t.Fatalf("none-transition observed %d times, want exactly 1", count)
			}
			return
		}
	}
}

func TestCell_CancelStopsDelivery(t *testing.T) {
	c := newCell()
	ch, cancel := c.subscribe()
	cancel()

	c.publish(&model.User{ID: "u1"})
	select {
	case v := <-ch:
		t.Fatalf("cancelled subscriber got %+v", v)
	default:
	}
}
