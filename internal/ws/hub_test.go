package ws

import (
	"errors"
	"sync"
	"testing"
)

type fakeConn struct {
	written []interface{}
	fail    bool
	mu      sync.Mutex
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("closed")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

func TestHubNotifiesEveryConnection(t *testing.T) {
	hub := NewHub()
	phone, laptop, other := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.Register("alice", phone)
	laptopClient := hub.Register("alice", laptop)
	hub.Register("bob", other)

	msg, err := NewMessage(MessageTypeNotification, Notification{GameID: "g1", Event: EventYourTurn})
	if err != nil {
		t.Fatal(err)
	}
	hub.Notify("alice", msg)
	if phone.count() != 1 || laptop.count() != 1 || other.count() != 0 {
		t.Fatalf("writes: phone %d laptop %d other %d", phone.count(), laptop.count(), other.count())
	}

	hub.Unregister(laptopClient)
	hub.Notify("alice", msg)
	if laptop.count() != 1 || phone.count() != 2 {
		t.Fatal("unregistered connection still notified")
	}
	if err := laptopClient.Send(msg); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("send after unregister: got %v, want ErrClientClosed", err)
	}
	if hub.connections("alice") != 1 {
		t.Fatalf("alice has %d connections", hub.connections("alice"))
	}
}

func TestHubSkipsFailedWrites(t *testing.T) {
	hub := NewHub()
	broken, ok := &fakeConn{fail: true}, &fakeConn{}
	hub.Register("alice", broken)
	hub.Register("alice", ok)

	hub.Notify("alice", ErrorMessage("boom"))
	hub.Notify("nobody", ErrorMessage("boom"))
	if ok.count() != 1 {
		t.Fatal("healthy connection missed the message")
	}
}

func TestHubConcurrentNotify(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Register("alice", conn)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Notify("alice", ErrorMessage("x"))
		}()
	}
	wg.Wait()
	if conn.count() != 20 {
		t.Fatalf("got %d writes, want 20", conn.count())
	}
}
