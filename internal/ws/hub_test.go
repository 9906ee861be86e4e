package ws

import "testing"

func testClient(hub *Hub, userID string) *Client {
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan Message, 4),
	}
}

func TestHub_SendToUser(t *testing.T) {
	hub := NewHub()

	alice1 := testClient(hub, "usr_alice")
	alice2 := testClient(hub, "usr_alice")
	bob := testClient(hub, "usr_bob")
	hub.register(alice1)
	hub.register(alice2)
	hub.register(bob)

	hub.SendToUser("usr_alice", Message{Type: MessageTypeNotification, Data: "hello"})

	for _, c := range []*Client{alice1, alice2} {
		select {
		case msg := <-c.send:
			if msg.Type != MessageTypeNotification {
				t.Errorf("Expected notification message, got %s", msg.Type)
			}
		default:
			t.Error("Expected message for alice session")
		}
	}

	select {
	case <-bob.send:
		t.Error("Bob must not receive alice's message")
	default:
	}
}

func TestHub_SendToUser_FullBufferSkipped(t *testing.T) {
	hub := NewHub()

	c := &Client{hub: hub, userID: "usr_alice", send: make(chan Message, 1)}
	hub.register(c)

	// Fill the buffer; the second send must drop instead of blocking.
	hub.SendToUser("usr_alice", Message{Type: MessageTypeNotification})
	hub.SendToUser("usr_alice", Message{Type: MessageTypeNotification})

	if len(c.send) != 1 {
		t.Errorf("Expected 1 buffered message, got %d", len(c.send))
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	alice := testClient(hub, "usr_alice")
	bob := testClient(hub, "usr_bob")
	hub.register(alice)
	hub.register(bob)

	hub.Broadcast(Message{Type: MessageTypePing})

	for _, c := range []*Client{alice, bob} {
		select {
		case <-c.send:
		default:
			t.Error("Expected broadcast to reach every client")
		}
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := testClient(hub, "usr_alice")

	hub.register(c)
	if hub.ClientCount() != 1 {
		t.Errorf("Expected 1 client, got %d", hub.ClientCount())
	}

	hub.unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.ClientCount())
	}

	// Second unregister is a no-op, not a double close.
	hub.unregister(c)
}
