package core

// Client is one live connection as seen by the core layer. ID is an opaque
// handle issued by the transport on connect and reused for nothing else.
// Name is owned by the transport's read goroutine; the hub never touches it
// and receives display names through commands instead.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event
	Rooms    map[string]struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id, name string) *Client {
	return &Client{
		ID:       id,
		Name:     name,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		Rooms:    make(map[string]struct{}),
	}
}

// send delivers an event without blocking the hub loop.
func (c *Client) send(event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
