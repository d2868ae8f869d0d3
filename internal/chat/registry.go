package chat

// Session is the per-connection state the core tracks: which room the
// connection currently belongs to (at most one) and the display name it
// picked on create/join.
type Session struct {
	Name string
	Room string // current room code, "" when not in a room
}

// Registry maps live connections to their sessions. Guarded by the Service
// mutex, like the Store.
type Registry struct {
	sessions map[Conn]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[Conn]*Session)}
}

// Add registers a session for a transport handle. If the connection is
// already registered its existing session is returned untouched; replacing
// it would orphan the membership entry a room may still hold for it.
func (g *Registry) Add(c Conn) *Session {
	if sess, ok := g.sessions[c]; ok {
		return sess
	}
	sess := &Session{}
	g.sessions[c] = sess
	return sess
}

func (g *Registry) Lookup(c Conn) *Session {
	return g.sessions[c]
}

// Remove deletes the session and returns it, or nil if the connection was
// already gone. The nil return is what makes the close path idempotent.
func (g *Registry) Remove(c Conn) *Session {
	sess, ok := g.sessions[c]
	if !ok {
		return nil
	}
	delete(g.sessions, c)
	return sess
}

func (g *Registry) Len() int { return len(g.sessions) }
