package chat

import (
	"crypto/rand"
	"strings"
)

const (
	codeLength      = 6
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 64
)

// Store owns the room table. It is not safe for concurrent use on its own;
// the Service serializes every access, including the lifecycle timers.
type Store struct {
	rooms map[string]*Room // code -> room, codes stored upper case
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

// Create inserts a new room under a fresh collision-checked code. Codes are
// drawn from a 36^6 space, so running out of attempts is practically
// unreachable at any realistic room count.
func (s *Store) Create(name string) (*Room, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}
		if _, taken := s.rooms[code]; taken {
			continue
		}
		room := newRoom(code, name)
		s.rooms[code] = room
		return room, nil
	}
	return nil, codeSpaceExhausted()
}

// Get looks a room up by code, case-insensitively.
func (s *Store) Get(code string) (*Room, bool) {
	room, ok := s.rooms[strings.ToUpper(code)]
	return room, ok
}

// Delete removes a room. No-op if the code is already absent.
func (s *Store) Delete(code string) {
	delete(s.rooms, strings.ToUpper(code))
}

// ForEach visits every room. The callback must not add or delete rooms.
func (s *Store) ForEach(fn func(*Room)) {
	for _, room := range s.rooms {
		fn(room)
	}
}

func (s *Store) Len() int { return len(s.rooms) }

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
