package chat

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// scheduleRemovalLocked arms the empty-room deletion timer. The callback
// re-acquires the service mutex and re-checks state, so a join that lands
// between the timer firing and the lock being taken wins.
func (s *ChatService) scheduleRemovalLocked(room *Room) {
	room.scheduleRemoval(s.emptyRoomTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		current, ok := s.store.Get(room.Code)
		if !ok || current != room || current.MemberCount() > 0 {
			return
		}
		current.removal = nil
		s.store.Delete(room.Code)
		zap.L().Info("chat.room_removed",
			zap.String("room", room.Code),
			zap.String("reason", "empty_timeout"))
	})
}

// RunSweeper deletes long-inactive empty rooms on a fixed cadence until the
// context is cancelled. It is a safety net behind the per-room empty timer
// and never touches a room that still has members.
func (s *ChatService) RunSweeper(ctx context.Context, interval, inactiveAfter time.Duration) {
	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			s.sweep(inactiveAfter)
		}
	}
}

func (s *ChatService) sweep(inactiveAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var expired []*Room
	s.store.ForEach(func(r *Room) {
		if r.MemberCount() == 0 && now.Sub(r.lastActivity) > inactiveAfter {
			expired = append(expired, r)
		}
	})

	for _, r := range expired {
		r.cancelRemoval()
		s.store.Delete(r.Code)
		zap.L().Info("chat.room_removed",
			zap.String("room", r.Code),
			zap.String("reason", "inactive"))
	}
}
