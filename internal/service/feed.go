package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// EventType tags the origin of an activity event.
type EventType string

const (
	EventRoomCreate     EventType = "room_create"
	EventRoomJoin       EventType = "room_join"
	EventReviewWrite    EventType = "review_write"
	EventReviewReceived EventType = "review_received"
	EventRaidLog        EventType = "raid_log"
	EventSystem         EventType = "system"
)

// sourceRank fixes the order between events with identical timestamps. Lower
// ranks sort first; within one source, higher entity ids sort first. This is
// the documented tie-break for the merged feed.
var sourceRank = map[EventType]int{
	EventRoomCreate:     0,
	EventRoomJoin:       1,
	EventReviewWrite:    2,
	EventReviewReceived: 3,
	EventRaidLog:        4,
	EventSystem:         5,
}

// EventMeta is the per-type metadata bag. Fields that do not apply to an
// event type are left unset and omitted from JSON.
type EventMeta struct {
	RoomID   *uint  `json:"room_id,omitempty"`
	Boss     string `json:"boss,omitempty"`
	ActorID  *uint  `json:"actor_id,omitempty"`
	TargetID *uint  `json:"target_id,omitempty"`
	Rating   *int   `json:"rating,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// ActivityEvent is the normalized feed entry. It is derived fresh on every
// query and never persisted.
type ActivityEvent struct {
	Type        EventType `json:"type"`
	EntityID    uint      `json:"entity_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Meta        EventMeta `json:"meta"`
}

const (
	// feedSourceWindow bounds how many rows are pulled from each source
	// before merging.
	feedSourceWindow = 50

	// FeedMaxLimit caps the merged feed length; out-of-range limits are
	// clamped, not rejected.
	FeedMaxLimit = 50

	feedCacheTTL = 15 * time.Second
)

// FeedService merges the independent event sources into one bounded,
// chronologically ordered feed. Read-only; a failing source degrades the
// feed instead of failing it.
type FeedService struct {
	store repository.Store
	cache *redis.Client // optional; nil disables caching
}

// NewFeedService creates a FeedService. cache may be nil.
func NewFeedService(store repository.Store, cache *redis.Client) *FeedService {
	if store == nil {
		panic("store cannot be nil for FeedService")
	}
	return &FeedService{store: store, cache: cache}
}

// Build returns the merged feed, at most limit entries, newest first.
func (s *FeedService) Build(ctx context.Context, limit int) ([]ActivityEvent, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > FeedMaxLimit {
		limit = FeedMaxLimit
	}

	if cached, ok := s.cacheGet(ctx, limit); ok {
		return cached, nil
	}

	events := s.collect(ctx)

	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if sourceRank[a.Type] != sourceRank[b.Type] {
			return sourceRank[a.Type] < sourceRank[b.Type]
		}
		return a.EntityID > b.EntityID
	})

	if len(events) > limit {
		events = events[:limit]
	}

	s.cacheSet(ctx, limit, events)
	return events, nil
}

// collect pulls and normalizes every source. Sources that fail are logged
// and skipped so the remaining feed is still served.
func (s *FeedService) collect(ctx context.Context) []ActivityEvent {
	events := make([]ActivityEvent, 0, 6*feedSourceWindow)

	rooms, err := s.store.Rooms().Recent(ctx, feedSourceWindow)
	if err != nil {
		logrus.WithError(err).Warn("Feed source unavailable: room creations")
	}
	for i := range rooms {
		events = append(events, roomCreateEvent(&rooms[i]))
	}

	joins, err := s.store.Memberships().Recent(ctx, feedSourceWindow)
	if err != nil {
		logrus.WithError(err).Warn("Feed source unavailable: room joins")
	}
	for i := range joins {
		events = append(events, roomJoinEvent(&joins[i]))
	}

	authored, err := s.store.Reviews().RecentAuthored(ctx, feedSourceWindow)
	if err != nil {
		logrus.WithError(err).Warn("Feed source unavailable: reviews authored")
	}
	for i := range authored {
		events = append(events, reviewWriteEvent(&authored[i]))
	}

	received, err := s.store.Reviews().RecentReceived(ctx, feedSourceWindow)
	if err != nil {
		logrus.WithError(err).Warn("Feed source unavailable: reviews received")
	}
	for i := range received {
		events = append(events, reviewReceivedEvent(&received[i]))
	}

	raidLogs, err := s.store.Logs().RecentRaid(ctx, feedSourceWindow)
	if err != nil {
		logrus.WithError(err).Warn("Feed source unavailable: raid log")
	}
	for i := range raidLogs {
		events = append(events, raidLogEvent(&raidLogs[i]))
	}

	sysLogs, err := s.store.Logs().RecentSystem(ctx, feedSourceWindow)
	if err != nil {
		logrus.WithError(err).Warn("Feed source unavailable: system log")
	}
	for i := range sysLogs {
		events = append(events, systemEvent(&sysLogs[i]))
	}

	return events
}

func roomCreateEvent(room *models.Room) ActivityEvent {
	roomID := room.ID
	ownerID := room.OwnerID
	return ActivityEvent{
		Type:        EventRoomCreate,
		EntityID:    room.ID,
		Title:       fmt.Sprintf("Raid room opened: %s", room.Boss),
		Description: room.Note,
		CreatedAt:   room.CreatedAt,
		Meta: EventMeta{
			RoomID:  &roomID,
			Boss:    room.Boss,
			ActorID: &ownerID,
		},
	}
}

func roomJoinEvent(m *models.Membership) ActivityEvent {
	roomID := m.RoomID
	userID := m.UserID
	return ActivityEvent{
		Type:      EventRoomJoin,
		EntityID:  m.UserID,
		Title:     fmt.Sprintf("User %d joined a raid", m.UserID),
		CreatedAt: m.JoinedAt,
		Meta: EventMeta{
			RoomID:  &roomID,
			Boss:    m.Room.Boss,
			ActorID: &userID,
		},
	}
}

func reviewWriteEvent(r *models.Review) ActivityEvent {
	roomID := r.RoomID
	authorID := r.AuthorID
	rating := r.Rating
	return ActivityEvent{
		Type:        EventReviewWrite,
		EntityID:    r.ID,
		Title:       fmt.Sprintf("Review posted: %d/5", r.Rating),
		Description: r.Comment,
		CreatedAt:   r.CreatedAt,
		Meta: EventMeta{
			RoomID:  &roomID,
			Boss:    r.Room.Boss,
			ActorID: &authorID,
			Rating:  &rating,
			Comment: r.Comment,
		},
	}
}

func reviewReceivedEvent(r *models.Review) ActivityEvent {
	roomID := r.RoomID
	authorID := r.AuthorID
	hostID := r.Room.OwnerID
	rating := r.Rating
	return ActivityEvent{
		Type:      EventReviewReceived,
		EntityID:  r.ID,
		Title:     fmt.Sprintf("Host %d received a %d/5 review", hostID, r.Rating),
		CreatedAt: r.CreatedAt,
		Meta: EventMeta{
			RoomID:   &roomID,
			Boss:     r.Room.Boss,
			ActorID:  &authorID,
			TargetID: &hostID,
			Rating:   &rating,
		},
	}
}

func raidLogEvent(l *models.RaidLog) ActivityEvent {
	roomID := l.RoomID
	return ActivityEvent{
		Type:        EventRaidLog,
		EntityID:    l.ID,
		Title:       "Raid event",
		Description: l.Detail,
		CreatedAt:   l.LoggedAt,
		Meta:        EventMeta{RoomID: &roomID},
	}
}

func systemEvent(l *models.SystemLog) ActivityEvent {
	return ActivityEvent{
		Type:        EventSystem,
		EntityID:    l.ID,
		Title:       "System event",
		Description: l.Message,
		CreatedAt:   l.CreatedAt,
		Meta:        EventMeta{ActorID: l.ActorID},
	}
}

func feedCacheKey(limit int) string {
	return fmt.Sprintf("feed:%d", limit)
}

func (s *FeedService) cacheGet(ctx context.Context, limit int) ([]ActivityEvent, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, feedCacheKey(limit)).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Debug("Feed cache read failed")
		}
		return nil, false
	}
	var events []ActivityEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		logrus.WithError(err).Debug("Feed cache entry unreadable")
		return nil, false
	}
	return events, true
}

func (s *FeedService) cacheSet(ctx context.Context, limit int, events []ActivityEvent) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, feedCacheKey(limit), raw, feedCacheTTL).Err(); err != nil {
		logrus.WithError(err).Debug("Feed cache write failed")
	}
}
