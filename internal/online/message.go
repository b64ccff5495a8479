package online

import (
	"sync"

	"rts-lobby/internal/models"
)

type MessageKind int

const (
	PlayerJoined MessageKind = iota + 1
	PlayerLeft
	PlayerChanged
	ChatReceived
	RoomAdded
	RoomUpdated
	RoomRemoved
	GameAdded
	GameUpdated
	GameRemoved
	JoinGameResult
	CreateGameResult
	Disconnected
)

var kindNames = map[MessageKind]string{
	PlayerJoined:     "player_joined",
	PlayerLeft:       "player_left",
	PlayerChanged:    "player_changed",
	ChatReceived:     "chat",
	RoomAdded:        "room_added",
	RoomUpdated:      "room_updated",
	RoomRemoved:      "room_removed",
	GameAdded:        "game_added",
	GameUpdated:      "game_updated",
	GameRemoved:      "game_removed",
	JoinGameResult:   "join_game_result",
	CreateGameResult: "create_game_result",
	Disconnected:     "disconnected",
}

func (k MessageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ChatMessage is one line of group room chat.
type ChatMessage struct {
	From      string
	ProfileID int64
	Text      string
	Action    bool
	Private   bool
}

// Message is one entry of the polled backend queue. Only the fields that
// belong to Kind are set.
type Message struct {
	Kind   MessageKind
	Member models.RoomMember
	Chat   ChatMessage
	Room   models.GroupRoom
	RoomID int
	Game   models.StagingRoom
	GameID int
	Result models.JoinResult
	Reason string
}

// DefaultQueueCapacity bounds the backlog a stalled UI can accumulate.
const DefaultQueueCapacity = 1024

// Queue is a bounded FIFO shared by the transport goroutine (producer) and
// the UI tick (consumer). When full, the oldest message is dropped.
type Queue struct {
	mu       sync.Mutex
	items    []Message
	capacity int
	dropped  int
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{capacity: capacity}
}

func (q *Queue) Push(msg Message) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, msg)
}

// Poll removes and returns at most max messages in arrival order.
func (q *Queue) Poll(max int) []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	if max <= 0 || len(q.items) == 0 {
		return nil
	}
	if max > len(q.items) {
		max = len(q.items)
	}
	out := make([]Message, max)
	copy(out, q.items[:max])
	q.items = q.items[max:]
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped is the number of messages discarded because the queue was full.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
