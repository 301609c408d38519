package ws

import "github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/entity"

// Event types carried in the envelope's "type" field.
const (
	EventUsersList = "users_list"
	EventNewUser   = "new_user"
	EventNewHobby  = "new_hobby"
	EventError     = "error"
)

// Event is the JSON envelope exchanged with clients. Data is set on list and
// mutation events, Message on error replies.
type Event struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// HobbyEvent is the new_hobby payload. Field names are camelCase on the
// wire, unlike the snake_case user payloads; clients key on them as-is.
type HobbyEvent struct {
	UserID int64  `json:"userId"`
	Hobby  string `json:"hobby"`
}

// NewUserEvent wraps a freshly created user for broadcast.
func NewUserEvent(u entity.User) Event {
	return Event{Type: EventNewUser, Data: u}
}

// NewHobbyEvent wraps a freshly created hobby association for broadcast.
func NewHobbyEvent(userID int64, hobby string) Event {
	return Event{Type: EventNewHobby, Data: HobbyEvent{UserID: userID, Hobby: hobby}}
}

// UsersListEvent wraps the full aggregate for a get_users reply.
func UsersListEvent(users []entity.UserAggregate) Event {
	if users == nil {
		users = []entity.UserAggregate{}
	}
	return Event{Type: EventUsersList, Data: users}
}

// ErrorEvent wraps a query failure for a reply to the requesting client.
func ErrorEvent(err error) Event {
	return Event{Type: EventError, Message: err.Error()}
}
