package types

import (
	"encoding/json"

	"github.com/blockshift/blockshift-server/internal/game"
)

// MessageType identifies the kind of envelope sent over the wire.
type MessageType string

const (
	// Client -> Server
	MsgJoinRoom      MessageType = "joinRoom"
	MsgUpdateProfile MessageType = "updateProfile"
	MsgLineClear     MessageType = "lineClear"

	// Server -> Client
	MsgJoinAck         MessageType = "joinAck"
	MsgProfileAck      MessageType = "profileAck"
	MsgError           MessageType = "error"
	MsgMemberJoined    MessageType = "memberJoined"
	MsgMemberLeft      MessageType = "memberLeft"
	MsgProfileUpdated  MessageType = "profileUpdated"
	MsgBoardResize     MessageType = "boardResize"
	MsgIncomingGarbage MessageType = "incomingGarbage"
	MsgComboEffect     MessageType = "comboEffect"
	MsgRanksUpdated    MessageType = "ranksUpdated"
)

// Stable error codes carried in acks.
const (
	ErrCodeInvalidRoom   = "invalid_room"
	ErrCodeAlreadyInRoom = "already_in_room"
	ErrCodeBadProfile    = "bad_profile"
	ErrCodeBadJSON       = "bad_json"
	ErrCodeUnknownType   = "unknown_type"
)

type ClientMessage struct {
	Type      MessageType     `json:"type"`
	RoomID    string          `json:"room_id,omitempty"`
	Profile   json.RawMessage `json:"profile,omitempty"`
	ClearType string          `json:"clear_type,omitempty"`
	Lines     int             `json:"lines,omitempty"`
}

// Envelope is the top-level wire format for every server -> client message.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type PlayerInfo struct {
	ID      string       `json:"id"`
	Profile game.Profile `json:"profile"`
	Score   int          `json:"score"`
}

type JoinAck struct {
	OK      bool         `json:"ok"`
	Players []PlayerInfo `json:"players,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type ProfileAck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type MemberLeft struct {
	ID string `json:"id"`
}

type ProfileUpdated struct {
	ID      string       `json:"id"`
	Profile game.Profile `json:"profile"`
}

type BoardResize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type IncomingGarbage struct {
	Lines int    `json:"lines"`
	From  string `json:"from"`
}

type ComboEffect struct {
	Combo      int  `json:"combo"`
	BackToBack bool `json:"back_to_back"`
}

// ranksUpdated carries []game.RankEntry as its payload: the full ordered
// list, sent to every room member each time.
