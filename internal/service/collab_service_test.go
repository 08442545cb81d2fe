package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/collab-service/internal/domain"
	"github.com/weiawesome/wes-io-live/collab-service/internal/manager"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/jwt"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/pubsub"
)

type fakeSender struct {
	frames map[string][]*domain.Frame
}

func newFakeSender() *fakeSender {
	return &fakeSender{frames: make(map[string][]*domain.Frame)}
}

func (f *fakeSender) Send(connID string, v interface{}) bool {
	f.frames[connID] = append(f.frames[connID], v.(*domain.Frame))
	return true
}

// take returns and clears the frames sent to connID.
func (f *fakeSender) take(connID string) []*domain.Frame {
	out := f.frames[connID]
	delete(f.frames, connID)
	return out
}

func (f *fakeSender) reset() {
	f.frames = make(map[string][]*domain.Frame)
}

func (f *fakeSender) total() int {
	n := 0
	for _, frames := range f.frames {
		n += len(frames)
	}
	return n
}

type fakeEmitter struct {
	types []string
}

func (e *fakeEmitter) Emit(eventType, roomID string, payload interface{}) {
	e.types = append(e.types, eventType)
}

func types(frames []*domain.Frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Type
	}
	return out
}

func errorOf(t *testing.T, frames []*domain.Frame) *domain.ErrorPayload {
	t.Helper()
	require.Len(t, frames, 1)
	require.Equal(t, domain.EventError, frames[0].Type)
	return frames[0].Data.(*domain.ErrorPayload)
}

type fixture struct {
	mgr     *manager.Manager
	sender  *fakeSender
	emitter *fakeEmitter
	svc     CollabService
	ctx     context.Context
}

func newFixture(t *testing.T, verifier TokenVerifier, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		mgr:     manager.New(manager.DefaultConfig()),
		sender:  newFakeSender(),
		emitter: &fakeEmitter{},
		ctx:     context.Background(),
	}
	f.svc = NewCollabService(f.mgr, f.sender, f.emitter, verifier, opts)
	return f
}

func (f *fixture) joinUser(t *testing.T, connID, userID, name string) {
	t.Helper()
	require.NoError(t, f.svc.HandleJoinUser(f.ctx, connID, &domain.JoinUserRequest{UserID: userID, Name: name}))
}

func (f *fixture) createRoom(t *testing.T, connID string, max int) *domain.Room {
	t.Helper()
	require.NoError(t, f.svc.HandleCreateRoom(f.ctx, connID, &domain.CreateRoomRequest{MaxParticipants: &max}))
	frames := f.sender.take(connID)
	require.Len(t, frames, 1)
	require.Equal(t, domain.EventRoomCreated, frames[0].Type)
	return frames[0].Data.(*domain.RoomPayload).Room
}

func TestHandleConnectGreets(t *testing.T) {
	f := newFixture(t, nil, Options{})
	require.NoError(t, f.svc.HandleConnect(f.ctx, "c1"))

	frames := f.sender.take("c1")
	require.Len(t, frames, 1)
	assert.Equal(t, domain.EventConnected, frames[0].Type)
	assert.Equal(t, domain.StatusSuccess, frames[0].Data.(*domain.StatusPayload).Status)
}

func TestHandleJoinUser(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")

	frames := f.sender.take("c1")
	require.Len(t, frames, 1)
	assert.Equal(t, domain.EventUserRegistered, frames[0].Type)
	payload := frames[0].Data.(*domain.UserRegisteredPayload)
	assert.Equal(t, "u1", payload.UserID)
	assert.Equal(t, domain.StatusSuccess, payload.Status)
}

func TestHandleJoinUserTokenVerification(t *testing.T) {
	tokens, err := jwt.NewManager("secret", "auth-service")
	require.NoError(t, err)
	good, err := tokens.GenerateToken("u1", "alice", "a@example.com", time.Minute)
	require.NoError(t, err)

	f := newFixture(t, tokens, Options{RequireToken: true})

	err = f.svc.HandleJoinUser(f.ctx, "c1", &domain.JoinUserRequest{UserID: "u1", Name: "Alice"})
	assert.ErrorIs(t, err, ErrTokenRequired)
	assert.Equal(t, domain.ErrCodeUnauthorized, errorOf(t, f.sender.take("c1")).Code)

	err = f.svc.HandleJoinUser(f.ctx, "c1", &domain.JoinUserRequest{UserID: "u1", Name: "Alice", Token: "garbage"})
	assert.Error(t, err)
	assert.Equal(t, "Invalid identity token", errorOf(t, f.sender.take("c1")).Message)

	err = f.svc.HandleJoinUser(f.ctx, "c1", &domain.JoinUserRequest{UserID: "u2", Name: "Bob", Token: good})
	assert.ErrorIs(t, err, ErrIdentityMismatch)
	f.sender.take("c1")
	_, registered := f.mgr.Participant("c1")
	assert.False(t, registered)

	err = f.svc.HandleJoinUser(f.ctx, "c1", &domain.JoinUserRequest{UserID: "u1", Name: "Alice", Token: good})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.EventUserRegistered}, types(f.sender.take("c1")))
}

func TestHandleCreateRoom(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.sender.reset()

	room := f.createRoom(t, "c1", 2)
	assert.Equal(t, "u1", room.HostID)
	assert.Equal(t, 2, room.MaxParticipants)
	assert.Equal(t, []string{pubsub.EventRoomCreated}, f.emitter.types)

	err := f.svc.HandleCreateRoom(f.ctx, "c1", &domain.CreateRoomRequest{})
	assert.ErrorIs(t, err, manager.ErrAlreadyInRoom)
	assert.Equal(t, domain.ErrCodeAlreadyInRoom, errorOf(t, f.sender.take("c1")).Code)

	err = f.svc.HandleCreateRoom(f.ctx, "ghost", nil)
	assert.ErrorIs(t, err, manager.ErrNotRegistered)
	payload := errorOf(t, f.sender.take("ghost"))
	assert.Equal(t, domain.ErrCodeNotRegistered, payload.Code)
	assert.Equal(t, "User not registered", payload.Message)
}

// Scenarios A to D driven through the event handlers.
func TestRoomLifecycleScenarios(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.joinUser(t, "c3", "u3", "Carol")
	f.sender.reset()

	room := f.createRoom(t, "c1", 2)

	// A: U2 joins.
	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))

	joiner := f.sender.take("c2")
	assert.Equal(t, []string{
		domain.EventRoomJoined,
		domain.EventParticipantsUpdated,
		domain.EventChatHistory,
	}, types(joiner))
	joined := joiner[0].Data.(*domain.RoomPayload)
	assert.Len(t, joined.Room.Participants, 2)
	history := joiner[2].Data.(*domain.ChatHistoryPayload)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "Bob joined", history.Messages[0].Message)

	host := f.sender.take("c1")
	assert.Equal(t, []string{
		domain.EventParticipantJoined,
		domain.EventNewMessage,
		domain.EventParticipantsUpdated,
	}, types(host))
	assert.Equal(t, "u2", host[0].Data.(*domain.ParticipantJoinedPayload).User.UserID)
	notice := host[1].Data.(*domain.ChatMessage)
	assert.Equal(t, domain.MessageTypeSystem, notice.Type)
	updated := host[2].Data.(*domain.ParticipantsUpdatedPayload)
	require.Len(t, updated.Participants, 2)
	assert.Equal(t, domain.RoleHost, updated.Participants[0].Role)
	assert.Equal(t, "u1", updated.Participants[0].UserID)

	// B: U3 hits a full room.
	err := f.svc.HandleJoinRoom(f.ctx, "c3", &domain.JoinRoomRequest{RoomID: room.ID})
	assert.ErrorIs(t, err, manager.ErrRoomFull)
	payload := errorOf(t, f.sender.take("c3"))
	assert.Equal(t, domain.ErrCodeRoomFull, payload.Code)
	assert.Equal(t, "Failed to join room", payload.Message)
	assert.Zero(t, f.sender.total(), "rejections reach the origin only")
	snap, _ := f.mgr.Room(room.ID)
	assert.Len(t, snap.Participants, 2)

	// C: host disconnects.
	require.NoError(t, f.svc.HandleDisconnect(f.ctx, "c1"))
	survivor := f.sender.take("c2")
	assert.Equal(t, []string{
		domain.EventParticipantLeft,
		domain.EventHostChanged,
		domain.EventNewMessage,
		domain.EventParticipantsUpdated,
	}, types(survivor))
	changed := survivor[1].Data.(*domain.HostChangedPayload)
	assert.Equal(t, "u2", changed.HostID)
	assert.Equal(t, "Bob", changed.HostName)
	assert.Len(t, survivor[3].Data.(*domain.ParticipantsUpdatedPayload).Participants, 1)
	assert.Empty(t, f.sender.take("c1"))

	// D: last member disconnects and the room is gone.
	require.NoError(t, f.svc.HandleDisconnect(f.ctx, "c2"))
	assert.Zero(t, f.sender.total())
	assert.Contains(t, f.emitter.types, pubsub.EventRoomClosed)

	err = f.svc.HandleJoinRoom(f.ctx, "c3", &domain.JoinRoomRequest{RoomID: room.ID})
	assert.ErrorIs(t, err, manager.ErrRoomNotFound)
	assert.Equal(t, domain.ErrCodeRoomNotFound, errorOf(t, f.sender.take("c3")).Code)

	fresh := f.createRoom(t, "c3", 0)
	assert.NotEqual(t, room.ID, fresh.ID)
}

func TestJoinRoomRejectsDuplicateUser(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.sender.reset()
	room := f.createRoom(t, "c1", 5)

	f.joinUser(t, "c1b", "u1", "Alice")
	f.sender.reset()

	err := f.svc.HandleJoinRoom(f.ctx, "c1b", &domain.JoinRoomRequest{RoomID: room.ID})
	assert.ErrorIs(t, err, manager.ErrAlreadyMember)
	assert.Equal(t, domain.ErrCodeAlreadyMember, errorOf(t, f.sender.take("c1b")).Code)
}

func TestLeaveRoom(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.sender.reset()

	err := f.svc.HandleLeaveRoom(f.ctx, "c1")
	assert.ErrorIs(t, err, manager.ErrNotInRoom)
	assert.Equal(t, domain.ErrCodeNotInRoom, errorOf(t, f.sender.take("c1")).Code)

	room := f.createRoom(t, "c1", 0)
	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))
	f.sender.reset()

	require.NoError(t, f.svc.HandleLeaveRoom(f.ctx, "c2"))
	leaver := f.sender.take("c2")
	require.Equal(t, []string{domain.EventRoomLeft}, types(leaver))
	assert.Equal(t, room.ID, leaver[0].Data.(*domain.RoomLeftPayload).RoomID)

	assert.Equal(t, []string{
		domain.EventParticipantLeft,
		domain.EventNewMessage,
		domain.EventParticipantsUpdated,
	}, types(f.sender.take("c1")))

	// Still registered, so a new room can be created.
	f.createRoom(t, "c2", 0)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.sender.reset()
	room := f.createRoom(t, "c1", 0)
	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))
	f.sender.reset()

	require.NoError(t, f.svc.HandleDisconnect(f.ctx, "c2"))
	assert.Len(t, f.sender.take("c1"), 3)

	require.NoError(t, f.svc.HandleDisconnect(f.ctx, "c2"))
	require.NoError(t, f.svc.HandleDisconnect(f.ctx, "never-seen"))
	assert.Zero(t, f.sender.total())
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t, nil, Options{})

	err := f.svc.HandleSendMessage(f.ctx, "c1", &domain.SendMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, manager.ErrNotRegistered)
	f.sender.reset()

	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.sender.reset()

	err = f.svc.HandleSendMessage(f.ctx, "c1", &domain.SendMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, manager.ErrNotInRoom)
	payload := errorOf(t, f.sender.take("c1"))
	assert.Equal(t, "Not in a room", payload.Message)

	room := f.createRoom(t, "c1", 0)
	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))
	f.sender.reset()
	f.emitter.types = nil

	require.NoError(t, f.svc.HandleSendMessage(f.ctx, "c2", &domain.SendMessageRequest{Message: "hello"}))
	for _, conn := range []string{"c1", "c2"} {
		frames := f.sender.take(conn)
		require.Len(t, frames, 1, conn)
		msg := frames[0].Data.(*domain.ChatMessage)
		assert.Equal(t, "hello", msg.Message)
		assert.Equal(t, "Bob", msg.UserName)
		assert.Equal(t, domain.MessageTypeText, msg.Type)
	}
	assert.Equal(t, []string{pubsub.EventMessagePosted}, f.emitter.types)
}

func TestSendMessageChatDisabled(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.sender.reset()

	allow := false
	settings := &domain.RoomSettingsPatch{AllowChat: &allow}
	require.NoError(t, f.svc.HandleCreateRoom(f.ctx, "c1", &domain.CreateRoomRequest{Settings: settings}))
	f.sender.reset()

	err := f.svc.HandleSendMessage(f.ctx, "c1", &domain.SendMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrChatDisabled)
	assert.Equal(t, domain.ErrCodeChatDisabled, errorOf(t, f.sender.take("c1")).Code)
}

func TestChatHistoryReplayIsBounded(t *testing.T) {
	f := newFixture(t, nil, Options{HistoryReplay: 5})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.sender.reset()
	room := f.createRoom(t, "c1", 0)

	for i := 0; i < 10; i++ {
		require.NoError(t, f.svc.HandleSendMessage(f.ctx, "c1", &domain.SendMessageRequest{Message: fmt.Sprint(i)}))
	}
	f.sender.reset()

	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))
	frames := f.sender.take("c2")
	history := frames[len(frames)-1].Data.(*domain.ChatHistoryPayload)
	require.Len(t, history.Messages, 5)
	assert.Equal(t, "6", history.Messages[0].Message)
	assert.Equal(t, "Bob joined", history.Messages[4].Message)
}

func TestRelayRoutesToTargetOnly(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.joinUser(t, "c3", "u3", "Carol")
	f.sender.reset()

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	require.NoError(t, f.svc.HandleOffer(f.ctx, "c1", &domain.OfferRequest{TargetUserID: "u2", Offer: offer}))

	frames := f.sender.take("c2")
	require.Len(t, frames, 1)
	assert.Equal(t, domain.EventWebRTCOffer, frames[0].Type)
	payload := frames[0].Data.(*domain.OfferPayload)
	assert.Equal(t, "u1", payload.FromUserID)
	assert.JSONEq(t, string(offer), string(payload.Offer))
	assert.Zero(t, f.sender.total())

	answer := json.RawMessage(`{"type":"answer"}`)
	require.NoError(t, f.svc.HandleAnswer(f.ctx, "c2", &domain.AnswerRequest{TargetUserID: "u1", Answer: answer}))
	frames = f.sender.take("c1")
	require.Len(t, frames, 1)
	assert.Equal(t, "u2", frames[0].Data.(*domain.AnswerPayload).FromUserID)

	candidate := json.RawMessage(`{"candidate":"a=1"}`)
	require.NoError(t, f.svc.HandleICECandidate(f.ctx, "c3", &domain.ICECandidateRequest{TargetUserID: "u1", Candidate: candidate}))
	frames = f.sender.take("c1")
	require.Len(t, frames, 1)
	assert.Equal(t, domain.EventWebRTCICECandidate, frames[0].Type)
	assert.Zero(t, f.sender.total())
}

// Scenario F.
func TestRelayToUnknownTargetIsSilent(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.sender.reset()

	err := f.svc.HandleOffer(f.ctx, "c1", &domain.OfferRequest{
		TargetUserID: "nobody",
		Offer:        json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	assert.Zero(t, f.sender.total())
}

func TestRelayFollowsLatestRegistration(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2old", "u2", "Bob")
	f.joinUser(t, "c2new", "u2", "Bob")
	f.sender.reset()

	require.NoError(t, f.svc.HandleOffer(f.ctx, "c1", &domain.OfferRequest{TargetUserID: "u2", Offer: json.RawMessage(`{}`)}))
	assert.Len(t, f.sender.take("c2new"), 1)
	assert.Empty(t, f.sender.take("c2old"))

	require.NoError(t, f.svc.HandleDisconnect(f.ctx, "c2new"))
	require.NoError(t, f.svc.HandleOffer(f.ctx, "c1", &domain.OfferRequest{TargetUserID: "u2", Offer: json.RawMessage(`{}`)}))
	assert.Len(t, f.sender.take("c2old"), 1)
}

func TestRelayPrefersTargetConnectionInRoom(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	room := f.createRoom(t, "c1", 4)
	f.joinUser(t, "c2", "u2", "Bob")
	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))
	f.joinUser(t, "c1phone", "u1", "Alice-phone")
	f.sender.reset()

	require.NoError(t, f.svc.HandleOffer(f.ctx, "c2", &domain.OfferRequest{TargetUserID: "u1", Offer: json.RawMessage(`{}`)}))
	assert.Len(t, f.sender.take("c1"), 1)
	assert.Empty(t, f.sender.take("c1phone"))

	require.NoError(t, f.svc.HandleSendMessage(f.ctx, "c1", &domain.SendMessageRequest{Message: "hi"}))
	frames := f.sender.take("c2")
	require.Len(t, frames, 1)
	assert.Equal(t, "Alice", frames[0].Data.(*domain.ChatMessage).UserName)
}

func TestRelayFromUnregisteredSender(t *testing.T) {
	f := newFixture(t, nil, Options{})
	err := f.svc.HandleOffer(f.ctx, "c1", &domain.OfferRequest{TargetUserID: "u2", Offer: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, manager.ErrNotRegistered)
	assert.Equal(t, domain.ErrCodeNotRegistered, errorOf(t, f.sender.take("c1")).Code)
}

func TestToggleMedia(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.sender.reset()

	require.NoError(t, f.svc.HandleToggleMedia(f.ctx, "c1", manager.MediaVideo, false))
	assert.Zero(t, f.sender.total(), "toggles outside a room are ignored")

	room := f.createRoom(t, "c1", 0)
	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))
	f.sender.reset()

	require.NoError(t, f.svc.HandleToggleMedia(f.ctx, "c1", manager.MediaVideo, false))
	require.NoError(t, f.svc.HandleToggleMedia(f.ctx, "c1", manager.MediaAudio, false))
	assert.Empty(t, f.sender.take("c1"))

	frames := f.sender.take("c2")
	assert.Equal(t, []string{domain.EventParticipantVideoToggle, domain.EventParticipantAudioToggle}, types(frames))
	payload := frames[0].Data.(*domain.MediaToggledPayload)
	assert.Equal(t, "u1", payload.UserID)
	assert.False(t, payload.Enabled)

	p, _ := f.mgr.Participant("c1")
	assert.False(t, p.VideoEnabled)
	assert.False(t, p.AudioEnabled)
}

func TestScreenShare(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.joinUser(t, "c2", "u2", "Bob")
	f.sender.reset()
	room := f.createRoom(t, "c1", 0)
	require.NoError(t, f.svc.HandleJoinRoom(f.ctx, "c2", &domain.JoinRoomRequest{RoomID: room.ID}))
	f.sender.reset()

	require.NoError(t, f.svc.HandleScreenShare(f.ctx, "c2", true))
	require.NoError(t, f.svc.HandleScreenShare(f.ctx, "c2", false))
	assert.Empty(t, f.sender.take("c2"))
	frames := f.sender.take("c1")
	assert.Equal(t, []string{domain.EventScreenShareStarted, domain.EventScreenShareStopped}, types(frames))
	assert.Equal(t, "Bob", frames[0].Data.(*domain.ScreenSharePayload).UserName)
}

func TestScreenShareDisabled(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.sender.reset()

	allow := false
	settings := &domain.RoomSettingsPatch{AllowScreenShare: &allow}
	require.NoError(t, f.svc.HandleCreateRoom(f.ctx, "c1", &domain.CreateRoomRequest{Settings: settings}))
	f.sender.reset()

	err := f.svc.HandleScreenShare(f.ctx, "c1", true)
	assert.ErrorIs(t, err, ErrScreenShareOff)
	assert.Equal(t, domain.ErrCodeScreenShareDisabled, errorOf(t, f.sender.take("c1")).Code)
}

func TestGetRoomInfo(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.joinUser(t, "c1", "u1", "Alice")
	f.sender.reset()
	room := f.createRoom(t, "c1", 0)

	require.NoError(t, f.svc.HandleGetRoomInfo(f.ctx, "c9", &domain.GetRoomInfoRequest{RoomID: room.ID}))
	frames := f.sender.take("c9")
	require.Len(t, frames, 1)
	assert.Equal(t, domain.EventRoomInfo, frames[0].Type)
	assert.Equal(t, room.ID, frames[0].Data.(*domain.Room).ID)

	err := f.svc.HandleGetRoomInfo(f.ctx, "c9", &domain.GetRoomInfoRequest{RoomID: "room_missing0"})
	assert.ErrorIs(t, err, manager.ErrRoomNotFound)
	assert.Equal(t, "Room not found", errorOf(t, f.sender.take("c9")).Message)
}

func TestPing(t *testing.T) {
	f := newFixture(t, nil, Options{})
	require.NoError(t, f.svc.HandlePing(f.ctx, "c1"))
	frames := f.sender.take("c1")
	require.Len(t, frames, 1)
	assert.Equal(t, domain.EventPong, frames[0].Type)
	assert.False(t, frames[0].Data.(*domain.PongPayload).Timestamp.IsZero())
}
