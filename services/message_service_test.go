package services

import (
	"testing"

	"github.com/flexoffhq/flexoff/config"
	"github.com/flexoffhq/flexoff/db"
	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessageService(t *testing.T, conf *config.Config) (MessageService, *db.GormDB, *fakeCache) {
	t.Helper()
	gdb := setupTestDB(t)
	c := newFakeCache()
	if conf == nil {
		conf = testConfig()
	}
	return NewMessageService(db.NewConversationRepo(gdb), c, conf), gdb, c
}

func TestListConversationsRequiresAuth(t *testing.T) {
	svc, _, _ := newTestMessageService(t, nil)

	_, err := svc.ListConversations(0)
	require.NotNil(t, err)
	assert.Equal(t, apiError.ErrUnauthorized, err)
}

func TestListConversationsEmpty(t *testing.T) {
	svc, gdb, _ := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")

	summaries, err := svc.ListConversations(alice.ID)
	require.Nil(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestGetOrCreateConversation(t *testing.T) {
	svc, gdb, _ := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.Nil(t, err)
	require.NotNil(t, conv)

	// Repeat calls from either side return the same conversation.
	again, err := svc.GetOrCreateConversation(bob.ID, alice.ID)
	require.Nil(t, err)
	assert.Equal(t, conv.ID, again.ID)
}

func TestGetOrCreateConversationRejectsSelf(t *testing.T) {
	svc, gdb, _ := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")

	_, err := svc.GetOrCreateConversation(alice.ID, alice.ID)
	require.NotNil(t, err)
	assert.Equal(t, apiError.ErrSelfConversation, err)
}

func TestSendMessageValidation(t *testing.T) {
	svc, gdb, _ := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")
	carol := createTestUser(t, gdb, "carol")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.Nil(t, err)

	_, err = svc.SendMessage(alice.ID, conv.ID, "   ")
	require.NotNil(t, err)
	assert.Equal(t, apiError.ErrEmptyMessageContent, err)

	_, err = svc.SendMessage(carol.ID, conv.ID, "let me in")
	require.NotNil(t, err)
	assert.Equal(t, apiError.ErrNotAParticipant, err)

	_, err = svc.SendMessage(0, conv.ID, "anonymous")
	require.NotNil(t, err)
	assert.Equal(t, apiError.ErrUnauthorized, err)
}

func TestSendAndListMessages(t *testing.T) {
	svc, gdb, _ := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.Nil(t, err)

	sent, err := svc.SendMessage(alice.ID, conv.ID, "  hello bob  ")
	require.Nil(t, err)
	assert.Equal(t, "hello bob", sent.Content)
	assert.False(t, sent.Read)

	_, err = svc.SendMessage(bob.ID, conv.ID, "hi alice")
	require.Nil(t, err)

	views, err := svc.ListMessages(alice.ID, conv.ID)
	require.Nil(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "hello bob", views[0].Content)
	assert.True(t, views[0].SenderIsSelf)
	assert.Equal(t, "hi alice", views[1].Content)
	assert.False(t, views[1].SenderIsSelf)

	// Listing marked bob's message read, so alice has no unread left.
	summaries, err := svc.ListConversations(alice.ID)
	require.Nil(t, err)
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 0, summaries[0].UnreadCount)
	assert.Equal(t, bob.ID, summaries[0].OtherUser.ID)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "hi alice", summaries[0].LastMessage.Content)
}

func TestListMessagesRequiresParticipation(t *testing.T) {
	svc, gdb, _ := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")
	carol := createTestUser(t, gdb, "carol")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.Nil(t, err)

	_, err = svc.ListMessages(carol.ID, conv.ID)
	require.NotNil(t, err)
	assert.Equal(t, apiError.ErrNotAParticipant, err)

	_, err = svc.ListMessages(carol.ID, uuid.New())
	require.NotNil(t, err)
	assert.Equal(t, apiError.ErrNotAParticipant, err)
}

func TestUnreadCountBeforeReading(t *testing.T) {
	svc, gdb, _ := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.Nil(t, err)

	for _, content := range []string{"one", "two", "three"} {
		_, sErr := svc.SendMessage(bob.ID, conv.ID, content)
		require.Nil(t, sErr)
	}

	summaries, err := svc.ListConversations(alice.ID)
	require.Nil(t, err)
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 3, summaries[0].UnreadCount)

	// The sender's own view carries no unread messages.
	summaries, err = svc.ListConversations(bob.ID)
	require.Nil(t, err)
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 0, summaries[0].UnreadCount)
}

func TestEmptyConversationVisibility(t *testing.T) {
	t.Run("hidden by default", func(t *testing.T) {
		svc, gdb, _ := newTestMessageService(t, nil)
		alice := createTestUser(t, gdb, "alice")
		bob := createTestUser(t, gdb, "bob")

		_, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
		require.Nil(t, err)

		summaries, err := svc.ListConversations(alice.ID)
		require.Nil(t, err)
		assert.Empty(t, summaries)
	})

	t.Run("shown when configured", func(t *testing.T) {
		conf := testConfig()
		conf.ShowEmptyConversations = true
		svc, gdb, _ := newTestMessageService(t, conf)
		alice := createTestUser(t, gdb, "alice")
		bob := createTestUser(t, gdb, "bob")

		_, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
		require.Nil(t, err)

		summaries, err := svc.ListConversations(alice.ID)
		require.Nil(t, err)
		require.Len(t, summaries, 1)
		assert.Nil(t, summaries[0].LastMessage)
	})
}

func TestConversationCacheInvalidation(t *testing.T) {
	svc, gdb, c := newTestMessageService(t, nil)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.Nil(t, err)

	_, err = svc.ListConversations(alice.ID)
	require.Nil(t, err)
	aliceKey := conversationsCacheKey(alice.ID)
	assert.True(t, c.has(aliceKey))

	// Sending drops both participants' cached lists.
	_, err = svc.SendMessage(bob.ID, conv.ID, "hello")
	require.Nil(t, err)
	assert.False(t, c.has(aliceKey))
	assert.Contains(t, c.deleted, conversationsCacheKey(bob.ID))

	// A fresh list is served and re-cached after invalidation.
	summaries, err := svc.ListConversations(alice.ID)
	require.Nil(t, err)
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 1, summaries[0].UnreadCount)
	assert.True(t, c.has(aliceKey))

	// Reading invalidates the reader's list again.
	_, err = svc.ListMessages(alice.ID, conv.ID)
	require.Nil(t, err)
	assert.False(t, c.has(aliceKey))
}
