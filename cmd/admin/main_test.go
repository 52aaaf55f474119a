package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"dmchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePair(t *testing.T) {
	a, b, err := parsePair([]string{"3", "17"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, a)
	assert.EqualValues(t, 17, b)

	for _, args := range [][]string{{"0", "1"}, {"x", "1"}, {"1", "-2"}} {
		_, _, err := parsePair(args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"users", "history", "delete-conversation", "online"}, names)
}

func TestHistoryCommand_RejectsBadIDsBeforeConnecting(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"history", "alice", "2"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid user id "alice"`)
}

func TestDeleteConversationCommand_RequiresTwoArgs(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"delete-conversation", "1"})

	assert.Error(t, root.Execute())
}

func TestRenderUsers(t *testing.T) {
	var out bytes.Buffer
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	renderUsers(&out, []models.User{
		{ID: 1, Username: "alice", CreatedAt: created},
		{ID: 2, Username: "bob", CreatedAt: created},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "USERNAME")
	assert.Contains(t, lines[1], "alice")
	assert.Contains(t, lines[1], "2024-05-01 09:30")
	assert.Contains(t, lines[2], "bob")
}

func TestRenderHistory(t *testing.T) {
	var out bytes.Buffer
	renderHistory(&out, []models.Message{
		{ID: 7, SenderID: 1, ReceiverID: 2, Text: "hello there", CreatedAt: time.Date(2024, 5, 1, 9, 30, 5, 0, time.UTC)},
	})

	text := out.String()
	assert.Contains(t, text, "FROM")
	assert.Contains(t, text, "hello there")
	assert.Contains(t, text, "2024-05-01 09:30:05")
}

func TestRenderOnline(t *testing.T) {
	var out bytes.Buffer
	renderOnline(&out, []uint{4, 9})

	text := out.String()
	assert.Contains(t, text, "USER ID")
	assert.Contains(t, text, "9")
	assert.Contains(t, text, "2 online")
}
