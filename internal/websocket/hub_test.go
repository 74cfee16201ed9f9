package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fileflow/internal/logging"
	"fileflow/internal/models"

	"github.com/stretchr/testify/require"
)

func TestHub_PublishEvent(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(logging.Discard())

	alice := NewClient(hub, nil, 1)
	bob := NewClient(hub, nil, 2)
	hub.registerClient(ctx, alice)
	hub.registerClient(ctx, bob)
	require.Equal(t, 1, hub.ClientCount(1))

	node := &models.Node{ID: "node1", OwnerID: 1, Name: "Docs", IsFolder: true}
	hub.PublishEvent(ctx, 1, NewNodeEvent(EventNodeCreated, node))

	require.Len(t, alice.send, 1)
	require.Empty(t, bob.send)

	var got Event
	require.NoError(t, json.Unmarshal(<-alice.send, &got))
	require.Equal(t, EventNodeCreated, got.Type)
	require.Equal(t, "node1", got.NodeID)
	require.Equal(t, "Docs", got.Node.Name)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(logging.Discard())
	client := NewClient(hub, nil, 1)
	hub.registerClient(ctx, client)

	node := &models.Node{ID: "node1", OwnerID: 1}
	for i := 0; i < sendBuffer+10; i++ {
		hub.PublishEvent(ctx, 1, NewNodeEvent(EventNodeDeleted, node))
	}
	require.Len(t, client.send, sendBuffer)
}

func TestHub_Unregister(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(logging.Discard())
	client := NewClient(hub, nil, 1)
	hub.registerClient(ctx, client)

	hub.unregisterClient(ctx, client)
	require.Zero(t, hub.ClientCount(1))

	_, open := <-client.send
	require.False(t, open)

	// A second unregister is a no-op.
	hub.unregisterClient(ctx, client)
}

func TestHub_RunClosesClientsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := NewClient(hub, nil, 7)
	require.True(t, hub.Register(client))
	cancel()
	<-done

	_, open := <-client.send
	require.False(t, open)
	require.Zero(t, hub.ClientCount(7))
}

func TestHub_RegisterAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	client := NewClient(hub, nil, 1)
	returned := make(chan bool, 1)
	go func() {
		ok := hub.Register(client)
		hub.Unregister(client)
		returned <- ok
	}()

	select {
	case ok := <-returned:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("Register blocked after the hub stopped")
	}
}
