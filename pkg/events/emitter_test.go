package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Ramsey-B/fern/pkg/appctx"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys    []string
	values  [][]byte
	headers []map[string]string
	err     error
}

func (r *recordingPublisher) Publish(ctx context.Context, key string, value []byte, headers map[string]string) error {
	if r.err != nil {
		return r.err
	}
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
	r.headers = append(r.headers, headers)
	return nil
}

func TestEmitterPublishesChangeEvent(t *testing.T) {
	pub := &recordingPublisher{}
	emitter := NewEmitter(pub, logging.Discard())

	ctx := appctx.SetRequestID(context.Background(), "req-1")
	ctx = appctx.SetUserID(ctx, "user-1")

	err := emitter.Emit(ctx, EntityPet, ActionCreated, "pet-1", true, map[string]string{"name": "Rex"})
	require.NoError(t, err)
	require.Len(t, pub.values, 1)

	assert.Equal(t, "pet-1", pub.keys[0])
	assert.Equal(t, "pet.created", pub.headers[0]["event_type"])

	var event ChangeEvent
	require.NoError(t, json.Unmarshal(pub.values[0], &event))
	assert.Equal(t, SchemaVersion, event.SchemaVersion)
	assert.Equal(t, "pet.created", event.EventType)
	assert.Equal(t, "pet-1", event.EntityID)
	assert.True(t, event.Seeded)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "req-1", event.RequestID)
}

func TestEmitterReturnsPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	emitter := NewEmitter(pub, logging.Discard())

	err := emitter.Emit(context.Background(), EntityFriend, ActionDeleted, "f-1", false, nil)
	assert.EqualError(t, err, "broker down")
}
