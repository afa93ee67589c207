package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	present map[string]bool
	err     error

	checked []string
}

func (f *fakeObjectStore) Exists(ctx context.Context, objectKey string) (bool, error) {
	f.checked = append(f.checked, objectKey)
	if f.err != nil {
		return false, f.err
	}
	return f.present[objectKey], nil
}

func newTestWorker(store *fakeObjectStore) *MediaWorker {
	return NewMediaWorker(nil, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessJob_ChecksEveryKey(t *testing.T) {
	store := &fakeObjectStore{present: map[string]bool{
		"ab/avatar-1.png": true,
		"ab/cover-1.jpg":  false,
	}}
	w := newTestWorker(store)

	payload, err := json.Marshal(MediaCheckJob{
		UserID:     "user-1",
		ObjectKeys: []string{"ab/avatar-1.png", "ab/cover-1.jpg"},
	})
	require.NoError(t, err)

	w.processJob(context.Background(), payload)
	assert.Equal(t, []string{"ab/avatar-1.png", "ab/cover-1.jpg"}, store.checked)
}

func TestProcessJob_StoreErrorDoesNotStopRemainingKeys(t *testing.T) {
	store := &fakeObjectStore{err: errors.New("head request failed")}
	w := newTestWorker(store)

	payload, err := json.Marshal(MediaCheckJob{
		UserID:     "user-1",
		ObjectKeys: []string{"a", "b"},
	})
	require.NoError(t, err)

	w.processJob(context.Background(), payload)
	assert.Len(t, store.checked, 2)
}

func TestProcessJob_MalformedPayloadIgnored(t *testing.T) {
	store := &fakeObjectStore{}
	w := newTestWorker(store)

	w.processJob(context.Background(), []byte("not-json"))
	assert.Empty(t, store.checked)
}
