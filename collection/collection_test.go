package collection

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskmanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	listFn   func(ownerID string) ([]models.Task, error)
	createFn func(draft models.TaskDraft) (*models.Task, error)
	updateFn func(id string, patch models.TaskPatch) (*models.Task, error)
	deleteFn func(id string) error

	calls int
}

func (f *fakeGateway) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	f.calls++
	return f.listFn(ownerID)
}

func (f *fakeGateway) Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	f.calls++
	return f.createFn(draft)
}

func (f *fakeGateway) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	f.calls++
	return f.updateFn(id, patch)
}

func (f *fakeGateway) Delete(ctx context.Context, id string) error {
	f.calls++
	return f.deleteFn(id)
}

func (f *fakeGateway) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	f.calls++
	return nil, nil
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Notify(e Event) {
	n.events = append(n.events, e)
}

func seededCollection(t *testing.T, tasks []models.Task) (*TaskCollection, *fakeGateway, *recordingNotifier) {
	t.Helper()
	gw := &fakeGateway{
		listFn: func(ownerID string) ([]models.Task, error) {
			return tasks, nil
		},
	}
	notifier := &recordingNotifier{}
	c := New(gw, notifier)
	require.NoError(t, c.Load(context.Background(), "user-1"))
	gw.calls = 0
	notifier.events = nil
	return c, gw, notifier
}

func task(id, title string) models.Task {
	return models.Task{
		ID:        id,
		Title:     title,
		Priority:  models.PriorityMedium,
		OwnerID:   "user-1",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLoadReplacesSetAndRecordsOwner(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ownerID string) ([]models.Task, error) {
			assert.Equal(t, "user-1", ownerID)
			return []models.Task{task("1", "one"), task("2", "two")}, nil
		},
	}
	notifier := &recordingNotifier{}
	c := New(gw, notifier)

	require.NoError(t, c.Load(context.Background(), "user-1"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "user-1", c.OwnerID())
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventSuccess, notifier.events[0].Kind)
}

func TestLoadFailureKeepsPreviousSet(t *testing.T) {
	c, gw, notifier := seededCollection(t, []models.Task{task("1", "one")})
	before := c.Snapshot()

	gw.listFn = func(ownerID string) ([]models.Task, error) {
		return nil, &models.TransportError{Op: "list tasks", Err: errors.New("connection refused")}
	}

	err := c.Load(context.Background(), "user-1")
	require.Error(t, err)

	var transportErr *models.TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, before, c.Snapshot())
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventError, notifier.events[0].Kind)
}

func TestCreateValidationShortCircuitsWithoutNetworkCall(t *testing.T) {
	c, gw, notifier := seededCollection(t, nil)

	_, err := c.Create(context.Background(), models.TaskDraft{Title: "   "})
	require.Error(t, err)

	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, 0, gw.calls, "validation failure must not reach the gateway")
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventError, notifier.events[0].Kind)
}

func TestCreateInsertsCanonicalTaskAtHead(t *testing.T) {
	c, gw, notifier := seededCollection(t, []models.Task{task("1", "existing")})

	canonical := task("server-id", "new task")
	canonical.CreatedAt = time.Now().UTC()
	gw.createFn = func(draft models.TaskDraft) (*models.Task, error) {
		assert.Equal(t, models.PriorityMedium, draft.Priority, "missing priority defaults to medium")
		assert.Equal(t, "user-1", draft.OwnerID)
		return &canonical, nil
	}

	created, err := c.Create(context.Background(), models.TaskDraft{Title: "new task"})
	require.NoError(t, err)
	assert.Equal(t, "server-id", created.ID)

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "server-id", snapshot[0].ID, "canonical task goes to the head")
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventSuccess, notifier.events[0].Kind)
}

func TestCreateGatewayFailureLeavesSetUnchanged(t *testing.T) {
	c, gw, notifier := seededCollection(t, []models.Task{task("1", "one")})
	before := c.Snapshot()

	gw.createFn = func(draft models.TaskDraft) (*models.Task, error) {
		return nil, &models.ServerRejectedError{Op: "create task", StatusCode: 400, Body: "bad payload"}
	}

	_, err := c.Create(context.Background(), models.TaskDraft{Title: "doomed"})
	require.Error(t, err)

	var rejectedErr *models.ServerRejectedError
	assert.True(t, errors.As(err, &rejectedErr))
	assert.Equal(t, before, c.Snapshot())
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventError, notifier.events[0].Kind)
}

func TestUpdateUnknownIDFailsWithoutNetworkCall(t *testing.T) {
	c, gw, notifier := seededCollection(t, []models.Task{task("1", "one")})

	_, err := c.Update(context.Background(), "missing", models.TaskPatch{})
	require.Error(t, err)

	var notFoundErr *models.NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, 0, gw.calls)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventError, notifier.events[0].Kind)
}

func TestUpdateStoresServerRepresentationNotLocalGuess(t *testing.T) {
	c, gw, _ := seededCollection(t, []models.Task{task("1", "one")})

	// the server normalizes the title; the collection must take its word
	normalized := task("1", "One")
	normalized.Completed = true
	gw.updateFn = func(id string, patch models.TaskPatch) (*models.Task, error) {
		return &normalized, nil
	}

	title := "  one  "
	updated, err := c.Update(context.Background(), "1", models.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "One", updated.Title)

	stored, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "One", stored.Title)
	assert.True(t, stored.Completed)
}

func TestUpdateGatewayFailureLeavesSetUnchanged(t *testing.T) {
	c, gw, _ := seededCollection(t, []models.Task{task("1", "one"), task("2", "two")})
	before := c.Snapshot()

	gw.updateFn = func(id string, patch models.TaskPatch) (*models.Task, error) {
		return nil, &models.TransportError{Op: "update task", Err: errors.New("timeout")}
	}

	completed := true
	_, err := c.Update(context.Background(), "2", models.TaskPatch{Completed: &completed})
	require.Error(t, err)
	assert.Equal(t, before, c.Snapshot())
}

func TestToggleCompletionFlipsFlag(t *testing.T) {
	c, gw, _ := seededCollection(t, []models.Task{task("1", "one")})

	gw.updateFn = func(id string, patch models.TaskPatch) (*models.Task, error) {
		require.NotNil(t, patch.Completed)
		assert.True(t, *patch.Completed)
		result := task("1", "one")
		result.Completed = *patch.Completed
		return &result, nil
	}

	updated, err := c.ToggleCompletion(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	// toggling back sends false
	gw.updateFn = func(id string, patch models.TaskPatch) (*models.Task, error) {
		require.NotNil(t, patch.Completed)
		assert.False(t, *patch.Completed)
		result := task("1", "one")
		return &result, nil
	}
	_, err = c.ToggleCompletion(context.Background(), "1")
	require.NoError(t, err)
}

func TestRemoveDeletesFromSetOnSuccess(t *testing.T) {
	c, gw, notifier := seededCollection(t, []models.Task{task("1", "one"), task("2", "two")})

	gw.deleteFn = func(id string) error { return nil }

	require.NoError(t, c.Remove(context.Background(), "1"))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("1")
	assert.False(t, ok)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventSuccess, notifier.events[0].Kind)
}

func TestRemoveGatewayFailureLeavesSetUnchanged(t *testing.T) {
	c, gw, _ := seededCollection(t, []models.Task{task("1", "one")})
	before := c.Snapshot()

	gw.deleteFn = func(id string) error {
		return &models.TransportError{Op: "delete task", Err: errors.New("connection reset")}
	}

	err := c.Remove(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, before, c.Snapshot())
}

func TestCloseDropsResponsesInsteadOfApplyingThem(t *testing.T) {
	c, gw, notifier := seededCollection(t, []models.Task{task("1", "one")})

	canonical := task("late", "late arrival")
	gw.createFn = func(draft models.TaskDraft) (*models.Task, error) {
		// the view is torn down while the request is in flight
		c.Close()
		return &canonical, nil
	}

	_, err := c.Create(context.Background(), models.TaskDraft{Title: "late arrival"})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len(), "late response must not be applied")
	_, ok := c.Get("late")
	assert.False(t, ok)
	assert.Empty(t, notifier.events, "no events after teardown")
}
