package client

import (
	"context"
	"sync"

	"taskmanager/collection"
	"taskmanager/gateway"
	"taskmanager/models"
	"taskmanager/view"
)

// Session identifies the signed-in user. AuthToken is the opaque bearer
// credential handed over by the authentication collaborator.
type Session struct {
	UserID    string
	AuthToken string
}

// Token implements gateway.TokenSource.
func (s Session) Token() string { return s.AuthToken }

const eventBufferSize = 16

// Client is the presentation-facing facade: one authoritative collection, a
// category index, the current query state and a notification stream. One
// client instance serves one user session.
type Client struct {
	session    Session
	tasks      *collection.TaskCollection
	categories *view.CategoryIndex

	mu      sync.RWMutex
	query   view.Query
	loading bool
	lastErr error

	events chan collection.Event
}

func New(gw gateway.TaskGateway, session Session) *Client {
	c := &Client{
		session:    session,
		categories: view.NewCategoryIndex(gw),
		query:      view.Query{Filter: view.FilterAll, Sort: view.SortCreated},
		events:     make(chan collection.Event, eventBufferSize),
	}
	c.tasks = collection.New(gw, collection.NotifierFunc(c.publish))
	return c
}

// publish forwards an event to the stream without ever blocking a mutation
// on a slow reader; overflow is dropped.
func (c *Client) publish(e collection.Event) {
	select {
	case c.events <- e:
	default:
	}
}

// Events is the stream of transient success/failure messages.
func (c *Client) Events() <-chan collection.Event {
	return c.events
}

// Refresh loads tasks and categories for the session's user.
func (c *Client) Refresh(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	if err := c.tasks.Load(ctx, c.session.UserID); err != nil {
		c.setErr(err)
		return err
	}
	if err := c.categories.Reload(ctx, c.session.UserID); err != nil {
		c.setErr(err)
		return err
	}
	c.setErr(nil)
	return nil
}

// Tasks derives the current display list from the collection, the category
// index and the query state.
func (c *Client) Tasks() []models.DisplayTask {
	c.mu.RLock()
	query := c.query
	c.mu.RUnlock()
	return view.Derive(c.tasks.Snapshot(), c.categories, query)
}

func (c *Client) Categories() []models.Category {
	return c.categories.Categories()
}

func (c *Client) Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	draft.OwnerID = c.session.UserID
	return c.tasks.Create(ctx, draft)
}

func (c *Client) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	return c.tasks.Update(ctx, id, patch)
}

func (c *Client) ToggleCompletion(ctx context.Context, id string) (*models.Task, error) {
	return c.tasks.ToggleCompletion(ctx, id)
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.tasks.Remove(ctx, id)
}

func (c *Client) SetSearch(search string) {
	c.mu.Lock()
	c.query.Search = search
	c.mu.Unlock()
}

func (c *Client) SetFilter(filter view.Filter) {
	c.mu.Lock()
	c.query.Filter = filter
	c.mu.Unlock()
}

func (c *Client) SetSort(sort view.SortKey) {
	c.mu.Lock()
	c.query.Sort = sort
	c.mu.Unlock()
}

func (c *Client) Query() view.Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the outcome of the most recent refresh.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Client) Session() Session {
	return c.session
}

// Close tears the client down; in-flight responses are dropped, not applied.
func (c *Client) Close() {
	c.tasks.Close()
}

func (c *Client) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Client) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
