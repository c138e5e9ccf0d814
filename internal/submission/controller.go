// Package submission drives one file through encode, request and analysis
// and keeps the page's submit affordance in sync with it.
package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/file-analyzer/backend/internal/models"
	"github.com/google/uuid"
)

// ErrNoFileSelected is returned by Submit when there is nothing to analyze.
var ErrNoFileSelected = errors.New("please select a file first")

// Encoder turns a selected file into a payload.
type Encoder interface {
	Encode(ctx context.Context, file *models.FileHandle) (*models.EncodedPayload, error)
}

// Analyzer sends a request to the analysis endpoint.
type Analyzer interface {
	Submit(ctx context.Context, req *models.AnalysisRequest, endpoint string) (*models.AnalysisResult, error)
}

// Config wires a Controller to its collaborators.
type Config struct {
	Encoder  Encoder
	Analyzer Analyzer
	Endpoint string
	// Timeout bounds one attempt, encode and request together. Zero means no limit.
	Timeout time.Duration
}

// attempt identifies one submission and the file it was started for.
type attempt struct {
	token string
	file  *models.FileHandle
}

// Controller owns the SubmissionState of one page surface.
// At most one attempt is current; completions of any other attempt are dropped.
type Controller struct {
	cfg Config

	mu          sync.Mutex
	state       models.SubmissionState
	file        *models.FileHandle
	current     *attempt
	result      *models.AnalysisResult
	errMsg      string
	lastActive  time.Time
	subscribers map[int]chan models.View
	nextSub     int

	wg sync.WaitGroup
}

// NewController creates a controller in the idle state.
func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:         cfg,
		state:       models.SubmissionIdle,
		lastActive:  time.Now(),
		subscribers: make(map[int]chan models.View),
	}
}

// Select records the user's current file selection. A nil file clears it.
// Any attempt still running for a previous selection becomes stale.
func (c *Controller) Select(file *models.FileHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		fmt.Printf("[Submission %s] Superseded by new file selection\n", c.current.token[:8])
	}

	c.file = file
	c.current = nil
	c.result = nil
	c.errMsg = ""
	if file == nil {
		c.state = models.SubmissionIdle
	} else {
		c.state = models.SubmissionAwaitingFileSelection
	}
	c.touchLocked()
	c.publishLocked()
}

// Submit starts an attempt for the selected file. It returns false without
// an error when an attempt is already encoding or requesting.
// ctx is used for its values only; the attempt outlives the caller.
func (c *Controller) Submit(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touchLocked()
	if c.file == nil {
		return false, ErrNoFileSelected
	}
	if c.state.InFlight() {
		fmt.Printf("[Submission %s] Ignoring submit, attempt in flight\n", c.current.token[:8])
		return false, nil
	}

	att := &attempt{token: uuid.New().String(), file: c.file}
	c.current = att
	c.state = models.SubmissionEncoding
	c.result = nil
	c.errMsg = ""
	c.publishLocked()

	c.wg.Add(1)
	go c.run(context.WithoutCancel(ctx), att)

	return true, nil
}

// run performs one attempt. Encoding strictly precedes the request.
func (c *Controller) run(ctx context.Context, att *attempt) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Submission %s] PANIC recovered: %v\n", att.token[:8], r)
			c.fail(att, fmt.Errorf("analysis panicked: %v", r))
		}
	}()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	fmt.Printf("[Submission %s] Encoding %s (%s)\n", att.token[:8], att.file.Name, att.file.MimeType)

	result, err := execute(ctx, c.cfg, att.file, func(payload *models.EncodedPayload) {
		c.commit(att, func() {
			c.state = models.SubmissionRequesting
		}, false)
		fmt.Printf("[Submission %s] Requesting analysis (%d base64 bytes)\n", att.token[:8], len(payload.Data))
	})
	if err != nil {
		c.fail(att, err)
		return
	}

	if c.commit(att, func() {
		c.state = models.SubmissionSuccess
		c.result = result
	}, true) {
		fmt.Printf("[Submission %s] Complete in %v: %s\n", att.token[:8], time.Since(start).Round(time.Millisecond), result.FileType)
	}
}

func (c *Controller) fail(att *attempt, err error) {
	msg := UserMessage(err)
	if c.commit(att, func() {
		c.state = models.SubmissionFailed
		c.errMsg = msg
	}, true) {
		fmt.Printf("[Submission %s] Failed: %v\n", att.token[:8], err)
	}
}

// commit applies fn if att is still the current attempt for the selected
// file. final releases the attempt. It reports whether fn was applied.
func (c *Controller) commit(att *attempt, fn func(), final bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != att || c.file != att.file {
		fmt.Printf("[Submission %s] Discarding stale completion\n", att.token[:8])
		return false
	}

	fn()
	if final {
		c.current = nil
	}
	c.publishLocked()
	return true
}

// View returns the current projection of the controller's state.
func (c *Controller) View() models.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// State returns the current submission state.
func (c *Controller) State() models.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether the current attempt is encoding or requesting.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.InFlight()
}

// Watched reports whether any subscriber is streaming this controller's views.
func (c *Controller) Watched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscribers) > 0
}

// LastActive returns when the user last interacted with the controller.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Wait blocks until every attempt started by this controller has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Subscribe returns a channel receiving the current view and then one view
// per transition. Slow readers only see the latest view. The returned func
// unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan models.View, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan models.View, 1)
	ch <- c.viewLocked()
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
			c.touchLocked()
		})
	}
}

func (c *Controller) viewLocked() models.View {
	snap := Snapshot{
		State:  c.state,
		Result: c.result,
		Error:  c.errMsg,
	}
	if c.file != nil {
		snap.FileName = c.file.Name
	}
	return Render(snap)
}

func (c *Controller) touchLocked() {
	c.lastActive = time.Now()
}

// publishLocked pushes the current view to subscribers, replacing any view
// they have not read yet.
func (c *Controller) publishLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	v := c.viewLocked()
	for _, ch := range c.subscribers {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
