// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation implements the claim-verification chat session: the
// transcript, the draft being composed, the staged image and the lifecycle
// of the single in-flight verification.
package conversation

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/imageprev"
	"github.com/jeranaias/verifact-tui/internal/logging"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

// DefaultTimeout bounds a single verification when Options.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNothingToSubmit is returned by Submit when the draft is blank and no
	// image is staged.
	ErrNothingToSubmit = errors.New("nothing to submit")

	// ErrInFlight is returned while a verification is outstanding.
	ErrInFlight = errors.New("a verification is already in progress")

	// ErrNothingToRetry is returned by Retry when the last verification did not fail.
	ErrNothingToRetry = errors.New("no failed verification to retry")

	// ErrInvalidImage is returned by StageImage for an empty reference.
	ErrInvalidImage = errors.New("image reference has no path or name")
)

// =============================================================================
// STATE
// =============================================================================

// State is the controller's coarse lifecycle state.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

// Failure describes the most recent verification that did not resolve.
type Failure struct {
	Query model.Query
	Err   error
	At    time.Time
}

// Timeout reports whether the failure was a timeout.
func (f Failure) Timeout() bool {
	return errors.Is(f.Err, verify.ErrTimeout)
}

// StagedImage is the attachment waiting to be submitted.
type StagedImage struct {
	Ref        model.ImageRef
	Preview    *imageprev.Preview
	PreviewErr error
}

// Clock returns the current time.
type Clock func() time.Time

// Decoder produces an image preview.
type Decoder func(ctx context.Context, path string) (imageprev.Preview, error)

// Options configures a Controller. Only Verifier is required.
type Options struct {
	Verifier  verify.Verifier
	Recorder  history.Recorder
	Navigator Navigator
	Clock     Clock
	Logger    *zap.Logger
	Timeout   time.Duration
	Decoder   Decoder
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns one conversation session. All methods are safe for
// concurrent use; verification and preview decoding run on background
// goroutines and report through the handles returned by Submit and
// StageImage.
type Controller struct {
	mu sync.Mutex

	verifier  verify.Verifier
	recorder  history.Recorder
	navigator Navigator
	now       Clock
	logger    *zap.Logger
	decode    Decoder

	transcript *model.Transcript
	draft      string
	staged     *StagedImage
	stageGen   uint64
	inFlight   bool
	started    bool
	failure    *Failure
	focus      bool

	cancelVerify context.CancelFunc
	cancelDecode context.CancelFunc
	closed       bool
	wg           sync.WaitGroup
}

// New creates a controller. It panics if opts.Verifier is nil.
func New(opts Options) *Controller {
	if opts.Verifier == nil {
		panic("conversation: nil Verifier")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	decode := opts.Decoder
	if decode == nil {
		decode = imageprev.Decode
	}

	return &Controller{
		verifier:   verify.WithTimeout(opts.Verifier, timeout),
		recorder:   opts.Recorder,
		navigator:  opts.Navigator,
		now:        now,
		logger:     logging.OrNop(opts.Logger).Named("conversation"),
		decode:     decode,
		transcript: model.NewTranscript(),
	}
}

// SetNavigator replaces the navigation target. The TUI sets itself here once
// the root model exists.
func (c *Controller) SetNavigator(n Navigator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigator = n
}

// Close cancels outstanding work and waits for background goroutines.
// Later submissions fail with context.Canceled.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancelVerify != nil {
		c.cancelVerify()
	}
	if c.cancelDecode != nil {
		c.cancelDecode()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// =============================================================================
// DRAFT
// =============================================================================

// SetDraft replaces the text being composed.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the text being composed.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// ApplySuggestion puts prompt in the draft and requests input focus.
// It never submits.
func (c *Controller) ApplySuggestion(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = prompt
	c.focus = true
}

// FocusRequested reports whether input focus was requested since the last
// call, clearing the request.
func (c *Controller) FocusRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.focus
	c.focus = false
	return f
}

// =============================================================================
// IMAGE STAGING
// =============================================================================

// Staging tracks the asynchronous preview decode of one staged image.
type Staging struct {
	ref  model.ImageRef
	done chan struct{}

	preview *imageprev.Preview
	err     error
	current bool
}

// Ref returns the staged reference.
func (s *Staging) Ref() model.ImageRef { return s.ref }

// Done is closed when decoding finishes or is abandoned.
func (s *Staging) Done() <-chan struct{} { return s.done }

// Preview returns the decoded preview, or nil. Valid after Done.
func (s *Staging) Preview() *imageprev.Preview { return s.preview }

// Err returns the decode error. Valid after Done.
func (s *Staging) Err() error { return s.err }

// Current reports whether the preview was attached, i.e. this staging was
// still the staged image when decoding finished. Valid after Done.
func (s *Staging) Current() bool { return s.current }

// StageImage stages ref for the next submission, silently replacing any
// staged image, and starts decoding its preview.
func (c *Controller) StageImage(ctx context.Context, ref model.ImageRef) (*Staging, error) {
	if ref.Name == "" && ref.Path != "" {
		ref.Name = filepath.Base(ref.Path)
	}
	if ref.Name == "" {
		return nil, ErrInvalidImage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, context.Canceled
	}
	if c.cancelDecode != nil {
		c.cancelDecode()
	}
	c.stageGen++
	gen := c.stageGen
	c.staged = &StagedImage{Ref: ref}

	dctx, cancel := context.WithCancel(ctx)
	c.cancelDecode = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	s := &Staging{ref: ref, done: make(chan struct{})}

	go func() {
		defer c.wg.Done()
		defer close(s.done)
		defer cancel()

		var (
			preview imageprev.Preview
			err     error
		)
		if ref.Path == "" {
			err = imageprev.ErrUnsupportedImage
		} else {
			preview, err = c.decode(dctx, ref.Path)
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		s.err = err
		if err == nil {
			s.preview = &preview
		}
		if c.stageGen != gen || c.staged == nil {
			return
		}
		s.current = true
		c.staged.Preview = s.preview
		c.staged.PreviewErr = err
		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Debug("image preview failed", zap.String("image", ref.Name), zap.Error(err))
		}
	}()

	return s, nil
}

// UnstageImage clears the staged image. It is idempotent.
func (c *Controller) UnstageImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearStagedLocked()
}

func (c *Controller) clearStagedLocked() {
	c.staged = nil
	c.stageGen++
	if c.cancelDecode != nil {
		c.cancelDecode()
		c.cancelDecode = nil
	}
}

// StagedImage returns a copy of the staged image, or nil.
func (c *Controller) StagedImage() *StagedImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staged == nil {
		return nil
	}
	cp := *c.staged
	return &cp
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Pending tracks one verification round trip.
type Pending struct {
	query model.Query
	done  chan struct{}

	message *model.VerifactMessage
	err     error
}

// Query returns the snapshot being verified.
func (p *Pending) Query() model.Query { return p.query }

// Done is closed once the verification resolves or fails.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Message returns the appended response. Valid after Done; nil on failure.
func (p *Pending) Message() *model.VerifactMessage { return p.message }

// Err returns the classified failure. Valid after Done.
func (p *Pending) Err() error { return p.err }

// Wait blocks until the verification finishes or ctx ends.
func (p *Pending) Wait(ctx context.Context) (*model.VerifactMessage, error) {
	select {
	case <-p.done:
		return p.message, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit appends the draft as a user message, clears the draft and staged
// image, and starts verifying the snapshot in the background.
//
// Submit returns ErrNothingToSubmit for a blank draft without an image and
// ErrInFlight while another verification is outstanding; in both cases
// nothing changes.
func (c *Controller) Submit(ctx context.Context) (*Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := strings.TrimSpace(c.draft)
	if text == "" && c.staged == nil {
		return nil, ErrNothingToSubmit
	}
	if c.inFlight {
		return nil, ErrInFlight
	}
	if c.closed {
		return nil, context.Canceled
	}

	var ref *model.ImageRef
	if c.staged != nil {
		r := c.staged.Ref
		ref = &r
	}
	msg, err := model.NewUserMessage(text, ref, c.now())
	if err != nil {
		return nil, err
	}

	c.transcript.Append(msg)
	c.draft = ""
	c.clearStagedLocked()
	c.started = true
	c.failure = nil

	query := msg.Snapshot()
	c.logger.Info("verification submitted",
		zap.String("message_id", msg.ID),
		zap.Int("query_len", len(query.Text)),
		zap.Bool("has_image", query.ImageName != ""))

	return c.startLocked(ctx, query), nil
}

// Retry re-verifies the snapshot of the last failed verification without
// adding another user message.
func (c *Controller) Retry(ctx context.Context) (*Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, ErrInFlight
	}
	if c.failure == nil {
		return nil, ErrNothingToRetry
	}
	if c.closed {
		return nil, context.Canceled
	}

	query := c.failure.Query
	c.failure = nil
	c.logger.Info("verification retried", zap.Int("query_len", len(query.Text)))

	return c.startLocked(ctx, query), nil
}

func (c *Controller) startLocked(ctx context.Context, query model.Query) *Pending {
	c.inFlight = true

	vctx, cancel := context.WithCancel(ctx)
	c.cancelVerify = cancel
	p := &Pending{query: query, done: make(chan struct{})}

	c.wg.Add(1)
	go c.run(vctx, cancel, p)
	return p
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, p *Pending) {
	defer c.wg.Done()
	defer close(p.done)
	defer cancel()

	start := c.now()
	res, err := c.verifier.Verify(ctx, p.query)

	c.mu.Lock()
	c.inFlight = false
	c.cancelVerify = nil
	if err != nil {
		err = verify.Classify(err)
		c.failure = &Failure{Query: p.query, Err: err, At: c.now()}
		p.err = err
		c.mu.Unlock()

		c.logger.Warn("verification failed",
			zap.Int("query_len", len(p.query.Text)),
			zap.Duration("latency", c.now().Sub(start)),
			zap.Error(err))
		return
	}

	msg := model.NewVerifactMessage(res.Status, res.Summary, res.Details, p.query, c.now())
	c.transcript.Append(msg)
	p.message = msg
	recorder := c.recorder
	c.mu.Unlock()

	c.logger.Info("verification resolved",
		zap.String("message_id", msg.ID),
		zap.String("status", msg.Status.String()),
		zap.Duration("latency", c.now().Sub(start)))

	if recorder != nil {
		rctx, rcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer rcancel()
		if _, err := recorder.Record(rctx, history.FromVerification(msg)); err != nil {
			c.logger.Warn("failed to record verification", zap.Error(err))
		}
	}
}

// =============================================================================
// DERIVED STATE
// =============================================================================

// CanSubmit reports whether Submit would start a verification.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.inFlight && !c.closed && (strings.TrimSpace(c.draft) != "" || c.staged != nil)
}

// Loading reports whether a verification is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Started reports whether anything has been submitted this session.
// The welcome screen is shown until then.
func (c *Controller) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return StateAwaitingResponse
	}
	return StateIdle
}

// Messages returns the transcript in creation order.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Messages()
}

// Len returns the number of transcript messages.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Len()
}

// LastFailure returns the most recent unresolved failure, or nil.
func (c *Controller) LastFailure() *Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure == nil {
		return nil
	}
	f := *c.failure
	return &f
}

// DismissFailure forgets the last failure.
func (c *Controller) DismissFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = nil
}

// Navigate forwards path to the navigator, if any.
func (c *Controller) Navigate(path string) {
	c.mu.Lock()
	nav := c.navigator
	c.mu.Unlock()
	if nav != nil {
		nav.Navigate(path)
	}
}
