// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/verifact-tui/internal/history"
	"github.com/jeranaias/verifact-tui/internal/imageprev"
	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// TEST DOUBLES
// =============================================================================

// gatedVerifier blocks each call until release receives a response.
type gatedVerifier struct {
	mu      sync.Mutex
	queries []model.Query
	release chan gateResponse
}

type gateResponse struct {
	res verify.Result
	err error
}

func newGatedVerifier() *gatedVerifier {
	return &gatedVerifier{release: make(chan gateResponse)}
}

func (g *gatedVerifier) Verify(ctx context.Context, q model.Query) (verify.Result, error) {
	g.mu.Lock()
	g.queries = append(g.queries, q)
	g.mu.Unlock()
	select {
	case r := <-g.release:
		return r.res, r.err
	case <-ctx.Done():
		return verify.Result{}, ctx.Err()
	}
}

func (g *gatedVerifier) calls() []model.Query {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.Query, len(g.queries))
	copy(out, g.queries)
	return out
}

func (g *gatedVerifier) resolve(status model.Status) {
	g.release <- gateResponse{res: verify.Result{Status: status, Summary: "summary", Details: "one\n\ntwo"}}
}

func (g *gatedVerifier) fail(err error) {
	g.release <- gateResponse{err: err}
}

type recorderFunc func(ctx context.Context, r history.Record) (history.Record, error)

func (f recorderFunc) Record(ctx context.Context, r history.Record) (history.Record, error) {
	return f(ctx, r)
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for completion")
	}
}

func newTestController(t *testing.T, v verify.Verifier, opts ...func(*Options)) *Controller {
	t.Helper()
	o := Options{Verifier: v, Timeout: 5 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}
	c := New(o)
	t.Cleanup(c.Close)
	return c
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_AppendsUserMessageImmediately(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	c.SetDraft("  Is the moon made of cheese?  ")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	user, ok := msgs[0].(*model.UserMessage)
	require.True(t, ok)
	assert.Equal(t, "Is the moon made of cheese?", user.Text)

	assert.Equal(t, "", c.Draft(), "draft cleared")
	assert.True(t, c.Loading())
	assert.True(t, c.Started())
	assert.Equal(t, StateAwaitingResponse, c.State())
	assert.False(t, c.CanSubmit())

	v.resolve(model.StatusVerified)
	wait(t, p.Done())

	msgs = c.Messages()
	require.Len(t, msgs, 2)
	resp, ok := msgs[1].(*model.VerifactMessage)
	require.True(t, ok)
	assert.Equal(t, model.StatusVerified, resp.Status)
	assert.Equal(t, model.Query{Text: "Is the moon made of cheese?"}, resp.OriginalQuery)
	assert.Same(t, resp, p.Message())
	assert.NoError(t, p.Err())
	assert.False(t, c.Loading())
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmit_BlankDraftIsNoop(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	for _, draft := range []string{"", "   ", "\n\t "} {
		c.SetDraft(draft)
		p, err := c.Submit(context.Background())
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrNothingToSubmit)
		assert.False(t, c.CanSubmit())
	}
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Started())
	assert.Empty(t, v.calls())
}

func TestSubmit_WhileInFlightIsNoop(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	c.SetDraft("first")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)

	c.SetDraft("second")
	p2, err := c.Submit(context.Background())
	assert.Nil(t, p2)
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, 1, c.Len(), "no second user message")
	assert.Equal(t, "second", c.Draft(), "draft untouched by rejected submit")

	v.resolve(model.StatusPending)
	wait(t, p.Done())

	assert.Equal(t, 2, c.Len())
	assert.Len(t, v.calls(), 1)
	assert.True(t, c.CanSubmit())
}

func TestSubmit_SnapshotIndependentOfLaterDraft(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	c.SetDraft("original claim")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)

	c.SetDraft("edited afterwards")
	v.resolve(model.StatusDebunked)
	wait(t, p.Done())

	assert.Equal(t, "original claim", p.Message().OriginalQuery.Text)
	assert.Equal(t, []model.Query{{Text: "original claim"}}, v.calls())
}

func TestSubmit_ImageOnly(t *testing.T) {
	v := newGatedVerifier()
	decoded := make(chan struct{})
	c := newTestController(t, v, func(o *Options) {
		o.Decoder = func(ctx context.Context, path string) (imageprev.Preview, error) {
			close(decoded)
			return imageprev.Preview{Format: "png", Width: 2, Height: 2}, nil
		}
	})

	s, err := c.StageImage(context.Background(), model.ImageRef{Path: "/tmp/dolphin.png"})
	require.NoError(t, err)
	wait(t, s.Done())
	<-decoded
	assert.True(t, s.Current())
	assert.Equal(t, "dolphin.png", c.StagedImage().Ref.Name)
	assert.NotNil(t, c.StagedImage().Preview)
	assert.True(t, c.CanSubmit())

	p, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c.StagedImage(), "staged image cleared on submit")

	user := c.Messages()[0].(*model.UserMessage)
	assert.Equal(t, "", user.Text)
	assert.Equal(t, "dolphin.png", user.ImageName())
	assert.Equal(t, model.Query{ImageName: "dolphin.png"}, p.Query())

	v.resolve(model.StatusInconclusive)
	wait(t, p.Done())
	assert.Equal(t, "dolphin.png", p.Message().OriginalQuery.ImageName)
}

func TestSubmit_TextAndImageTogether(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v, func(o *Options) {
		o.Decoder = func(ctx context.Context, path string) (imageprev.Preview, error) {
			return imageprev.Preview{}, nil
		}
	})

	_, err := c.StageImage(context.Background(), model.ImageRef{Path: "/x/a.jpg", Name: "a.jpg"})
	require.NoError(t, err)
	c.SetDraft("what is this?")

	p, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Query{Text: "what is this?", ImageName: "a.jpg"}, p.Query())

	v.resolve(model.StatusVerified)
	wait(t, p.Done())
}

// Every resolved verification is immediately preceded by the user message
// whose snapshot it carries.
func TestTranscript_AlternatesUserAndResponse(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	for i, claim := range []string{"one", "two", "three"} {
		c.SetDraft(claim)
		p, err := c.Submit(context.Background())
		require.NoError(t, err)
		v.resolve(model.AllStatuses[i])
		wait(t, p.Done())
	}

	msgs := c.Messages()
	require.Len(t, msgs, 6)
	for i := 0; i < len(msgs); i += 2 {
		user := msgs[i].(*model.UserMessage)
		resp := msgs[i+1].(*model.VerifactMessage)
		assert.Equal(t, user.Snapshot(), resp.OriginalQuery)
		assert.False(t, resp.CreatedAt.Before(user.CreatedAt))
	}
}

// =============================================================================
// FAILURE AND RETRY TESTS
// =============================================================================

func TestSubmit_FailureReturnsToIdle(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	c.SetDraft("claim")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)

	v.fail(errors.New("connection reset"))
	wait(t, p.Done())

	assert.True(t, errors.Is(p.Err(), verify.ErrRequestFailed))
	assert.Nil(t, p.Message())
	assert.Equal(t, 1, c.Len(), "no response message on failure")
	assert.False(t, c.Loading())
	assert.Equal(t, StateIdle, c.State())

	f := c.LastFailure()
	require.NotNil(t, f)
	assert.Equal(t, model.Query{Text: "claim"}, f.Query)
	assert.False(t, f.Timeout())
}

func TestSubmit_TimeoutIsClassified(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v, func(o *Options) { o.Timeout = 20 * time.Millisecond })

	c.SetDraft("slow claim")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)
	wait(t, p.Done())

	assert.True(t, errors.Is(p.Err(), verify.ErrTimeout))
	require.NotNil(t, c.LastFailure())
	assert.True(t, c.LastFailure().Timeout())
	assert.False(t, c.Loading())
}

func TestRetry(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	_, err := c.Retry(context.Background())
	assert.ErrorIs(t, err, ErrNothingToRetry)

	c.SetDraft("flaky claim")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)
	v.fail(errors.New("503"))
	wait(t, p.Done())

	p, err = c.Retry(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c.LastFailure())
	assert.True(t, c.Loading())

	_, err = c.Retry(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	v.resolve(model.StatusVerified)
	wait(t, p.Done())

	msgs := c.Messages()
	require.Len(t, msgs, 2, "retry adds no second user message")
	assert.Equal(t, model.Query{Text: "flaky claim"}, msgs[1].(*model.VerifactMessage).OriginalQuery)
	assert.Len(t, v.calls(), 2)
}

func TestSubmit_ClearsPreviousFailure(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	c.SetDraft("a")
	p, _ := c.Submit(context.Background())
	v.fail(errors.New("boom"))
	wait(t, p.Done())
	require.NotNil(t, c.LastFailure())

	c.SetDraft("b")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c.LastFailure())
	v.resolve(model.StatusVerified)
	wait(t, p.Done())
}

// =============================================================================
// HISTORY RECORDING TESTS
// =============================================================================

func TestResolvedVerificationIsRecorded(t *testing.T) {
	v := newGatedVerifier()
	repo := history.NewMemoryRepository()
	c := newTestController(t, v, func(o *Options) { o.Recorder = repo })

	c.SetDraft("record me")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)
	v.resolve(model.StatusDebunked)
	wait(t, p.Done())

	recs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "record me", recs[0].ClaimText)
	assert.Equal(t, model.StatusDebunked, recs[0].Status)
}

func TestRecorderErrorDoesNotFailVerification(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v, func(o *Options) {
		o.Recorder = recorderFunc(func(ctx context.Context, r history.Record) (history.Record, error) {
			return history.Record{}, errors.New("disk full")
		})
	})

	c.SetDraft("x")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)
	v.resolve(model.StatusVerified)
	wait(t, p.Done())

	assert.NoError(t, p.Err())
	assert.Equal(t, 2, c.Len())
}

// =============================================================================
// IMAGE STAGING TESTS
// =============================================================================

func TestStageImage_ReplacementDiscardsStalePreview(t *testing.T) {
	release := make(chan struct{})
	c := newTestController(t, newGatedVerifier(), func(o *Options) {
		o.Decoder = func(ctx context.Context, path string) (imageprev.Preview, error) {
			if path == "/slow.png" {
				select {
				case <-release:
				case <-ctx.Done():
				}
				return imageprev.Preview{Format: "slow"}, nil
			}
			return imageprev.Preview{Format: "fast"}, nil
		}
	})

	first, err := c.StageImage(context.Background(), model.ImageRef{Path: "/slow.png"})
	require.NoError(t, err)
	second, err := c.StageImage(context.Background(), model.ImageRef{Path: "/fast.png"})
	require.NoError(t, err)

	wait(t, second.Done())
	close(release)
	wait(t, first.Done())

	assert.False(t, first.Current())
	assert.True(t, second.Current())

	staged := c.StagedImage()
	require.NotNil(t, staged)
	assert.Equal(t, "fast.png", staged.Ref.Name)
	require.NotNil(t, staged.Preview)
	assert.Equal(t, "fast", staged.Preview.Format)
}

func TestStageImage_UnstageBeforeDecodeFinishes(t *testing.T) {
	release := make(chan struct{})
	c := newTestController(t, newGatedVerifier(), func(o *Options) {
		o.Decoder = func(ctx context.Context, path string) (imageprev.Preview, error) {
			<-release
			return imageprev.Preview{Format: "png"}, nil
		}
	})

	s, err := c.StageImage(context.Background(), model.ImageRef{Path: "/a.png"})
	require.NoError(t, err)
	c.UnstageImage()
	c.UnstageImage() // idempotent
	close(release)
	wait(t, s.Done())

	assert.False(t, s.Current())
	assert.Nil(t, c.StagedImage())
	assert.False(t, c.CanSubmit())
}

func TestStageImage_DecodeErrorKeepsImageStaged(t *testing.T) {
	c := newTestController(t, newGatedVerifier(), func(o *Options) {
		o.Decoder = func(ctx context.Context, path string) (imageprev.Preview, error) {
			return imageprev.Preview{}, imageprev.ErrUnsupportedImage
		}
	})

	s, err := c.StageImage(context.Background(), model.ImageRef{Path: "/a.webp"})
	require.NoError(t, err)
	wait(t, s.Done())

	staged := c.StagedImage()
	require.NotNil(t, staged)
	assert.Nil(t, staged.Preview)
	assert.ErrorIs(t, staged.PreviewErr, imageprev.ErrUnsupportedImage)
	assert.True(t, c.CanSubmit(), "an image without preview can still be submitted")
}

func TestStageImage_InvalidRef(t *testing.T) {
	c := newTestController(t, newGatedVerifier())
	_, err := c.StageImage(context.Background(), model.ImageRef{})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

// =============================================================================
// SUGGESTION AND NAVIGATION TESTS
// =============================================================================

func TestApplySuggestion(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)

	c.SetDraft("something else")
	s := Suggestions()[1]
	c.ApplySuggestion(s.Prompt)

	assert.Equal(t, s.Prompt, c.Draft())
	assert.Equal(t, 0, c.Len(), "suggestion never submits")
	assert.Empty(t, v.calls())
	assert.True(t, c.FocusRequested())
	assert.False(t, c.FocusRequested(), "focus request is consumed")
}

func TestSuggestions(t *testing.T) {
	s := Suggestions()
	require.Len(t, s, 3)
	assert.Equal(t, "Verify a Claim", s[0].Title)
	assert.Equal(t, "What's the current population of Earth?", s[2].Prompt)

	s[0].Title = "mutated"
	assert.Equal(t, "Verify a Claim", Suggestions()[0].Title)
}

func TestNavigate(t *testing.T) {
	var got []string
	c := newTestController(t, newGatedVerifier(), func(o *Options) {
		o.Navigator = NavigatorFunc(func(path string) { got = append(got, path) })
	})

	c.Navigate(PathHistory)
	c.Navigate(DetailPath("claim 7"))
	assert.Equal(t, []string{"/chat/history", "/chat/history/claim%207"}, got)

	id, ok := ParseDetailPath(got[1])
	assert.True(t, ok)
	assert.Equal(t, "claim 7", id)

	_, ok = ParseDetailPath(PathHistory)
	assert.False(t, ok)

	// No navigator is a no-op.
	c.SetNavigator(nil)
	c.Navigate(PathChat)
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestClose_CancelsInFlight(t *testing.T) {
	v := newGatedVerifier()
	c := New(Options{Verifier: v})

	c.SetDraft("claim")
	p, err := c.Submit(context.Background())
	require.NoError(t, err)

	c.Close()
	wait(t, p.Done())
	assert.True(t, errors.Is(p.Err(), verify.ErrRequestFailed))

	c.SetDraft("after close")
	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentSubmitOnlyOneWins(t *testing.T) {
	v := newGatedVerifier()
	c := newTestController(t, v)
	c.SetDraft("race")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []*Pending
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p, err := c.Submit(context.Background()); err == nil {
				mu.Lock()
				winners = append(winners, p)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, 1, c.Len())

	v.resolve(model.StatusVerified)
	wait(t, winners[0].Done())
}
