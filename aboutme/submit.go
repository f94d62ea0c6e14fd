package aboutme

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSubmissionInFlight is returned when a request is started while another
	// one from the same Submitter has not finished yet.
	ErrSubmissionInFlight = errors.New("aboutme: submission already in flight")
	// ErrNoInvitees is returned by SendInvitations for an empty list.
	ErrNoInvitees = errors.New("aboutme: no invitees")
)

// State of the last submission.
type State int

const (
	StateIdle State = iota
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StatusError is returned when the endpoint answers outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("aboutme: endpoint responded %s", e.Status)
}

// Result describes an accepted submission.
type Result struct {
	Action         string
	StatusCode     int
	IdempotencyKey string
	// Body is the decoded JSON response, nil when the endpoint sent none.
	Body map[string]any
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Submitter) { s.client = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Submitter) { s.logger = l }
}

// WithBearerToken sends token in the Authorization header.
func WithBearerToken(token string) Option {
	return func(s *Submitter) { s.token = token }
}

// Submitter sends the form to the collaborator endpoint. It allows one
// request at a time; it never retries and never touches the form.
type Submitter struct {
	endpoint string
	identity IdentityProvider
	client   *http.Client
	logger   *zap.Logger
	token    string
	newKey   func() string

	mu    sync.Mutex
	state State
}

// NewSubmitter creates a Submitter posting to endpoint.
func NewSubmitter(endpoint string, identity IdentityProvider, opts ...Option) *Submitter {
	s := &Submitter{
		endpoint: endpoint,
		identity: identity,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   zap.NewNop(),
		newKey:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the state of the most recent submission.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubmitAboutMe posts the draft as an "aboutme" action.
func (s *Submitter) SubmitAboutMe(ctx context.Context, d Draft) (Result, error) {
	return s.send(ctx, ActionAboutMe, func(emailID string) any {
		return d.Payload(emailID)
	})
}

// SendInvitations posts the invitee list as an "invite" action.
func (s *Submitter) SendInvitations(ctx context.Context, invitees []string) (Result, error) {
	if len(invitees) == 0 {
		return Result{}, ErrNoInvitees
	}
	return s.send(ctx, ActionInvite, func(emailID string) any {
		return InvitePayload{EmailID: emailID, Invitation: invitees}
	})
}

func (s *Submitter) send(ctx context.Context, action string, build func(emailID string) any) (Result, error) {
	s.mu.Lock()
	if s.state == StateInFlight {
		s.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	s.state = StateInFlight
	s.mu.Unlock()

	res, err := s.do(ctx, action, build)

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
	} else {
		s.state = StateSucceeded
	}
	s.mu.Unlock()
	return res, err
}

func (s *Submitter) do(ctx context.Context, action string, build func(emailID string) any) (Result, error) {
	log := s.logger.With(zap.String("action", action))

	emailID, err := s.identity.Identity(ctx)
	if err != nil {
		log.Error("Cannot resolve user identity", zap.Error(err))
		return Result{}, err
	}

	body, err := json.Marshal(Request{Action: action, Payload: build(emailID)})
	if err != nil {
		return Result{}, fmt.Errorf("aboutme: encode %s request: %w", action, err)
	}

	key := s.newKey()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("aboutme: build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	log = log.With(zap.String("idempotency_key", key))

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug("Submission canceled", zap.Error(ctx.Err()))
			return Result{}, ctx.Err()
		}
		log.Error("Network error", zap.Error(err))
		return Result{}, fmt.Errorf("aboutme: send %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		log.Error("Submission rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("status_text", resp.Status))
		return Result{}, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	res := Result{Action: action, StatusCode: resp.StatusCode, IdempotencyKey: key}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Cannot read response", zap.Error(err))
		return Result{}, fmt.Errorf("aboutme: read %s response: %w", action, err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &res.Body); err != nil {
			log.Error("Invalid JSON response", zap.Int("status", resp.StatusCode), zap.Error(err))
			return Result{}, fmt.Errorf("aboutme: decode %s response: %w", action, err)
		}
	}
	log.Info("Submission accepted", zap.Int("status", resp.StatusCode), zap.Any("result", res.Body))
	return res, nil
}
