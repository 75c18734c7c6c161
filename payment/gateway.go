// Package payment talks to the hosted checkout provider.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrUnknownSession = errors.New("unknown checkout session")
)

// CheckoutParams describes the line item to charge
type CheckoutParams struct {
	BookingID     uint
	CustomerEmail string
	ServiceName   string
	Amount        float64
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// Session is a hosted checkout page
type Session struct {
	ID  string
	URL string
}

// Confirmation is the gateway's view of a finished session
type Confirmation struct {
	SessionID     string
	TransactionID string
	Paid          bool
}

// Gateway creates hosted checkout sessions and reports their outcome
type Gateway interface {
	CreateSession(ctx context.Context, params CheckoutParams) (*Session, error)
	ConfirmSession(ctx context.Context, sessionID string) (*Confirmation, error)
}

// SandboxGateway is an in-process gateway that treats every session it issued as paid
type SandboxGateway struct {
	mu       sync.Mutex
	sessions map[string]string
}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{
		sessions: make(map[string]string),
	}
}

func (g *SandboxGateway) CreateSession(ctx context.Context, params CheckoutParams) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %.2f", params.Amount)
	}

	id := "cs_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	g.mu.Lock()
	g.sessions[id] = ""
	g.mu.Unlock()

	return &Session{ID: id, URL: SuccessURL(params.SuccessURL, id)}, nil
}

func (g *SandboxGateway) ConfirmSession(ctx context.Context, sessionID string) (*Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	txn, ok := g.sessions[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	if txn == "" {
		txn = "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		g.sessions[sessionID] = txn
	}
	return &Confirmation{SessionID: sessionID, TransactionID: txn, Paid: true}, nil
}

// SuccessURL appends the session id placeholder the frontend reads on return
func SuccessURL(base, sessionID string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?session_id=" + url.QueryEscape(sessionID)
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}
