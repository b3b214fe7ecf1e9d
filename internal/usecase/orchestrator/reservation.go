package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

// Operation names a pipeline operation that can be reserved ahead of time.
type Operation int

const (
	OpSubmitIdea Operation = iota
	OpConfirmAnalysis
	OpSendMessage
)

func (op Operation) step() string {
	switch op {
	case OpConfirmAnalysis:
		return stepArchitecture
	case OpSendMessage:
		return stepThinking
	default:
		return stepAnalysis
	}
}

// Reservation holds a workspace for one operation. Callers that answer
// before the work runs (the async HTTP API) take it synchronously, so a
// second request is turned away instead of racing the first.
//
// Each operation method releases the reservation when it returns; a
// reservation is good for one operation.
type Reservation struct {
	o    *Orchestrator
	once sync.Once
}

// Begin reserves the workspace and flags the request as loading. It fails
// with ErrRequestInFlight while any other operation holds the workspace,
// including a reset or a project load.
func (o *Orchestrator) Begin(op Operation) (*Reservation, error) {
	if err := o.acquire(op.step()); err != nil {
		return nil, err
	}
	return &Reservation{o: o}, nil
}

// Release gives the workspace back without running anything. Safe to call
// more than once.
func (r *Reservation) Release() {
	r.once.Do(r.o.release)
}

func (r *Reservation) SubmitIdea(ctx context.Context, idea string) error {
	defer r.Release()

	idea = strings.TrimSpace(idea)
	if idea == "" {
		return entity.ErrEmptyIdea
	}
	r.o.setStep(stepAnalysis)
	return r.o.submitIdea(ctx, idea)
}

func (r *Reservation) ConfirmAnalysis(ctx context.Context, updated entity.AnalysisResult) error {
	defer r.Release()

	r.o.setStep(stepArchitecture)
	return r.o.confirmAnalysis(ctx, updated)
}

func (r *Reservation) SendMessage(ctx context.Context, text string) error {
	defer r.Release()

	text = strings.TrimSpace(text)
	if text == "" {
		return entity.ErrEmptyIdea
	}
	r.o.setStep(stepThinking)
	return r.o.sendMessage(ctx, text)
}
