package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultRestoredTitle = "Новый проект"

// Orchestrator owns one workspace: the in-memory ProjectData, its chat
// transcript and the state of the in-flight request. It drives the
// analysis, architecture, plan and documentation stages strictly in order.
//
// Every mutation replaces the project with a modified copy and is persisted
// right after. A stage result and the chat message announcing it are one
// commit and one write.
type Orchestrator struct {
	id       string
	repo     ProjectStore
	ai       AIGateway
	recorder PipelineRecorder
	now      func() time.Time
	newID    func() string

	// commitMu serialises commit+save so every write carries the latest state.
	commitMu sync.Mutex

	mu         sync.Mutex
	project    entity.ProjectData
	request    entity.RequestState
	busy       bool
	generation uint64 // bumped whenever the project is replaced wholesale

	visuals sync.WaitGroup
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

func WithRecorder(r PipelineRecorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func New(id string, repo ProjectStore, ai AIGateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		id:      id,
		repo:    repo,
		ai:      ai,
		now:     time.Now,
		newID:   uuid.NewString,
		project: emptyProject(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) ID() string {
	return o.id
}

// Snapshot returns a copy of the workspace state safe to hand to callers.
func (o *Orchestrator) Snapshot() entity.WorkspaceState {
	o.mu.Lock()
	defer o.mu.Unlock()

	return entity.WorkspaceState{
		WorkspaceID: o.id,
		Stage:       o.project.Stage(),
		Project:     o.project.Clone(),
		Request:     o.request,
	}
}

// Wait blocks until pending visual requests have finished.
func (o *Orchestrator) Wait() {
	o.visuals.Wait()
}

// StartNewProject drops the current project and transcript.
func (o *Orchestrator) StartNewProject(ctx context.Context) error {
	if err := o.acquire(""); err != nil {
		return err
	}
	defer o.release()

	o.replace(emptyProject())
	o.setRequest(entity.RequestState{})
	ctxzap.Info(ctx, "workspace reset", zap.String("workspace_id", o.id))
	return nil
}

// SubmitIdea starts a fresh project from the idea and runs the analysis.
// The app visual is requested in the background once analysis succeeds.
func (o *Orchestrator) SubmitIdea(ctx context.Context, idea string) error {
	if strings.TrimSpace(idea) == "" {
		return entity.ErrEmptyIdea
	}
	res, err := o.Begin(OpSubmitIdea)
	if err != nil {
		return err
	}
	return res.SubmitIdea(ctx, idea)
}

func (o *Orchestrator) submitIdea(ctx context.Context, idea string) error {
	ctx = logger.WithAction(ctx, opSubmitIdea)

	fresh := emptyProject()
	fresh.OriginalIdea = idea
	fresh.Messages = append(fresh.Messages, o.message(entity.SenderUser, "", idea))
	gen := o.replace(fresh)
	o.persist(ctx)

	analysis, err := o.ai.AnalyzeIdea(ctx, idea)
	if err != nil {
		return o.fail(ctx, opSubmitIdea, fmt.Errorf("analyze idea: %w", err))
	}

	o.commit(ctx, func(p *entity.ProjectData) {
		p.Analysis = analysis
		p.Messages = append(p.Messages, o.message(entity.SenderAI, agentAnalyst, msgAnalysisReady))
	})

	o.requestVisual(ctx, gen, *analysis)
	o.succeed(ctx, opSubmitIdea)
	return nil
}

// ConfirmAnalysis accepts the (possibly edited) analysis and chains the
// architecture, plan and documentation stages. The chain stops at the first
// failure; completed stages stay.
func (o *Orchestrator) ConfirmAnalysis(ctx context.Context, updated entity.AnalysisResult) error {
	res, err := o.Begin(OpConfirmAnalysis)
	if err != nil {
		return err
	}
	return res.ConfirmAnalysis(ctx, updated)
}

func (o *Orchestrator) confirmAnalysis(ctx context.Context, updated entity.AnalysisResult) error {
	ctx = logger.WithAction(ctx, opConfirmAnalysis)

	o.mu.Lock()
	current := o.project
	o.mu.Unlock()

	switch {
	case current.Analysis == nil:
		o.setRequest(entity.RequestState{})
		return entity.ErrAnalysisMissing
	case current.Architecture != nil:
		o.setRequest(entity.RequestState{})
		return entity.ErrAnalysisLocked
	}

	analysis := updated
	o.commit(ctx, func(p *entity.ProjectData) {
		p.Messages = append(p.Messages, o.message(entity.SenderUser, "", msgConfirmed))
	})
	o.commit(ctx, func(p *entity.ProjectData) {
		p.Analysis = &analysis
		p.Messages = append(p.Messages, o.message(entity.SenderAI, agentAnalyst, msgHandoffArchitect))
	})

	arch, err := o.ai.GenerateArchitecture(ctx, analysis)
	if err != nil {
		return o.fail(ctx, opConfirmAnalysis, fmt.Errorf("generate architecture: %w", err))
	}
	o.commit(ctx, func(p *entity.ProjectData) {
		p.Architecture = arch
		p.Messages = append(p.Messages, o.message(entity.SenderAI, agentArchitect, msgArchitectureReady))
	})

	o.setStep(stepPlan)
	plan, err := o.ai.GeneratePlan(ctx, analysis, *arch)
	if err != nil {
		return o.fail(ctx, opConfirmAnalysis, fmt.Errorf("generate plan: %w", err))
	}
	snapshot := o.commit(ctx, func(p *entity.ProjectData) {
		p.Plan = plan
		p.Messages = append(p.Messages, o.message(entity.SenderAI, agentPlanner, msgPlanReady))
	})

	o.setStep(stepDocs)
	docs, err := o.ai.GenerateDocumentation(ctx, snapshot)
	if err != nil {
		return o.fail(ctx, opConfirmAnalysis, fmt.Errorf("generate documentation: %w", err))
	}
	o.commit(ctx, func(p *entity.ProjectData) {
		p.Documentation = docs
		p.Messages = append(p.Messages, o.message(entity.SenderAI, agentProjectManager, msgDocsReady))
	})

	o.succeed(ctx, opConfirmAnalysis)
	return nil
}

// SendMessage answers a free-form chat message through the agent router.
// Before any idea exists the text is treated as the idea itself.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return entity.ErrEmptyIdea
	}
	res, err := o.Begin(OpSendMessage)
	if err != nil {
		return err
	}
	return res.SendMessage(ctx, text)
}

func (o *Orchestrator) sendMessage(ctx context.Context, text string) error {
	o.mu.Lock()
	hasIdea := o.project.OriginalIdea != ""
	o.mu.Unlock()

	if !hasIdea {
		o.setStep(stepAnalysis)
		return o.submitIdea(ctx, text)
	}

	ctx = logger.WithAction(ctx, opSendMessage)

	snapshot := o.commit(ctx, func(p *entity.ProjectData) {
		p.Messages = append(p.Messages, o.message(entity.SenderUser, "", text))
	})

	reply, err := o.ai.RouteAgentMessage(ctx, text, entity.NewAgentContext(snapshot))
	if err != nil {
		return o.fail(ctx, opSendMessage, fmt.Errorf("route agent message: %w", err))
	}

	o.commit(ctx, func(p *entity.ProjectData) {
		p.Messages = append(p.Messages, o.message(entity.SenderAI, reply.AgentName, reply.Text))
	})

	o.succeed(ctx, opSendMessage)
	return nil
}

// LoadProject replaces the workspace with a saved project. A missing id
// leaves the workspace untouched.
func (o *Orchestrator) LoadProject(ctx context.Context, id string) error {
	if err := o.acquire(""); err != nil {
		return err
	}
	defer o.release()

	ctx = logger.AddFields(logger.WithAction(ctx, opLoadProject), zap.String("project_id", id))

	loaded, err := o.repo.Get(ctx, id)
	if err != nil {
		ctxzap.Info(ctx, "project not loaded", zap.Error(err))
		o.record(opLoadProject, "not_found")
		return err
	}

	project := loaded.Clone()
	if len(project.Messages) == 0 {
		title := defaultRestoredTitle
		if project.Analysis != nil && project.Analysis.Title != "" {
			title = project.Analysis.Title
		}
		project.Messages = []entity.ChatMessage{{
			ID:        restoredMessageID,
			Sender:    entity.SenderAI,
			AgentName: agentSystem,
			Text:      restoredText(title),
			Timestamp: o.now(),
		}}
	}
	o.replace(project)
	o.setRequest(entity.RequestState{})

	ctxzap.Info(ctx, "project loaded", zap.String("stage", string(project.Stage())))
	o.record(opLoadProject, "ok")
	return nil
}

// requestVisual asks for the app mockup without blocking the caller. The
// result is merged only if the workspace still holds the same project.
func (o *Orchestrator) requestVisual(ctx context.Context, gen uint64, analysis entity.AnalysisResult) {
	bgCtx := logger.WithAction(context.WithoutCancel(ctx), opVisual)

	o.visuals.Add(1)
	go func() {
		defer o.visuals.Done()

		img, err := o.ai.GenerateAppVisual(bgCtx, analysis.Summary, analysis.ThemeMode, analysis.Palette.Primary, analysis.Palette)
		if err != nil {
			ctxzap.Warn(bgCtx, "app visual generation failed", zap.Error(err))
			o.record(opVisual, "error")
			return
		}

		merged := o.commitIf(bgCtx, gen, func(p *entity.ProjectData) {
			p.AppImage = img
		})
		if !merged {
			ctxzap.Info(bgCtx, "app visual discarded, project was replaced")
			o.record(opVisual, "discarded")
			return
		}
		o.record(opVisual, "ok")
	}()
}

// commit applies mutate to a copy of the project, swaps it in and saves it.
// It returns the committed project.
func (o *Orchestrator) commit(ctx context.Context, mutate func(p *entity.ProjectData)) entity.ProjectData {
	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	o.mu.Lock()
	next := o.project.Clone()
	mutate(&next)
	o.project = next
	o.mu.Unlock()

	o.save(ctx, next)
	return next
}

// commitIf is commit guarded by the project generation.
func (o *Orchestrator) commitIf(ctx context.Context, gen uint64, mutate func(p *entity.ProjectData)) bool {
	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	o.mu.Lock()
	if o.generation != gen {
		o.mu.Unlock()
		return false
	}
	next := o.project.Clone()
	mutate(&next)
	o.project = next
	o.mu.Unlock()

	o.save(ctx, next)
	return true
}

// persist saves the current project as is.
func (o *Orchestrator) persist(ctx context.Context) {
	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	o.mu.Lock()
	current := o.project
	o.mu.Unlock()

	o.save(ctx, current)
}

// save writes the project and back-fills the id on first save. Projects
// without an idea are never stored. Failures are logged; the in-memory
// state stays authoritative. Callers hold commitMu.
func (o *Orchestrator) save(ctx context.Context, project entity.ProjectData) {
	if project.OriginalIdea == "" {
		return
	}

	saved, err := o.repo.Save(ctx, project)
	if err != nil {
		ctxzap.Error(ctx, "auto-save failed", zap.String("workspace_id", o.id), zap.Error(err))
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.project.ID == "" {
		o.project.ID = saved.ID
	}
	o.project.Timestamp = saved.Timestamp
}

// replace swaps in a whole new project and returns its generation.
func (o *Orchestrator) replace(project entity.ProjectData) uint64 {
	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.project = project
	return o.generation
}

// fail turns a stage failure into the generic chat message and the request
// error flag. The raw error never reaches the transcript.
func (o *Orchestrator) fail(ctx context.Context, op string, err error) error {
	ctxzap.Error(ctx, "pipeline stage failed", zap.Error(err))

	o.commit(ctx, func(p *entity.ProjectData) {
		p.Messages = append(p.Messages, o.message(entity.SenderAI, agentSystem, msgGenericError))
	})
	o.setRequest(entity.RequestState{Error: err.Error()})
	o.record(op, "error")
	return err
}

func (o *Orchestrator) succeed(ctx context.Context, op string) {
	o.setRequest(entity.RequestState{})
	o.record(op, "ok")
	ctxzap.Info(ctx, "pipeline operation completed", zap.String("stage", string(o.Snapshot().Stage)))
}

// acquire marks the workspace busy. Overlapping operations are rejected.
func (o *Orchestrator) acquire(step string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		return entity.ErrRequestInFlight
	}
	o.busy = true
	if step != "" {
		o.request = entity.RequestState{Loading: true, StepName: step}
	}
	return nil
}

// release clears the busy flag. The request state is left for the
// operation's own success or failure path to settle.
func (o *Orchestrator) release() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.busy = false
	o.request.Loading = false
	o.request.StepName = ""
}

func (o *Orchestrator) setStep(step string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.request = entity.RequestState{Loading: true, StepName: step}
}

func (o *Orchestrator) setRequest(rs entity.RequestState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.request = rs
}

func (o *Orchestrator) message(sender entity.Sender, agent, text string) entity.ChatMessage {
	return entity.ChatMessage{
		ID:        o.newID(),
		Sender:    sender,
		AgentName: agent,
		Text:      text,
		Timestamp: o.now(),
	}
}

func (o *Orchestrator) record(op, result string) {
	if o.recorder != nil {
		o.recorder.RecordPipeline(op, result)
	}
}

func emptyProject() entity.ProjectData {
	return entity.ProjectData{Messages: []entity.ChatMessage{}}
}
