package entity

import (
	"fmt"
	"time"
)

type ThemeMode string

const (
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

func (m ThemeMode) IsValid() bool {
	switch m {
	case ThemeModeLight, ThemeModeDark:
		return true
	default:
		return false
	}
}

// NodeType is the category of a diagram node. It selects the layout zone.
type NodeType string

const (
	NodeTypeClient   NodeType = "client"
	NodeTypeService  NodeType = "service"
	NodeTypeDatabase NodeType = "database"
	NodeTypeExternal NodeType = "external"
)

func (t NodeType) IsValid() bool {
	switch t {
	case NodeTypeClient, NodeTypeService, NodeTypeDatabase, NodeTypeExternal:
		return true
	default:
		return false
	}
}

type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	default:
		return false
	}
}

type DesignStyle string

const (
	DesignStyleMinimal   DesignStyle = "minimal"
	DesignStyleCorporate DesignStyle = "corporate"
	DesignStyleCreative  DesignStyle = "creative"
	DesignStyleTech      DesignStyle = "tech"
)

func (s DesignStyle) IsValid() bool {
	switch s {
	case DesignStyleMinimal, DesignStyleCorporate, DesignStyleCreative, DesignStyleTech:
		return true
	default:
		return false
	}
}

type SlideLayout string

const (
	SlideLayoutTitle      SlideLayout = "title"
	SlideLayoutBulletList SlideLayout = "bullet-list"
	SlideLayoutBigNumber  SlideLayout = "big-number"
	SlideLayoutSplit      SlideLayout = "split"
	SlideLayoutQuote      SlideLayout = "quote"
)

func (l SlideLayout) IsValid() bool {
	switch l {
	case SlideLayoutTitle, SlideLayoutBulletList, SlideLayoutBigNumber, SlideLayoutSplit, SlideLayoutQuote:
		return true
	default:
		return false
	}
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

func (s *Sender) Validate() error {
	switch *s {
	case SenderUser, SenderAI:
		return nil
	default:
		return fmt.Errorf("unknown sender: %s", *s)
	}
}

type ClarifyingQuestion struct {
	Question        string  `json:"question"`
	SuggestedAnswer string  `json:"suggestedAnswer"`
	UserAnswer      *string `json:"userAnswer,omitempty"`
}

// Answer returns the user's answer if one was given, the suggested one otherwise.
func (q ClarifyingQuestion) Answer() string {
	if q.UserAnswer != nil && *q.UserAnswer != "" {
		return *q.UserAnswer
	}
	return q.SuggestedAnswer
}

// ColorPalette drives both the generated visual prompt and live theming.
type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
}

type AnalysisResult struct {
	Title          string               `json:"title"`
	Summary        string               `json:"summary"`
	TargetAudience []string             `json:"targetAudience"`
	CoreFeatures   []string             `json:"coreFeatures"`
	Questions      []ClarifyingQuestion `json:"questions"`
	Palette        ColorPalette         `json:"palette"`
	ThemeMode      ThemeMode            `json:"themeMode"`
}

type DiagramNode struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  NodeType `json:"type"`
}

type DiagramEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

type Diagram struct {
	Nodes []DiagramNode `json:"nodes"`
	Edges []DiagramEdge `json:"edges"`
}

type ModuleDefinition struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Interactions []string `json:"interactions"`
}

type ArchitectureResult struct {
	Frontend  []string           `json:"frontend"`
	Backend   []string           `json:"backend"`
	Database  []string           `json:"database"`
	Devops    []string           `json:"devops"`
	Modules   []ModuleDefinition `json:"modules"`
	Rationale string             `json:"rationale"`
	Diagram   Diagram            `json:"diagram"`
}

type Task struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Complexity  Complexity `json:"complexity"`
}

type Phase struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Tasks    []Task `json:"tasks"`
}

type PlanResult struct {
	Phases        []Phase  `json:"phases"`
	Risks         []string `json:"risks"`
	MVPDefinition string   `json:"mvpDefinition"`
}

type Slide struct {
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	SpeakerNotes string      `json:"speakerNotes"`
	Layout       SlideLayout `json:"layout"`
}

type DocsResult struct {
	PRD         string      `json:"prd"`
	DesignStyle DesignStyle `json:"designStyle"`
	Slides      []Slide     `json:"slides"`
}

// ChatMessage is append-only: never mutated or reordered once in a transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	AgentName string    `json:"agentName,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectData is the aggregate root. Stages are populated strictly in order:
// analysis, architecture, plan, documentation.
type ProjectData struct {
	ID            string              `json:"id,omitempty"`
	Timestamp     int64               `json:"timestamp,omitempty"` // unix millis of the last save
	OriginalIdea  string              `json:"originalIdea"`
	Analysis      *AnalysisResult     `json:"analysis"`
	Architecture  *ArchitectureResult `json:"architecture"`
	Plan          *PlanResult         `json:"plan"`
	Documentation *DocsResult         `json:"documentation"`
	AppImage      string              `json:"appImage,omitempty"` // data URI
	Messages      []ChatMessage       `json:"messages"`
}

// Clone returns a copy whose message slice can be appended to without
// aliasing the receiver. Stage results are shared: they are replaced, never
// edited in place.
func (p ProjectData) Clone() ProjectData {
	c := p
	c.Messages = make([]ChatMessage, len(p.Messages))
	copy(c.Messages, p.Messages)
	return c
}

// WithoutImage returns a copy with the binary visual stripped.
func (p ProjectData) WithoutImage() ProjectData {
	c := p
	c.AppImage = ""
	return c
}

// Stage is the position of a project in the generation pipeline.
func (p ProjectData) Stage() Stage {
	switch {
	case p.Documentation != nil:
		return StageDocumentationReady
	case p.Plan != nil:
		return StagePlanReady
	case p.Architecture != nil:
		return StageArchitectureReady
	case p.Analysis != nil:
		return StageAnalyzed
	case p.OriginalIdea != "":
		return StageIdeaSubmitted
	default:
		return StageEmpty
	}
}

type Stage string

const (
	StageEmpty              Stage = "EMPTY"
	StageIdeaSubmitted      Stage = "IDEA_SUBMITTED"
	StageAnalyzed           Stage = "ANALYZED"
	StageArchitectureReady  Stage = "ARCHITECTURE_READY"
	StagePlanReady          Stage = "PLAN_READY"
	StageDocumentationReady Stage = "DOCUMENTATION_READY"
)

// ProjectHistoryItem is a listing projection of ProjectData. Never stored.
type ProjectHistoryItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Timestamp  int64  `json:"timestamp"`
	Idea       string `json:"idea"`
	ThemeColor string `json:"themeColor"`
}

// RequestState tracks the in-flight AI request of a workspace.
type RequestState struct {
	Loading  bool   `json:"loading"`
	StepName string `json:"stepName,omitempty"`
	Error    string `json:"error,omitempty"`
}
