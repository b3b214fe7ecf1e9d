package entity

// Agent personas the chat router may pick.
const (
	AgentPersonaAnalyst   = "Агент-Аналитик"
	AgentPersonaArchitect = "Агент-Архитектор"
	AgentPersonaPlanner   = "Агент-Планнер"
)

var AgentPersonas = []string{AgentPersonaAnalyst, AgentPersonaArchitect, AgentPersonaPlanner}

// AgentContext is the reduced projection of a project sent with chat
// messages to bound the payload size.
type AgentContext struct {
	Idea            string   `json:"idea"`
	AnalysisSummary string   `json:"analysisSummary,omitempty"`
	TechStack       []string `json:"techStack,omitempty"`
	RoadmapPhases   []string `json:"roadmapPhases,omitempty"`
}

// NewAgentContext projects the project data down to what the router needs.
func NewAgentContext(p ProjectData) AgentContext {
	ac := AgentContext{Idea: p.OriginalIdea}
	if p.Analysis != nil {
		ac.AnalysisSummary = p.Analysis.Summary
	}
	if p.Architecture != nil {
		ac.TechStack = p.Architecture.Frontend
	}
	if p.Plan != nil {
		ac.RoadmapPhases = make([]string, 0, len(p.Plan.Phases))
		for _, ph := range p.Plan.Phases {
			ac.RoadmapPhases = append(ac.RoadmapPhases, ph.Name)
		}
	}
	return ac
}

type AgentReply struct {
	AgentName string `json:"agentName"`
	Text      string `json:"response"`
}

// ArchitectureRequestContext is the input context of the architecture call.
type ArchitectureRequestContext struct {
	Summary            string   `json:"summary"`
	Features           []string `json:"features"`
	UserClarifications string   `json:"userClarifications"`
}

type PlanRequestContext struct {
	Features []string `json:"features"`
	Modules  []string `json:"modules"`
}
