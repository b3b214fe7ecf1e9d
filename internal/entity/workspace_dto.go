package entity

type SubmitIdeaRequest struct {
	Idea        string `json:"idea"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type ConfirmAnalysisRequest struct {
	Analysis    *AnalysisResult `json:"analysis"`
	CallbackURL string          `json:"callback_url,omitempty"`
}

type SendMessageRequest struct {
	Text        string `json:"text"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type LoadProjectRequest struct {
	ProjectID string `json:"project_id"`
}

// WorkspaceState is what a client renders: the project, its stage and the
// status of the in-flight request.
type WorkspaceState struct {
	WorkspaceID string       `json:"workspace_id"`
	Stage       Stage        `json:"stage"`
	Project     ProjectData  `json:"project"`
	Request     RequestState `json:"request"`
}

type AcceptedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
