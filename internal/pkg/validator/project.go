package validator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

const maxIdeaLength = 20000

// ValidateSubmitIdea validates SubmitIdeaRequest
func ValidateSubmitIdea(req *entity.SubmitIdeaRequest) error {
	if strings.TrimSpace(req.Idea) == "" {
		return fmt.Errorf("%w: idea", entity.ErrMissingField)
	}
	if len(req.Idea) > maxIdeaLength {
		return fmt.Errorf("%w: idea is longer than %d bytes", entity.ErrInvalidParameter, maxIdeaLength)
	}
	return validateCallbackURL(req.CallbackURL)
}

// ValidateConfirmAnalysis validates ConfirmAnalysisRequest. The analysis
// sent back by the client must still satisfy the schema it was generated with.
func ValidateConfirmAnalysis(req *entity.ConfirmAnalysisRequest) error {
	if req.Analysis == nil {
		return fmt.Errorf("%w: analysis", entity.ErrMissingField)
	}
	if err := ValidateAnalysis(req.Analysis); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
	return validateCallbackURL(req.CallbackURL)
}

func ValidateSendMessage(req *entity.SendMessageRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("%w: text", entity.ErrMissingField)
	}
	return validateCallbackURL(req.CallbackURL)
}

func ValidateLoadProject(req *entity.LoadProjectRequest) error {
	if req.ProjectID == "" {
		return fmt.Errorf("%w: project_id", entity.ErrMissingField)
	}
	return nil
}

// callback_url is optional; when present it must be an absolute http(s) URL.
func validateCallbackURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: callback_url", entity.ErrInvalidFormat)
	}
	return nil
}
