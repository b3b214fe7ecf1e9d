package project

import "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"

func toListProjectsResponse(items []entity.ProjectHistoryItem) *entity.ListProjectsResponse {
	if items == nil {
		items = []entity.ProjectHistoryItem{}
	}
	return &entity.ListProjectsResponse{Projects: items}
}
