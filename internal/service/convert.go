package service

import (
	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/repository"
)

func toProjectResponse(p *domain.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Status:       string(p.Status),
		DurationDays: p.DurationDays,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toTaskResponse(t *domain.Task, assignees []dto.AssigneeResponse, attachments []*domain.Attachment) *dto.TaskResponse {
	if assignees == nil {
		assignees = []dto.AssigneeResponse{}
	}
	return &dto.TaskResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		ProjectID:     t.ProjectID,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		StartDatetime: t.StartDatetime,
		EndDatetime:   t.EndDatetime,
		CreatedBy:     t.CreatedBy,
		Assignees:     assignees,
		Attachments:   toAttachmentResponses(attachments),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toBugResponse(b *domain.Bug, projectID uint, attachments []*domain.Attachment) *dto.BugResponse {
	return &dto.BugResponse{
		ID:            b.ID,
		Name:          b.Name,
		Description:   b.Description,
		TaskID:        b.TaskID,
		ProjectID:     projectID,
		Priority:      string(b.Priority),
		Status:        string(b.Status),
		StartDatetime: b.StartDatetime,
		EndDatetime:   b.EndDatetime,
		CreatedBy:     b.CreatedBy,
		Attachments:   toAttachmentResponses(attachments),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toCommentResponse(c *domain.Comment, attachments []*domain.Attachment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:          c.ID,
		TaskID:      c.EntityID,
		UserID:      c.UserID,
		Comment:     c.Comment,
		Attachments: toAttachmentResponses(attachments),
		CreatedAt:   c.CreatedAt,
	}
}

func toAttachmentResponses(attachments []*domain.Attachment) []dto.AttachmentResponse {
	out := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, dto.AttachmentResponse{
			ID:           a.ID,
			EntityType:   string(a.EntityType),
			EntityID:     a.EntityID,
			FileName:     a.FileName,
			OriginalName: a.OriginalName,
			FileSize:     a.FileSize,
			FileType:     a.FileType,
			UploadedBy:   a.UploadedBy,
			UploadedAt:   a.UploadedAt,
		})
	}
	return out
}

func usersToAssignees(users []*domain.User) []dto.AssigneeResponse {
	out := make([]dto.AssigneeResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.AssigneeResponse{ID: u.ID, Name: u.Name, Image: u.Image})
	}
	return out
}

func summariesToAssignees(summaries []repository.UserSummary) []dto.AssigneeResponse {
	out := make([]dto.AssigneeResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.AssigneeResponse{ID: s.ID, Name: s.Name, Image: s.Image})
	}
	return out
}
