package history

import "github.com/HIMASAKTA-DEV/project-wizard/internal/entity"

// toHistoryEntryDTO converts HistoryEntry entity to its listing DTO
func toHistoryEntryDTO(entry *entity.HistoryEntry) *entity.HistoryEntryDTO {
	return &entity.HistoryEntryDTO{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		ProjectName: entry.ProjectName,
		Questions:   len(entry.QA),
	}
}
