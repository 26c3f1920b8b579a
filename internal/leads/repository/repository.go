// Package repository persists lead records in a file-backed JSON collection.
package repository

import (
	"time"

	"estate_assistant_backend/internal/leads/domain"
	"estate_assistant_backend/platform/apperr"
	"estate_assistant_backend/platform/jsonstore"
	"estate_assistant_backend/platform/logger"
)

// ListFilters narrows List results. A nil field means no constraint.
type ListFilters struct {
	Status    *domain.Status
	MinScore  *int
	StartDate *time.Time
	EndDate   *time.Time
}

// Repository owns the lead collection. All mutation goes through the
// collection's lock, so overlapping calls cannot lose updates.
type Repository struct {
	col *jsonstore.Collection[domain.Record]
	log *logger.Logger
}

// New creates a lead repository backed by the JSON file at path.
func New(path string, log *logger.Logger) *Repository {
	return &Repository{
		col: jsonstore.New[domain.Record](path, "leads", log),
		log: log,
	}
}

// Append adds a new record to the collection.
func (r *Repository) Append(record domain.Record) error {
	err := r.col.Mutate(func(items []domain.Record) ([]domain.Record, error) {
		return append(items, record), nil
	})
	if err != nil {
		r.log.StoreError("leads", "append", err)
		return apperr.Wrap(apperr.KindInternal, "failed to persist lead", err)
	}
	return nil
}

// UpdateStatus transitions the record with the given id to a new status and
// bumps updatedAt. syncErr, when non-nil, is recorded as the last sync error.
// Terminal statuses never transition again; attempting to move a terminal
// record is a validation error. Unknown ids report not-found and leave the
// collection unchanged.
func (r *Repository) UpdateStatus(id string, status domain.Status, syncErr *string) (domain.Record, error) {
	var updated domain.Record

	err := r.col.Mutate(func(items []domain.Record) ([]domain.Record, error) {
		idx := -1
		for i := range items {
			if items[i].ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, apperr.NotFound("lead not found")
		}
		if items[idx].Status.IsTerminal() && items[idx].Status != status {
			return nil, apperr.Validation("lead status is terminal")
		}

		items[idx].Status = status
		items[idx].UpdatedAt = time.Now().UTC()
		if syncErr != nil {
			items[idx].LastSyncError = syncErr
		}
		updated = items[idx]
		return items, nil
	})
	if err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			r.log.StoreError("leads", "update_status", err)
			return domain.Record{}, apperr.Wrap(apperr.KindInternal, "failed to update lead", err)
		}
		return domain.Record{}, err
	}

	return updated, nil
}

// List returns records matching the filters, in stored (insertion) order.
func (r *Repository) List(filters ListFilters) ([]domain.Record, error) {
	items, err := r.col.ReadAll()
	if err != nil {
		r.log.StoreError("leads", "list", err)
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read leads", err)
	}

	results := make([]domain.Record, 0, len(items))
	for _, lead := range items {
		if filters.Status != nil && lead.Status != *filters.Status {
			continue
		}
		if filters.MinScore != nil && lead.Score < *filters.MinScore {
			continue
		}
		if filters.StartDate != nil && lead.CreatedAt.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && lead.CreatedAt.After(*filters.EndDate) {
			continue
		}
		results = append(results, lead)
	}

	return results, nil
}
