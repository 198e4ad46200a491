package services

import (
	"context"
	"fmt"

	"orderdesk/internal/domain"
	"orderdesk/internal/domain/models"
	"orderdesk/internal/query"
	"orderdesk/internal/repositories"
	"orderdesk/internal/utils"
)

// ResourceService serves validated query options for one resource.
type ResourceService struct {
	Repo      repositories.ResourceRepository
	RequestID string
}

func (s ResourceService) resource() models.Resource {
	return s.Repo.Resource
}

func (s ResourceService) translate(q map[string]any) query.Criteria {
	return query.New(s.Repo.Dialect.Operators()).Translate(q)
}

// List returns one page of matching rows. The page echoes the normalized query.
func (s ResourceService) List(ctx context.Context, q map[string]any) (domain.Page, error) {
	c := s.translate(q)
	utils.LogEvent(s.RequestID, s.resource().Name, "list", fmt.Sprintf("filters=%d options=%d", len(c.Where), len(c.Options)))

	page, err := s.Repo.List(ctx, c)
	if err != nil {
		utils.LogEvent(s.RequestID, s.resource().Name, "list_failed", err.Error())
		return domain.Page{}, err
	}
	page.Query = query.Flatten(c, s.Repo.Dialect.Operators())
	return page, nil
}

// Get loads one row; q may carry attributes, include and paranoid.
func (s ResourceService) Get(ctx context.Context, id string, q map[string]any) (domain.Record, error) {
	c := s.translate(q)
	rec, err := s.Repo.Get(ctx, id, c)
	if err != nil {
		if !domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, s.resource().Name, "get_failed", err.Error())
		}
		return nil, err
	}
	return rec, nil
}

// Create inserts body and, unless returning=false, reads the stored row back.
func (s ResourceService) Create(ctx context.Context, body, q map[string]any) (domain.Record, error) {
	c := s.translate(q)
	id, err := s.Repo.Create(ctx, body)
	if err != nil {
		utils.LogEvent(s.RequestID, s.resource().Name, "create_failed", err.Error())
		return nil, err
	}
	utils.LogEvent(s.RequestID, s.resource().Name, "create", "id="+id)
	return s.readBack(ctx, id, c)
}

// Update patches a live row with body.
func (s ResourceService) Update(ctx context.Context, id string, body, q map[string]any) (domain.Record, error) {
	c := s.translate(q)
	if len(body) > 0 {
		if err := s.Repo.Update(ctx, id, body); err != nil {
			if !domain.IsNotFound(err) {
				utils.LogEvent(s.RequestID, s.resource().Name, "update_failed", err.Error())
			}
			return nil, err
		}
		utils.LogEvent(s.RequestID, s.resource().Name, "update", fmt.Sprintf("id=%s fields=%d", id, len(body)))
	}
	return s.readBack(ctx, id, c)
}

// Delete soft deletes a row, or removes it when force=true.
func (s ResourceService) Delete(ctx context.Context, id string, q map[string]any) error {
	c := s.translate(q)
	force := c.Bool(query.KeyForce, false)
	if err := s.Repo.Delete(ctx, id, force); err != nil {
		if !domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, s.resource().Name, "delete_failed", err.Error())
		}
		return err
	}
	utils.LogEvent(s.RequestID, s.resource().Name, "delete", fmt.Sprintf("id=%s force=%t", id, force))
	return nil
}

func (s ResourceService) readBack(ctx context.Context, id string, c query.Criteria) (domain.Record, error) {
	if !c.Bool(query.KeyReturning, true) {
		return domain.Record{models.ColID: id}, nil
	}
	read := query.Criteria{Where: map[string]any{}, Options: map[string]any{}}
	for _, k := range []string{query.KeyAttributes, query.KeyInclude} {
		if v, ok := c.Options[k]; ok {
			read.Options[k] = v
		}
	}
	return s.Repo.Get(ctx, id, read)
}
