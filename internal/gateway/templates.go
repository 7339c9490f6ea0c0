package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

type populateRequest struct {
	TemplateName string `json:"template_name"`
	Overwrite    bool   `json:"overwrite"`
}

// PopulateFromTemplate copies a bureau-level standard template into the
// tender. With overwrite=false the server reports skipped=true when the
// tender already has items and creates nothing; with overwrite=true existing
// items are removed first. This is the only destructive bulk operation in
// the gateway; the confirmation gate lives with the caller.
func (c *client) PopulateFromTemplate(ctx context.Context, tenderID, templateName string, overwrite bool) (*domain.PopulateResult, error) {
	if strings.TrimSpace(templateName) == "" {
		return nil, &ValidationError{Field: "template_name", Reason: "must not be empty"}
	}
	var result domain.PopulateResult
	req := populateRequest{TemplateName: templateName, Overwrite: overwrite}
	if err := c.do(ctx, http.MethodPost, "/tenders/"+tenderID+"/populate-templates", req, &result); err != nil {
		return nil, err
	}
	if !result.Skipped {
		c.InvalidateCounts()
	}
	return &result, nil
}

// TemplateNames lists the names of the bureau's standard templates.
func (c *client) TemplateNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/template-names", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// PlanningTemplates returns the read-only planning template catalog.
func (c *client) PlanningTemplates(ctx context.Context) ([]domain.TemplateTask, error) {
	var rows []domain.TemplateTask
	if err := c.do(ctx, http.MethodGet, "/planning-templates", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ChecklistTemplates returns the read-only checklist template catalog.
func (c *client) ChecklistTemplates(ctx context.Context) ([]domain.TemplateChecklistItem, error) {
	var rows []domain.TemplateChecklistItem
	if err := c.do(ctx, http.MethodGet, "/checklist-templates", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
