package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// TokenSource supplies the bearer token for the backing service. An empty
// token or an error means there is no valid session.
type TokenSource interface {
	Token() (string, error)
}

// Gateway is the only component that talks to the backing store. All
// mutations invalidate the aggregate counts cache on success.
type Gateway interface {
	GetTender(ctx context.Context, tenderID string) (*domain.Tender, error)

	ListPlanTasks(ctx context.Context, tenderID string) ([]domain.PlanTask, error)
	ListChecklistItems(ctx context.Context, tenderID string) ([]domain.ChecklistItem, error)

	CreatePlanTask(ctx context.Context, tenderID string, fields CreatePlanTask) (*domain.PlanTask, error)
	CreateChecklistItem(ctx context.Context, tenderID string, fields CreateChecklistItem) (*domain.ChecklistItem, error)

	UpdatePlanTask(ctx context.Context, id string, patch PlanTaskPatch) (*domain.PlanTask, error)
	UpdateChecklistItem(ctx context.Context, id string, patch ChecklistItemPatch) (*domain.ChecklistItem, error)

	DeletePlanTask(ctx context.Context, id string) error
	DeleteChecklistItem(ctx context.Context, id string) error

	// TogglePlanTaskStatus flips between todo and done; "active" also flips
	// to done (it is only ever set by external import).
	TogglePlanTaskStatus(ctx context.Context, task *domain.PlanTask) (*domain.PlanTask, error)
	ToggleChecklistStatus(ctx context.Context, item *domain.ChecklistItem) (*domain.ChecklistItem, error)

	// AggregateCounts returns done/total counts for all tenders visible to
	// the caller, served from a short-lived cache.
	AggregateCounts(ctx context.Context) (map[string]domain.TenderCounts, error)
	InvalidateCounts()

	PopulateFromTemplate(ctx context.Context, tenderID, templateName string, overwrite bool) (*domain.PopulateResult, error)

	TemplateNames(ctx context.Context) ([]string, error)
	PlanningTemplates(ctx context.Context) ([]domain.TemplateTask, error)
	ChecklistTemplates(ctx context.Context) ([]domain.TemplateChecklistItem, error)

	TeamMembers(ctx context.Context) ([]domain.TeamMember, error)
}

// Config holds the gateway's connection parameters.
type Config struct {
	BaseURL   string
	TimeoutMs int
	CountsTTL time.Duration
}

// DefaultConfig returns a Config with the stock timeout and the 30s counts TTL.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8080/api/v1",
		TimeoutMs: 10000,
		CountsTTL: 30 * time.Second,
	}
}

type client struct {
	cfg    Config
	tokens TokenSource
	http   *http.Client
	logger Logger
	now    func() time.Time

	countsMu      sync.Mutex
	counts        map[string]domain.TenderCounts
	countsFetched time.Time
	countsStale   bool
}

// New creates a Gateway against the configured backing service.
func New(cfg Config, tokens TokenSource, logger Logger) Gateway {
	if logger == nil {
		logger = NoopLogger{}
	}
	if cfg.CountsTTL <= 0 {
		cfg.CountsTTL = 30 * time.Second
	}
	return &client{
		cfg:    cfg,
		tokens: tokens,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		logger: logger,
		now:    time.Now,
	}
}

// envelope is the uniform response wrapper of the backing service.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do performs one authenticated request and decodes the envelope's data into
// out (when out is non-nil). success:false and non-2xx statuses are treated
// identically.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.Token()
	if err != nil || token == "" {
		return ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && env.Error != "" {
			msg = env.Error
		}
		return &RequestError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding response: %w", decodeErr)
	}
	if !env.Success {
		return &RequestError{Status: resp.StatusCode, Message: env.Error}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}

// ── wire shapes ──────────────────────────────────────────────────────────────

type planTaskDTO struct {
	ID          string   `json:"id"`
	TenderID    string   `json:"tender_id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	DueDate     string   `json:"due_date"`
	SortOrder   int      `json:"sort_order"`
	IsMilestone bool     `json:"is_milestone"`
	AssignedTo  []string `json:"assigned_to"`
	UpdatedAt   string   `json:"updated_at"`
}

type checklistItemDTO struct {
	ID          string   `json:"id"`
	TenderID    string   `json:"tender_id"`
	Name        string   `json:"name"`
	Section     string   `json:"section"`
	Status      string   `json:"status"`
	IsMandatory bool     `json:"is_mandatory"`
	Deadline    string   `json:"deadline"`
	SortOrder   int      `json:"sort_order"`
	AssignedTo  []string `json:"assigned_to"`
	UpdatedAt   string   `json:"updated_at"`
}

func (d planTaskDTO) toDomain() domain.PlanTask {
	// Statuses outside the canonical set degrade to open so toggles and
	// progress counts keep working on records written by external imports.
	status := domain.TaskStatus(d.Status)
	if !domain.ValidTaskStatuses[d.Status] {
		status = domain.TaskTodo
	}
	return domain.PlanTask{
		ID:          d.ID,
		TenderID:    d.TenderID,
		Name:        d.Name,
		Category:    d.Category,
		Status:      status,
		DueDate:     domain.ParseDate(d.DueDate),
		SortOrder:   d.SortOrder,
		IsMilestone: d.IsMilestone,
		AssignedTo:  d.AssignedTo,
		UpdatedAt:   parseTimestamp(d.UpdatedAt),
	}
}

func (d checklistItemDTO) toDomain() domain.ChecklistItem {
	status := domain.ChecklistStatus(d.Status)
	if !domain.ValidChecklistStatuses[d.Status] {
		status = domain.ChecklistPending
	}
	return domain.ChecklistItem{
		ID:          d.ID,
		TenderID:    d.TenderID,
		Name:        d.Name,
		Section:     d.Section,
		Status:      status,
		IsMandatory: d.IsMandatory,
		Deadline:    domain.ParseDate(d.Deadline),
		SortOrder:   d.SortOrder,
		AssignedTo:  d.AssignedTo,
		UpdatedAt:   parseTimestamp(d.UpdatedAt),
	}
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreatePlanTask holds the fields for a new plan task. Name is mandatory;
// the server assigns the identifier and timestamps.
type CreatePlanTask struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	DueDate     string   `json:"due_date,omitempty"`
	SortOrder   int      `json:"sort_order"`
	IsMilestone bool     `json:"is_milestone,omitempty"`
	AssignedTo  []string `json:"assigned_to,omitempty"`
}

// CreateChecklistItem holds the fields for a new checklist item.
type CreateChecklistItem struct {
	Name        string   `json:"name"`
	Section     string   `json:"section"`
	Status      string   `json:"status"`
	IsMandatory bool     `json:"is_mandatory,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	SortOrder   int      `json:"sort_order"`
	AssignedTo  []string `json:"assigned_to,omitempty"`
}

// ── list / create / update / delete ──────────────────────────────────────────

func (c *client) GetTender(ctx context.Context, tenderID string) (*domain.Tender, error) {
	var tender domain.Tender
	if err := c.do(ctx, http.MethodGet, "/tenders/"+tenderID, nil, &tender); err != nil {
		return nil, err
	}
	return &tender, nil
}

func (c *client) ListPlanTasks(ctx context.Context, tenderID string) ([]domain.PlanTask, error) {
	var dtos []planTaskDTO
	if err := c.do(ctx, http.MethodGet, "/tenders/"+tenderID+"/planning", nil, &dtos); err != nil {
		return nil, err
	}
	tasks := make([]domain.PlanTask, 0, len(dtos))
	for _, d := range dtos {
		tasks = append(tasks, d.toDomain())
	}
	return tasks, nil
}

func (c *client) ListChecklistItems(ctx context.Context, tenderID string) ([]domain.ChecklistItem, error) {
	var dtos []checklistItemDTO
	if err := c.do(ctx, http.MethodGet, "/tenders/"+tenderID+"/checklist", nil, &dtos); err != nil {
		return nil, err
	}
	items := make([]domain.ChecklistItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.toDomain())
	}
	return items, nil
}

func (c *client) CreatePlanTask(ctx context.Context, tenderID string, fields CreatePlanTask) (*domain.PlanTask, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if fields.Category == "" {
		fields.Category = domain.DefaultCategory
	}
	if fields.Status == "" {
		fields.Status = string(domain.TaskTodo)
	}
	var dto planTaskDTO
	if err := c.do(ctx, http.MethodPost, "/tenders/"+tenderID+"/planning", fields, &dto); err != nil {
		return nil, err
	}
	c.InvalidateCounts()
	task := dto.toDomain()
	return &task, nil
}

func (c *client) CreateChecklistItem(ctx context.Context, tenderID string, fields CreateChecklistItem) (*domain.ChecklistItem, error) {
	if strings.TrimSpace(fields.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if fields.Section == "" {
		fields.Section = domain.DefaultCategory
	}
	if fields.Status == "" {
		fields.Status = string(domain.ChecklistPending)
	}
	var dto checklistItemDTO
	if err := c.do(ctx, http.MethodPost, "/tenders/"+tenderID+"/checklist", fields, &dto); err != nil {
		return nil, err
	}
	c.InvalidateCounts()
	item := dto.toDomain()
	return &item, nil
}

func (c *client) UpdatePlanTask(ctx context.Context, id string, patch PlanTaskPatch) (*domain.PlanTask, error) {
	var dto planTaskDTO
	if err := c.do(ctx, http.MethodPatch, "/planning/"+id, patch.payload(), &dto); err != nil {
		return nil, err
	}
	c.InvalidateCounts()
	task := dto.toDomain()
	return &task, nil
}

func (c *client) UpdateChecklistItem(ctx context.Context, id string, patch ChecklistItemPatch) (*domain.ChecklistItem, error) {
	var dto checklistItemDTO
	if err := c.do(ctx, http.MethodPatch, "/checklist/"+id, patch.payload(), &dto); err != nil {
		return nil, err
	}
	c.InvalidateCounts()
	item := dto.toDomain()
	return &item, nil
}

func (c *client) DeletePlanTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/planning/"+id, nil, nil); err != nil {
		return err
	}
	c.InvalidateCounts()
	return nil
}

func (c *client) DeleteChecklistItem(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/checklist/"+id, nil, nil); err != nil {
		return err
	}
	c.InvalidateCounts()
	return nil
}

// ── status toggles ───────────────────────────────────────────────────────────

func (c *client) TogglePlanTaskStatus(ctx context.Context, task *domain.PlanTask) (*domain.PlanTask, error) {
	next := domain.TaskDone
	if task.Status == domain.TaskDone {
		next = domain.TaskTodo
	}
	return c.UpdatePlanTask(ctx, task.ID, PlanTaskPatch{Status: &next})
}

func (c *client) ToggleChecklistStatus(ctx context.Context, item *domain.ChecklistItem) (*domain.ChecklistItem, error) {
	next := domain.ChecklistCompleted
	if item.Status == domain.ChecklistCompleted {
		next = domain.ChecklistPending
	}
	return c.UpdateChecklistItem(ctx, item.ID, ChecklistItemPatch{Status: &next})
}

func (c *client) TeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	var members []domain.TeamMember
	if err := c.do(ctx, http.MethodGet, "/team-members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}
