package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

func writeEnvelope(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": json.RawMessage(raw)})
	require.NoError(t, err)
}

func newTestClient(t *testing.T, handler http.Handler) (*client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw := New(Config{BaseURL: srv.URL, TimeoutMs: 2000, CountsTTL: 30 * time.Second}, staticToken("secret"), nil)
	return gw.(*client), srv
}

func TestDo_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(t, w, []planTaskDTO{})
	}))

	_, err := c.ListPlanTasks(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestDo_MissingTokenFailsBeforeNetwork(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	gw := New(Config{BaseURL: srv.URL, TimeoutMs: 2000}, staticToken(""), nil)
	_, err := gw.ListPlanTasks(context.Background(), "t-1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, hits, "no request may leave the client without a token")
}

func TestDo_EnvelopeFailureAt200(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "tender is archived"})
	}))

	_, err := c.ListPlanTasks(context.Background(), "t-1")
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusOK, re.Status)
	assert.Equal(t, "tender is archived", re.Message)
	assert.True(t, IsRecoverable(err))
}

func TestDo_Non2xxStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	_, err := c.ListPlanTasks(context.Background(), "t-1")
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadGateway, re.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), re.Message)
}

func TestListPlanTasks_DecodesWireFormat(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenders/t-1/planning", r.URL.Path)
		writeEnvelope(t, w, []planTaskDTO{{
			ID:         "pt-1",
			TenderID:   "t-1",
			Name:       "offerte opstellen",
			Category:   "Inkoop",
			Status:     "done",
			DueDate:    "2026-03-01",
			SortOrder:  3,
			AssignedTo: []string{"user-a"},
			UpdatedAt:  "2026-02-01T10:00:00Z",
		}})
	}))

	tasks, err := c.ListPlanTasks(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	got := tasks[0]
	assert.Equal(t, "pt-1", got.ID)
	assert.Equal(t, domain.TaskDone, got.Status)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-03-01", got.DueDate.Format(domain.DateLayout))
	assert.Equal(t, []string{"user-a"}, got.AssignedTo)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestListPlanTasks_MalformedDueDateBecomesNil(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []planTaskDTO{{ID: "pt-1", Name: "x", DueDate: "zo snel mogelijk"}})
	}))

	tasks, err := c.ListPlanTasks(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].DueDate)
}

func TestListPlanTasks_UnknownStatusDegradesToTodo(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []planTaskDTO{
			{ID: "pt-1", Name: "a", Status: "in_review"},
			{ID: "pt-2", Name: "b", Status: "done"},
		})
	}))

	tasks, err := c.ListPlanTasks(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.TaskTodo, tasks[0].Status)
	assert.Equal(t, domain.TaskDone, tasks[1].Status)
}

func TestListChecklistItems_UnknownStatusDegradesToPending(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenders/t-1/checklist", r.URL.Path)
		writeEnvelope(t, w, []checklistItemDTO{
			{ID: "ci-1", Name: "a", Status: "in_progress"},
			{ID: "ci-2", Name: "b", Status: "completed"},
		})
	}))

	items, err := c.ListChecklistItems(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.ChecklistPending, items[0].Status)
	assert.Equal(t, domain.ChecklistCompleted, items[1].Status)
}

func TestCreatePlanTask_ValidatesAndDefaults(t *testing.T) {
	var gotBody CreatePlanTask
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeEnvelope(t, w, planTaskDTO{ID: "pt-1", Name: gotBody.Name, Category: gotBody.Category, Status: gotBody.Status})
	}))
	ctx := context.Background()

	_, err := c.CreatePlanTask(ctx, "t-1", CreatePlanTask{Name: "  "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, IsRecoverable(err))

	created, err := c.CreatePlanTask(ctx, "t-1", CreatePlanTask{Name: "nieuwe taak"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, gotBody.Category)
	assert.Equal(t, string(domain.TaskTodo), gotBody.Status)
	assert.Equal(t, "pt-1", created.ID)
}

func TestUpdatePlanTask_ClearDueDateSendsExplicitNull(t *testing.T) {
	var gotBody map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/planning/pt-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeEnvelope(t, w, planTaskDTO{ID: "pt-1", Name: "x"})
	}))

	_, err := c.UpdatePlanTask(context.Background(), "pt-1", PlanTaskPatch{ClearDueDate: true})
	require.NoError(t, err)

	// The key must be present with a JSON null, not omitted.
	val, present := gotBody["due_date"]
	require.True(t, present)
	assert.Nil(t, val)
	assert.NotContains(t, gotBody, "name")
}

func TestUpdateChecklistItem_PatchOmitsUntouchedFields(t *testing.T) {
	var gotBody map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeEnvelope(t, w, checklistItemDTO{ID: "ci-1", Name: "nieuw"})
	}))

	name := "nieuw"
	_, err := c.UpdateChecklistItem(context.Background(), "ci-1", ChecklistItemPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "nieuw"}, gotBody)
}

func TestTogglePlanTaskStatus_SendsOpposite(t *testing.T) {
	var gotStatus string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotStatus, _ = body["status"].(string)
		writeEnvelope(t, w, planTaskDTO{ID: "pt-1", Status: gotStatus})
	}))
	ctx := context.Background()

	_, err := c.TogglePlanTaskStatus(ctx, &domain.PlanTask{ID: "pt-1", Status: domain.TaskTodo})
	require.NoError(t, err)
	assert.Equal(t, string(domain.TaskDone), gotStatus)

	_, err = c.TogglePlanTaskStatus(ctx, &domain.PlanTask{ID: "pt-1", Status: domain.TaskDone})
	require.NoError(t, err)
	assert.Equal(t, string(domain.TaskTodo), gotStatus)

	// "active" counts as not-done and flips to done.
	_, err = c.TogglePlanTaskStatus(ctx, &domain.PlanTask{ID: "pt-1", Status: domain.TaskActive})
	require.NoError(t, err)
	assert.Equal(t, string(domain.TaskDone), gotStatus)
}

func TestDeletePlanTask(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		writeEnvelope(t, w, nil)
	}))

	require.NoError(t, c.DeletePlanTask(context.Background(), "pt-1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/planning/pt-1", gotPath)
}

func TestGetTender(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenders/t-1", r.URL.Path)
		writeEnvelope(t, w, domain.Tender{ID: "t-1", Name: "Renovatie", DeadlineIndiening: "2026-03-01"})
	}))

	tender, err := c.GetTender(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Renovatie", tender.Name)
	assert.Equal(t, "2026-03-01", tender.DeadlineIndiening)
}

func TestTeamMembers(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/team-members", r.URL.Path)
		writeEnvelope(t, w, []domain.TeamMember{{ID: "user-a", Name: "Anna Bakker"}})
	}))

	members, err := c.TeamMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Anna Bakker", members[0].Name)
}
