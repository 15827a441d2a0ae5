package pageguess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdna/devtrack/internal/model"
	"github.com/appdna/devtrack/internal/pageguess"
)

func TestExtractStoryParts(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		text string
		want pageguess.StoryParts
	}{
		{
			name: "canonical shape",
			text: "As a Manager, I want to view all orders",
			want: pageguess.StoryParts{Role: "Manager", Action: "view all", Object: "orders"},
		},
		{
			name: "bracketed role and object",
			text: "As a [Admin], I want to add a [customer]",
			want: pageguess.StoryParts{Role: "Admin", Action: "add", Object: "customer"},
		},
		{
			name: "trailing period",
			text: "As an accountant, I want to update an invoice.",
			want: pageguess.StoryParts{Role: "accountant", Action: "update", Object: "invoice"},
		},
		{
			name: "no recognizable shape",
			text: "Fix the login bug",
			want: pageguess.StoryParts{},
		},
		{
			name: "role only",
			text: "As a User, the dashboard should be fast",
			want: pageguess.StoryParts{Role: "User"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := pageguess.ExtractStoryParts(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func orderModel() []model.ModelObject {
	return []model.ModelObject{
		{
			Name: "Order",
			Report: []model.Report{
				{Name: "OrderList", IsPage: "true", TargetChildObject: "Order"},
				{Name: "OrderAudit", IsPage: "false"},
			},
			ObjectWorkflow: []model.Workflow{
				{Name: "OrderAdd"},
				{Name: "OrderInternalFlow", IsPage: "false"},
			},
		},
		{
			Name:             "OrderLine",
			ParentObjectName: "Order",
		},
		{
			Name: "Customer",
			Report: []model.Report{
				{Name: "CustomerList", IsPage: "true", RoleRequired: "Admin"},
			},
		},
	}
}

func TestCollectPagesSkipsNonPages(t *testing.T) {
	t.Parallel()

	pages := pageguess.CollectPages(orderModel())

	var names []string
	for _, p := range pages {
		names = append(names, p.Name)
	}

	assert.ElementsMatch(t, []string{"OrderList", "OrderAdd", "CustomerList"}, names)
}

func TestSuggestMatchesObjectPages(t *testing.T) {
	t.Parallel()

	story := model.UserStory{StoryText: "As a Manager, I want to view all orders"}

	got := pageguess.Suggest(story, orderModel())
	require.NotEmpty(t, got)

	// A view action ranks the report above the form.
	assert.Equal(t, "OrderList", got[0])
	assert.Contains(t, got, "OrderAdd")
	assert.NotContains(t, got, "CustomerList")
}

func TestSuggestPrefersFormsForMutations(t *testing.T) {
	t.Parallel()

	story := model.UserStory{StoryText: "As a Manager, I want to add an order"}

	got := pageguess.Suggest(story, orderModel())
	require.NotEmpty(t, got)
	assert.Equal(t, "OrderAdd", got[0])
}

func TestSuggestWalksParentWhenObjectHasNoPages(t *testing.T) {
	t.Parallel()

	story := model.UserStory{StoryText: "As a Manager, I want to view all order lines"}

	got := pageguess.Suggest(story, orderModel())
	require.NotEmpty(t, got)
	assert.Equal(t, "OrderList", got[0])
}

func TestSuggestNothingWithoutObjectPhrase(t *testing.T) {
	t.Parallel()

	story := model.UserStory{StoryText: "Fix the login bug"}

	assert.Empty(t, pageguess.Suggest(story, orderModel()))
}

func TestValidatePages(t *testing.T) {
	t.Parallel()

	known, unknown := pageguess.ValidatePages(
		[]string{"OrderList", "NoSuchPage", "OrderAdd"},
		orderModel(),
	)

	assert.Equal(t, []string{"OrderList", "OrderAdd"}, known)
	assert.Equal(t, []string{"NoSuchPage"}, unknown)
}
