package dedup

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func testLeads() (*domain.Lead, *domain.Lead) {
	accountID := uuid.New()
	source := &domain.Lead{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      strp("Alexandre Duarte"),
		Email:     strp("alex@example.com"),
		Interest:  strp("premium plan"),
		Tags:      []string{"webinar"},
		CustomFields: map[string]interface{}{
			"utm_source": "google",
			"budget":     "10k",
		},
		CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	target := &domain.Lead{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      strp("Al"),
		Phone:     strp("+5511999990000"),
		VisitorID: strp("v-123"),
		Tags:      []string{"organic"},
		CustomFields: map[string]interface{}{
			"utm_source": "direct",
		},
		CreatedAt: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	return source, target
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Strategy
		wantErr bool
	}{
		{"keep existing", "keep_existing", StrategyKeepExisting, false},
		{"keep new", "keep_new", StrategyKeepNew, false},
		{"merge fields", "merge_fields", StrategyMergeFields, false},
		{"unknown", "smash_together", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				var validation *domain.ValidationError
				require.ErrorAs(t, err, &validation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanKeepExisting(t *testing.T) {
	source, target := testLeads()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	result, err := Plan(StrategyKeepExisting, source, target, now)
	require.NoError(t, err)

	assert.Equal(t, target.ID, result.ID)
	assert.Equal(t, "Al", *result.Name)
	assert.Equal(t, "+5511999990000", *result.Phone)
	assert.Nil(t, result.Email)
	assert.Equal(t, now, result.UpdatedAt)
	assert.Equal(t, target.CreatedAt, result.CreatedAt)
}

func TestPlanKeepNew(t *testing.T) {
	source, target := testLeads()
	source.Status = strp(domain.LeadStatusQualified)
	now := time.Now().UTC()

	result, err := Plan(StrategyKeepNew, source, target, now)
	require.NoError(t, err)

	assert.Equal(t, source.ID, result.ID, "the newer record survives")
	assert.Equal(t, source.CreatedAt, result.CreatedAt)
	assert.Equal(t, "Alexandre Duarte", *result.Name)
	assert.Equal(t, "alex@example.com", *result.Email)
	assert.Equal(t, domain.LeadStatusQualified, *result.Status)
	assert.Nil(t, result.Phone, "source had no phone")
	assert.Nil(t, result.VisitorID, "target fields are gone")
	assert.Equal(t, []string{"webinar"}, result.Tags)
	assert.Equal(t, "google", result.CustomFields["utm_source"])
}

func TestPlanMergeFields(t *testing.T) {
	source, target := testLeads()
	now := time.Now().UTC()

	result, err := Plan(StrategyMergeFields, source, target, now)
	require.NoError(t, err)

	// Longer name wins
	assert.Equal(t, "Alexandre Duarte", *result.Name)
	// Non-empty source fills the gap
	assert.Equal(t, "alex@example.com", *result.Email)
	assert.Equal(t, "premium plan", *result.Interest)
	// Target keeps what it already has
	assert.Equal(t, "+5511999990000", *result.Phone)
	// Visitor tracking sticks with the target
	assert.Equal(t, "v-123", *result.VisitorID)
	// Custom fields: target base, source fills missing keys
	assert.Equal(t, "direct", result.CustomFields["utm_source"])
	assert.Equal(t, "10k", result.CustomFields["budget"])
	// Tags are unioned, target first
	assert.Equal(t, []string{"organic", "webinar"}, result.Tags)
}

func TestPlanMergeFieldsNameTieGoesToTarget(t *testing.T) {
	source, target := testLeads()
	source.Name = strp("Ana")
	target.Name = strp("Bea")

	result, err := Plan(StrategyMergeFields, source, target, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bea", *result.Name)
}

func TestPlanMergeFieldsVisitorIDFallsBackToSource(t *testing.T) {
	source, target := testLeads()
	target.VisitorID = nil
	source.VisitorID = strp("v-999")

	result, err := Plan(StrategyMergeFields, source, target, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "v-999", *result.VisitorID)
}

func TestPlanIsDeterministic(t *testing.T) {
	source, target := testLeads()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	first, err := Plan(StrategyMergeFields, source, target, now)
	require.NoError(t, err)
	second, err := Plan(StrategyMergeFields, source, target, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlanDoesNotMutateInputs(t *testing.T) {
	source, target := testLeads()
	sourceName := *source.Name
	targetName := *target.Name

	result, err := Plan(StrategyMergeFields, source, target, time.Now())
	require.NoError(t, err)

	*result.Name = "changed"
	result.CustomFields["budget"] = "mutated"
	result.Tags[0] = "mutated"

	assert.Equal(t, sourceName, *source.Name)
	assert.Equal(t, targetName, *target.Name)
	assert.Equal(t, "10k", source.CustomFields["budget"])
	assert.Equal(t, []string{"organic"}, target.Tags)
}

func TestPlanClearsMergeMarkers(t *testing.T) {
	source, target := testLeads()
	deleted := time.Now()
	target.DuplicateStatus = domain.DuplicateStatusMerged
	target.DeletedAt = &deleted

	result, err := Plan(StrategyKeepExisting, source, target, time.Now())
	require.NoError(t, err)
	assert.Empty(t, result.DuplicateStatus)
	assert.Nil(t, result.DeletedAt)

	source.DuplicateStatus = domain.DuplicateStatusMerged
	result, err = Plan(StrategyKeepNew, source, target, time.Now())
	require.NoError(t, err)
	assert.Empty(t, result.DuplicateStatus)
	assert.Nil(t, result.DeletedAt)
}
