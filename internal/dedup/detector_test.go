package dedup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lead(name, phone, email string) *domain.Lead {
	l := &domain.Lead{ID: uuid.New()}
	if name != "" {
		l.Name = strp(name)
	}
	if phone != "" {
		l.Phone = strp(phone)
	}
	if email != "" {
		l.Email = strp(email)
	}
	return l
}

func TestPickIncumbentPhoneOutranksEmail(t *testing.T) {
	byEmail := lead("Email Match", "", "shared@example.com")
	byPhone := lead("Phone Match", "+5511988887777", "")

	// Ordered oldest first, the email match arrived earlier.
	incumbent, reason := pickIncumbent([]*domain.Lead{byEmail, byPhone}, "+5511988887777", "shared@example.com")
	require.NotNil(t, incumbent)
	assert.Equal(t, byPhone.ID, incumbent.ID)
	assert.Equal(t, domain.MatchReasonPhone, reason)
}

func TestPickIncumbentEmailWhenNoPhoneMatch(t *testing.T) {
	byEmail := lead("Email Match", "", "shared@example.com")

	incumbent, reason := pickIncumbent([]*domain.Lead{byEmail}, "+5511988887777", "shared@example.com")
	require.NotNil(t, incumbent)
	assert.Equal(t, byEmail.ID, incumbent.ID)
	assert.Equal(t, domain.MatchReasonEmail, reason)
}

func TestPickIncumbentOldestWinsWithinRule(t *testing.T) {
	older := lead("Older", "+5511988887777", "")
	newer := lead("Newer", "+5511988887777", "")

	incumbent, _ := pickIncumbent([]*domain.Lead{older, newer}, "+5511988887777", "")
	require.NotNil(t, incumbent)
	assert.Equal(t, older.ID, incumbent.ID)
}

func TestPickIncumbentNoMatch(t *testing.T) {
	other := lead("Other", "+5500000000000", "other@example.com")

	incumbent, reason := pickIncumbent([]*domain.Lead{other}, "+5511988887777", "me@example.com")
	assert.Nil(t, incumbent)
	assert.Empty(t, reason)
}

func TestPickIncumbentEmptyValuesNeverMatch(t *testing.T) {
	blank := lead("Blank", "", "")

	incumbent, _ := pickIncumbent([]*domain.Lead{blank}, "", "")
	assert.Nil(t, incumbent)
}
