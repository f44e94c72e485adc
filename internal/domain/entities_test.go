package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestLeadDisplayName(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name string
		lead Lead
		want string
	}{
		{"name wins", Lead{ID: id, Name: strp("Maria"), Email: strp("m@x.com")}, "Maria"},
		{"email fallback", Lead{ID: id, Email: strp("m@x.com"), Phone: strp("+55")}, "m@x.com"},
		{"phone fallback", Lead{ID: id, Phone: strp("+5511999990000")}, "+5511999990000"},
		{"id last resort", Lead{ID: id}, id.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lead.DisplayName())
		})
	}
}

func TestLeadValidateIdentity(t *testing.T) {
	valid := Lead{Name: strp("Maria")}
	assert.NoError(t, valid.ValidateIdentity())

	byEmail := Lead{Email: strp("m@x.com")}
	assert.NoError(t, byEmail.ValidateIdentity())

	empty := Lead{Phone: strp("+5511999990000")}
	err := empty.ValidateIdentity()
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	whitespace := Lead{Name: strp("   ")}
	assert.Error(t, whitespace.ValidateIdentity())
}

func TestLeadValueHelpers(t *testing.T) {
	l := Lead{Phone: strp("  +5511999990000 "), Email: strp(" a@b.com ")}
	assert.Equal(t, "+5511999990000", l.PhoneValue())
	assert.Equal(t, "a@b.com", l.EmailValue())

	empty := Lead{}
	assert.Empty(t, empty.PhoneValue())
	assert.Empty(t, empty.EmailValue())
}

func TestLeadIsDeleted(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Lead{DeletedAt: &now}).IsDeleted())
	assert.False(t, (&Lead{}).IsDeleted())
}

func TestIsTerminalNotificationStatus(t *testing.T) {
	assert.True(t, IsTerminalNotificationStatus(NotificationStatusIgnored))
	assert.True(t, IsTerminalNotificationStatus(NotificationStatusReviewed))
	assert.True(t, IsTerminalNotificationStatus(NotificationStatusMerged))
	assert.False(t, IsTerminalNotificationStatus(NotificationStatusPending))
	assert.False(t, IsTerminalNotificationStatus("unknown"))
}
