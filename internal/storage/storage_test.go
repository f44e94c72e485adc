package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUploadPath(t *testing.T) {
	p := GenerateUploadPath(".png")
	assert.True(t, strings.HasPrefix(p, "uploads/"))
	assert.True(t, strings.HasSuffix(p, ".png"))

	assert.NotEqual(t, p, GenerateUploadPath(".png"), "each upload gets its own key")
}

func TestGenerateLeadAttachmentPath(t *testing.T) {
	leadID := uuid.New()
	p := GenerateLeadAttachmentPath(leadID, "contract.pdf")
	assert.Equal(t, "leads/"+leadID.String()+"/contract.pdf", p)
}

func TestGenerateImportPath(t *testing.T) {
	p := GenerateImportPath()
	assert.True(t, strings.HasPrefix(p, "imports/"))
	assert.True(t, strings.HasSuffix(p, ".csv"))

	assert.NotEqual(t, p, GenerateImportPath(), "archived imports never collide")
}
