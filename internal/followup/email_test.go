package followup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"inkflowcrm/internal/models"
)

func TestGenerateContent_AllScheduledTypes(t *testing.T) {
	for _, step := range Schedule {
		content := GenerateContent(step.Type, "Maya", "Jo", "Black Lotus")

		assert.NotEmpty(t, content.Subject, string(step.Type))
		assert.NotEmpty(t, content.Body, string(step.Type))
		assert.Contains(t, content.Body, "Maya")
		assert.Contains(t, content.Body, "Jo")
	}
}

func TestGenerateContent_TemplatesDiffer(t *testing.T) {
	seen := map[string]bool{}
	for _, step := range Schedule {
		content := GenerateContent(step.Type, "Maya", "Jo", "Black Lotus")
		assert.False(t, seen[content.Subject], "duplicate subject for %s", step.Type)
		seen[content.Subject] = true
	}
}

func TestGenerateContent_UnknownTypeFallsBack(t *testing.T) {
	content := GenerateContent(models.TaskType("mystery"), "Maya", "Jo", "Black Lotus")

	assert.NotEmpty(t, content.Subject)
	assert.NotEmpty(t, content.Body)
	assert.Contains(t, content.Body, "Maya")
}

func TestGenerateContent_PlaceholderNames(t *testing.T) {
	content := GenerateContent(models.TaskDay1, "", "", "")

	assert.NotEmpty(t, content.Subject)
	assert.Contains(t, content.Body, "Hi there,")
	assert.Contains(t, content.Body, "Your artist")
	assert.Contains(t, content.Subject, "our shop")
}

func TestGenerateContent_MultilineBody(t *testing.T) {
	content := GenerateContent(models.TaskDay3, "Maya", "Jo", "Black Lotus")
	assert.Greater(t, strings.Count(content.Body, "\n"), 2)
}
