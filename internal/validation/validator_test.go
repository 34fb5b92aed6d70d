package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stashitapp/stashit-server/internal/errors"
	"github.com/stashitapp/stashit-server/internal/validation"
)

type createRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=500"`
	Category  string `json:"category" validate:"required,category"`
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"`
}

func TestValidatePasses(t *testing.T) {
	v := validation.New()

	err := v.Validate(createRequest{
		Title:     "Chocolate Cake",
		Category:  "recipe",
		SourceURL: "https://example.com/cake",
	})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(createRequest{Category: "recipe"})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "title")
}

func TestValidateCategoryTag(t *testing.T) {
	v := validation.New()

	err := v.Validate(createRequest{Title: "X", Category: "gadgets"})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	details := appErr.Details.(map[string]string)
	assert.Equal(t, "must be a known category", details["category"])
}

func TestValidateURLTag(t *testing.T) {
	v := validation.New()

	err := v.Validate(createRequest{Title: "X", Category: "book", SourceURL: "not a url"})
	assert.Error(t, err)
}
