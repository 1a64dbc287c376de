package validator

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
)

type testPayload struct {
	Name     string   `json:"name" validate:"required,max=20"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Internal string   `json:"-"`
}

func floatPtr(v float64) *float64 { return &v }

func TestValidate_Success(t *testing.T) {
	err := Validate(testPayload{Name: "Iphone 15", Price: floatPtr(999.99), ImageURL: "https://img.example.com/1.png"})
	assert.NoError(t, err)
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload testPayload
		field   string
		message string
	}{
		{"missing name", testPayload{}, "name", "is required"},
		{"name too long", testPayload{Name: strings.Repeat("x", 21)}, "name", "must be at most 20 characters"},
		{"negative price", testPayload{Name: "a", Price: floatPtr(-1)}, "price", "must be greater than or equal to 0"},
		{"bad url", testPayload{Name: "a", ImageURL: "not a url"}, "imageUrl", "must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.payload)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.message, valErr.Fields()[tt.field])
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(testPayload{Price: floatPtr(-5)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name' is required")
	assert.Contains(t, err.Error(), "field 'price'")
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		code    string
	}{
		{"valid", `{"name":"Iphone 15","price":999.99}`, false, ""},
		{"empty body", ``, true, "INVALID_INPUT"},
		{"malformed", `{"name":`, true, "INVALID_INPUT"},
		{"wrong type", `{"name":42}`, true, "INVALID_INPUT"},
		{"trailing data", `{"name":"a"}{"name":"b"}`, true, "INVALID_INPUT"},
		{"fails validation", `{"price":1}`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tt.body))
			var dst testPayload
			err := DecodeAndValidate(req, &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Iphone 15", dst.Name)
				require.NotNil(t, dst.Price)
				assert.InDelta(t, 999.99, *dst.Price, 1e-9)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			if tt.code != "" {
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.code, appErr.Code)
			}
		})
	}
}
