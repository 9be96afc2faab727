package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `validate:"required,notblank"`
	Platform string `validate:"omitempty,platform"`
	Category string `validate:"omitempty,category"`
}

func TestCustomTags(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantTag string
	}{
		{name: "ok", in: sample{Name: "Milk", Platform: "Instamart", Category: "Dining"}},
		{name: "blank name", in: sample{Name: "   "}, wantTag: "notblank"},
		{name: "odd platform", in: sample{Name: "Milk", Platform: "blink!t"}, wantTag: "platform"},
		{name: "unknown category", in: sample{Name: "Milk", Category: "fuel"}, wantTag: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate.Struct(tt.in)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantTag, verrs[0].Tag())
		})
	}
}

func TestIsPlatform(t *testing.T) {
	assert.True(t, IsPlatform("zepto"))
	assert.True(t, IsPlatform(" BigBasket "))
	assert.False(t, IsPlatform(""))
	assert.False(t, IsPlatform("a/b"))
}
