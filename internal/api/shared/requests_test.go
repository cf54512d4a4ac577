package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name  string `json:"name"  validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"box","count":3}`))

		var target decodeTarget
		require.NoError(t, DecodeJSON(req, &target))
		assert.Equal(t, "box", target.Name)
		assert.Equal(t, 3, target.Count)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

		var target decodeTarget
		assert.Error(t, DecodeJSON(req, &target))
	})
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestValidateRequest(t *testing.T) {
	t.Run("struct tags pass", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(decodeTarget{Name: "box"}))
	})

	t.Run("struct tags fail", func(t *testing.T) {
		assert.Error(t, ValidateRequest(decodeTarget{Count: -1}))
	})

	t.Run("prefers Validate method", func(t *testing.T) {
		wantErr := errors.New("custom validation failed")
		assert.Equal(t, wantErr, ValidateRequest(selfValidating{err: wantErr}))
		assert.NoError(t, ValidateRequest(selfValidating{}))
	})
}
