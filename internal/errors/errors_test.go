package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := CatalogUnreachable(fmt.Errorf("dial tcp: connection refused"))
	wrapped := Wrap(inner, "failed to load catalog")

	assert.Equal(t, CodeCatalogUnreachable, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeCatalogUnreachable))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrap(stderrors.New("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidFilter("min above max"))
	assert.Equal(t, CodeInvalidFilter, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		InvalidFilter("x"):              http.StatusBadRequest,
		NotFound("subset"):              http.StatusNotFound,
		CatalogMalformed("x", nil):      http.StatusBadGateway,
		CatalogEmpty("x"):               http.StatusServiceUnavailable,
		stderrors.New("unexpected"):     http.StatusInternalServerError,
		DatabaseError("insert", nil):    http.StatusInternalServerError,
		CatalogUnreachable(nil):         http.StatusBadGateway,
		InvalidInput("bad query param"): http.StatusBadRequest,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}
