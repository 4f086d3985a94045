package engineerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrappersPreserveKind(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{NotFoundf("alert %s", "abc"), ErrNotFound},
		{Validationf("empty drug name"), ErrValidation},
		{Unavailablef("knowledge base not loaded"), ErrUnavailable},
		{Timeoutf("lookup exceeded %s", "2s"), ErrTimeout},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.kind) {
			t.Errorf("expected %v to wrap %v", c.err, c.kind)
		}
	}
}

func TestWrappersKeepMessage(t *testing.T) {
	err := NotFoundf("alert %s", "abc-123")
	want := "alert abc-123: not found"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{NotFoundf("alert"), http.StatusNotFound},
		{Validationf("bad input"), http.StatusBadRequest},
		{Unavailablef("store down"), http.StatusServiceUnavailable},
		{Timeoutf("deadline"), http.StatusGatewayTimeout},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.status)
		}
	}
}
