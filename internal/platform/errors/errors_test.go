package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "x")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusDefaultsToInternalError(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(stderrors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("nil status = %d, want %d", got, http.StatusOK)
	}
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("update skill: %w", E(KindNotFound, "skill not found"))
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("KindOf() = %q, want %q", got, KindNotFound)
	}
}

func TestIsMatchesByKind(t *testing.T) {
	t.Parallel()

	err := Wrap(KindConflict, "category in use", stderrors.New("2 skills"))
	if !stderrors.Is(err, &Error{Kind: KindConflict}) {
		t.Fatal("expected errors.Is to match by kind")
	}
	if stderrors.Is(err, &Error{Kind: KindNotFound}) {
		t.Fatal("expected errors.Is to reject other kinds")
	}
}

func TestPublicMessageHidesCauses(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(stderrors.New("open /etc/secret: permission denied")); got != "Internal Server Error" {
		t.Fatalf("PublicMessage() = %q, want generic text", got)
	}
	err := Wrap(KindInvalidInput, "name is required", stderrors.New("detail"))
	if got := PublicMessage(err); got != "name is required" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "name is required")
	}
}

func TestErrorStringFallsBackToKind(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindNotFound}
	if got := err.Error(); got != string(KindNotFound) {
		t.Fatalf("Error() = %q, want %q", got, KindNotFound)
	}
}
