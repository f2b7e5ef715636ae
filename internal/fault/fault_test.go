package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_TaxonomyKinds(t *testing.T) {
	kinds := []Kind{NotFound, NotReady, InvalidFormat, UpstreamUnavailable, Timeout}
	for _, k := range kinds {
		err := New(k, "test failure")
		if got := KindOf(err); got != k {
			t.Errorf("KindOf(%v) = %v, want %v", err, got, k)
		}
	}
}

func TestKindOf_WrappedChain(t *testing.T) {
	inner := New(NotReady, "need 3 documents, have 1")
	outer := fmt.Errorf("ensure index: %w", inner)

	if got := KindOf(outer); got != NotReady {
		t.Errorf("KindOf through wrap = %v, want %v", got, NotReady)
	}
	if !IsKind(outer, NotReady) {
		t.Error("IsKind should see NotReady through fmt.Errorf wrapping")
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	err := errors.New("connection refused")
	if got := KindOf(err); got != UpstreamUnavailable {
		t.Errorf("foreign error kind = %v, want %v", got, UpstreamUnavailable)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := Wrap(Timeout, cause, "embedding call")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if err.Error() == "" || KindOf(err) != Timeout {
		t.Errorf("unexpected wrap result: %v", err)
	}
}
