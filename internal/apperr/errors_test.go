package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Kind:     KindProviderLogical,
		Provider: "aliyun",
		Code:     "InvalidAccessKeyId",
		Message:  "Specified access key is not found.",
	}

	got := err.Error()
	for _, want := range []string{"aliyun", "provider error", "Specified access key is not found.", "code=InvalidAccessKeyId"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestIsThroughWrapping(t *testing.T) {
	base := ConfigurationMissing("baidu", "account not found")
	wrapped := fmt.Errorf("translate: %w", base)

	if !Is(wrapped, KindConfigurationMissing) {
		t.Error("Expected wrapped error to be ConfigurationMissing")
	}
	if Is(wrapped, KindAuth) {
		t.Error("Did not expect wrapped error to be Auth")
	}
	if KindOf(wrapped) != KindConfigurationMissing {
		t.Errorf("KindOf = %v, want %v", KindOf(wrapped), KindConfigurationMissing)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindTransport, "baidu", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if KindOf(errors.New("plain")) != 0 {
		t.Error("Expected zero kind for unclassified error")
	}
	if KindOf(nil) != 0 {
		t.Error("Expected zero kind for nil error")
	}
}

func TestKindString(t *testing.T) {
	if KindAuth.String() != "authentication failed" {
		t.Errorf("KindAuth.String() = %q", KindAuth.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
