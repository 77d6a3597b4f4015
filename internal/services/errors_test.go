package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"avexport/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("disk full")
	err := services.Wrap(services.ErrTransfer, "transfer", "copy file", "copy to export tree failed", base)
	if !errors.Is(err, services.ErrTransfer) {
		t.Error("wrapped error should match marker")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should preserve the underlying cause")
	}
	for _, fragment := range []string{"transfer", "copy file", "disk full"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q missing %q", err.Error(), fragment)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "discovery", "next interview", "", nil)
	if !errors.Is(err, services.ErrQuery) {
		t.Error("nil marker should default to ErrQuery")
	}
}

func TestIsFatal(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrFatal, "transfer", "copy", "unknown kind", nil)) {
		t.Error("ErrFatal should be fatal")
	}
	if !services.IsFatal(services.ErrConfiguration) {
		t.Error("ErrConfiguration should be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrParse, "resolver", "parse", "bad name", nil)) {
		t.Error("parse errors are recoverable")
	}
	if services.IsFatal(services.ErrTransfer) {
		t.Error("transfer errors abort the batch, not the process")
	}
}
