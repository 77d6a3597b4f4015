package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse marks an unparseable interview identifier. The interview is
	// skipped for the cycle; it stays eligible for a later selection.
	ErrParse = errors.New("parse error")
	// ErrQuery marks a discovery or ledger read failure. The current
	// selection attempt is abandoned and the loop continues.
	ErrQuery = errors.New("query error")
	// ErrTransfer marks a copy failure. The whole interview batch is
	// aborted: no ledger rows, no source deletions.
	ErrTransfer = errors.New("transfer error")
	// ErrConfiguration marks an invalid deployment. The process exits.
	ErrConfiguration = errors.New("configuration error")
	// ErrFatal marks a logic or data defect, such as an artifact kind
	// outside file/directory. The process exits.
	ErrFatal = errors.New("fatal error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrQuery
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must terminate the process rather than be
// recovered by skipping the current interview.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "export failure"
	}
	return strings.Join(parts, ": ")
}
