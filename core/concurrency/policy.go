// File: core/concurrency/policy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"fmt"
	"strings"
)

// CompletionPolicy selects how an Executor runs completion callbacks.
type CompletionPolicy int

const (
	// PolicyNone runs each completion right after its task, concurrently
	// with other completions.
	PolicyNone CompletionPolicy = iota
	// PolicyUnordered runs completions one at a time in any order.
	PolicyUnordered
	// PolicyOrdered runs completions one at a time in submission order.
	PolicyOrdered
)

func (p CompletionPolicy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyUnordered:
		return "unordered"
	case PolicyOrdered:
		return "ordered"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration name to a policy.
func ParsePolicy(s string) (CompletionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PolicyNone, nil
	case "unordered":
		return PolicyUnordered, nil
	case "ordered":
		return PolicyOrdered, nil
	default:
		return PolicyNone, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
