package ai

import "errors"

// ErrEmptyReply indicates the provider answered without any completion choice.
var ErrEmptyReply = errors.New("ai returned no choices")
