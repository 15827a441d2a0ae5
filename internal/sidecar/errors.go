package sidecar

import "errors"

var (
	// ErrNoModelPath means no model file path is available, so the sidecar
	// document locations cannot be resolved. Operations fail fast on it
	// before touching disk.
	ErrNoModelPath = errors.New("no model file is open")

	// ErrParse means a sidecar document exists but is not valid JSON.
	// Read paths may degrade to an empty document on it; write paths never
	// produce it.
	ErrParse = errors.New("cannot parse sidecar document")

	// ErrSprintNotFound means a sprint id did not match any configured sprint.
	ErrSprintNotFound = errors.New("sprint not found")
)
