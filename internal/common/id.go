package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a run identifier shared by every scenario of one invocation
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// NewResultID generates a scenario result identifier
// Format: res_<uuid>
func NewResultID() string {
	return "res_" + uuid.New().String()
}
