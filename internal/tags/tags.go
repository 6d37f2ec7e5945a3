// Package tags builds the standard tag set attached to every resource for
// cost allocation, ownership, and compliance tracking.
package tags

import (
	"time"

	"github.com/azstack-io/azstack/internal/config"
)

// Tag keys present on every resource.
const (
	KeyEnvironment = "Environment"
	KeyManagedBy   = "ManagedBy"
	KeyProject     = "Project"
	KeyStack       = "Stack"
	KeyCreatedDate = "CreatedDate"
)

// Optional tag keys, included only when a value is available.
const (
	KeyComponent  = "Component"
	KeyOwner      = "Owner"
	KeyCostCenter = "CostCenter"
)

const managedBy = "azstack"

// Request carries the inputs for one default tag set. Component, Owner, and
// CostCenter are optional; empty values fall back to the ambient context and
// are omitted entirely when neither source has them.
type Request struct {
	Environment string
	Component   string
	Owner       string
	CostCenter  string
}

// Defaults returns the default tags for a resource. The five mandatory keys
// are always present; optional keys are set only when resolvable. A nil
// context is allowed and simply provides no ambient values.
func Defaults(ctx *config.Context, req Request) map[string]string {
	project := ""
	stack := ""
	if ctx != nil {
		project = ctx.Project
		stack = ctx.StackName
	}
	if stack == "" {
		stack = req.Environment
	}

	t := map[string]string{
		KeyEnvironment: req.Environment,
		KeyManagedBy:   managedBy,
		KeyProject:     project,
		KeyStack:       stack,
		KeyCreatedDate: time.Now().UTC().Format("2006-01-02"),
	}

	if req.Component != "" {
		t[KeyComponent] = req.Component
	}

	owner := req.Owner
	if owner == "" && ctx != nil {
		owner = ctx.Owner
	}
	if owner != "" {
		t[KeyOwner] = owner
	}

	costCenter := req.CostCenter
	if costCenter == "" && ctx != nil {
		costCenter = ctx.CostCenter
	}
	if costCenter != "" {
		t[KeyCostCenter] = costCenter
	}

	return t
}

// Merge returns a copy of base with every key of extra written over it;
// extra wins on conflict. A nil extra returns an unaliased copy of base.
func Merge(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
