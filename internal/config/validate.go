// Package config provides configuration models and helpers for ordersql runs.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "target.columns[2]").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and log lines will carry no job label",
		})
	}
	if strings.TrimSpace(p.InputPath) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input_path",
			Message:  "input_path must not be empty",
		})
	}
	if p.PreviewRows < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "preview_rows",
			Message:  "preview_rows must not be negative",
		})
	}
	issues = append(issues, validateColumns(p.Columns)...)
	issues = append(issues, validateRules(p)...)
	issues = append(issues, validateTarget(p.Target)...)
	issues = append(issues, validateRenames(p.Renames, p.Target)...)

	switch p.Policy {
	case PolicyStrict, PolicyLenient:
	case "":
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "policy",
			Message:  "policy is empty; strict is assumed",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "policy",
			Message:  fmt.Sprintf("unknown policy %q; want %q or %q", p.Policy, PolicyStrict, PolicyLenient),
		})
	}

	return issues
}

// validateColumns checks that every rule has a source column to act on.
func validateColumns(c SourceColumns) []Issue {
	var issues []Issue
	named := []struct {
		path, val string
	}{
		{"columns.name", c.Name},
		{"columns.email", c.Email},
		{"columns.order_id", c.OrderID},
		{"columns.price", c.Price},
		{"columns.date", c.Date},
	}
	for _, n := range named {
		if strings.TrimSpace(n.val) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     n.path,
				Message:  "source column must be named",
			})
		}
	}
	return issues
}

func validateRules(p Pipeline) []Issue {
	var issues []Issue
	if p.Email.Old == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "email.old",
			Message:  "email replacement needs a non-empty search string",
		})
	}
	if p.OrderID.Strip == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "order_id.strip",
			Message:  "order_id.strip is empty; ids are parsed as-is",
		})
	}
	if p.Price.Places < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "price.places",
			Message:  "price.places must not be negative",
		})
	}
	if strings.TrimSpace(p.Date.Layout) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "date.layout",
			Message:  "date.layout must not be empty",
		})
	}
	return issues
}

func validateTarget(s TargetSchema) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Table()) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "target.table",
			Message:  "target.table must not be empty",
		})
	}
	cols := s.Columns()
	if len(cols) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "target.columns",
			Message:  "target.columns must not be empty; at least one destination column is required",
		})
		return issues
	}
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		path := fmt.Sprintf("target.columns[%d]", i)
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "column name must not be empty",
			})
			continue
		}
		if _, dup := seen[c.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("duplicate column %q", c.Name),
			})
		}
		seen[c.Name] = struct{}{}
		if strings.TrimSpace(c.SQLType) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".sql_type",
				Message:  fmt.Sprintf("column %q has no SQL type; DDL cannot be rendered for it", c.Name),
			})
		}
	}
	return issues
}

func validateRenames(rs []Rename, s TargetSchema) []Issue {
	var issues []Issue
	targets := make(map[string]struct{})
	for _, n := range s.Names() {
		targets[n] = struct{}{}
	}
	for i, r := range rs {
		path := fmt.Sprintf("renames[%d]", i)
		if r.From == "" || r.To == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "rename needs both from and to",
			})
			continue
		}
		if _, ok := targets[r.To]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".to",
				Message:  fmt.Sprintf("rename target %q is not a target column; it will be dropped by projection", r.To),
			})
		}
	}
	return issues
}
