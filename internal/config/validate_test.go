package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

/*
TestValidatePipeline_DefaultIsClean verifies that the built-in pipeline
produces no issues at all.
*/
func TestValidatePipeline_DefaultIsClean(t *testing.T) {
	if issues := ValidatePipeline(Default()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidatePipeline_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *Pipeline)
		path   string
		msg    string
	}{
		{"empty input path", func(p *Pipeline) { p.InputPath = " " }, "input_path", "must not be empty"},
		{"negative preview", func(p *Pipeline) { p.PreviewRows = -1 }, "preview_rows", "negative"},
		{"unnamed email column", func(p *Pipeline) { p.Columns.Email = "" }, "columns.email", "must be named"},
		{"empty email search", func(p *Pipeline) { p.Email.Old = "" }, "email.old", "non-empty"},
		{"negative places", func(p *Pipeline) { p.Price.Places = -2 }, "price.places", "negative"},
		{"empty date layout", func(p *Pipeline) { p.Date.Layout = "" }, "date.layout", "must not be empty"},
		{"empty table", func(p *Pipeline) {
			p.Target = NewTargetSchema("", p.Target.Columns()...)
		}, "target.table", "must not be empty"},
		{"no columns", func(p *Pipeline) { p.Target = NewTargetSchema("t") }, "target.columns", "must not be empty"},
		{"duplicate column", func(p *Pipeline) {
			p.Target = NewTargetSchema("t", Column{Name: "a", SQLType: "TEXT"}, Column{Name: "a", SQLType: "TEXT"})
		}, "target.columns[1]", `duplicate column "a"`},
		{"half rename", func(p *Pipeline) { p.Renames = []Rename{{From: "x"}} }, "renames[0]", "both from and to"},
		{"unknown policy", func(p *Pipeline) { p.Policy = "yolo" }, "policy", "unknown policy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Default()
			tc.mutate(&p)
			issues := ValidatePipeline(p)
			if !hasIssue(t, issues, SeverityError, tc.path, tc.msg) {
				t.Fatalf("expected error at %s containing %q; got %+v", tc.path, tc.msg, issues)
			}
			if !HasErrors(issues) {
				t.Fatalf("HasErrors=false with %+v", issues)
			}
		})
	}
}

func TestValidatePipeline_Warnings(t *testing.T) {
	p := Default()
	p.Job = ""
	p.Policy = ""
	p.OrderID.Strip = ""
	p.Renames = append(p.Renames, Rename{From: "extra", To: "not_a_target"})
	p.Target = NewTargetSchema("t", Column{Name: "customer_name"})

	issues := ValidatePipeline(p)
	for _, want := range []struct{ path, msg string }{
		{"job", "no job label"},
		{"policy", "strict is assumed"},
		{"order_id.strip", "parsed as-is"},
		{"renames[3].to", "not a target column"},
		{"target.columns[0].sql_type", "no SQL type"},
	} {
		if !hasIssue(t, issues, SeverityWarning, want.path, want.msg) {
			t.Errorf("missing warning at %s (%q); got %+v", want.path, want.msg, issues)
		}
	}
	if HasErrors(issues) {
		t.Fatalf("warnings only expected, got %+v", issues)
	}
}

func TestIssueError(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "a.b", Message: "boom"}
	if got, want := iss.Error(), "error at a.b: boom"; got != want {
		t.Fatalf("Error()=%q want %q", got, want)
	}
}
