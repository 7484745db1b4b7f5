package formats

import (
	"encoding/json"
	"sort"

	"codegrader/internal/engine/analysis"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
	toolName     = "codegrader"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

var ruleDescriptions = map[string]string{
	"unused":       "A declared variable, method or type is never used.",
	"method_calls": "A method call made by the type.",
	"tests":        "A method expected to be tested is not reached from any test.",
	"loops":        "A loop appears where loops are not allowed.",
	"naming":       "A name does not follow Java naming conventions.",
	"diagnostic":   "The resolution engine could not fully analyze the code.",
}

// GenerateSARIF renders findings and engine diagnostics as one SARIF run.
// Diagnostics share the "diagnostic" rule id.
func GenerateSARIF(r Report) ([]byte, error) {
	results := make([]sarifResult, 0, len(r.Findings)+len(r.Diagnostics))
	used := make(map[string]analysis.Severity)

	for _, f := range r.Findings {
		results = append(results, sarifResult{
			RuleID:    f.Rule,
			Level:     severityToLevel(f.Severity),
			Message:   sarifMessage{Text: f.Message},
			Locations: fileLocation(f.File, f.Line, f.Column),
		})
		used[f.Rule] = maxSeverity(used[f.Rule], f.Severity)
	}
	for _, d := range r.Diagnostics {
		results = append(results, sarifResult{
			RuleID:    "diagnostic",
			Level:     severityToLevel(d.Severity),
			Message:   sarifMessage{Text: string(d.Code) + ": " + d.Message},
			Locations: fileLocation(d.File, d.Line, 0),
		})
		used["diagnostic"] = maxSeverity(used["diagnostic"], d.Severity)
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    toolName,
				Version: nonEmpty(r.Version, "dev"),
				Rules:   buildSARIFRules(used),
			}},
			Results: results,
		}},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// buildSARIFRules returns only the rules that produced results, sorted by id.
func buildSARIFRules(used map[string]analysis.Severity) []sarifRule {
	ids := make([]string, 0, len(used))
	for id := range used {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]sarifRule, 0, len(ids))
	for _, id := range ids {
		out = append(out, sarifRule{
			ID:               id,
			Name:             id,
			ShortDescription: sarifMessage{Text: nonEmpty(ruleDescriptions[id], id)},
			DefaultConfig:    sarifRuleDefaultConfig{Level: severityToLevel(used[id])},
		})
	}
	return out
}

func fileLocation(file string, line, column int) []sarifLocation {
	if file == "" {
		return nil
	}
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       slashPath(file),
				URIBaseID: "%SRCROOT%",
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line, StartColumn: column}
	}
	return []sarifLocation{loc}
}

func severityToLevel(sev analysis.Severity) string {
	switch sev {
	case analysis.SeverityError:
		return "error"
	case analysis.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func maxSeverity(a, b analysis.Severity) analysis.Severity {
	if severityRank(b) > severityRank(a) {
		return b
	}
	return a
}

func severityRank(sev analysis.Severity) int {
	switch sev {
	case analysis.SeverityError:
		return 3
	case analysis.SeverityWarning:
		return 2
	case analysis.SeverityInfo:
		return 1
	}
	return 0
}
