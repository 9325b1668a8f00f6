package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"glean/internal/diag"
	"glean/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

// SarifRunMeta describes the tool and invocation recorded in the run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	RunGUID        string // пусто: генерируется случайный
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool          `json:"tool"`
	AutomationDetails sarifAutomation    `json:"automationDetails"`
	Invocations       []sarifInvocation  `json:"invocations,omitempty"`
	Results           []sarifResult      `json:"results"`
	Artifacts         []sarifArtifactRef `json:"artifacts,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
	Related   []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	Physical sarifPhysical `json:"physicalLocation"`
	Message  *sarifMessage `json:"message,omitempty"`
}

type sarifPhysical struct {
	Artifact sarifArtifactRef `json:"artifactLocation"`
	Region   sarifRegion      `json:"region"`
}

type sarifArtifactRef struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description sarifMessage          `json:"description"`
	Changes     []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	Artifact     sarifArtifactRef   `json:"artifactLocation"`
	Replacements []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	Deleted  sarifRegion  `json:"deletedRegion"`
	Inserted sarifMessage `json:"insertedContent"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifURI(fs *source.FileSet, id source.FileID) string {
	f := fs.Get(id)
	if f == nil {
		return ""
	}
	return filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
}

func sarifRegionOf(fs *source.FileSet, sp source.Span) sarifRegion {
	r := sarifRegion{ByteOffset: sp.Start, ByteLength: sp.Len()}
	if fs.Get(sp.File) != nil {
		start, end := fs.Resolve(sp)
		r.StartLine, r.StartColumn = start.Line, start.Col
		r.EndLine, r.EndColumn = end.Line, end.Col
	}
	return r
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	items := bag.Items()

	var codes []diag.Code
	for _, d := range items {
		if !slices.Contains(codes, d.Code) {
			codes = append(codes, d.Code)
		}
	}
	slices.Sort(codes)
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		rules[i] = sarifRule{ID: c.ID(), Name: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}}
	}

	var artifacts []sarifArtifactRef
	results := make([]sarifResult, 0, len(items))
	for _, d := range items {
		uri := sarifURI(fs, d.Primary.File)
		if uri != "" && !slices.Contains(artifacts, sarifArtifactRef{URI: uri}) {
			artifacts = append(artifacts, sarifArtifactRef{URI: uri})
		}
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: slices.Index(codes, d.Code),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{Physical: sarifPhysical{
				Artifact: sarifArtifactRef{URI: uri},
				Region:   sarifRegionOf(fs, d.Primary),
			}}},
		}
		for _, n := range d.Notes {
			res.Related = append(res.Related, sarifLocation{
				Physical: sarifPhysical{
					Artifact: sarifArtifactRef{URI: sarifURI(fs, n.Span.File)},
					Region:   sarifRegionOf(fs, n.Span),
				},
				Message: &sarifMessage{Text: n.Msg},
			})
		}
		for _, fix := range d.Fixes {
			sf := sarifFix{Description: sarifMessage{Text: fix.Title}}
			for _, edit := range fix.Edits {
				sf.Changes = append(sf.Changes, sarifArtifactChange{
					Artifact: sarifArtifactRef{URI: sarifURI(fs, edit.Span.File)},
					Replacements: []sarifReplacement{{
						Deleted:  sarifRegion{ByteOffset: edit.Span.Start, ByteLength: edit.Span.Len()},
						Inserted: sarifMessage{Text: edit.NewText},
					}},
				})
			}
			res.Fixes = append(res.Fixes, sf)
		}
		results = append(results, res)
	}

	guid := meta.RunGUID
	if guid == "" {
		guid = uuid.NewString()
	}
	name := meta.ToolName
	if name == "" {
		name = "glean"
	}
	out := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           name,
				Version:        meta.ToolVersion,
				InformationURI: meta.InformationURI,
				Rules:          rules,
			}},
			AutomationDetails: sarifAutomation{GUID: guid},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: !bag.HasErrors(),
			}},
			Results:   results,
			Artifacts: artifacts,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
