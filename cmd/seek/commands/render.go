package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/ui/output"
	"go.trai.ch/seek/internal/ui/style"
	"go.trai.ch/zerr"
)

// exhaustionReport is the JSON form of an exhaustion diagnostic.
type exhaustionReport struct {
	Error      string            `json:"error"`
	Signature  domain.Signature  `json:"signature"`
	Considered int               `json:"considered"`
	NearMisses []domain.NearMiss `json:"nearMisses"`
	Suggested  *domain.Signature `json:"suggested,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode output")
	}
	return nil
}

func (c *CLI) renderResolution(res *domain.Resolution) {
	s := style.New(output.Renderer(c.stdout))

	path := res.RelativePath
	if path == "" {
		path = res.Path
	}
	line := fmt.Sprintf("%s %s  %s", s.Positive.Render(style.Check), s.Path.Render(path),
		s.Label.Render(fmt.Sprintf("score %.2f", res.Score)))
	if res.FromCache {
		line += " " + s.Cached.Render("(cached)")
	}
	_, _ = fmt.Fprintln(c.stdout, line)

	access := string(res.Access.Type)
	if res.Access.Name != "" {
		access += " " + res.Access.Name
	}
	c.field(s, "access", access)

	if res.Export != nil && res.Export.Info.Name != "" {
		c.field(s, "export", fmt.Sprintf("%s (%s)", res.Export.Info.Name, res.Export.Info.Kind))
	}

	imports := append([]string(nil), res.Aliases...)
	if res.BaseImport != "" {
		imports = append(imports, res.BaseImport)
	}
	if len(imports) > 0 {
		c.field(s, "import", strings.Join(imports, ", "))
	}

	if len(res.Breakdown) > 0 {
		parts := make([]string, 0, len(res.Breakdown))
		for _, f := range res.Breakdown {
			parts = append(parts, s.Points(f.Points, f.String()))
		}
		c.field(s, "why", strings.Join(parts, ", "))
	}
}

func (c *CLI) field(s style.Styles, label, value string) {
	_, _ = fmt.Fprintf(c.stdout, "  %s %s\n", s.Label.Render(fmt.Sprintf("%-7s", label)), value)
}

func (c *CLI) renderExhaustion(exh *domain.ExhaustionError, asJSON bool) {
	if asJSON {
		misses := exh.NearMisses
		if misses == nil {
			misses = []domain.NearMiss{}
		}
		_ = writeJSON(c.stderr, exhaustionReport{
			Error:      domain.ErrNoMatchingCandidate.Error(),
			Signature:  exh.Signature,
			Considered: exh.Considered,
			NearMisses: misses,
			Suggested:  exh.Suggested,
		})
		return
	}

	s := style.New(output.Renderer(c.stderr))
	_, _ = fmt.Fprintf(c.stderr, "%s %s\n", s.Negative.Render(style.Cross), exh.Message())
}
