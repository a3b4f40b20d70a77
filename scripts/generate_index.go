// generate_index renders README.md into dist/index.html for the release
// download page, replacing the Installation section with links to the
// archives found in the dist directory.
package main

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// archivePattern matches goreleaser archives: textcomplete_VERSION_OS_ARCH.ext.
var archivePattern = regexp.MustCompile(`^textcomplete_(.+)_(Darwin|Linux|Windows)_(arm64|x86_64)\.(tar\.gz|zip)$`)

var platformNames = map[string]string{
	"Darwin_arm64":   "macOS (Apple Silicon)",
	"Darwin_x86_64":  "macOS (Intel)",
	"Linux_arm64":    "Linux (ARM64)",
	"Linux_x86_64":   "Linux (x86_64)",
	"Windows_arm64":  "Windows (ARM64)",
	"Windows_x86_64": "Windows (x86_64)",
}

// installSection matches the rendered Installation heading and its body up to
// the next second-level heading.
var installSection = regexp.MustCompile(`(?s)<h2 id="installation">.*?(<h2|$)`)

type archive struct {
	platform string
	file     string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(distDir string) error {
	readme, err := os.ReadFile("README.md")
	if err != nil {
		return fmt.Errorf("reading README.md: %w", err)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	body := markdown.Render(p.Parse(readme), renderer)

	version, archives, err := scanDist(distDir)
	if err != nil {
		return err
	}
	downloads := downloadsHTML(version, archives)
	body = installSection.ReplaceAllFunc(body, func(m []byte) []byte {
		next := installSection.FindSubmatch(m)[1]
		return append([]byte(downloads), next...)
	})

	var page bytes.Buffer
	page.WriteString(pageHeader)
	page.Write(body)
	page.WriteString(pageFooter)

	indexPath := filepath.Join(distDir, "index.html")
	if err := os.WriteFile(indexPath, page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", indexPath, err)
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
	return nil
}

// scanDist returns the release version and one archive per platform.
func scanDist(distDir string) (string, []archive, error) {
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", distDir, err)
	}
	version := "unknown"
	seen := map[string]bool{}
	var out []archive
	for _, e := range entries {
		m := archivePattern.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		version = m[1]
		key := m[2] + "_" + m[3]
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, archive{platform: platformNames[key], file: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].platform < out[j].platform })
	return version, out, nil
}

func downloadsHTML(version string, archives []archive) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"downloads\">\n  <h2>Downloads</h2>\n")
	fmt.Fprintf(&sb, "  <h3>%s</h3>\n  <table class=\"download-table\">\n", html.EscapeString(version))
	for _, a := range archives {
		fmt.Fprintf(&sb, "    <tr><td>%s</td><td><a href=\"%s\">download</a></td></tr>\n",
			html.EscapeString(a.platform), html.EscapeString(a.file))
	}
	sb.WriteString("  </table>\n</div>\n")
	return sb.String()
}

const pageHeader = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>textcomplete - autocomplete dropdown for terminal inputs</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    pre { background: #f6f8fa; padding: 12px; overflow-x: auto; }
    code { font-family: ui-monospace, monospace; }
    .download-table td { padding: 4px 16px 4px 0; }
  </style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
