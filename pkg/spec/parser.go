package spec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// nameTokenRe extracts a backticked or quoted name token from a table cell.
var nameTokenRe = regexp.MustCompile("`([^`]+)`|\"([^\"]+)\"|'([^']+)'")

// identRe is the shell identifier grammar accepted for variable names.
var identRe = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// headerCells are first-cell labels of table header rows, skipped silently.
var headerCells = map[string]bool{
	"variable": true,
	"name":     true,
	"var":      true,
}

// Parser parses the variable specification document.
type Parser struct {
	prefix   string
	rules    Rules
	validate *validator.Validate
}

// NewParser creates a parser. prefix is the config-file naming convention
// used to recognize domain tokens in section headers; rules parameterize the
// action classifier applied to each parsed row.
func NewParser(prefix string, rules Rules) *Parser {
	return &Parser{
		prefix:   prefix,
		rules:    rules,
		validate: validator.New(),
	}
}

// ParseFile parses the document at path. An unreadable document is fatal;
// malformed content inside it is recovered as warnings on the returned
// Document.
func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("specification document unreadable: %w", err)
	}
	defer f.Close()
	return p.Parse(f, path)
}

// Parse parses the specification document from r. The scan is a single
// sequential pass maintaining a current-domain cursor:
//
//   - A heading line containing a backticked domain token (a name following
//     the config-file convention) sets the cursor to that domain. A heading
//     without one resets the cursor, so rows under it are dropped.
//   - A table row is a delimiter-leading line whose first cell carries a
//     backticked or quoted name token. Header and separator rows are
//     skipped; rows with no extractable name become warnings.
//
// Specs are keyed by (owning file, name): a repeated name within one domain
// overwrites the earlier row, while the same name under a second domain is
// kept as an independent entry and recorded in Document.Duplicates.
func (p *Parser) Parse(r io.Reader, source string) (*Document, error) {
	doc := &Document{SourcePath: source}

	byKey := make(map[string]int)            // (file, name) -> index into doc.Specs
	nameDomains := make(map[string][]string) // name -> domains documenting it
	currentDomain := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "#"):
			currentDomain = p.domainToken(line)

		case strings.HasPrefix(line, "|"):
			p.parseRow(doc, line, lineNo, currentDomain, byKey, nameDomains)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read specification document: %w", err)
	}

	for name, domains := range nameDomains {
		if len(domains) > 1 {
			doc.Duplicates = append(doc.Duplicates, name)
		}
	}
	sort.Strings(doc.Duplicates)

	return doc, nil
}

// domainToken returns the first backticked token in a heading line that
// follows the config-file naming convention, or "" when the heading opens a
// non-domain section.
func (p *Parser) domainToken(line string) string {
	for _, m := range nameTokenRe.FindAllStringSubmatch(line, -1) {
		tok := firstSubmatch(m)
		if tok == p.prefix || strings.HasPrefix(tok, p.prefix+".") {
			return tok
		}
	}
	return ""
}

func (p *Parser) parseRow(doc *Document, line string, lineNo int, domain string, byKey map[string]int, nameDomains map[string][]string) {
	cells := splitCells(line)
	if len(cells) == 0 || isSeparatorRow(cells) {
		return
	}

	m := nameTokenRe.FindStringSubmatch(cells[0])
	if m == nil {
		if headerCells[strings.ToLower(cells[0])] {
			return
		}
		doc.Warnings = append(doc.Warnings, Warning{
			Line:    lineNo,
			Message: fmt.Sprintf("table row without a name token: %q", cells[0]),
		})
		return
	}
	name := firstSubmatch(m)

	if !identRe.MatchString(name) {
		doc.Warnings = append(doc.Warnings, Warning{
			Line:    lineNo,
			Message: fmt.Sprintf("invalid variable name %q", name),
		})
		return
	}
	if domain == "" {
		doc.Warnings = append(doc.Warnings, Warning{
			Line:    lineNo,
			Message: fmt.Sprintf("table row for %s outside a domain section", name),
		})
		return
	}

	vs := VariableSpec{
		Name:       name,
		Format:     FormatUnknown,
		OwningFile: domain,
	}
	if len(cells) > 1 {
		vs.Format = ParseFormat(cells[1])
	}
	if len(cells) > 2 {
		vs.Description = cells[2]
	}
	if len(cells) > 3 {
		vs.Category = ParseCategory(cells[3])
	}
	vs.Action = Classify(vs.Name, vs.Format, vs.OwningFile, vs.Category, p.rules)

	if err := p.validate.Struct(vs); err != nil {
		doc.Warnings = append(doc.Warnings, Warning{
			Line:    lineNo,
			Message: fmt.Sprintf("invalid row for %s: %v", name, err),
		})
		return
	}

	key := domain + "\x00" + name
	if i, seen := byKey[key]; seen {
		// Later row wins within one domain.
		doc.Warnings = append(doc.Warnings, Warning{
			Line:    lineNo,
			Message: fmt.Sprintf("%s documented twice under %s, keeping the later row", name, domain),
		})
		doc.Specs[i] = vs
		return
	}
	byKey[key] = len(doc.Specs)
	doc.Specs = append(doc.Specs, vs)

	domains := nameDomains[name]
	if len(domains) > 0 && !containsName(domains, domain) {
		doc.Warnings = append(doc.Warnings, Warning{
			Line:    lineNo,
			Message: fmt.Sprintf("%s documented under multiple domains (%s, %s)", name, domains[0], domain),
		})
	}
	if !containsName(domains, domain) {
		nameDomains[name] = append(domains, domain)
	}
}

// splitCells splits a table row on the delimiter, trims each cell, and
// drops the empty edge cells produced by leading/trailing delimiters.
func splitCells(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isSeparatorRow reports whether every cell is markdown separator filler.
func isSeparatorRow(cells []string) bool {
	sawDash := false
	for _, c := range cells {
		for _, r := range c {
			switch r {
			case '-':
				sawDash = true
			case ':', ' ':
			default:
				return false
			}
		}
	}
	return sawDash
}

func firstSubmatch(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
