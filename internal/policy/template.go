package policy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// AccountIDPlaceholder is substituted with the caller's account id.
const AccountIDPlaceholder = "AWS_ACCOUNT_ID"

var accountIDPattern = regexp.MustCompile(regexp.QuoteMeta(AccountIDPlaceholder))

var ErrTemplateNotFound = errors.New("template does not exist")

// Template is a policy document template read from disk.
type Template struct {
	Path string
	Text string
}

// Rendered is a template with the account id filled in.
type Rendered struct {
	Name        string
	Document    string
	Description string
}

func LoadTemplate(path string) (Template, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return Template{}, fmt.Errorf("reading template %s: %w", path, err)
	}
	return Template{Path: path, Text: string(data)}, nil
}

// Render replaces every placeholder occurrence with accountID.
func (t Template) Render(accountID string) Rendered {
	return Rendered{
		Name:     PolicyName(t.Path),
		Document: accountIDPattern.ReplaceAllLiteralString(t.Text, accountID),
	}
}

// PolicyName is the template's base filename up to the first dot.
func PolicyName(path string) string {
	base := filepath.Base(path)
	name, _, _ := strings.Cut(base, ".")
	return name
}

// DescriptionPath locates the optional description file for a template:
// <dir>/descriptions/<base without extension>.txt.
func DescriptionPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	return filepath.Join(filepath.Dir(path), "descriptions", base)
}
