package letter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// placeholderRx matches {{key}} tokens in template text.
var placeholderRx = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// Resolver loads letter templates and substitutes placeholders.
type Resolver struct {
	dir string
}

// NewResolver creates a Resolver reading templates from dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve reads the template identified by templateID and replaces every
// occurrence of each recognized {{key}} placeholder with its value from
// vars. Placeholders with no matching variable are left verbatim.
func (r *Resolver) Resolve(templateID string, vars map[string]string) (string, error) {
	// The ID is a bare name; strip any path components before touching disk.
	name := filepath.Base(templateID)
	path := filepath.Join(r.dir, name+".html")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, templateID, err)
	}

	rendered := placeholderRx.ReplaceAllStringFunc(string(raw), func(match string) string {
		key := placeholderRx.FindStringSubmatch(match)[1]
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	})

	return rendered, nil
}
