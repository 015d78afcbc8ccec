// pre_processor.go implements the WGSL include pre-processor. Shader sources pull shared struct
// definitions (camera, scene, draw and vertex layouts) from their Go owners through lines of the form
//
//	//#include <name>
//
// which are replaced with the registered WGSL text. Includes nest, each name is emitted at most
// once per Process call, and a cycle is an error.
package shader

import (
	"fmt"
	"strings"
)

const includeDirective = "//#include"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// includes maps an include name to the WGSL source it expands to.
	includes map[string]string

	// included lists the names emitted during the most recent Process call, in order.
	included []string
}

// PreProcessor expands //#include directives in WGSL source.
type PreProcessor interface {
	// Process expands every include directive in source.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error if a directive names an unknown include or includes form a cycle
	Process(source string) (string, error)

	// Included returns the include names emitted by the most recent Process call, in emission order.
	//
	// Returns:
	//   - []string: the emitted include names
	Included() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor over the given include registry.
//
// Parameters:
//   - includes: include name to WGSL source
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(includes map[string]string) PreProcessor {
	reg := make(map[string]string, len(includes))
	for k, v := range includes {
		reg[k] = v
	}
	return &preProcessor{includes: reg}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]
	var out strings.Builder
	if err := p.expand(&out, source, map[string]bool{}, map[string]bool{}); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (p *preProcessor) Included() []string {
	return p.included
}

// expand writes source to out, recursively replacing directives. active tracks the include chain
// for cycle detection and done the names already emitted.
func (p *preProcessor) expand(out *strings.Builder, source string, active, done map[string]bool) error {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			out.WriteString(line)
			if i < len(lines)-1 {
				out.WriteByte('\n')
			}
			continue
		}
		name = strings.Trim(strings.TrimSpace(name), `<>"`)
		if name == "" {
			return fmt.Errorf("line %d: include directive without a name", i+1)
		}
		if active[name] {
			return fmt.Errorf("line %d: include cycle through %q", i+1, name)
		}
		if done[name] {
			continue
		}
		body, ok := p.includes[name]
		if !ok {
			return fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		active[name] = true
		if err := p.expand(out, strings.TrimRight(body, "\n"), active, done); err != nil {
			return fmt.Errorf("include %q: %w", name, err)
		}
		out.WriteByte('\n')
		delete(active, name)
		done[name] = true
		p.included = append(p.included, name)
	}
	return nil
}
