// Package gen writes the built schema artifacts to disk in the requested
// output formats.
package gen

import (
	"fmt"
	"os"
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"

	"github.com/griffnb/core-schemas/internal/console"
	"github.com/griffnb/core-schemas/internal/domain"
)

// DefaultInstanceName is the artifact name used when none is configured.
const DefaultInstanceName = "schemas"

type genTypeWriter func(*Config, *artifacts) error

// artifacts bundles what one Build call writes.
type artifacts struct {
	unified  *domain.UnifiedSchema
	document *domain.Document
}

// Gen presents a generate tool for schema artifacts.
type Gen struct {
	json          func(data interface{}) ([]byte, error)
	jsonIndent    func(data interface{}) ([]byte, error)
	jsonToYAML    func(data []byte) ([]byte, error)
	outputTypeMap map[string]genTypeWriter
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		json: json.Marshal,
		jsonIndent: func(data interface{}) ([]byte, error) {
			return json.MarshalIndent(data, "", "    ")
		},
		jsonToYAML: yaml.JSONToYAML,
	}

	gen.outputTypeMap = map[string]genTypeWriter{
		"json": gen.writeJSON,
		"yaml": gen.writeYAML,
		"yml":  gen.writeYAML,
	}

	return &gen
}

// Config presents Gen configurations.
type Config struct {
	// OutputDir represents the output directory for all the generated files.
	OutputDir string

	// OutputTypes define types of files which should be generated.
	OutputTypes []string

	// InstanceName distinguishes artifacts of different schema bundles in
	// the same project.
	InstanceName string
}

// Build writes the unified schema, and the injected document when one is
// given, to the configured output directory.
func (g *Gen) Build(config *Config, unified *domain.UnifiedSchema, document *domain.Document) error {
	if config.InstanceName == "" {
		config.InstanceName = DefaultInstanceName
	}

	if len(config.OutputTypes) == 0 {
		return fmt.Errorf("no output types specified")
	}

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return err
	}

	console.Logger.Info("writing %s artifacts to %s", displayTitle(config.InstanceName), config.OutputDir)

	bundle := &artifacts{unified: unified, document: document}

	for _, outputType := range config.OutputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		typeWriter, ok := g.outputTypeMap[outputType]
		if !ok {
			console.Logger.Warn("output type %q not supported", outputType)
			continue
		}

		if err := typeWriter(config, bundle); err != nil {
			return err
		}
	}

	return nil
}

func (g *Gen) writeJSON(config *Config, bundle *artifacts) error {
	if bundle.unified != nil {
		name := path.Join(config.OutputDir, config.InstanceName+".schema.json")

		b, err := g.jsonIndent(bundle.unified)
		if err != nil {
			return err
		}

		if err := g.writeFile(b, name); err != nil {
			return err
		}

		console.Logger.Debug("create %s", name)
	}

	if bundle.document != nil {
		name := path.Join(config.OutputDir, config.InstanceName+".document.json")

		b, err := g.jsonIndent(bundle.document)
		if err != nil {
			return err
		}

		if err := g.writeFile(b, name); err != nil {
			return err
		}

		console.Logger.Debug("create %s", name)
	}

	return nil
}

func (g *Gen) writeYAML(config *Config, bundle *artifacts) error {
	if bundle.unified != nil {
		if err := g.writeYAMLFile(config, bundle.unified, config.InstanceName+".schema.yaml"); err != nil {
			return err
		}
	}

	if bundle.document != nil {
		if err := g.writeYAMLFile(config, bundle.document, config.InstanceName+".document.yaml"); err != nil {
			return err
		}
	}

	return nil
}

func (g *Gen) writeYAMLFile(config *Config, data interface{}, filename string) error {
	name := path.Join(config.OutputDir, filename)

	b, err := g.json(data)
	if err != nil {
		return err
	}

	y, err := g.jsonToYAML(b)
	if err != nil {
		return fmt.Errorf("cannot convert json to yaml error: %s", err)
	}

	if err := g.writeFile(y, name); err != nil {
		return err
	}

	console.Logger.Debug("create %s", name)

	return nil
}

func (g *Gen) writeFile(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = f.Write(b)

	return err
}

// displayTitle turns an instance name like "payment-integrations" into a
// human-readable title for log output.
func displayTitle(instanceName string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(instanceName)
	return cases.Title(language.English).String(strings.ToLower(cleaned))
}
