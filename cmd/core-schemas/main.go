package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"sigs.k8s.io/yaml"

	"github.com/griffnb/core-schemas/internal/console"
	"github.com/griffnb/core-schemas/internal/domain"
	"github.com/griffnb/core-schemas/internal/gen"
	"github.com/griffnb/core-schemas/internal/registry"
	"github.com/griffnb/core-schemas/internal/validate"
)

// Version of core-schemas.
const Version = "v1.0.0"

const (
	configFlag       = "config"
	outputFlag       = "output"
	outputTypesFlag  = "outputTypes"
	instanceNameFlag = "instanceName"
	quietFlag        = "quiet"
	debugFlag        = "debug"
)

// fileConfig is the on-disk configuration listing the schema sources.
type fileConfig struct {
	Instance string          `json:"instance"`
	Sources  []domain.Source `json:"sources"`
	Output   struct {
		Dir   string   `json:"dir"`
		Types []string `json:"types"`
	} `json:"output"`
}

var commonFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    configFlag,
		Aliases: []string{"c"},
		Value:   "schemas.yaml",
		Usage:   "Config file listing the named schema sources",
	},
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug logging.",
	},
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open config file: %w", err)
	}

	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return &config, nil
}

func setupLogger(ctx *cli.Context) {
	console.Logger.Quiet = ctx.Bool(quietFlag)
	if ctx.Bool(debugFlag) {
		console.Logger.DebugLevel = 1
	}
}

func newRegistry(config *fileConfig) *registry.Service {
	reg := registry.NewService(nil)
	reg.RegisterAll(config.Sources)
	return reg
}

func generateAction(ctx *cli.Context) error {
	setupLogger(ctx)

	config, err := loadConfig(ctx.String(configFlag))
	if err != nil {
		return err
	}

	reg := newRegistry(config)

	unified, err := reg.UnifiedSchema()
	if err != nil {
		return err
	}

	outputDir := config.Output.Dir
	if dir := ctx.String(outputFlag); dir != "" {
		outputDir = dir
	}
	if outputDir == "" {
		outputDir = "./docs"
	}

	outputTypes := config.Output.Types
	if types := ctx.String(outputTypesFlag); types != "" {
		outputTypes = strings.Split(types, ",")
	}
	if len(outputTypes) == 0 {
		outputTypes = []string{"json", "yaml"}
	}

	instance := config.Instance
	if name := ctx.String(instanceNameFlag); name != "" {
		instance = name
	}

	return gen.New().Build(&gen.Config{
		OutputDir:    outputDir,
		OutputTypes:  outputTypes,
		InstanceName: instance,
	}, unified, nil)
}

func sourcesAction(ctx *cli.Context) error {
	setupLogger(ctx)

	config, err := loadConfig(ctx.String(configFlag))
	if err != nil {
		return err
	}

	reg := newRegistry(config)

	for _, src := range reg.Sources() {
		fmt.Printf("%-24s %s\n", src.Name, src.Location)
	}

	return nil
}

func validateAction(ctx *cli.Context) error {
	setupLogger(ctx)

	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: core-schemas validate [flags] <data.json>")
	}

	config, err := loadConfig(ctx.String(configFlag))
	if err != nil {
		return err
	}

	dataPath := ctx.Args().First()
	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("could not read data file: %w", err)
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("data file %s is not valid JSON: %w", dataPath, err)
	}

	if !validate.NewService(newRegistry(config)).Validate(data) {
		return cli.Exit(fmt.Sprintf("%s does not match any registered schema", dataPath), 1)
	}

	console.Logger.Info("%s matches the unified schema", dataPath)

	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "core-schemas"
	app.Version = Version
	app.Usage = "Aggregate provider JSON Schemas into a unified anyOf composite."
	app.Commands = []*cli.Command{
		{
			Name:    "generate",
			Aliases: []string{"g"},
			Usage:   "Build the unified schema and write it to the output directory",
			Action:  generateAction,
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    outputFlag,
					Aliases: []string{"o"},
					Usage:   "Output directory for the generated files",
				},
				&cli.StringFlag{
					Name:    outputTypesFlag,
					Aliases: []string{"ot"},
					Usage:   "Output types of generated files like json,yaml",
				},
				&cli.StringFlag{
					Name:  instanceNameFlag,
					Usage: "Name used for the generated artifact files",
				},
			}, commonFlags...),
		},
		{
			Name:    "sources",
			Aliases: []string{"s"},
			Usage:   "List the registered schema sources in composite order",
			Action:  sourcesAction,
			Flags:   commonFlags,
		},
		{
			Name:    "validate",
			Aliases: []string{"v"},
			Usage:   "Validate a JSON data file against the unified schema",
			Action:  validateAction,
			Flags:   commonFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
