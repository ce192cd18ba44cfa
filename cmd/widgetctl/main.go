// widgetctl scaffolds chart surface entries in assistant surface manifests.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a chart surface entry in a surface manifest."`
	List     listCmd     `cmd:"" help:"List the surfaces a manifest defines."`
}

type scaffoldCmd struct {
	ID           string `help:"Surface ID (defaults to assistant.surface.<dataset>)."`
	Dataset      string `required:"" help:"Dataset name the advisor serves (e.g. monthly_spending_chart)."`
	ChartType    string `default:"line" enum:"line,bar,pie,gauge" help:"Chart type rendered for the dataset."`
	Title        string `help:"Chart title (defaults to a title-cased dataset name)."`
	ManifestPath string `required:"" type:"path" help:"Path to the surface manifest YAML file to update."`
	SchemaPath   string `type:"path" help:"Optional path to a JSON schema for the dataset."`
	Overwrite    bool   `help:"Overwrite an existing entry for the same dataset."`
}

type listCmd struct {
	ManifestPath string `arg:"" type:"path" help:"Path to the surface manifest YAML file."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Surface scaffolding utility for assistant manifests."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("widgetctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	surfaceID := cmd.ID
	if surfaceID == "" {
		surfaceID = "assistant.surface." + sanitizeFileName(cmd.Dataset)
	}
	title := cmd.Title
	if title == "" {
		title = strcase.ToCase(cmd.Dataset, strcase.TitleCase, ' ')
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	entry := assistant.SurfaceDefinition{
		ID:        surfaceID,
		Dataset:   cmd.Dataset,
		ChartType: cmd.ChartType,
		Title:     title,
		Schema:    schema,
	}

	replaced := false
	for idx := range doc.Surfaces {
		if doc.Surfaces[idx].Dataset == cmd.Dataset {
			if !cmd.Overwrite {
				return fmt.Errorf("widgetctl: manifest already binds dataset %s (use --overwrite to replace)", cmd.Dataset)
			}
			doc.Surfaces[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Surfaces = append(doc.Surfaces, entry)
	}

	sort.Slice(doc.Surfaces, func(i, j int) bool {
		return doc.Surfaces[i].ID < doc.Surfaces[j].ID
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Bound %s to %s in %s\n", cmd.Dataset, surfaceID, manifestPath)
	return nil
}

func (cmd *listCmd) Run(_ context.Context) error {
	doc, err := assistant.ReadSurfaceManifest(cmd.ManifestPath)
	if err != nil {
		return err
	}
	for _, surface := range doc.Surfaces {
		fmt.Fprintf(os.Stdout, "%-45s %-28s %-6s %s\n", surface.ID, surface.Dataset, surface.ChartType, surface.Title)
	}
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("widgetctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("widgetctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*assistant.SurfaceManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &assistant.SurfaceManifestDocument{
				Version:  assistant.ManifestVersion,
				Surfaces: []assistant.SurfaceDefinition{},
				Source:   path,
			}, nil
		}
		return nil, fmt.Errorf("widgetctl: stat manifest: %w", err)
	}
	return assistant.ReadSurfaceManifest(path)
}

func writeManifest(path string, doc *assistant.SurfaceManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("widgetctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("widgetctl: write manifest: %w", err)
	}
	return nil
}

func sanitizeFileName(code string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(code))
}
