// ABOUTME: Export and import of the full CRM dataset as JSON or YAML documents
// ABOUTME: Import merges the collections present in a document through load_data
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/store"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format: %s (valid: json, yaml)", s)
	}
}

var ErrEmptyDocument = errors.New("export document has no collections")

// Document is the export file layout.
type Document struct {
	Contacts   []models.Contact  `json:"contacts"`
	Companies  []models.Company  `json:"companies"`
	Deals      []models.Deal     `json:"deals"`
	Activities []models.Activity `json:"activities"`
	Users      []models.User     `json:"users"`
	ExportDate time.Time         `json:"exportDate"`
}

// Build snapshots the collections of s. Current user and transient flags are
// not exported.
func Build(s store.State, now time.Time) Document {
	return Document{
		Contacts:   orEmpty(s.Contacts),
		Companies:  orEmpty(s.Companies),
		Deals:      orEmpty(s.Deals),
		Activities: orEmpty(s.Activities),
		Users:      orEmpty(s.Users),
		ExportDate: now.UTC(),
	}
}

// Filename returns energy-crm-export-YYYY-MM-DD with the format's extension,
// using the UTC date.
func Filename(now time.Time, f Format) string {
	return fmt.Sprintf("energy-crm-export-%s.%s", now.UTC().Format(time.DateOnly), f)
}

// Write encodes doc. JSON is indented by two spaces.
func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		// Round-trip through JSON so YAML keys match the JSON field names.
		tree, err := toTree(doc)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format: %s", f)
	}
}

// Read decodes an export document. Collections missing from the document are
// nil in the result so Import leaves them untouched.
func Read(r io.Reader, f Format) (store.Partial, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return store.Partial{}, err
	}

	if f == FormatYAML {
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return store.Partial{}, fmt.Errorf("failed to parse yaml: %w", err)
		}
		if data, err = json.Marshal(tree); err != nil {
			return store.Partial{}, fmt.Errorf("failed to convert yaml: %w", err)
		}
	}

	var p store.Partial
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return store.Partial{}, fmt.Errorf("failed to parse export: %w", err)
	}
	// Imports never change who is logged in.
	p.CurrentUser = nil
	if p.Users == nil && p.Companies == nil && p.Contacts == nil && p.Deals == nil && p.Activities == nil {
		return store.Partial{}, ErrEmptyDocument
	}
	return p, nil
}

// Import merges p into s with a single load_data.
func Import(ctx context.Context, s *store.Store, p store.Partial) error {
	if err := s.Dispatch(ctx, store.LoadData{Data: p}); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	return nil
}

// Usage is the storage summary shown in settings.
type Usage struct {
	TotalRecords int `json:"totalRecords"`
	Bytes        int `json:"bytes"`
}

// StorageUsage reports record count and the JSON size of the collections.
func StorageUsage(s store.State) (Usage, error) {
	data, err := json.Marshal(store.FullPartial(s))
	if err != nil {
		return Usage{}, err
	}
	return Usage{TotalRecords: query.TotalRecords(s), Bytes: len(data)}, nil
}

func toTree(doc Document) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
