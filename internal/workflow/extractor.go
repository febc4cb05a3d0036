// Package workflow extracts model file references from ComfyUI workflow
// JSON files for ModelCheck.
//
// Both export formats are understood: the UI format carries a top-level
// "nodes" array whose entries hold a "type" and widget values, and the
// API format maps node ids to objects with a "class_type" and "inputs".
// Anything else is walked generically without node attribution.
package workflow

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/modelcheck/internal/logger"
)

// Row is one extracted reference occurrence, matching the references
// CSV column for column.
type Row struct {
	ReferencedFile string
	Workflow       string // workflow path relative to the scanned root
	WorkflowDir    string // absolute directory of the workflow file
	Node           string // node type that referenced the file
}

// ExtractResult carries the extracted rows plus scan statistics.
type ExtractResult struct {
	Rows             []Row
	WorkflowsScanned int
	ParseFailures    int
}

// Extractor scans a directory tree for workflow files and pulls out the
// model filenames they reference.
type Extractor struct {
	workflowExts map[string]bool
	modelExts    []string
	logger       *logger.Logger
}

// NewExtractor creates an extractor. workflowExts selects which files
// are parsed as workflows; modelExts decides which strings inside them
// count as model references. Both match case-insensitively.
func NewExtractor(workflowExts, modelExts []string, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewDefault()
	}
	wf := make(map[string]bool, len(workflowExts))
	for _, ext := range workflowExts {
		wf[strings.ToLower(ext)] = true
	}
	models := make([]string, 0, len(modelExts))
	for _, ext := range modelExts {
		models = append(models, strings.ToLower(ext))
	}
	return &Extractor{
		workflowExts: wf,
		modelExts:    models,
		logger:       log,
	}
}

// ExtractDir walks root and extracts references from every workflow
// file found. Unparsable workflows are logged and counted, never fatal.
func (e *Extractor) ExtractDir(root string) (*ExtractResult, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workflow directory %s: %w", root, err)
	}

	log := e.logger.WithStage("extracting")
	result := &ExtractResult{}

	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !e.workflowExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		result.WorkflowsScanned++
		refs, err := e.extractFile(path)
		if err != nil {
			log.Warnw("Skipping unparsable workflow", "file", path, "error", err)
			result.ParseFailures++
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		for _, f := range refs {
			result.Rows = append(result.Rows, Row{
				ReferencedFile: f.file,
				Workflow:       filepath.ToSlash(rel),
				WorkflowDir:    filepath.Dir(path),
				Node:           f.node,
			})
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan workflows in %s: %w", abs, walkErr)
	}

	log.Infow("Extracted references",
		"workflows", result.WorkflowsScanned,
		"references", len(result.Rows),
		"parse_failures", result.ParseFailures,
	)
	return result, nil
}

type found struct {
	file string
	node string
}

// extractFile parses one workflow and returns the model references it
// names, deduplicated per file and node.
func (e *Extractor) extractFile(path string) ([]found, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	seen := orderedmap.NewOrderedMap[string, found]()
	for _, f := range e.collect(doc) {
		key := f.file + "\x00" + f.node
		if _, exists := seen.Get(key); !exists {
			seen.Set(key, f)
		}
	}

	refs := make([]found, 0, seen.Len())
	for el := seen.Front(); el != nil; el = el.Next() {
		refs = append(refs, el.Value)
	}
	return refs, nil
}

func (e *Extractor) collect(doc interface{}) []found {
	root, ok := doc.(map[string]interface{})
	if !ok {
		return e.walk(doc, "")
	}

	if nodes, ok := root["nodes"].([]interface{}); ok {
		var out []found
		for _, n := range nodes {
			node, ok := n.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := node["type"].(string)
			out = append(out, e.walk(node, name)...)
		}
		return out
	}

	if isAPIFormat(root) {
		var out []found
		for _, id := range sortedNodeIDs(root) {
			node, ok := root[id].(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := node["class_type"].(string)
			out = append(out, e.walk(node["inputs"], name)...)
		}
		return out
	}

	return e.walk(doc, "")
}

// walk descends maps and arrays collecting strings that end in a model
// extension. Map keys are visited in sorted order so output is stable.
func (e *Extractor) walk(v interface{}, node string) []found {
	switch val := v.(type) {
	case string:
		if e.isModelFile(val) {
			return []found{{file: strings.TrimSpace(val), node: node}}
		}
	case []interface{}:
		var out []found
		for _, item := range val {
			out = append(out, e.walk(item, node)...)
		}
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []found
		for _, k := range keys {
			out = append(out, e.walk(val[k], node)...)
		}
		return out
	}
	return nil
}

func (e *Extractor) isModelFile(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, ext := range e.modelExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isAPIFormat(root map[string]interface{}) bool {
	for _, v := range root {
		if m, ok := v.(map[string]interface{}); ok {
			if _, ok := m["class_type"].(string); ok {
				return true
			}
		}
	}
	return false
}

// sortedNodeIDs orders API-format node ids numerically where possible,
// falling back to string order.
func sortedNodeIDs(root map[string]interface{}) []string {
	ids := make([]string, 0, len(root))
	for id := range root {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}
