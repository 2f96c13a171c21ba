package datasource

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ternarybob/tablecheck/internal/models"
	"gopkg.in/yaml.v3"
)

// loadYAML reads a list of mappings, either at the document top level or under rootKey.
// Keys are read in document order; when two keys map to the same canonical field the
// first one wins, as in XML records.
func (r *Reader) loadYAML(path, rootKey string) (*models.DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "cannot open file", Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "malformed YAML", Err: err}
	}

	var list *yaml.Node
	if len(doc.Content) > 0 {
		list = resolveAlias(doc.Content[0])
	}
	if rootKey != "" {
		list = mappingValue(list, rootKey)
		if list == nil {
			return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("root key %q not found", rootKey)}
		}
	}

	fields := r.opts.Fields
	if list == nil || (list.Kind == yaml.ScalarNode && list.Tag == "!!null") {
		return models.NewDataSet(path, fields, nil), nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, &models.DataFormatError{Path: path, Reason: "expected a list of records"}
	}

	discover := len(fields) == 0
	seen := make(map[string]bool)

	records := make([]models.Record, 0, len(list.Content))
	for i, item := range list.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("record %d is not a mapping", i+1)}
		}

		rec := make(models.Record, len(item.Content)/2)
		for k := 0; k+1 < len(item.Content); k += 2 {
			name := r.canonical(item.Content[k].Value)
			if _, dup := rec[name]; dup {
				continue
			}
			value, err := yamlScalar(item.Content[k+1])
			if err != nil {
				return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("record %d field %q", i+1, name), Err: err}
			}
			rec[name] = value
			if discover && !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
		}
		records = append(records, rec)
	}

	return models.NewDataSet(path, fields, records), nil
}

// yamlScalar renders a scalar node. Only int and float scalars are normalised; quoted
// numbers and other text stay as written.
func yamlScalar(node *yaml.Node) (string, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("value at line %d is not a scalar", node.Line)
	}

	switch node.Tag {
	case "!!null":
		return "", nil
	case "!!int":
		var v int64
		if err := node.Decode(&v); err != nil {
			return strings.TrimSpace(node.Value), nil
		}
		return strconv.FormatInt(v, 10), nil
	case "!!float":
		var v float64
		if err := node.Decode(&v); err != nil {
			return strings.TrimSpace(node.Value), nil
		}
		return normalizeNumber(strconv.FormatFloat(v, 'f', -1, 64)), nil
	default:
		return strings.TrimSpace(node.Value), nil
	}
}

// mappingValue returns the value node stored under key, or nil
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}
