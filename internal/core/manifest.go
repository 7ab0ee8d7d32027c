package core

// manifest.go builds the group/server tree behind an RDCMan connection file.
//
// Rows are partitioned by up to MaxGroupKeys key columns, outermost first.
// Each distinct value at a level becomes a child group, in the order the
// value first appears in the table; rows under the deepest group become
// server entries in table order.

import "fmt"

// MaxGroupKeys is the deepest nesting a manifest supports.
const MaxGroupKeys = 3

// URLNotAvailable replaces the secret URL in an entry comment when the row
// has none.
const URLNotAvailable = "URL Not Available"

// NodeKind distinguishes groups from server entries.
type NodeKind int

const (
	NodeGroup NodeKind = iota
	NodeEntry
)

// ManifestNode is a group or a server entry in a connection manifest.
type ManifestNode struct {
	Kind     NodeKind
	Name     string          // Group name, or entry display name
	Expanded bool            // Groups only
	Children []*ManifestNode // Groups only
	Address  string          // Entries only: host name or IP used to connect
	Comment  string          // Entries only: free-text annotation
}

// Groups returns the group children of n.
func (n *ManifestNode) Groups() []*ManifestNode {
	return n.childrenOf(NodeGroup)
}

// Entries returns the entry children of n.
func (n *ManifestNode) Entries() []*ManifestNode {
	return n.childrenOf(NodeEntry)
}

func (n *ManifestNode) childrenOf(kind NodeKind) []*ManifestNode {
	var out []*ManifestNode
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// CountEntries returns the number of entries below n.
func (n *ManifestNode) CountEntries() int {
	if n.Kind == NodeEntry {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.CountEntries()
	}
	return total
}

// ColumnMap names the table columns that feed manifest entries.
type ColumnMap struct {
	Display    string // Entry display name, e.g. "FQDN"
	Address    string // Connection address, e.g. "IP Address"
	Identifier string // Embedded in the comment, e.g. "Configuration Item Name"
	SecretURL  string // Optional vault link, e.g. "Secret Server URL"
}

// BuildManifest groups the rows of t under a root group named groupName.
func BuildManifest(t *Table, groupName string, keys []string, cols ColumnMap) (*ManifestNode, error) {
	if len(keys) > MaxGroupKeys {
		return nil, newError(StructuralError, nil,
			"at most %d group keys are supported, got %d", MaxGroupKeys, len(keys))
	}
	if cols.Display == "" || cols.Address == "" || cols.Identifier == "" {
		return nil, newError(StructuralError, nil, "display, address and identifier columns must be configured")
	}
	if err := t.RequireColumns(keys...); err != nil {
		return nil, err
	}
	if err := t.RequireColumns(cols.Display, cols.Address, cols.Identifier); err != nil {
		return nil, err
	}

	root := &ManifestNode{
		Kind:     NodeGroup,
		Name:     groupName,
		Expanded: true,
	}
	buildLevel(root, t.Rows, keys, cols, t.HasColumn(cols.SecretURL))
	return root, nil
}

// buildLevel appends children for rows to parent, recursing over keys.
func buildLevel(parent *ManifestNode, rows []Row, keys []string, cols ColumnMap, hasURL bool) {
	if len(keys) == 0 {
		for _, row := range rows {
			parent.Children = append(parent.Children, newEntry(row, cols, hasURL))
		}
		return
	}

	key := keys[0]
	var order []string
	parts := make(map[string][]Row)
	for _, row := range rows {
		v := row[key].String()
		if _, ok := parts[v]; !ok {
			order = append(order, v)
		}
		parts[v] = append(parts[v], row)
	}

	for _, v := range order {
		group := &ManifestNode{
			Kind:     NodeGroup,
			Name:     v,
			Expanded: true,
		}
		buildLevel(group, parts[v], keys[1:], cols, hasURL)
		parent.Children = append(parent.Children, group)
	}
}

func newEntry(row Row, cols ColumnMap, hasURL bool) *ManifestNode {
	url := URLNotAvailable
	if hasURL {
		if c := row[cols.SecretURL]; c.Valid {
			url = c.Value
		}
	}
	return &ManifestNode{
		Kind:    NodeEntry,
		Name:    row[cols.Display].String(),
		Address: row[cols.Address].String(),
		Comment: fmt.Sprintf("Configuration Item :%s\nSS URL:%s", row[cols.Identifier].String(), url),
	}
}
