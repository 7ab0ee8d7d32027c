package core

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// RDCMan file format constants written on the root element.
const (
	RDGProgramVersion = "2.93"
	RDGSchemaVersion  = "3"
)

// WriteRDG serializes a manifest as an RDCMan (.rdg) document indented with
// two spaces. root must be a group; it becomes the single top-level group of
// the file.
func WriteRDG(w io.Writer, root *ManifestNode) error {
	if root == nil || root.Kind != NodeGroup {
		return fmt.Errorf("rdg: root node must be a group")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	rdcman := doc.CreateElement("RDCMan")
	rdcman.CreateAttr("programVersion", RDGProgramVersion)
	rdcman.CreateAttr("schemaVersion", RDGSchemaVersion)

	file := rdcman.CreateElement("file")
	writeGroup(file, root, true)

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("rdg: write: %w", err)
	}
	return nil
}

// writeGroup emits a <group> for n under parent. The top-level group lists
// expanded before name; nested groups list name first.
func writeGroup(parent *etree.Element, n *ManifestNode, top bool) {
	group := parent.CreateElement("group")
	props := group.CreateElement("properties")
	if top {
		props.CreateElement("expanded").SetText(boolText(n.Expanded))
		props.CreateElement("name").SetText(n.Name)
	} else {
		props.CreateElement("name").SetText(n.Name)
		props.CreateElement("expanded").SetText(boolText(n.Expanded))
	}

	for _, child := range n.Children {
		switch child.Kind {
		case NodeGroup:
			writeGroup(group, child, false)
		case NodeEntry:
			writeServer(group, child)
		}
	}
}

func writeServer(parent *etree.Element, n *ManifestNode) {
	server := parent.CreateElement("server")
	props := server.CreateElement("properties")
	props.CreateElement("displayName").SetText(n.Name)
	props.CreateElement("name").SetText(n.Address)
	props.CreateElement("comment").SetText(n.Comment)
}

func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
