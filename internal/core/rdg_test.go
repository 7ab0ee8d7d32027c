package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func renderRDG(t *testing.T, root *ManifestNode) string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteRDG(&buf, root); err != nil {
		t.Fatalf("WriteRDG() error = %v", err)
	}
	return buf.String()
}

func TestWriteRDG_Document(t *testing.T) {
	root, err := BuildManifest(assetTable(t), "Lab & Test", []string{"Customer"}, testColumns)
	if err != nil {
		t.Fatalf("BuildManifest() error = %v", err)
	}
	out := renderRDG(t, root)

	for _, want := range []string{
		`<?xml version="1.0" encoding="utf-8"?>`,
		`<RDCMan programVersion="2.93" schemaVersion="3">`,
		`<name>Lab &amp; Test</name>`,
		`<displayName>a.acme.local</displayName>`,
		`<name>10.0.0.1</name>`,
		"SS URL:https://vault/1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestWriteRDG_Structure(t *testing.T) {
	root, err := BuildManifest(assetTable(t), "Servers", []string{"Customer", "Country"}, testColumns)
	if err != nil {
		t.Fatalf("BuildManifest() error = %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(renderRDG(t, root)); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}

	top := doc.FindElement("/RDCMan/file/group")
	if top == nil {
		t.Fatal("missing top-level group")
	}
	props := top.SelectElement("properties").ChildElements()
	if props[0].Tag != "expanded" || props[1].Tag != "name" {
		t.Errorf("top-level properties order = %s, %s", props[0].Tag, props[1].Tag)
	}
	if props[0].Text() != "True" || props[1].Text() != "Servers" {
		t.Errorf("top-level properties = %q, %q", props[0].Text(), props[1].Text())
	}

	customer := top.SelectElement("group")
	nested := customer.SelectElement("properties").ChildElements()
	if nested[0].Tag != "name" || nested[0].Text() != "Acme" {
		t.Errorf("nested group should list name first, got %s=%q", nested[0].Tag, nested[0].Text())
	}

	countries := customer.SelectElements("group")
	if len(countries) != 2 {
		t.Fatalf("countries = %d, want 2", len(countries))
	}
	if got := len(countries[0].SelectElements("server")); got != 2 {
		t.Errorf("US servers = %d, want 2", got)
	}

	server := countries[1].SelectElement("server").SelectElement("properties").ChildElements()
	tags := []string{server[0].Tag, server[1].Tag, server[2].Tag}
	if !equalStrings(tags, []string{"displayName", "name", "comment"}) {
		t.Errorf("server properties = %v", tags)
	}
	if got := server[2].Text(); got != "Configuration Item :CI-3\nSS URL:"+URLNotAvailable {
		t.Errorf("comment = %q", got)
	}
}

func TestWriteRDG_RejectsEntryRoot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRDG(&buf, &ManifestNode{Kind: NodeEntry}); err == nil {
		t.Error("WriteRDG() should reject a non-group root")
	}
	if err := WriteRDG(&buf, nil); err == nil {
		t.Error("WriteRDG() should reject a nil root")
	}
}

func TestWriteRDG_UnwrappedHyperlinkComment(t *testing.T) {
	table := mustTable(t, []string{"FQDN", "IP Address", "Configuration Item Name", DefaultSecretURLColumn},
		[]string{"db.lab", "10.1.1.1", "CI-9", `=HYPERLINK("https://x/y","label")`},
	)

	root, err := BuildManifest(UnwrapHyperlinks(table, DefaultSecretURLColumn), "Servers", nil, testColumns)
	if err != nil {
		t.Fatalf("BuildManifest() error = %v", err)
	}
	out := renderRDG(t, root)

	if want := "SS URL:https://x/y</comment>"; !strings.Contains(out, want) {
		t.Errorf("output missing %q\n%s", want, out)
	}
	if strings.Contains(out, "label") {
		t.Errorf("hyperlink label leaked into the output\n%s", out)
	}
}
