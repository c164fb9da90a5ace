package services

import (
	"sort"
	"strings"

	"github.com/mssola/user_agent"
)

// Node is one value in a parsed user-agent fact tree. A nil *Node is
// the absent variant. Otherwise a node with Children is a composite
// and anything else is a primitive holding Value.
type Node struct {
	Value    string
	Children map[string]*Node
}

func (n *Node) composite() bool {
	return n != nil && n.Children != nil
}

// String flattens a node for display: primitives return their value,
// composites return their children joined in key order.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	if !n.composite() {
		return n.Value
	}
	keys := make([]string, 0, len(n.Children))
	for k := range n.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if s := n.Children[k].String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Facts provides safe navigation over a fact tree. The zero value
// wraps an absent tree and answers "" for every path.
type Facts struct {
	root *Node
}

func NewFacts(root *Node) Facts {
	return Facts{root: root}
}

// Get walks the path one segment at a time and returns the string form
// of the terminal value. The moment a segment is missing, or the
// current node is not a composite, it returns "". It never panics.
func (f Facts) Get(path ...string) string {
	current := f.root
	for _, segment := range path {
		if !current.composite() {
			return ""
		}
		next, ok := current.Children[segment]
		if !ok || next == nil {
			return ""
		}
		current = next
	}
	return current.String()
}

// Browser joins browser.name and browser.version.value, trimmed so two
// empty parts collapse to "".
func (f Facts) Browser() string {
	name := f.Get("browser", "name")
	version := f.Get("browser", "version", "value")
	return strings.TrimSpace(name + " " + version)
}

func (f Facts) OS() string {
	name := f.Get("os", "name")
	version := f.Get("os", "version", "value")
	return strings.TrimSpace(name + " " + version)
}

// UserAgentParser turns a raw user-agent string into a fact tree. A
// nil parser models the capability being unavailable; the enricher
// then reports every fact as empty.
type UserAgentParser func(raw string) *Node

// ParseUserAgent is the default parser. It adapts the mssola parser's
// flat accessors into the nested fact tree the report reads. Paths the
// parser cannot populate are simply left absent.
func ParseUserAgent(raw string) *Node {
	ua := user_agent.New(raw)
	root := map[string]*Node{}

	if name, version := ua.Browser(); name != "" {
		browser := map[string]*Node{"name": {Value: name}}
		if version != "" {
			browser["version"] = &Node{Children: map[string]*Node{"value": {Value: version}}}
		}
		root["browser"] = &Node{Children: browser}
	}

	if info := ua.OSInfo(); info.Name != "" {
		os := map[string]*Node{"name": {Value: info.Name}}
		if info.Version != "" {
			os["version"] = &Node{Children: map[string]*Node{"value": {Value: info.Version}}}
		}
		root["os"] = &Node{Children: os}
	}

	if name, version := ua.Engine(); name != "" {
		engine := map[string]*Node{"name": {Value: name}}
		if version != "" {
			engine["version"] = &Node{Children: map[string]*Node{"value": {Value: version}}}
		}
		root["engine"] = &Node{Children: engine}
	}

	device := map[string]*Node{}
	switch {
	case ua.Bot():
		device["type"] = &Node{Value: "bot"}
	case ua.Mobile():
		device["type"] = &Node{Value: "mobile"}
		if platform := ua.Platform(); platform != "" {
			device["model"] = &Node{Value: platform}
		}
	default:
		device["type"] = &Node{Value: "desktop"}
	}
	root["device"] = &Node{Children: device}

	return &Node{Children: root}
}
