package models

// NodeRole identifies which column a flow node came from.
type NodeRole string

const (
	RolePrimary    NodeRole = "primary"
	RoleSubFeature NodeRole = "sub_feature"
	RolePlatform   NodeRole = "platform"
	RoleOSVersion  NodeRole = "os_version"
	RoleDevice     NodeRole = "device"
	RoleStatus     NodeRole = "status"
)

// FlowNode is a distinct categorical value in the flow graph.
type FlowNode struct {
	// ID is the node's index in FlowGraph.Nodes.
	ID int `json:"id"`
	// Value is the raw cell value.
	Value string `json:"value"`
	// Role is the column the value was first registered from.
	Role NodeRole `json:"role"`
	// Color is a CSS color string.
	Color string `json:"color"`
	// Label is the compact label (truncated to 30 characters).
	Label string `json:"label"`
	// Detail is the full value wrapped at 50 characters per line.
	Detail string `json:"detail"`
	// Incoming is the number of edges targeting this node.
	Incoming int `json:"incoming"`
	// Outgoing is the number of edges leaving this node.
	Outgoing int `json:"outgoing"`
}

// FlowEdge is a single unit of flow between two nodes.
type FlowEdge struct {
	// Source is the source node ID.
	Source int `json:"source"`
	// Target is the target node ID.
	Target int `json:"target"`
	// Weight is always 1; parallel edges are kept as separate instances.
	Weight int `json:"weight"`
	// Color is the source node color at reduced opacity.
	Color string `json:"color"`
}

// FlowGraph is a directed multi-edge graph from feature to platform.
type FlowGraph struct {
	// Version is the version label the graph was built for.
	Version string `json:"version"`
	// Nodes is the ordered node registry.
	Nodes []FlowNode `json:"nodes"`
	// Edges is the ordered edge list.
	Edges []FlowEdge `json:"edges"`
}
