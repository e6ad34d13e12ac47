package ptrboard

import (
	"fmt"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

// flowStage binds a table column to the node role it produces.
type flowStage struct {
	column string
	role   models.NodeRole
}

// FlowGraph builds the feature → sub-feature → status → platform flow graph
// for one version.
//
// A Passed record contributes primary→status and status→platform edges; any
// other status routes through its sub-feature first. Nodes are registered
// column by column in stage order, so identical tables always yield identical
// graphs.
func FlowGraph(table *models.Table, version string) (*models.FlowGraph, error) {
	statusCol := StatusColumn(version)
	if !table.HasColumn(statusCol) {
		return nil, NewMissingColumnError("flow", statusCol)
	}

	primaryCol := PrimaryColumn(table.Columns)
	stages := []flowStage{
		{primaryCol, models.RolePrimary},
		{ColumnSubFeatures, models.RoleSubFeature},
		{ColumnOS, models.RolePlatform},
		{ColumnOSVersion, models.RoleOSVersion},
		{ColumnDeviceType, models.RoleDevice},
		{statusCol, models.RoleStatus},
	}
	for _, s := range stages {
		if !table.HasColumn(s.column) {
			return nil, &FormatMismatchError{
				Version: version,
				Err:     NewMissingColumnError("flow", s.column),
			}
		}
	}

	graph := &models.FlowGraph{Version: version}
	index := make(map[string]int)

	// Pass 1: node registry.
	for _, s := range stages {
		for _, row := range table.Rows {
			v := row[s.column]
			if s.role == models.RoleStatus {
				v = StatusValue(v)
			}
			if _, ok := index[v]; ok {
				continue
			}
			index[v] = len(graph.Nodes)
			graph.Nodes = append(graph.Nodes, models.FlowNode{
				ID:     len(graph.Nodes),
				Value:  v,
				Role:   s.role,
				Label:  TruncateLabel(v),
				Detail: WrapDetail(v),
			})
		}
	}

	// Nodes outside the color table render gray and their edges use the
	// fallback link color.
	colors := nodeColors(table, primaryCol)
	edgeColors := make([]string, len(graph.Nodes))
	for i := range graph.Nodes {
		if c, ok := colors[graph.Nodes[i].Value]; ok {
			graph.Nodes[i].Color = c
			edgeColors[i] = WithAlpha(c, EdgeAlpha)
		} else {
			graph.Nodes[i].Color = ColorDefault
			edgeColors[i] = ColorEdgeFallback
		}
	}

	// Pass 2: edges.
	for _, row := range table.Rows {
		status := StatusValue(row[statusCol])

		var path []string
		if status == StatusPassed {
			path = []string{row[primaryCol], status, row[ColumnOS]}
		} else {
			path = []string{row[primaryCol], row[ColumnSubFeatures], status, row[ColumnOS]}
		}

		for i := 0; i+1 < len(path); i++ {
			src, ok := index[path[i]]
			if !ok {
				return nil, &FormatMismatchError{Version: version, Err: fmt.Errorf("unknown node %q", path[i])}
			}
			dst, ok := index[path[i+1]]
			if !ok {
				return nil, &FormatMismatchError{Version: version, Err: fmt.Errorf("unknown node %q", path[i+1])}
			}
			graph.Edges = append(graph.Edges, models.FlowEdge{
				Source: src,
				Target: dst,
				Weight: 1,
				Color:  edgeColors[src],
			})
		}
	}

	// Tally once every edge exists.
	for _, e := range graph.Edges {
		graph.Nodes[e.Source].Outgoing++
		graph.Nodes[e.Target].Incoming++
	}

	return graph, nil
}

// nodeColors assigns palette colors to primary values, gray to sub-features,
// then applies the fixed status and platform colors on top.
func nodeColors(table *models.Table, primaryCol string) map[string]string {
	colors := make(map[string]string)

	seen := make(map[string]bool)
	for _, v := range table.Column(primaryCol) {
		if seen[v] {
			continue
		}
		colors[v] = PrimaryColor(len(seen))
		seen[v] = true
	}
	for _, v := range table.Column(ColumnSubFeatures) {
		colors[v] = ColorSubFeature
	}
	for v, c := range valueColors {
		colors[v] = c
	}
	return colors
}
