package ptrboard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

func TestFlowGraph_Scenario(t *testing.T) {
	data := mustNormalize(t, scenarioSheet())

	graph, err := FlowGraph(data.Table, "PTR Ver1.0")
	if err != nil {
		t.Fatalf("FlowGraph failed: %v", err)
	}

	if len(graph.Edges) != 10 {
		t.Errorf("Expected 10 edges, got %d", len(graph.Edges))
	}

	values := make([]string, len(graph.Nodes))
	for i, n := range graph.Nodes {
		values[i] = n.Value
		if n.ID != i {
			t.Errorf("node %q has ID %d at index %d", n.Value, n.ID, i)
		}
	}
	wantValues := []string{
		"Login", "Transfer",
		"Valid login", "Invalid login", "Own account", "Limit",
		"Android", "iOS",
		"13", "14", "17", "16",
		"Pixel 7", "Galaxy S23", "iPhone 14", "iPhone 12",
		"Passed", "Failed", "N/A",
	}
	if !reflect.DeepEqual(values, wantValues) {
		t.Errorf("node order = %q\nexpected %q", values, wantValues)
	}

	wantEdges := [][2]int{
		{0, 16}, {16, 6},
		{0, 3}, {3, 17}, {17, 6},
		{1, 16}, {16, 7},
		{1, 5}, {5, 18}, {18, 7},
	}
	for i, e := range graph.Edges {
		if [2]int{e.Source, e.Target} != wantEdges[i] {
			t.Errorf("edge %d = %d→%d, expected %d→%d", i, e.Source, e.Target, wantEdges[i][0], wantEdges[i][1])
		}
		if e.Weight != 1 {
			t.Errorf("edge %d weight = %d", i, e.Weight)
		}
	}

	colors := map[string]string{
		"Login":       "#FD3216",
		"Transfer":    "#00FE35",
		"Valid login": ColorSubFeature,
		"Passed":      ColorPassed,
		"Failed":      ColorFailed,
		"Android":     ColorAndroid,
		"iOS":         ColorIOS,
		"13":          ColorDefault,
		"N/A":         ColorDefault,
	}
	for _, n := range graph.Nodes {
		if want, ok := colors[n.Value]; ok && n.Color != want {
			t.Errorf("node %q color = %q, expected %q", n.Value, n.Color, want)
		}
	}
	if got := graph.Edges[0].Color; got != "rgba(253, 50, 22, 0.3)" {
		t.Errorf("edge 0 color = %q", got)
	}
	if got := graph.Edges[1].Color; got != "rgba(144, 238, 144, 0.3)" {
		t.Errorf("edge 1 color = %q", got)
	}
	if got := graph.Edges[2].Color; got != "rgba(253, 50, 22, 0.3)" {
		t.Errorf("edge 2 color = %q", got)
	}
	if got := graph.Edges[3].Color; got != "rgba(200, 200, 200, 0.3)" {
		t.Errorf("sub-feature edge color = %q", got)
	}
	// N/A is outside the color table, so its edge takes the fallback.
	if got := graph.Edges[9].Color; got != ColorEdgeFallback {
		t.Errorf("N/A edge color = %q, expected %q", got, ColorEdgeFallback)
	}

	passed := graph.Nodes[16]
	if passed.Incoming != 2 || passed.Outgoing != 2 {
		t.Errorf("Passed tally = %d/%d, expected 2/2", passed.Incoming, passed.Outgoing)
	}
	if graph.Nodes[6].Incoming != 2 || graph.Nodes[6].Outgoing != 0 {
		t.Errorf("Android tally = %d/%d, expected 2/0", graph.Nodes[6].Incoming, graph.Nodes[6].Outgoing)
	}
	if graph.Nodes[8].Incoming+graph.Nodes[8].Outgoing != 0 {
		t.Error("OS Version nodes should carry no edges")
	}
}

func TestFlowGraph_TallyInvariant(t *testing.T) {
	data := mustNormalize(t, scenarioSheet())
	graph, err := FlowGraph(data.Table, "PTR Ver1.0")
	if err != nil {
		t.Fatalf("FlowGraph failed: %v", err)
	}

	expectedEdges := 0
	for _, row := range data.Table.Rows {
		if row["Status PTR Ver1.0"] == StatusPassed {
			expectedEdges += 2
		} else {
			expectedEdges += 3
		}
	}
	if len(graph.Edges) != expectedEdges {
		t.Errorf("Expected %d edges, got %d", expectedEdges, len(graph.Edges))
	}

	sum := 0
	for _, n := range graph.Nodes {
		sum += n.Incoming + n.Outgoing
	}
	if sum != 2*len(graph.Edges) {
		t.Errorf("tally sum = %d, expected %d", sum, 2*len(graph.Edges))
	}
}

func TestFlowGraph_Deterministic(t *testing.T) {
	first, err := FlowGraph(mustNormalize(t, scenarioSheet()).Table, "PTR Ver1.0")
	if err != nil {
		t.Fatalf("FlowGraph failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := FlowGraph(mustNormalize(t, scenarioSheet()).Table, "PTR Ver1.0")
		if err != nil {
			t.Fatalf("FlowGraph failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("FlowGraph output differs between identical calls")
		}
	}
}

func TestFlowGraph_PrimaryPrefersLinkJIRA(t *testing.T) {
	table := &models.Table{
		Columns: []string{"Link JIRA", "Features", "Sub-features", "OS", "OS Version", "Tipe Device HP", "Status v1"},
		Rows: []models.Record{
			{"Link JIRA": "PTR-1", "Features": "Login", "Sub-features": "a", "OS": "Android", "OS Version": "13", "Tipe Device HP": "Pixel", "Status v1": "Passed"},
		},
	}

	graph, err := FlowGraph(table, "v1")
	if err != nil {
		t.Fatalf("FlowGraph failed: %v", err)
	}
	if graph.Nodes[0].Value != "PTR-1" || graph.Nodes[0].Role != models.RolePrimary {
		t.Errorf("Expected PTR-1 as first primary node, got %+v", graph.Nodes[0])
	}
	for _, n := range graph.Nodes {
		if n.Value == "Login" {
			t.Error("Features should not be registered when Link JIRA is present")
		}
	}
}

func TestFlowGraph_Labels(t *testing.T) {
	long := "Transfer antar rekening dengan nominal di atas limit harian nasabah"
	table := &models.Table{
		Columns: []string{"Features", "Sub-features", "OS", "OS Version", "Tipe Device HP", "Status v1"},
		Rows: []models.Record{
			{"Features": long, "Sub-features": "a", "OS": "iOS", "OS Version": "17", "Tipe Device HP": "iPhone", "Status v1": "Passed"},
		},
	}

	graph, err := FlowGraph(table, "v1")
	if err != nil {
		t.Fatalf("FlowGraph failed: %v", err)
	}
	if got := graph.Nodes[0].Label; got != "Transfer antar rekening dengan..." {
		t.Errorf("Label = %q", got)
	}
	if got := graph.Nodes[0].Detail; got != "Transfer antar rekening dengan nominal di atas<br>limit harian nasabah" {
		t.Errorf("Detail = %q", got)
	}
}

func TestFlowGraph_Errors(t *testing.T) {
	data := mustNormalize(t, scenarioSheet())

	t.Run("unknown version", func(t *testing.T) {
		graph, err := FlowGraph(data.Table, "PTR Ver9.9")
		if graph != nil {
			t.Error("Expected no partial graph")
		}
		if !errors.Is(err, ErrMissingColumn) {
			t.Errorf("Expected ErrMissingColumn, got %v", err)
		}
		if errors.Is(err, ErrFormatMismatch) {
			t.Error("Unknown version should not be reported as a format mismatch")
		}
	})

	t.Run("missing device column", func(t *testing.T) {
		table := data.Table.Clone()
		table.Columns = table.Columns[:5]
		table.Columns = append(table.Columns, "Status PTR Ver1.0")

		graph, err := FlowGraph(table, "PTR Ver1.0")
		if graph != nil {
			t.Error("Expected no partial graph")
		}
		if !errors.Is(err, ErrFormatMismatch) {
			t.Fatalf("Expected ErrFormatMismatch, got %v", err)
		}
		var mce *MissingColumnError
		if !errors.As(err, &mce) || mce.Column != ColumnDeviceType {
			t.Errorf("Expected wrapped MissingColumnError for %q, got %v", ColumnDeviceType, err)
		}
	})
}
