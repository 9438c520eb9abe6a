package dijkstra_test

import (
	"fmt"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/dijkstra"
	"github.com/katalvlaran/isolines/segment"
)

// ExampleShortestPath routes between two fragments that share a node.
func ExampleShortestPath() {
	g := segment.FromRuns([]contour.Run{
		{{Year: 0, Age: 0}, {Year: 3, Age: 4}},
		{{Year: 3, Age: 4}, {Year: 6, Age: 0}},
	})
	start, _ := g.FindNode(contour.Point{Year: 0, Age: 0})
	end, _ := g.FindNode(contour.Point{Year: 6, Age: 0})

	path, length, err := dijkstra.ShortestPath(g, start, end)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(g.Run(segment.Path{Nodes: path}), length)
	// Output: [(0, 0) (3, 4) (6, 0)] 10
}
