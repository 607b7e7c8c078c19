package graph_test

import (
	"fmt"

	"github.com/matzehuels/discograph/pkg/graph"
)

func ExampleChildID() {
	fmt.Println(graph.ChildID("Physics", "Relativity"))
	fmt.Println(graph.ChildID("Physics", "Special relativity (1905)"))
	// Output:
	// Physics::Relativity
	// Physics::Special_relativity__1905_
}

func ExampleFilter_Query() {
	f := graph.Filter{Topic: "Physics", MinYear: 1900, MaxYear: 2000}
	fmt.Println(f.Query().Encode())
	// Output:
	// max_year=2000&min_year=1900&topic=Physics
}
