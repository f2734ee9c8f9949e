package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-edxd/core"
)

func ExampleNdindex() {
	core.Ndindex([]int{2, 3}, func(idx []int) {
		fmt.Print(idx, " ")
	})
	fmt.Println()

	// Output:
	// [0 0] [0 1] [0 2] [1 0] [1 1] [1 2]
}

func ExampleArray_Lane() {
	a := core.NewArray(2, 3)
	copy(a.Lane(1), []float64{4, 5, 6})
	fmt.Println(a.Data())

	// Output:
	// [0 0 0 4 5 6]
}
