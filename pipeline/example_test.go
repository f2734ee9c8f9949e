package pipeline_test

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-edxd/pipeline"
)

func ExampleFieldNames() {
	fmt.Println(strings.Join(pipeline.FieldNames[:5], " "))
	fmt.Println(len(pipeline.FieldNames))
	// Output:
	// phi dims slit_size q0 peak_windows
	// 13
}
