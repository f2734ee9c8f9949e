package nanstat_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-edxd/nanstat"
)

func ExampleMeanStd() {
	mean, std := nanstat.MeanStd([]float64{1, math.NaN(), 3})
	fmt.Printf("mean=%.1f std=%.1f\n", mean, std)

	// Output:
	// mean=2.0 std=1.0
}
