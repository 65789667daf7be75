package platekit_test

import (
	"context"
	"fmt"
	"log"

	"github.com/towerlab/platekit"
)

// ExampleToolkit_Schematic draws the worked-example column with nothing
// saved in the store, so the defaults apply.
func ExampleToolkit_Schematic() {
	kit, err := platekit.New()
	if err != nil {
		log.Fatal(err)
	}

	s, err := kit.Schematic(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("plates=%d feed=%d\n", len(s.Plates), s.FeedPlate)
	// Output: plates=32 feed=23
}

// ExampleToolkit_CountStages counts stages for an explicit parameter
// record instead of a saved document.
func ExampleToolkit_CountStages() {
	kit, err := platekit.New()
	if err != nil {
		log.Fatal(err)
	}

	cfg := platekit.DefaultStagesConfig()
	result, err := kit.CountStages(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Stages > 0)
	// Output: true
}
