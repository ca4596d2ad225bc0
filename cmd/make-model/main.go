package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MalteHoel/duneuro-forward-test/internal/modelgen"
)

func main() {
	var (
		dir          = flag.String("dir", ".", "Output directory for the fixture set")
		electrodes   = flag.Int("electrodes", modelgen.DefaultElectrodes, "Number of electrodes on the outer surface")
		eccentricity = flag.Float64("eccentricity", modelgen.DefaultEccentricity, "Dipole offset as a fraction of the innermost radius")
	)
	flag.Parse()

	files, err := modelgen.Generate(modelgen.Params{
		Dir:          *dir,
		Electrodes:   *electrodes,
		Eccentricity: *eccentricity,
	})
	if err != nil {
		os.Stderr.WriteString("failed to generate model: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Println("config:         " + files.Config)
	fmt.Println("dipoles:        " + files.Dipoles)
	fmt.Println("electrodes:     " + files.Electrodes)
	fmt.Println("conductivities: " + files.Conductivities)
}
