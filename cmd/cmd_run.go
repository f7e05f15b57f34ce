// cmd_run.go - Vorwaertsdurchlauf auf einem synthetischen Bild
// Hauptfunktionen: RunHandler, topPredictions
package cmd

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yolograph/yolograph/envconfig"
	"github.com/yolograph/yolograph/ml"
)

// prediction ist eine dekodierte Zeile der Modellausgabe
type prediction struct {
	row        int
	box        [4]float32
	confidence float32
	class      int
	score      float32
}

// RunHandler - Baut das Modell, fuellt ein konstantes Bild ein und rechnet einmal
func RunHandler(cmd *cobra.Command, args []string) error {
	fill, _ := cmd.Flags().GetFloat32("fill")
	if fill < 0 || fill > 255 {
		return fmt.Errorf("fill must be in [0, 255], got %v", fill)
	}

	top, _ := cmd.Flags().GetInt("top")
	verbose, _ := cmd.Flags().GetBool("verbose")
	dump, _ := cmd.Flags().GetBool("dump")
	dump = dump || envconfig.Dump()
	items, _ := cmd.Flags().GetInt("dump-items")

	start := time.Now()
	m, err := loadModel(cmd, args)
	if err != nil {
		return err
	}
	defer m.Close()
	built := time.Since(start)

	pixels := make([]float32, ml.Elements(m.InputShape()...))
	for i := range pixels {
		pixels[i] = fill
	}

	start = time.Now()
	out, err := m.Forward(pixels)
	if err != nil {
		return err
	}
	computed := time.Since(start)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "output    %s\n", ml.ShapeString(out.Shape()))
	if verbose {
		fmt.Fprintf(w, "build     %s\n", built)
		fmt.Fprintf(w, "forward   %s\n", computed)
	}

	if dump {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ml.Dump(out, ml.DumpWithPrecision(3), ml.DumpWithEdgeItems(items)))
	}

	if top <= 0 {
		return nil
	}

	fmt.Fprintln(w)
	table := newTable(w, []string{"ROW", "X", "Y", "W", "H", "CONF", "CLASS", "SCORE"})
	for _, p := range topPredictions(out.Floats(), out.Dim(2), top) {
		table.Append([]string{
			strconv.Itoa(p.row),
			formatFloat(p.box[0]),
			formatFloat(p.box[1]),
			formatFloat(p.box[2]),
			formatFloat(p.box[3]),
			formatFloat(p.confidence),
			strconv.Itoa(p.class),
			formatFloat(p.score),
		})
	}
	table.Render()

	return nil
}

// topPredictions gibt die n Zeilen mit der hoechsten Objektness zurueck.
// Zeilen verschiedener Batch-Eintraege werden durchlaufend gezaehlt.
func topPredictions(values []float32, width, n int) []prediction {
	preds := make([]prediction, 0, len(values)/width)
	for row := range len(values) / width {
		v := values[row*width : (row+1)*width]
		p := prediction{row: row, box: [4]float32(v[:4]), confidence: v[4]}
		for c, s := range v[5:] {
			if s > p.score {
				p.class, p.score = c, s
			}
		}
		preds = append(preds, p)
	}

	slices.SortStableFunc(preds, func(a, b prediction) int {
		return cmp.Compare(b.confidence, a.confidence)
	})

	return preds[:min(n, len(preds))]
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 3, 32)
}
