package encode

import "ctx3d/internal/docmodel"

// annotateRLE sets each run's leading cell's RLE to the count of
// consecutive identical-code_id cells that follow it (0 elsewhere)
// (spec §4.D Stage 3 RLE hint). The serializer prints the count as the
// leading cell's rle= field and still emits every cell of the run.
// Cells must already be in position order.
func annotateRLE(cells []docmodel.Cell) {
	i := 0
	for i < len(cells) {
		run := 1
		for i+run < len(cells) && cells[i+run].CodeID == cells[i].CodeID {
			run++
		}
		cells[i].RLE = uint32(run - 1)
		for j := 1; j < run; j++ {
			cells[i+j].RLE = 0
		}
		i += run
	}
}
