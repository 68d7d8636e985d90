// Package grid reconstructs ASCII-art messages from sparse coordinate records.
//
// A message arrives as an unordered list of (x, y, char) triples. The package
// turns that list into a dense rectangular grid:
//
//   - [Record]: a validated coordinate/character triple
//   - [RawRecord]: an untyped triple as produced by a document source
//   - [Grid]: the immutable character matrix
//   - [Build] / [Render]: sparse-to-dense conversion and text output
//
// # Example
//
//	g, err := grid.Build([]grid.Record{{X: 0, Y: 0, Char: "A"}, {X: 1, Y: 0, Char: "B"}})
//	if err != nil {
//		return err
//	}
//	for row := range g.Rows() {
//		fmt.Println(row)
//	}
//
// # Thread Safety
//
// A built [Grid] is never mutated and may be read from multiple goroutines.
package grid
