package source_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/secretgrid/internal/grid"
	"github.com/san-kum/secretgrid/internal/source"
)

const letterF = `
<html><body>
<p>Secret message</p>
<table>
	<tr><td>x-coordinate</td><td>Character</td><td>y-coordinate</td></tr>
	<tr><td>0</td><td>█</td><td>0</td></tr>
	<tr><td>0</td><td>█</td><td>1</td></tr>
	<tr><td>0</td><td>█</td><td>2</td></tr>
	<tr><td>1</td><td>▀</td><td>1</td></tr>
	<tr><td>1</td><td>▀</td><td>2</td></tr>
	<tr><td>2</td><td>▀</td><td>1</td></tr>
	<tr><td>2</td><td>▀</td><td>2</td></tr>
	<tr><td>3</td><td>▀</td><td>2</td></tr>
</table>
</body></html>`

var _ = Describe("ParseTable", func() {
	It("reads x, char, y columns and skips the header", func() {
		records, err := source.ParseTable(strings.NewReader(letterF))
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(8))
		Expect(records[0]).To(Equal(grid.RawRecord{X: "0", Y: "0", Char: "█"}))
		Expect(records[7]).To(Equal(grid.RawRecord{X: "3", Y: "2", Char: "▀"}))
	})

	It("feeds the renderer", func() {
		raws, err := source.ParseTable(strings.NewReader(letterF))
		Expect(err).NotTo(HaveOccurred())
		records, err := grid.ParseRecords(raws)
		Expect(err).NotTo(HaveOccurred())

		out, err := grid.Render(records, grid.WithOrigin(grid.OriginBottom))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("█▀▀▀\n█▀▀ \n█   "))
	})

	It("trims text nested in paragraphs and spans", func() {
		doc := `<table>
			<tr><th>x</th><th>c</th><th>y</th></tr>
			<tr><td><p><span> 12 </span></p></td><td><p><span>░</span></p></td><td>\n4\n</td></tr>
		</table>`
		records, err := source.ParseTable(strings.NewReader(strings.ReplaceAll(doc, `\n`, "\n")))
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]grid.RawRecord{{X: "12", Y: "4", Char: "░"}}))
	})

	It("uses only the first table", func() {
		doc := `<table><tr><td>h</td></tr><tr><td>1</td><td>a</td><td>0</td></tr></table>
			<table><tr><td>h</td></tr><tr><td>9</td><td>z</td><td>9</td></tr></table>`
		records, err := source.ParseTable(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Char).To(Equal("a"))
	})

	It("returns no records for a header-only table", func() {
		doc := `<table><tr><td>x</td><td>c</td><td>y</td></tr></table>`
		records, err := source.ParseTable(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})

	It("fails without a table", func() {
		_, err := source.ParseTable(strings.NewReader("<html><body></body></html>"))
		Expect(err).To(MatchError(source.ErrNoTable))
	})

	It("fails on rows with missing columns", func() {
		doc := `<table>
			<tr><td>x-coordinate</td><td>Character</td></tr>
			<tr><td>0</td><td>█</td></tr>
		</table>`
		_, err := source.ParseTable(strings.NewReader(doc))
		Expect(err).To(MatchError(source.ErrMissingColumns))
		Expect(err.Error()).To(ContainSubstring("row 1 has 2 cells"))
	})

	It("leaves coordinate validation to the renderer", func() {
		doc := `<table>
			<tr><td>x</td><td>c</td><td>y</td></tr>
			<tr><td>not a number</td><td>█</td><td>0</td></tr>
		</table>`
		raws, err := source.ParseTable(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())

		_, err = grid.ParseRecords(raws)
		Expect(err).To(MatchError(grid.ErrInvalidRecord))
		Expect(err.Error()).To(ContainSubstring("not a number"))
	})
})

var _ = Describe("ReadFile", func() {
	It("parses a saved export", func() {
		path := filepath.Join(GinkgoT().TempDir(), "doc.html")
		Expect(os.WriteFile(path, []byte(letterF), 0644)).To(Succeed())

		records, err := source.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(8))
	})

	It("reports a missing file", func() {
		_, err := source.ReadFile(filepath.Join(GinkgoT().TempDir(), "missing.html"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
