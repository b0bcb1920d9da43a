package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/gogpu/primcache/capture"
	"github.com/gogpu/primcache/frame"
	"github.com/gogpu/primcache/gpucache"
	"github.com/gogpu/primcache/intern"
)

var frameHeaders = []string{
	"frame", "instances", "templates", "slots", "blocks",
	"opaque", "translucent", "images", "evicted",
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	cellStyle  = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
)

// report collects the results of a build run.
type report struct {
	frames         []frame.FrameStats
	gpu            gpucache.Stats
	normal, image  intern.StoreStats
	fullUploads    int
	partialUploads int
}

func frameRow(s frame.FrameStats) []string {
	return []string{
		strconv.FormatUint(uint64(s.Frame), 10),
		strconv.Itoa(s.Instances),
		strconv.Itoa(s.UniqueTemplates),
		strconv.Itoa(s.SlotsWritten),
		strconv.Itoa(s.BlocksWritten),
		strconv.Itoa(s.Opaque),
		strconv.Itoa(s.Translucent),
		strconv.Itoa(s.ImageRequests),
		strconv.Itoa(s.Evicted),
	}
}

func (r *report) render(w io.Writer, styled bool) {
	rows := make([][]string, len(r.frames))
	for i, s := range r.frames {
		rows[i] = frameRow(s)
	}
	if styled {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(dimStyle).
			Headers(frameHeaders...).
			Rows(rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		fmt.Fprintln(w, t.Render())
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		writeTabRow(tw, frameHeaders)
		for _, row := range rows {
			writeTabRow(tw, row)
		}
		tw.Flush()
	}

	title := func(s string) string {
		if styled {
			return titleStyle.Render(s)
		}
		return s
	}
	fmt.Fprintf(w, "%s slots=%d rows=%d blocks=%d/%d hits=%d/%d evictions=%d\n",
		title("gpu cache:"), r.gpu.Slots, r.gpu.Rows, r.gpu.UsedBlocks, r.gpu.AllocatedBlocks,
		r.gpu.Hits, r.gpu.Requests, r.gpu.Evictions)
	fmt.Fprintf(w, "%s normal live=%d built=%d reused=%d, image live=%d built=%d reused=%d\n",
		title("templates:"), r.normal.Live, r.normal.Built, r.normal.Reused,
		r.image.Live, r.image.Built, r.image.Reused)
	fmt.Fprintf(w, "%s full=%d partial=%d\n", title("uploads:"), r.fullUploads, r.partialUploads)
}

func writeTabRow(w io.Writer, cells []string) {
	for _, c := range cells {
		fmt.Fprintf(w, "%s\t", c)
	}
	fmt.Fprintln(w)
}

func printSnapshot(w io.Writer, snap *capture.Snapshot, verbose bool) {
	fmt.Fprintf(w, "capture v%d, frame %d\n", snap.Version, snap.Frame)
	fmt.Fprintf(w, "normal borders: %d\n", len(snap.NormalBorders))
	fmt.Fprintf(w, "image borders:  %d\n", len(snap.ImageBorders))
	g := snap.GPUCache
	fmt.Fprintf(w, "gpu cache: slots=%d rows=%d blocks=%d/%d evictions=%d\n",
		g.Slots, g.Rows, g.UsedBlocks, g.AllocatedBlocks, g.Evictions)
	if !verbose {
		return
	}
	for _, nb := range snap.NormalBorders {
		fmt.Fprintf(w, "  normal %s %s %gx%g %s segments=%d styles=%v\n",
			nb.Handle, nb.Hash, nb.Size[0], nb.Size[1], nb.Opacity, len(nb.Segments), nb.Styles)
	}
	for _, ib := range snap.ImageBorders {
		fmt.Fprintf(w, "  image  %s %s %gx%g %s segments=%d image=%s rendering=%s\n",
			ib.Handle, ib.Hash, ib.Size[0], ib.Size[1], ib.Opacity, len(ib.Segments), ib.Image, ib.Rendering)
	}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
