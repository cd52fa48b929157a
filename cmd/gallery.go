package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nmarceau/facegate/internal/encoder"
	"github.com/nmarceau/facegate/internal/gallery"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Encode the reference gallery and report per-file status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGallery(cmd)
	},
}

func init() {
	rootCmd.AddCommand(galleryCmd)
}

func runGallery(cmd *cobra.Command) error {
	enc := encoder.Detect(Cfg.Encoder.Python, Cfg.Encoder.Script, Cfg.Encoder.Tolerance)
	if !enc.Available() {
		return fmt.Errorf("face recognition is not installed on this deployment")
	}
	if pe, ok := enc.(*encoder.PythonEncoder); ok {
		defer pe.Close()
	}

	files := gallery.Candidates(Cfg.GalleryDir)
	if len(files) == 0 {
		fmt.Printf("No reference images found in %s.\n", Cfg.GalleryDir)
		return nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Encoding references"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	type row struct {
		label, file, status string
	}
	rows := make([]row, 0, len(files))

	for _, path := range files {
		name := filepath.Base(path)
		label := strings.TrimSuffix(name, filepath.Ext(name))
		status := "ok"
		if _, ok := gallery.LoadFile(cmd.Context(), path, enc); !ok {
			status = "skipped (no face or unreadable)"
		}
		rows = append(rows, row{label: label, file: name, status: status})
		bar.Add(1)
	}
	fmt.Fprintln(os.Stderr)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "LABEL\tFILE\tSTATUS")
	fmt.Fprintln(w, "-----\t----\t------")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.label, r.file, r.status)
	}
	return w.Flush()
}
