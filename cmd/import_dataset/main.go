// Command import_dataset stores a spreadsheet or CSV file as a dataset that
// the histogram page can render by name.
//
//	import_dataset -config config/config.yaml -name degree [-title "Node degree"] data.xlsx
//
// The file has a header row followed by label, value and intensity columns.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/icodeforyou/histoplot-go/config"
	"github.com/icodeforyou/histoplot-go/database"
	"github.com/icodeforyou/histoplot-go/export"
	"github.com/icodeforyou/histoplot-go/histogram"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	name := flag.String("name", "", "dataset name")
	title := flag.String("title", "", "chart title")
	flag.Parse()

	if *name == "" || flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *name, *title, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, name, title, path string) error {
	cnfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	in, err := readFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	ctx := context.Background()
	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.SaveDataset(ctx, database.DatasetRow{
		Name:        name,
		Title:       title,
		Values:      in.Values,
		Labels:      in.Labels,
		Intensities: in.Intensities,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Dataset: %s, Bars: %d\n", name, len(in.Values))
	return nil
}

func readFile(path string) (histogram.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return histogram.Input{}, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return export.ReadXLSX(f)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return histogram.Input{}, err
	}
	return export.ParseRows(rows)
}
