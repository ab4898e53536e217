package quire_test

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/quirelabs/quire"
)

// These examples verify the README code samples compile correctly.
// They are not meant to be run as actual tests since they require files.

func Example_convert() {
	files, warnings, err := quire.Open("sales.csv").Convert(quire.PDF)
	if err != nil {
		log.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(f.Name, f.Data, 0o644); err != nil {
			log.Fatal(err)
		}
	}
	for _, w := range warnings {
		fmt.Println("Warning:", w.Message)
	}
}

func Example_tableLayout() {
	files, _, err := quire.Open("report.xlsx").
		PageSize("Letter").  // paper size; the orientation is chosen per table
		FontLadder(9, 8, 7). // sizes tried before splitting into column bands
		MinColumnWidth(48).
		PageLabels().
		Convert(quire.PDF)
	_ = files
	_ = err
}

func Example_plan() {
	plans, _, err := quire.Open("wide.csv").Plan()
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range plans {
		st := p.Plan.Stats()
		fmt.Printf("%s: %s at %gpt, %d pages\n", p.Name, st.Orientation, st.FontSize, st.Pages)
	}
}

func Example_excelToCSV() {
	// one file per sheet: book_Summary.csv, book_Data.csv, ...
	files := quire.MustValue(quire.Open("book.xlsx").Convert(quire.CSV))
	_ = files
}

func Example_logging() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	_, warnings, err := quire.Open("legacy.csv").
		Encodings("utf-8", "gbk").
		Logger(logger).
		Convert(quire.Excel)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(quire.FormatWarnings(warnings))
}
