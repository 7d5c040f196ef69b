// gtexmedian summarizes a GTEx transcript TPM matrix into the median TPM of
// every transcript in every tissue, e.g.:
//
//	gtexmedian \
//	  GTEx_Analysis_2017-06-05_v8_RSEMv1.3.0_transcript_tpm.gct.gz \
//	  GTEx_Analysis_v8_Annotations_SampleAttributesDS.txt \
//	  --output gtex_v8_tissue_expression.tsv.gz
//
// Samples are assigned to tissues by the SMTSD column of the annotation file.
// The output is keyed by unversioned transcript ID and has one column per
// tissue, named by lower-casing the tissue and collapsing punctuation and
// spaces into underscores. See the store package for the supported outputs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/carbocation/gtexmedian/aggregate"
	_ "github.com/carbocation/gtexmedian/compileinfoprint"
	"github.com/carbocation/gtexmedian/pipeline"
	"github.com/carbocation/gtexmedian/tissue"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] transcript_tpms sample_annotations --output path\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	start := time.Now()
	log.Println("gtexmedian start")
	defer func() {
		log.Printf("gtexmedian end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var output, delimiter, collisions, median, bqLocation string
	var requireAnnotations bool
	var workers int

	flag.StringVar(&output, "output", "", "Where to write the table. A path ending in .db/.sqlite writes SQLite, bq://project/dataset/table loads BigQuery, anything else (local or gs://) writes TSV, gzipped if it ends in .gz.")
	flag.StringVar(&delimiter, "delimiter", "", "(Optional) Single-character delimiter of both inputs. If empty, each input's delimiter is detected.")
	flag.StringVar(&collisions, "collisions", "merge", "What to do when distinct tissues format to the same column name: 'merge' pools their samples, 'error' fails.")
	flag.StringVar(&median, "median", "exact", "Median estimator: 'exact' averages the two middle values of even-sized groups, 'empirical' takes the lower one.")
	flag.BoolVar(&requireAnnotations, "require-annotations", false, "(Optional) Fail if any matrix sample lacks a tissue annotation, rather than excluding it.")
	flag.IntVar(&workers, "workers", 0, "(Optional) Number of concurrent summarizing workers. 0 uses every CPU.")
	flag.StringVar(&bqLocation, "bigquery-location", "US", "(Optional) Location for a BigQuery dataset that needs to be created.")

	positional := parseInterspersed(os.Args[1:])

	if len(positional) != 2 || output == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := pipeline.Config{
		RequireAnnotations: requireAnnotations,
		Workers:            workers,
		BigQueryLocation:   bqLocation,
	}

	var err error
	if cfg.Collisions, err = tissue.ParsePolicy(collisions); err != nil {
		log.Fatalln(err)
	}
	if cfg.Estimator, err = aggregate.ParseEstimator(median); err != nil {
		log.Fatalln(err)
	}
	if delimiter != "" {
		if utf8.RuneCountInString(delimiter) != 1 {
			log.Fatalf("Delimiter must be a single character, got %q\n", delimiter)
		}
		cfg.Delimiter, _ = utf8.DecodeRuneInString(delimiter)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, positional[0], positional[1], output); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, cfg pipeline.Config, transcriptTPMs, sampleAnnotations, output string) error {
	session := pipeline.NewSession(ctx, cfg)
	defer session.Close()

	return session.Run(transcriptTPMs, sampleAnnotations, output)
}

// parseInterspersed lets flags follow the positional arguments, which the
// flag package otherwise stops parsing at.
func parseInterspersed(args []string) []string {
	positional := make([]string, 0, 2)

	for {
		// flag.CommandLine exits on error
		flag.CommandLine.Parse(args)

		args = flag.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	return positional
}
