package main

import (
	"context"
	"fmt"
	"log"

	"dataprep/internal/dataset/adapter/file"
	dsmongo "dataprep/internal/dataset/adapter/persistence/mongodb"
	dsrepo "dataprep/internal/dataset/domain/repository"
	dsusecase "dataprep/internal/dataset/usecase"
	"dataprep/internal/pipeline/config"
	pmodel "dataprep/internal/pipeline/domain/model"
	"dataprep/internal/pipeline/usecase"

	"github.com/spf13/cobra"
)

var (
	runInput          string
	runFromCollection string
	runOutput         string
	runToCollection   string
	runFormat         string
	runPipelineFile   string
	runAutoDetect     bool
	runKeepExtras     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a cleaning pipeline locally",
	Long: `run loads a dataset, applies the cleaning pipeline and writes the
cleaned records, all in the foreground. Input comes from a local file or a
MongoDB collection; output goes to a file or a collection. Without
--pipeline the stock chain runs: standardize, quality-filter, dedupe,
annotate metadata.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, appLogger := loadConfig()

		source, sink, err := runSpecs()
		if err != nil {
			log.Fatalf("%v", err)
		}

		specs := usecase.DefaultStepSpecs()
		if runPipelineFile != "" {
			pipelineFile, err := config.LoadPipelineFile(runPipelineFile)
			if err != nil {
				log.Fatalf("%v", err)
			}
			specs = pipelineFile.Steps
		}

		steps, err := usecase.NewStepBuilder(nil).BuildAll(specs)
		if err != nil {
			log.Fatalf("Invalid pipeline: %v", err)
		}

		ctx := context.Background()

		// Collections need a live MongoDB connection; file-to-file runs
		// work offline.
		var repo dsrepo.DatasetRepository
		if source.Kind == pmodel.SourceCollection || sink.Kind == pmodel.SinkCollection {
			client, err := connectMongo(ctx, cfg)
			if err != nil {
				log.Fatalf("%v", err)
			}
			defer client.Disconnect(context.Background())
			repo = dsmongo.NewMongoDatasetRepository(client.Database(cfg.DatabaseName), appLogger)
		}
		service := dsusecase.NewDatasetService(repo, nil, appLogger)

		records, err := service.Load(ctx, source)
		if err != nil {
			log.Fatalf("Failed to load records: %v", err)
		}
		fmt.Printf("Loaded %d records\n", len(records))

		if runAutoDetect && source.Kind == pmodel.SourceFile {
			var reader *file.Reader
			if source.Format == file.FormatCSV {
				// CSV carries the source column order; use it so positional
				// fallbacks match the file, not map iteration.
				header, err := file.CSVHeader(source.Name)
				if err != nil {
					log.Fatalf("Failed to read csv header: %v", err)
				}
				reader = file.NewReaderWithColumns(records, header, runKeepExtras)
			} else {
				reader = file.NewReader(records, runKeepExtras)
			}
			reader.AutoDetectFields()
			records = reader.ToCleaningFormat(records)
			fmt.Printf("Detected input fields %v, output fields %v\n",
				reader.InputFields(), reader.OutputFields())
		}

		pipeline := usecase.NewPipeline(steps, appLogger).WithObserver(func(report pmodel.StepReport) {
			fmt.Printf("%s: %d -> %d records\n", report.Step, report.In, report.Out)
		})

		cleaned, report, err := pipeline.Run(ctx, records)
		if err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}

		if sink.Kind != pmodel.SinkNone {
			written, err := service.Write(ctx, sink, cleaned)
			if err != nil {
				log.Fatalf("Failed to write records: %v", err)
			}
			fmt.Printf("Wrote %d records\n", written)
		}

		fmt.Printf("Done: %d -> %d records in %s\n", report.In, report.Out, report.Duration)
	},
}

// runSpecs turns the run flags into source and sink specs.
func runSpecs() (pmodel.SourceSpec, pmodel.SinkSpec, error) {
	var source pmodel.SourceSpec
	var sink pmodel.SinkSpec

	switch {
	case runInput != "" && runFromCollection != "":
		return source, sink, fmt.Errorf("--input and --from-collection are mutually exclusive")
	case runInput != "":
		format := runFormat
		if format == "" {
			format = file.DetectFormat(runInput)
		}
		source = pmodel.SourceSpec{Kind: pmodel.SourceFile, Name: runInput, Format: format}
	case runFromCollection != "":
		source = pmodel.SourceSpec{Kind: pmodel.SourceCollection, Name: runFromCollection}
	default:
		return source, sink, fmt.Errorf("one of --input or --from-collection is required")
	}

	switch {
	case runOutput != "" && runToCollection != "":
		return source, sink, fmt.Errorf("--output and --to-collection are mutually exclusive")
	case runOutput != "":
		sink = pmodel.SinkSpec{Kind: pmodel.SinkFile, Name: runOutput, Format: file.DetectFormat(runOutput)}
	case runToCollection != "":
		sink = pmodel.SinkSpec{Kind: pmodel.SinkCollection, Name: runToCollection}
	default:
		sink = pmodel.SinkSpec{Kind: pmodel.SinkNone}
	}

	return source, sink, nil
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "input dataset file (csv, json or jsonl)")
	runCmd.Flags().StringVar(&runFromCollection, "from-collection", "", "input MongoDB collection")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output dataset file")
	runCmd.Flags().StringVar(&runToCollection, "to-collection", "", "output MongoDB collection")
	runCmd.Flags().StringVar(&runFormat, "format", "", "override input format detection")
	runCmd.Flags().StringVarP(&runPipelineFile, "pipeline", "p", "", "pipeline YAML file")
	runCmd.Flags().BoolVar(&runAutoDetect, "auto-detect", true, "auto-detect input/output fields for file sources")
	runCmd.Flags().BoolVar(&runKeepExtras, "keep-extra-fields", true, "keep unmapped columns under metadata")
	rootCmd.AddCommand(runCmd)
}
