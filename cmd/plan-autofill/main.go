package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/internal/logging"
	"github.com/iwvelando/plan-autofill/internal/narrative"
	"github.com/iwvelando/plan-autofill/internal/projection"
	"github.com/iwvelando/plan-autofill/internal/report"
	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/iwvelando/plan-autofill/pkg/output"
	"github.com/iwvelando/plan-autofill/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	inputLocation := flag.String("input", "", "path to the business plan input file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	documentFormatFlag := flag.String("document-format", "", "plan document format override: html, markdown")
	outDir := flag.String("out-dir", "", "directory for the workbook and plan document")
	narrativeFlag := flag.Bool("narrative", false, "draft empty narrative sections with the language model")
	templateLocation := flag.String("template", "", "write a sample input file to this path (- for stdout) and exit")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Environment may carry the narrative API key.
	_ = godotenv.Load()

	if *templateLocation != "" {
		if err := writeTemplate(*templateLocation); err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to write template\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	if *outputFormatFlag != "" {
		conf.Output.Format = *outputFormatFlag
	}
	if *documentFormatFlag != "" {
		conf.Output.DocumentFormat = *documentFormatFlag
	}
	if *outDir != "" {
		conf.Output.Directory = *outDir
	}
	if *narrativeFlag {
		conf.Narrative.Enabled = true
	}

	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if err := validation.ValidateDocumentFormat(conf.Output.DocumentFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *inputLocation == "" {
		logger.Fatal("no input file given, use -input or -template",
			zap.String("op", "main"),
		)
	}
	in, err := config.LoadInput(*inputLocation)
	if err != nil {
		logger.Fatal(fmt.Sprintf("failed to load input at %s", *inputLocation),
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx := context.Background()
	engine := projection.NewEngine(logger, conf.Policy)
	generator := narrative.NewGenerator(ctx, logger, conf.Narrative)
	service := report.NewService(logger, engine, generator)

	built := service.Build(ctx, *in, report.Options{Narrative: conf.Narrative.Enabled})

	if _, _, err := service.WriteFiles(built, conf.Output); err != nil {
		logger.Fatal("failed to write plan files",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Print the statements to the console.
	summary := []projection.Table{built.Projection.Tables.IncomeStatement, built.Projection.Tables.BalanceSheet}
	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, summary)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, summary)
	}
	if err != nil {
		logger.Fatal("failed to print summary",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func writeTemplate(path string) error {
	data, err := config.MarshalInput(config.SampleInput())
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
